package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Route is a weekly-recurring schedule template between two airports for one
// carrier. Weekday follows time.Weekday numbering (0 = Sunday).
// Routes are created by schedule administration and are read-only here.
type Route struct {
	ID                 primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CarrierID          primitive.ObjectID `json:"carrier_id" bson:"carrier_id"`
	DepartureAirportID primitive.ObjectID `json:"departure_airport_id" bson:"departure_airport_id"`
	ArrivalAirportID   primitive.ObjectID `json:"arrival_airport_id" bson:"arrival_airport_id"`

	Weekday              int `json:"weekday" bson:"weekday" validate:"min=0,max=6"`
	DepartureSecondInDay int `json:"departure_second_in_day" bson:"departure_second_in_day" validate:"min=0,max=86399"`
	DurationInSeconds    int `json:"duration_in_seconds" bson:"duration_in_seconds" validate:"min=0"`

	NumberOfSeats int `json:"number_of_seats" bson:"number_of_seats" validate:"min=1"`
	SeatPrice     int `json:"seat_price" bson:"seat_price" validate:"min=0"`
}
