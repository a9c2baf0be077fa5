package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Reservation is a temporary seat hold against a Leg. It consumes seats from
// availability until it is merged into a Booking and deleted. Reservations do
// not expire on their own.
type Reservation struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	LegID         primitive.ObjectID `json:"leg_id" bson:"leg_id"`
	AmountOfSeats int                `json:"amount_of_seats" bson:"amount_of_seats" validate:"min=1,max=9"`
}

type ReservationSummary struct {
	ID    string `json:"id"`
	Price int    `json:"price"`
}
