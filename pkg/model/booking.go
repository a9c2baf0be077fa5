package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Person struct {
	FirstName string `json:"first_name" bson:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name" bson:"last_name" validate:"required,min=1,max=100"`
	Agency    string `json:"agency,omitempty" bson:"agency,omitempty" validate:"omitempty,max=100"`
}

// Passenger binds a person to their record locator. The PNR is assigned at
// booking time and is globally unique across all bookings.
type Passenger struct {
	PNR    string `json:"pnr" bson:"pnr"`
	Person Person `json:"person" bson:"person"`
}

// BookingLeg groups the passengers of one consumed reservation on one Leg.
type BookingLeg struct {
	LegID      primitive.ObjectID `json:"leg_id" bson:"leg_id"`
	Passengers []Passenger        `json:"passengers" bson:"passengers" validate:"min=1,max=9"`
}

// Booking is a confirmed itinerary. Its price is not stored; it is derived
// from the booking legs and their routes' seat prices.
type Booking struct {
	ID               primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	BookingLegs      []BookingLeg       `json:"booking_legs" bson:"booking_legs" validate:"min=1"`
	CreditCardNumber string             `json:"credit_card_number" bson:"credit_card_number"`
	FrequentFlyerID  string             `json:"frequent_flyer_id,omitempty" bson:"frequent_flyer_id,omitempty"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
}
