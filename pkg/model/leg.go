package model

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Leg is one materialized occurrence of a Route in a specific ISO (week, year).
// At most one Leg exists per (route, week, year); legs are created on first
// access and never deleted. SequenceID is allocated from the collection-scoped
// counter, so flight numbers are global to the Leg collection, not per route.
type Leg struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	RouteID    primitive.ObjectID `json:"route_id" bson:"route_id"`
	Week       int                `json:"week" bson:"week" validate:"min=1,max=53"`
	Year       int                `json:"year" bson:"year" validate:"min=1970"`
	SequenceID int                `json:"sequence_id" bson:"sequence_id" validate:"min=1,max=999"`
}

// PaddedID is the 3-digit zero-padded form of SequenceID used in flight codes.
func (l *Leg) PaddedID() string {
	return fmt.Sprintf("%03d", l.SequenceID)
}

// FlightCode builds the externally visible flight identifier, e.g. "SK001".
func (l *Leg) FlightCode(carrierIATA string) string {
	return carrierIATA + l.PaddedID()
}
