package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Airport is immutable reference data identified by its 3-letter IATA code.
// TimeZone is an IANA zone name, e.g. "Europe/Copenhagen".
type Airport struct {
	ID       primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	IATA     string             `json:"iata" bson:"iata" validate:"required,len=3,uppercase"`
	Name     string             `json:"name" bson:"name" validate:"required,min=2,max=100"`
	TimeZone string             `json:"time_zone" bson:"time_zone" validate:"required,timezone"`
}

type AirportDetail struct {
	IATA     string `json:"iata"`
	Name     string `json:"name"`
	TimeZone string `json:"time_zone"`
}

func (a *Airport) Detail() AirportDetail {
	return AirportDetail{IATA: a.IATA, Name: a.Name, TimeZone: a.TimeZone}
}
