package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Carrier is immutable reference data identified by its 2-letter IATA code.
type Carrier struct {
	ID   primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	IATA string             `json:"iata" bson:"iata" validate:"required,len=2,uppercase"`
	Name string             `json:"name" bson:"name" validate:"required,min=2,max=100"`
}

type CarrierDetail struct {
	IATA string `json:"iata"`
	Name string `json:"name"`
}

func (c *Carrier) Detail() CarrierDetail {
	return CarrierDetail{IATA: c.IATA, Name: c.Name}
}
