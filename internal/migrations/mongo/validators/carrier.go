package validators

import "go.mongodb.org/mongo-driver/bson"

var CarrierValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"iata",
			"name",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"iata": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 2,
				"pattern":   "^[A-Z]{2}$",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},
		},
	},
}
