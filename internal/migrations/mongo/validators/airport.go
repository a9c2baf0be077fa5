package validators

import "go.mongodb.org/mongo-driver/bson"

var AirportValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"iata",
			"name",
			"time_zone",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"iata": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 3,
				"pattern":   "^[A-Z]{3}$",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"time_zone": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},
		},
	},
}
