package validators

import "go.mongodb.org/mongo-driver/bson"

var ReservationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"leg_id",
			"amount_of_seats",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"leg_id": bson.M{
				"bsonType": "objectId",
			},

			"amount_of_seats": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  9,
			},
		},
	},
}
