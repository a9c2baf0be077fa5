package validators

import "go.mongodb.org/mongo-driver/bson"

var RouteValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"carrier_id",
			"departure_airport_id",
			"arrival_airport_id",
			"weekday",
			"departure_second_in_day",
			"duration_in_seconds",
			"number_of_seats",
			"seat_price",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"carrier_id": bson.M{
				"bsonType": "objectId",
			},

			"departure_airport_id": bson.M{
				"bsonType": "objectId",
			},

			"arrival_airport_id": bson.M{
				"bsonType": "objectId",
			},

			"weekday": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  6,
			},

			"departure_second_in_day": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  86399,
			},

			"duration_in_seconds": bson.M{
				"bsonType": "int",
				"minimum":  0,
			},

			"number_of_seats": bson.M{
				"bsonType": "int",
				"minimum":  1,
			},

			"seat_price": bson.M{
				"bsonType": "int",
				"minimum":  0,
			},
		},
	},
}
