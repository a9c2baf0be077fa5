package validators

import "go.mongodb.org/mongo-driver/bson"

var LegValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"route_id",
			"week",
			"year",
			"sequence_id",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"route_id": bson.M{
				"bsonType": "objectId",
			},

			"week": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  53,
			},

			"year": bson.M{
				"bsonType": "int",
				"minimum":  1970,
			},

			"sequence_id": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  999,
			},
		},
	},
}
