package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"booking_legs",
			"credit_card_number",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"booking_legs": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"leg_id", "passengers"},
					"properties": bson.M{
						"leg_id": bson.M{
							"bsonType": "objectId",
						},
						"passengers": bson.M{
							"bsonType": "array",
							"minItems": 1,
							"maxItems": 9,
							"items": bson.M{
								"bsonType": "object",
								"required": []string{"pnr", "person"},
								"properties": bson.M{
									"pnr": bson.M{
										"bsonType":  "string",
										"minLength": 6,
										"maxLength": 6,
										"pattern":   "^[A-Z][A-Z0-9]{5}$",
									},
									"person": bson.M{
										"bsonType": "object",
										"required": []string{"first_name", "last_name"},
										"properties": bson.M{
											"first_name": bson.M{
												"bsonType":  "string",
												"minLength": 1,
												"maxLength": 100,
											},
											"last_name": bson.M{
												"bsonType":  "string",
												"minLength": 1,
												"maxLength": 100,
											},
											"agency": bson.M{
												"bsonType":  "string",
												"maxLength": 100,
											},
										},
									},
								},
							},
						},
					},
				},
			},

			"credit_card_number": bson.M{
				"bsonType":  "string",
				"minLength": 16,
				"maxLength": 16,
				"pattern":   "^[0-9]{16}$",
			},

			"frequent_flyer_id": bson.M{
				"bsonType":  "string",
				"minLength": 7,
				"maxLength": 7,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
