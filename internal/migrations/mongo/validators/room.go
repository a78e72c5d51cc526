package validators

import "go.mongodb.org/mongo-driver/bson"

var RoomValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"hotel_id",
			"number",
			"type",
			"nightly_price",
			"max_guests",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"hotel_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"number": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 10,
			},

			"type": bson.M{
				"bsonType": "string",
				"enum": []string{
					"standard",
					"deluxe",
					"suite",
				},
			},

			"nightly_price": bson.M{
				"bsonType": "double",
				"minimum":  0,
			},

			"max_guests": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  20,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
