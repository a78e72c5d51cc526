package validators

import "go.mongodb.org/mongo-driver/bson"

var PaymentValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"booking_reference",
			"customer_id",
			"amount",
			"status",
			"method",
			"paid_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"booking_reference": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 50,
			},

			"customer_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"amount": bson.M{
				"bsonType": "double",
				"minimum":  0,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"completed",
					"failed",
				},
			},

			"method": bson.M{
				"bsonType": "string",
				"enum": []string{
					"card",
					"transfer",
				},
			},

			"card_last_four": bson.M{
				"bsonType":  "string",
				"minLength": 4,
				"maxLength": 4,
			},

			"transaction_id": bson.M{
				"bsonType": "string",
			},

			"gateway": bson.M{
				"bsonType": "string",
			},

			"error_message": bson.M{
				"bsonType": "string",
			},

			"paid_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
