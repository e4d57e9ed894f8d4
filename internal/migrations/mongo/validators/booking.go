package validators

import "go.mongodb.org/mongo-driver/bson"

// Booking times are stored as wall-clock strings, not dates: lexical order
// on the layout equals chronological order, which keeps range filters
// correct without any timezone arithmetic.
var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"room_id",
			"title",
			"start_time",
			"end_time",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"room_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"title": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 200,
			},

			"start_time": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`,
			},

			"end_time": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`,
			},

			"comment": bson.M{
				"bsonType":  "string",
				"maxLength": 1000,
			},

			"created_by": bson.M{
				"bsonType":  "string",
				"maxLength": 100,
			},

			"status": bson.M{
				"enum": []string{"confirmed", "canceled"},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
