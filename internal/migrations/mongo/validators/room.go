package validators

import "go.mongodb.org/mongo-driver/bson"

var RoomValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"capacity",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"capacity": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  1000,
			},

			"status": bson.M{
				"enum": []string{"active", "maintenance", "inactive"},
			},

			"location": bson.M{
				"bsonType":  "string",
				"maxLength": 200,
			},

			"amenities": bson.M{
				"bsonType": "array",
				"maxItems": 50,
				"items": bson.M{
					"bsonType":  "string",
					"minLength": 1,
					"maxLength": 50,
				},
			},

			"icon": bson.M{
				"bsonType":  "string",
				"maxLength": 50,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
