package validators

import "go.mongodb.org/mongo-driver/bson"

var AuditLogValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"action",
			"entity_type",
			"entity_id",
			"occurred_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"actor_id": bson.M{
				"bsonType":  "string",
				"maxLength": 100,
			},

			"action": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"entity_type": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 50,
			},

			"entity_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"details": bson.M{
				"bsonType": "object",
			},

			"occurred_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
