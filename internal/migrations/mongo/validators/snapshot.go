package validators

import "go.mongodb.org/mongo-driver/bson"

// SnapshotValidator accepts one document per named collection snapshot. The
// embedded document must carry its schema version so older builds can refuse
// data they do not understand.
var SnapshotValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"document",
			"updated_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"document": bson.M{
				"bsonType": "object",
				"required": []string{"schema_version"},
				"properties": bson.M{
					"schema_version": bson.M{
						"bsonType":  "string",
						"minLength": 1,
					},
					"reservations": bson.M{
						"bsonType": []string{"array", "null"},
						"items":    ReservationSchema,
					},
					"rooms": bson.M{
						"bsonType": []string{"array", "null"},
						"items":    RoomSchema,
					},
				},
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var ReservationSchema = bson.M{
	"bsonType": "object",
	"required": []string{"id", "room_id", "day", "start_time", "end_time", "status"},
	"properties": bson.M{
		"id":         bson.M{"bsonType": "string", "minLength": 1},
		"room_id":    bson.M{"bsonType": "string", "minLength": 1},
		"day":        bson.M{"bsonType": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
		"start_time": bson.M{"bsonType": "string", "pattern": `^\d{2}:\d{2}(:\d{2})?$`},
		"end_time":   bson.M{"bsonType": "string", "pattern": `^\d{2}:\d{2}(:\d{2})?$`},
		"status": bson.M{
			"bsonType": "string",
			"enum":     []string{"ACTIVE", "CANCELLED"},
		},
		"participants": bson.M{
			"bsonType": []string{"array", "null"},
			"items":    bson.M{"bsonType": "string"},
		},
	},
}

var RoomSchema = bson.M{
	"bsonType": "object",
	"required": []string{"id", "name", "location"},
	"properties": bson.M{
		"id":       bson.M{"bsonType": "string", "minLength": 1},
		"name":     bson.M{"bsonType": "string", "minLength": 1, "maxLength": 100},
		"location": bson.M{"bsonType": "string", "maxLength": 100},
		"capacity": bson.M{"bsonType": []string{"int", "long"}, "minimum": 0},
	},
}
