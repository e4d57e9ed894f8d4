package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"roomly/internal/migrations/mongo/validators"
)

var (
	RoomsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	// The compound index backs every overlap query: equality on room and
	// status, range on the interval bounds.
	BookingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "room_id", Value: 1},
			{Key: "status", Value: 1},
			{Key: "start_time", Value: 1},
			{Key: "end_time", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "start_time", Value: 1},
		}},
	}

	// expireAfterSeconds 0 makes Mongo reap a lock document the moment its
	// expires_at passes, so a crashed writer cannot wedge a room for long.
	RoomLocksIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}

	AuditLogIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "entity_type", Value: 1},
			{Key: "entity_id", Value: 1},
			{Key: "occurred_at", Value: -1},
		}},
		{Keys: bson.D{{Key: "occurred_at", Value: -1}}},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("Running Mongo migrations on database: %s\n", dbName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Rooms": {
			Indexes:   RoomsIndexes,
			Validator: validators.RoomValidator,
		},
		"Bookings": {
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
		"Room_locks": {
			Indexes: RoomLocksIndexes,
		},
		"Audit_log": {
			Indexes:   AuditLogIndexes,
			Validator: validators.AuditLogValidator,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	fmt.Println("All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("Creating collection: %s\n", name)
		opts := options.CreateCollection()
		if validator != nil {
			opts = opts.SetValidator(validator)
		}
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	if validator != nil {
		fmt.Printf("Collection %s already exists, updating validator\n", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			fmt.Printf("Warning: failed updating validator for %s: %v\n", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	if len(models) == 0 {
		return nil
	}

	coll := db.Collection(name)
	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	fmt.Printf("Ensured indexes for %s\n", name)
	return nil
}
