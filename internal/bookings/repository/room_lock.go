package repository

import (
	"context"
	"time"

	bookingserrors "roomly/internal/bookings/errors"
	"roomly/pkg/config"
	"roomly/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const LockCollectionName = "Room_locks"

// RoomLockRepository manages the per-room advisory locks that serialize the
// check-then-commit window of concurrent booking writes.
type RoomLockRepository interface {
	Acquire(ctx context.Context, lock *model.RoomLock) error
	Release(ctx context.Context, lockID string) error
}

type mongoRoomLockRepository struct {
	collection *mongo.Collection
}

func NewRoomLockRepository(cfg *config.Config) RoomLockRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoRoomLockRepository{
		collection: db.Collection(LockCollectionName),
	}
}

// Acquire inserts the lock document. The unique _id turns a concurrent
// acquisition into a duplicate-key error, reported as ErrLockHeld.
func (r *mongoRoomLockRepository) Acquire(ctx context.Context, lock *model.RoomLock) error {
	lock.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bookingserrors.ErrLockHeld
		}
		return err
	}

	return nil
}

func (r *mongoRoomLockRepository) Release(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
