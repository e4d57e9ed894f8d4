package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	roomserrors "roomly/internal/rooms/errors"
	"roomly/pkg/config"
	"roomly/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Rooms"
)

type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) error
	FindByID(ctx context.Context, id string) (*model.Room, error)
	FindByName(ctx context.Context, name string) (*model.Room, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Room, error)
	FindActive(ctx context.Context) ([]*model.Room, error)
	ListAll(ctx context.Context) ([]*model.Room, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, room *model.Room) error
	Delete(ctx context.Context, id string) error
}

type mongoRoomRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoRoomRepository(cfg *config.Config) RoomRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoRoomRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoRoomRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoRoomRepository) Create(ctx context.Context, room *model.Room) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	room.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, room)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return roomserrors.ErrDuplicate
		}
		return fmt.Errorf("failed to create room: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		room.ID = oid.Hex()
	}
	return nil
}

func (r *mongoRoomRepository) FindByID(ctx context.Context, id string) (*model.Room, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", roomserrors.ErrInvalidID, id)
	}

	var room model.Room
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, roomserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}

	return &room, nil
}

func (r *mongoRoomRepository) FindByName(ctx context.Context, name string) (*model.Room, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var room model.Room
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, roomserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find room by name: %w", err)
	}

	return &room, nil
}

func (r *mongoRoomRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Room, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find rooms: %w", err)
	}
	defer cursor.Close(ctx)

	var rooms []*model.Room
	if err = cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}

	return rooms, nil
}

// FindActive loads every room that can take bookings, sorted by name. Feeds
// the availability views, which always work over the full active set.
func (r *mongoRoomRepository) FindActive(ctx context.Context) ([]*model.Room, error) {
	return r.findSorted(ctx, bson.M{"status": model.RoomActive})
}

// ListAll loads the full room inventory, sorted by name. Feeds the overview,
// which projects a displayed status for every room whatever is stored.
func (r *mongoRoomRepository) ListAll(ctx context.Context) ([]*model.Room, error) {
	return r.findSorted(ctx, bson.M{})
}

func (r *mongoRoomRepository) findSorted(ctx context.Context, filter bson.M) ([]*model.Room, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find rooms: %w", err)
	}
	defer cursor.Close(ctx)

	var rooms []*model.Room
	if err = cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}

	return rooms, nil
}

func (r *mongoRoomRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count rooms: %w", err)
	}

	return count, nil
}

func (r *mongoRoomRepository) Update(ctx context.Context, id string, room *model.Room) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", roomserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":      room.Name,
			"capacity":  room.Capacity,
			"status":    room.Status,
			"location":  room.Location,
			"amenities": room.Amenities,
			"icon":      room.Icon,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return roomserrors.ErrDuplicate
		}
		return fmt.Errorf("failed to update room: %w", err)
	}

	if result.MatchedCount == 0 {
		return roomserrors.ErrNotFound
	}

	return nil
}

func (r *mongoRoomRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", roomserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	if result.DeletedCount == 0 {
		return roomserrors.ErrNotFound
	}

	return nil
}
