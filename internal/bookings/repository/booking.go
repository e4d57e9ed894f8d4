package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "roomly/internal/bookings/errors"
	"roomly/pkg/config"
	mongotx "roomly/pkg/db/mongo"
	"roomly/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, booking *model.Booking) error
	CancelConfirmed(ctx context.Context, id string) error
	FindFirstConflict(ctx context.Context, roomID string, start, end model.WallClock, excludeID string) (*model.Booking, error)
	FindConfirmedInWindow(ctx context.Context, start, end model.WallClock) ([]*model.Booking, error)
	FindByRoom(ctx context.Context, roomID string, start, end *model.WallClock, limit int, offset int64) ([]*model.Booking, error)
	CountByRoom(ctx context.Context, roomID string, start, end *model.WallClock) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo.Client),
	}
}

// withTimeout wraps the context with a timeout unless we are inside a
// transaction; a SessionContext cannot be wrapped without breaking
// transaction semantics.
func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	return count, nil
}

func (r *mongoBookingRepository) Update(ctx context.Context, id string, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"room_id":    booking.RoomID,
			"title":      booking.Title,
			"start_time": booking.StartTime,
			"end_time":   booking.EndTime,
			"comment":    booking.Comment,
			"status":     booking.Status,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	if result.MatchedCount == 0 {
		return bookingserrors.ErrNotFound
	}

	return nil
}

// CancelConfirmed flips a confirmed booking to canceled. The status guard in
// the filter makes cancellation of an already-canceled booking a NotFound,
// so there is no transition out of canceled.
func (r *mongoBookingRepository) CancelConfirmed(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID, "status": model.BookingConfirmed}
	update := bson.M{"$set": bson.M{"status": model.BookingCanceled}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	if result.ModifiedCount == 0 {
		return bookingserrors.ErrNotFound
	}

	return nil
}

// FindFirstConflict returns the earliest-starting confirmed booking on the
// room whose interval overlaps [start, end), or nil when the slot is free.
// The overlap filter runs storage-side: wall-clock strings order lexically,
// so $lt/$gt on them is a chronological comparison.
func (r *mongoBookingRepository) FindFirstConflict(ctx context.Context, roomID string, start, end model.WallClock, excludeID string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"room_id":    roomID,
		"status":     model.BookingConfirmed,
		"start_time": bson.M{"$lt": end},
		"end_time":   bson.M{"$gt": start},
	}

	if excludeID != "" {
		objectID, err := primitive.ObjectIDFromHex(excludeID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, excludeID)
		}
		filter["_id"] = bson.M{"$ne": objectID}
	}

	opts := options.FindOne().SetSort(bson.D{{Key: "start_time", Value: 1}})

	var booking model.Booking
	err := r.collection.FindOne(ctx, filter, opts).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query conflicts: %w", err)
	}

	return &booking, nil
}

// FindConfirmedInWindow loads every confirmed booking, across all rooms,
// whose interval overlaps [start, end), sorted by start time. One query
// serves both the day aggregation and the availability complement.
func (r *mongoBookingRepository) FindConfirmedInWindow(ctx context.Context, start, end model.WallClock) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"status":     model.BookingConfirmed,
		"start_time": bson.M{"$lt": end},
		"end_time":   bson.M{"$gt": start},
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings in window: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) FindByRoom(ctx context.Context, roomID string, start, end *model.WallClock, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := r.buildRoomFilter(roomID, start, end)

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) CountByRoom(ctx context.Context, roomID string, start, end *model.WallClock) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, r.buildRoomFilter(roomID, start, end))
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) buildRoomFilter(roomID string, start, end *model.WallClock) bson.M {
	filter := bson.M{
		"room_id": roomID,
		"status":  model.BookingConfirmed,
	}

	if start != nil {
		filter["end_time"] = bson.M{"$gt": *start}
	}
	if end != nil {
		filter["start_time"] = bson.M{"$lt": *end}
	}

	return filter
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
