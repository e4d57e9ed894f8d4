package repository

import (
	"context"
	"fmt"
	"time"

	"roomly/pkg/audit"
	"roomly/pkg/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Audit_log"
)

type AuditLogRepository interface {
	Insert(ctx context.Context, event *audit.Event) error
	FindByEntity(ctx context.Context, entityType, entityID string, limit int, offset int64) ([]*audit.Event, error)
}

type mongoAuditLogRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoAuditLogRepository(cfg *config.Config) AuditLogRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoAuditLogRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoAuditLogRepository) Insert(ctx context.Context, event *audit.Event) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	if _, err := r.collection.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}
	return nil
}

func (r *mongoAuditLogRepository) FindByEntity(ctx context.Context, entityType, entityID string, limit int, offset int64) ([]*audit.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"entity_type": entityType,
		"entity_id":   entityID,
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find audit events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*audit.Event
	if err = cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode audit events: %w", err)
	}

	return events, nil
}
