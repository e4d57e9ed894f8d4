// Package audit emits activity events for every successful write. Recording
// is best-effort: a broken broker is logged and the primary operation is
// never blocked or failed.
package audit

import (
	"context"
	"time"

	"roomly/pkg/kafka"
	"roomly/pkg/logger"
)

const (
	TopicEvents = "roomly.audit.events"
	TopicDLQ    = "roomly.audit.events.dlq"
)

const (
	ActionBookingCreated     = "booking.created"
	ActionBookingUpdated     = "booking.updated"
	ActionBookingRescheduled = "booking.rescheduled"
	ActionBookingCanceled    = "booking.canceled"
	ActionRoomCreated        = "room.created"
	ActionRoomUpdated        = "room.updated"
	ActionRoomDeleted        = "room.deleted"
)

type Event struct {
	ActorID    string         `json:"actor_id,omitempty" bson:"actor_id,omitempty"`
	Action     string         `json:"action" bson:"action"`
	EntityType string         `json:"entity_type" bson:"entity_type"`
	EntityID   string         `json:"entity_id" bson:"entity_id"`
	Details    map[string]any `json:"details,omitempty" bson:"details,omitempty"`
	OccurredAt time.Time      `json:"occurred_at" bson:"occurred_at"`
}

// Publisher is the transport seam; satisfied by *kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type Recorder interface {
	// Record emits one audit event. An empty actorID denotes a guest.
	Record(actorID, action, entityType, entityID string, details map[string]any)
}

type kafkaRecorder struct {
	publisher Publisher
	source    string
	timeout   time.Duration
	log       *logger.Logger
}

func NewKafkaRecorder(publisher Publisher, source string, log *logger.Logger) Recorder {
	return &kafkaRecorder{
		publisher: publisher,
		source:    source,
		timeout:   5 * time.Second,
		log:       log,
	}
}

func (r *kafkaRecorder) Record(actorID, action, entityType, entityID string, details map[string]any) {
	event := Event{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		OccurredAt: time.Now(),
	}

	msg := kafka.NewMessage().
		WithKey(entityID).
		WithValue(event).
		WithEventType(action).
		WithSource(r.source).
		Build()

	// Detached from the request context: the request must not wait on the
	// broker, and a request cancellation must not lose the event.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := r.publisher.Publish(ctx, msg); err != nil {
			r.log.Warn("Failed to record audit event",
				"action", action,
				"entity_type", entityType,
				"entity_id", entityID,
				"error", err,
			)
		}
	}()
}

// NopRecorder discards events; used where auditing is not wired, such as
// one-shot jobs and tests.
type NopRecorder struct{}

func (NopRecorder) Record(actorID, action, entityType, entityID string, details map[string]any) {}
