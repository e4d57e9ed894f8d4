package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"roomly/pkg/kafka"
	"roomly/pkg/logger"
)

type capturingPublisher struct {
	messages chan kafka.Message
	err      error
}

func (p *capturingPublisher) Publish(ctx context.Context, msg kafka.Message) error {
	p.messages <- msg
	return p.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
}

func TestRecord_PublishesEvent(t *testing.T) {
	pub := &capturingPublisher{messages: make(chan kafka.Message, 1)}
	rec := NewKafkaRecorder(pub, "roomly", testLogger())

	rec.Record("user-1", ActionBookingCreated, "booking", "b-1", map[string]any{"room_id": "r-1"})

	select {
	case msg := <-pub.messages:
		if msg.GetEventType() != ActionBookingCreated {
			t.Errorf("expected event type %s, got %s", ActionBookingCreated, msg.GetEventType())
		}
		if msg.Key != "b-1" {
			t.Errorf("expected entity id as partition key, got %q", msg.Key)
		}

		var event Event
		if err := msg.DecodeValue(&event); err != nil {
			t.Fatalf("failed to decode event: %v", err)
		}
		if event.ActorID != "user-1" || event.Action != ActionBookingCreated {
			t.Errorf("unexpected event payload: %+v", event)
		}
		if event.OccurredAt.IsZero() {
			t.Error("event must carry a timestamp")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("recorder never published the event")
	}
}

func TestRecord_PublishFailureIsSwallowed(t *testing.T) {
	pub := &capturingPublisher{
		messages: make(chan kafka.Message, 1),
		err:      errors.New("broker down"),
	}
	rec := NewKafkaRecorder(pub, "roomly", testLogger())

	// Must not panic or block the caller.
	rec.Record("user-1", ActionBookingCanceled, "booking", "b-2", nil)

	select {
	case <-pub.messages:
	case <-time.After(2 * time.Second):
		t.Fatal("recorder never attempted to publish")
	}
}

func TestNopRecorder(t *testing.T) {
	NopRecorder{}.Record("user-1", ActionRoomCreated, "room", "r-1", nil)
}
