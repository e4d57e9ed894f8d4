package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Message is a Kafka message plus the headers every roomly event carries.
type Message struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
}

const (
	HeaderEventID    = "event-id"
	HeaderEventType  = "event-type"
	HeaderSource     = "source"
	HeaderTimestamp  = "timestamp"
	HeaderRetryCount = "retry-count"
)

// MessageBuilder assembles a message with generated defaults for the
// required headers.
type MessageBuilder struct {
	msg Message
}

func NewMessage() *MessageBuilder {
	return &MessageBuilder{
		msg: Message{
			Headers:   make(map[string]string),
			Timestamp: time.Now(),
		},
	}
}

func (mb *MessageBuilder) WithKey(key string) *MessageBuilder {
	mb.msg.Key = key
	return mb
}

// WithValue JSON-encodes the payload. An unencodable payload leaves Value
// nil, which the producer rejects on publish.
func (mb *MessageBuilder) WithValue(value any) *MessageBuilder {
	data, err := json.Marshal(value)
	if err != nil {
		mb.msg.Value = nil
		return mb
	}
	mb.msg.Value = data
	return mb
}

func (mb *MessageBuilder) WithEventType(eventType string) *MessageBuilder {
	mb.msg.Headers[HeaderEventType] = eventType
	return mb
}

func (mb *MessageBuilder) WithSource(source string) *MessageBuilder {
	mb.msg.Headers[HeaderSource] = source
	return mb
}

func (mb *MessageBuilder) WithHeader(key, value string) *MessageBuilder {
	mb.msg.Headers[key] = value
	return mb
}

func (mb *MessageBuilder) Build() Message {
	if mb.msg.Headers[HeaderEventID] == "" {
		mb.msg.Headers[HeaderEventID] = uuid.New().String()
	}
	if mb.msg.Headers[HeaderTimestamp] == "" {
		mb.msg.Headers[HeaderTimestamp] = mb.msg.Timestamp.Format(time.RFC3339)
	}
	return mb.msg
}

// MessageHandler processes one consumed message; a non-nil error triggers
// the consumer's retry/DLQ policy.
type MessageHandler func(ctx context.Context, msg Message) error

func (m *Message) DecodeValue(v any) error {
	return json.Unmarshal(m.Value, v)
}

func (m *Message) GetEventID() string {
	return m.Headers[HeaderEventID]
}

func (m *Message) GetEventType() string {
	return m.Headers[HeaderEventType]
}

func (m *Message) GetRetryCount() int {
	count := 0
	if s, ok := m.Headers[HeaderRetryCount]; ok {
		_ = json.Unmarshal([]byte(s), &count)
	}
	return count
}

func (m *Message) IncrementRetryCount() {
	data, _ := json.Marshal(m.GetRetryCount() + 1)
	m.Headers[HeaderRetryCount] = string(data)
}
