package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	kafka_config "roomly/pkg/kafka/config"
	"roomly/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// Consumer reads one topic within a consumer group and hands every message
// to its handler. Failed messages retry with backoff; exhausted ones go to
// the DLQ topic when one is configured.
type Consumer struct {
	reader     *kafka.Reader
	dlqWriter  *kafka.Writer
	topic      string
	groupID    string
	maxRetries int
	handler    MessageHandler
	log        *logger.Logger
	closed     bool
	mu         sync.RWMutex
}

func NewConsumer(cfg *kafka_config.Config, topic, groupID, dlqTopic string, handler MessageHandler, log *logger.Logger) (*Consumer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}
	if groupID == "" {
		return nil, fmt.Errorf("group ID cannot be empty")
	}
	if handler == nil {
		return nil, fmt.Errorf("message handler cannot be nil")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:           cfg.Brokers,
		Topic:             topic,
		GroupID:           groupID,
		MinBytes:          cfg.ConsumerMinBytes,
		MaxBytes:          cfg.ConsumerMaxBytes,
		MaxWait:           cfg.ConsumerMaxWait,
		CommitInterval:    cfg.ConsumerCommitInterval,
		HeartbeatInterval: cfg.ConsumerHeartbeatInterval,
		SessionTimeout:    cfg.ConsumerSessionTimeout,
		RebalanceTimeout:  cfg.ConsumerRebalanceTimeout,
		StartOffset:       cfg.ConsumerStartOffset,
		Logger:            kafka.LoggerFunc(func(msg string, args ...any) {}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.Error(fmt.Sprintf(msg, args...))
		}),
	})

	consumer := &Consumer{
		reader:     reader,
		topic:      topic,
		groupID:    groupID,
		maxRetries: cfg.ConsumerMaxRetries,
		handler:    handler,
		log:        log,
	}

	if dlqTopic != "" {
		consumer.dlqWriter = &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        dlqTopic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Compression:  kafka.Snappy,
			MaxAttempts:  3,
		}
	}

	return consumer, nil
}

// Run consumes until the context is canceled or the consumer is closed.
func (c *Consumer) Run(ctx context.Context) error {
	c.log.Info("Kafka consumer started", "topic", c.topic, "group_id", c.groupID)

	for {
		raw, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			c.mu.RLock()
			closed := c.closed
			c.mu.RUnlock()
			if closed {
				return nil
			}
			return fmt.Errorf("failed to read message: %w", err)
		}

		msg := fromKafkaMessage(raw)
		c.process(ctx, msg)
	}
}

func (c *Consumer) process(ctx context.Context, msg Message) {
	var err error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(attempt) * time.Second):
			}
			msg.IncrementRetryCount()
		}

		if err = c.handler(ctx, msg); err == nil {
			return
		}

		c.log.Warn("Message handling failed",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"event_id", msg.GetEventID(),
			"attempt", attempt+1,
			"error", err,
		)
	}

	c.sendToDLQ(ctx, msg, err)
}

func (c *Consumer) sendToDLQ(ctx context.Context, msg Message, cause error) {
	if c.dlqWriter == nil {
		c.log.Error("Dropping message after retries, no DLQ configured",
			"topic", msg.Topic, "offset", msg.Offset, "error", cause)
		return
	}

	headers := make([]kafka.Header, 0, len(msg.Headers)+1)
	for k, v := range msg.Headers {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	headers = append(headers, kafka.Header{Key: "original-topic", Value: []byte(msg.Topic)})

	if err := c.dlqWriter.WriteMessages(ctx, kafka.Message{
		Key:     []byte(msg.Key),
		Value:   msg.Value,
		Headers: headers,
	}); err != nil {
		c.log.Error("Failed to publish to DLQ",
			"topic", msg.Topic, "offset", msg.Offset, "error", err)
		return
	}

	c.log.Info("Message routed to DLQ",
		"topic", msg.Topic, "offset", msg.Offset, "event_id", msg.GetEventID())
}

func (c *Consumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if c.dlqWriter != nil {
		_ = c.dlqWriter.Close()
	}
	return c.reader.Close()
}

func fromKafkaMessage(raw kafka.Message) Message {
	headers := make(map[string]string, len(raw.Headers))
	for _, h := range raw.Headers {
		headers[h.Key] = string(h.Value)
	}

	return Message{
		Key:       string(raw.Key),
		Value:     raw.Value,
		Headers:   headers,
		Topic:     raw.Topic,
		Partition: raw.Partition,
		Offset:    raw.Offset,
		Timestamp: raw.Time,
	}
}
