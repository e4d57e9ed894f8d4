package kafka

import (
	"context"
	"fmt"
	"sync"

	kafka_config "roomly/pkg/kafka/config"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
)

// Producer wraps a kafka-go writer for one topic.
type Producer struct {
	writer *kafka.Writer
	topic  string
	closed bool
	mu     sync.RWMutex
}

func NewProducer(cfg *kafka_config.Config, topic string) (*Producer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}

	var compression compress.Compression
	switch cfg.ProducerCompression {
	case "gzip":
		compression = compress.Gzip
	case "lz4":
		compression = compress.Lz4
	case "zstd":
		compression = compress.Zstd
	default:
		compression = compress.Snappy
	}

	var requiredAcks kafka.RequiredAcks
	switch cfg.ProducerRequireAcks {
	case 0:
		requiredAcks = kafka.RequireNone
	case 1:
		requiredAcks = kafka.RequireOne
	default:
		requiredAcks = kafka.RequireAll
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // hash by key so per-entity ordering holds
		RequiredAcks: requiredAcks,
		Compression:  compression,
		MaxAttempts:  cfg.ProducerMaxAttempts,
		BatchTimeout: cfg.ProducerBatchTimeout,
		Async:        cfg.ProducerAsync,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}, nil
}

func (p *Producer) Publish(ctx context.Context, msg Message) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrProducerClosed
	}
	p.mu.RUnlock()

	if msg.Key == "" {
		return ErrEmptyKey
	}
	if len(msg.Value) == 0 {
		return ErrEmptyValue
	}

	headers := make([]kafka.Header, 0, len(msg.Headers))
	for k, v := range msg.Headers {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(msg.Key),
		Value:   msg.Value,
		Headers: headers,
		Time:    msg.Timestamp,
	})
}

func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.writer.Close()
}
