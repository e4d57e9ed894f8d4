package kafka_config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds broker, producer and consumer settings shared by every
// process that touches Kafka.
type Config struct {
	Brokers []string

	ProducerMaxAttempts  int
	ProducerBatchTimeout time.Duration
	ProducerRequireAcks  int    // -1 = all, 0 = none, 1 = leader only
	ProducerCompression  string // "none", "gzip", "snappy", "lz4", "zstd"
	ProducerAsync        bool

	ConsumerStartOffset       int64 // -1 = newest, -2 = oldest
	ConsumerMinBytes          int
	ConsumerMaxBytes          int
	ConsumerMaxWait           time.Duration
	ConsumerCommitInterval    time.Duration
	ConsumerHeartbeatInterval time.Duration
	ConsumerSessionTimeout    time.Duration
	ConsumerRebalanceTimeout  time.Duration
	ConsumerMaxRetries        int
}

func Load() *Config {
	brokersStr := getEnvStr(EnvKafkaBrokers, DefaultKafkaBrokers)
	brokers := strings.Split(brokersStr, ",")
	for i, broker := range brokers {
		brokers[i] = strings.TrimSpace(broker)
	}

	cfg := &Config{
		Brokers: brokers,

		ProducerMaxAttempts:  getEnvInt(EnvKafkaProducerMaxAttempts, DefaultProducerMaxAttempts),
		ProducerBatchTimeout: getEnvDuration(EnvKafkaProducerBatchTimeout, DefaultProducerBatchTimeout),
		ProducerRequireAcks:  getEnvInt(EnvKafkaProducerRequireAcks, DefaultProducerRequireAcks),
		ProducerCompression:  getEnvStr(EnvKafkaProducerCompression, DefaultProducerCompression),
		ProducerAsync:        getEnvBool(EnvKafkaProducerAsync, DefaultProducerAsync),

		ConsumerStartOffset:       getEnvInt64(EnvKafkaConsumerStartOffset, DefaultConsumerStartOffset),
		ConsumerMinBytes:          getEnvInt(EnvKafkaConsumerMinBytes, DefaultConsumerMinBytes),
		ConsumerMaxBytes:          getEnvInt(EnvKafkaConsumerMaxBytes, DefaultConsumerMaxBytes),
		ConsumerMaxWait:           getEnvDuration(EnvKafkaConsumerMaxWait, DefaultConsumerMaxWait),
		ConsumerCommitInterval:    getEnvDuration(EnvKafkaConsumerCommitInterval, DefaultConsumerCommitInterval),
		ConsumerHeartbeatInterval: getEnvDuration(EnvKafkaConsumerHeartbeatInterval, DefaultConsumerHeartbeatInterval),
		ConsumerSessionTimeout:    getEnvDuration(EnvKafkaConsumerSessionTimeout, DefaultConsumerSessionTimeout),
		ConsumerRebalanceTimeout:  getEnvDuration(EnvKafkaConsumerRebalanceTimeout, DefaultConsumerRebalanceTimeout),
		ConsumerMaxRetries:        getEnvInt(EnvKafkaConsumerMaxRetries, DefaultConsumerMaxRetries),
	}

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Kafka configuration validation failed: %v", err))
	}

	return cfg
}

func (cfg *Config) Validate() error {
	var errs []string

	if len(cfg.Brokers) == 0 {
		errs = append(errs, "At least one Kafka broker is required")
	}
	for _, b := range cfg.Brokers {
		if b == "" {
			errs = append(errs, "Broker address cannot be empty")
		}
	}

	if cfg.ProducerMaxAttempts < 1 {
		errs = append(errs, fmt.Sprintf("ProducerMaxAttempts must be at least 1, got: %d", cfg.ProducerMaxAttempts))
	}
	switch cfg.ProducerRequireAcks {
	case -1, 0, 1:
	default:
		errs = append(errs, fmt.Sprintf("ProducerRequireAcks must be -1, 0 or 1, got: %d", cfg.ProducerRequireAcks))
	}
	switch cfg.ProducerCompression {
	case "none", "gzip", "snappy", "lz4", "zstd":
	default:
		errs = append(errs, fmt.Sprintf("ProducerCompression must be one of none/gzip/snappy/lz4/zstd, got: %s", cfg.ProducerCompression))
	}

	if cfg.ConsumerMinBytes < 1 {
		errs = append(errs, fmt.Sprintf("ConsumerMinBytes must be at least 1, got: %d", cfg.ConsumerMinBytes))
	}
	if cfg.ConsumerMaxBytes < cfg.ConsumerMinBytes {
		errs = append(errs, fmt.Sprintf("ConsumerMaxBytes (%d) must be >= ConsumerMinBytes (%d)", cfg.ConsumerMaxBytes, cfg.ConsumerMinBytes))
	}
	if cfg.ConsumerMaxRetries < 0 {
		errs = append(errs, fmt.Sprintf("ConsumerMaxRetries cannot be negative, got: %d", cfg.ConsumerMaxRetries))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
