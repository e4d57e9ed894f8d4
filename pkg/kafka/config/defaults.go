package kafka_config

import "time"

const (
	DefaultKafkaBrokers = "localhost:9092"

	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 100 * time.Millisecond
	DefaultProducerRequireAcks  = -1 // all
	DefaultProducerCompression  = "snappy"
	DefaultProducerAsync        = false

	DefaultConsumerStartOffset       = int64(-2) // oldest
	DefaultConsumerMinBytes          = 1
	DefaultConsumerMaxBytes          = 10 << 20
	DefaultConsumerMaxWait           = 500 * time.Millisecond
	DefaultConsumerCommitInterval    = time.Second
	DefaultConsumerHeartbeatInterval = 3 * time.Second
	DefaultConsumerSessionTimeout    = 30 * time.Second
	DefaultConsumerRebalanceTimeout  = 30 * time.Second
	DefaultConsumerMaxRetries        = 3
)

const (
	EnvKafkaBrokers = "KAFKA_BROKERS"

	EnvKafkaProducerMaxAttempts  = "KAFKA_PRODUCER_MAX_ATTEMPTS"
	EnvKafkaProducerBatchTimeout = "KAFKA_PRODUCER_BATCH_TIMEOUT"
	EnvKafkaProducerRequireAcks  = "KAFKA_PRODUCER_REQUIRE_ACKS"
	EnvKafkaProducerCompression  = "KAFKA_PRODUCER_COMPRESSION"
	EnvKafkaProducerAsync        = "KAFKA_PRODUCER_ASYNC"

	EnvKafkaConsumerStartOffset       = "KAFKA_CONSUMER_START_OFFSET"
	EnvKafkaConsumerMinBytes          = "KAFKA_CONSUMER_MIN_BYTES"
	EnvKafkaConsumerMaxBytes          = "KAFKA_CONSUMER_MAX_BYTES"
	EnvKafkaConsumerMaxWait           = "KAFKA_CONSUMER_MAX_WAIT"
	EnvKafkaConsumerCommitInterval    = "KAFKA_CONSUMER_COMMIT_INTERVAL"
	EnvKafkaConsumerHeartbeatInterval = "KAFKA_CONSUMER_HEARTBEAT_INTERVAL"
	EnvKafkaConsumerSessionTimeout    = "KAFKA_CONSUMER_SESSION_TIMEOUT"
	EnvKafkaConsumerRebalanceTimeout  = "KAFKA_CONSUMER_REBALANCE_TIMEOUT"
	EnvKafkaConsumerMaxRetries        = "KAFKA_CONSUMER_MAX_RETRIES"
)
