package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "roomly"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisAddr = "localhost:6379"
	DefaultRedisDB   = 0

	DefaultPort = "8080"

	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = time.Minute

	DefaultRequestTimeout = 15 * time.Second
	DefaultIdempotencyTTL = 10 * time.Minute
	DefaultMaxRequestSize = 1 << 20 // 1 MiB

	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 15 * time.Second

	DefaultBusinessHoursStart = 8
	DefaultBusinessHoursEnd   = 20

	DefaultOverviewCacheTTL = 15 * time.Second
	DefaultBookingLockTTL   = 10 * time.Second

	DefaultPaginationLimit = 50
	MaxPaginationLimit     = 200
)

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvBusinessHoursStart = "BUSINESS_HOURS_START"
	EnvBusinessHoursEnd   = "BUSINESS_HOURS_END"

	EnvOverviewCacheTTL = "OVERVIEW_CACHE_TTL"
	EnvBookingLockTTL   = "BOOKING_LOCK_TTL"
)
