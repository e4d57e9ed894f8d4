package config

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"roomly/pkg/client"
	"roomly/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Displayed room status flips to night_rest outside [BusinessHoursStart,
	// BusinessHoursEnd). Stored status is untouched.
	BusinessHoursStart int
	BusinessHoursEnd   int

	OverviewCacheTTL time.Duration
	BookingLockTTL   time.Duration

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		RedisAddr:     getEnvStr(EnvRedisAddr, DefaultRedisAddr),
		RedisPassword: getEnvStr(EnvRedisPassword, ""),
		RedisDB:       getEnvNum(EnvRedisDB, DefaultRedisDB),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		BusinessHoursStart: getEnvNum(EnvBusinessHoursStart, DefaultBusinessHoursStart),
		BusinessHoursEnd:   getEnvNum(EnvBusinessHoursEnd, DefaultBusinessHoursEnd),

		OverviewCacheTTL: getEnvDuration(EnvOverviewCacheTTL, DefaultOverviewCacheTTL),
		BookingLockTTL:   getEnvDuration(EnvBookingLockTTL, DefaultBookingLockTTL),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) SetRedis() {
	cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.Close(cfg.Log)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}

	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}
	if cfg.RedisAddr == "" {
		errors = append(errors, "RedisAddr cannot be empty")
	}

	for name, d := range map[string]time.Duration{
		"MongoConnTimeout": cfg.MongoConnTimeout,
		"RateLimitWindow":  cfg.RateLimitWindow,
		"RequestTimeout":   cfg.RequestTimeout,
		"IdempotencyTTL":   cfg.IdempotencyTTL,
		"ReadTimeout":      cfg.ReadTimeout,
		"WriteTimeout":     cfg.WriteTimeout,
		"IdleTimeout":      cfg.IdleTimeout,
		"ShutdownTimeout":  cfg.ShutdownTimeout,
		"OverviewCacheTTL": cfg.OverviewCacheTTL,
		"BookingLockTTL":   cfg.BookingLockTTL,
	} {
		if d <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", name, d))
		}
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.BusinessHoursStart < 0 || cfg.BusinessHoursStart > 23 {
		errors = append(errors, fmt.Sprintf("BusinessHoursStart must be an hour between 0 and 23, got: %d", cfg.BusinessHoursStart))
	}
	if cfg.BusinessHoursEnd < 1 || cfg.BusinessHoursEnd > 24 {
		errors = append(errors, fmt.Sprintf("BusinessHoursEnd must be an hour between 1 and 24, got: %d", cfg.BusinessHoursEnd))
	}
	if cfg.BusinessHoursEnd <= cfg.BusinessHoursStart {
		errors = append(errors, fmt.Sprintf("BusinessHoursEnd (%d) must be after BusinessHoursStart (%d)", cfg.BusinessHoursEnd, cfg.BusinessHoursStart))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"redis_addr", cfg.RedisAddr,
		"redis_db", cfg.RedisDB,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"business_hours_start", cfg.BusinessHoursStart,
		"business_hours_end", cfg.BusinessHoursEnd,
		"overview_cache_ttl", cfg.OverviewCacheTTL,
		"booking_lock_ttl", cfg.BookingLockTTL,
	)
}

// redactMongoURI hides credentials embedded in the connection string before
// it reaches the logs.
func redactMongoURI(uri string) string {
	re := regexp.MustCompile(`(mongodb(\+srv)?://)[^@/]+@`)
	return re.ReplaceAllString(uri, "${1}***@")
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		return DefaultPaginationLimit
	}
	if limit > MaxPaginationLimit {
		return MaxPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	if offset < 0 {
		return 0
	}
	return offset
}
