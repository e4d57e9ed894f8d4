package cache_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"

	"roomly/pkg/cache"
	"roomly/pkg/logger"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
}

func TestGetOrCompute_CacheHit(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	c := cache.NewRedisCache(db, testLogger())

	cached, _ := json.Marshal(payload{Name: "hit", Count: 3})
	mockRedis.ExpectGet("rooms:overview:2026-09-01").SetVal(string(cached))

	computed := false
	var out payload
	err := c.GetOrCompute(context.Background(), "rooms:overview:2026-09-01", 15*time.Second, &out, func(ctx context.Context) (any, error) {
		computed = true
		return nil, nil
	})

	assert.NoError(t, err)
	assert.False(t, computed, "compute must not run on a cache hit")
	assert.Equal(t, "hit", out.Name)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestGetOrCompute_MissComputesAndStores(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	c := cache.NewRedisCache(db, testLogger())

	value := payload{Name: "fresh", Count: 7}
	encoded, _ := json.Marshal(value)

	mockRedis.ExpectGet("rooms:overview:2026-09-01").RedisNil()
	mockRedis.ExpectSet("rooms:overview:2026-09-01", encoded, 15*time.Second).SetVal("OK")

	var out payload
	err := c.GetOrCompute(context.Background(), "rooms:overview:2026-09-01", 15*time.Second, &out, func(ctx context.Context) (any, error) {
		return value, nil
	})

	assert.NoError(t, err)
	assert.Equal(t, value, out)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestGetOrCompute_BrokenCacheDegradesToCompute(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	c := cache.NewRedisCache(db, testLogger())

	value := payload{Name: "direct", Count: 1}
	encoded, _ := json.Marshal(value)

	mockRedis.ExpectGet("rooms:overview:2026-09-01").SetErr(errors.New("connection refused"))
	mockRedis.ExpectSet("rooms:overview:2026-09-01", encoded, 15*time.Second).SetErr(errors.New("connection refused"))

	var out payload
	err := c.GetOrCompute(context.Background(), "rooms:overview:2026-09-01", 15*time.Second, &out, func(ctx context.Context) (any, error) {
		return value, nil
	})

	assert.NoError(t, err, "a dead cache must not fail the read")
	assert.Equal(t, value, out)
}

func TestGetOrCompute_UndecodableEntryRecomputes(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	c := cache.NewRedisCache(db, testLogger())

	value := payload{Name: "recomputed", Count: 2}
	encoded, _ := json.Marshal(value)

	mockRedis.ExpectGet("rooms:overview:2026-09-01").SetVal("{not json")
	mockRedis.ExpectSet("rooms:overview:2026-09-01", encoded, 15*time.Second).SetVal("OK")

	var out payload
	err := c.GetOrCompute(context.Background(), "rooms:overview:2026-09-01", 15*time.Second, &out, func(ctx context.Context) (any, error) {
		return value, nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "recomputed", out.Name)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestGetOrCompute_ComputeErrorPropagates(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	c := cache.NewRedisCache(db, testLogger())

	mockRedis.ExpectGet("k").RedisNil()

	var out payload
	err := c.GetOrCompute(context.Background(), "k", time.Second, &out, func(ctx context.Context) (any, error) {
		return nil, errors.New("storage down")
	})

	assert.EqualError(t, err, "storage down")
}

func TestInvalidate(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	c := cache.NewRedisCache(db, testLogger())

	mockRedis.ExpectDel("rooms:overview:2026-09-01", "rooms:overview:2026-09-02").SetVal(2)

	err := c.Invalidate(context.Background(), "rooms:overview:2026-09-01", "rooms:overview:2026-09-02")
	assert.NoError(t, err)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestInvalidate_NoKeysIsNoop(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	c := cache.NewRedisCache(db, testLogger())

	assert.NoError(t, c.Invalidate(context.Background()))
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestRoomOverviewKey(t *testing.T) {
	assert.Equal(t, "rooms:overview:2026-09-01", cache.RoomOverviewKey("2026-09-01"))
}
