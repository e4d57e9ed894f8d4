// Package cache is a read-through response cache over Redis with explicit
// invalidation. It is injected as a collaborator; there is no ambient global
// cache state.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"roomly/pkg/logger"

	"github.com/redis/go-redis/v9"
)

type ComputeFunc func(ctx context.Context) (any, error)

// RoomOverviewKey names the cached per-day room overview. Writers that
// touch a day invalidate its key.
func RoomOverviewKey(date string) string {
	return "rooms:overview:" + date
}

type Cache interface {
	// GetOrCompute fills dest from the cached JSON value under key, or runs
	// compute, stores its result for ttl and fills dest from that. A broken
	// cache degrades to computing every time; it never fails the read.
	GetOrCompute(ctx context.Context, key string, ttl time.Duration, dest any, compute ComputeFunc) error

	// Invalidate drops the given keys. Called synchronously after every
	// successful write so readers observe at most ttl of staleness.
	Invalidate(ctx context.Context, keys ...string) error
}

type redisCache struct {
	rdb redis.Cmdable
	log *logger.Logger
}

func NewRedisCache(rdb redis.Cmdable, log *logger.Logger) Cache {
	return &redisCache{
		rdb: rdb,
		log: log,
	}
}

func (c *redisCache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, dest any, compute ComputeFunc) error {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		if err := json.Unmarshal(data, dest); err == nil {
			return nil
		}
		c.log.Warn("Discarding undecodable cache entry", "key", key)
	} else if !errors.Is(err, redis.Nil) {
		c.log.Warn("Cache read failed, computing directly", "key", key, "error", err)
	}

	value, err := compute(ctx)
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if err := c.rdb.Set(ctx, key, encoded, ttl).Err(); err != nil {
		c.log.Warn("Cache write failed", "key", key, "error", err)
	}

	return json.Unmarshal(encoded, dest)
}

func (c *redisCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("Cache invalidation failed", "keys", keys, "error", err)
		return err
	}
	return nil
}
