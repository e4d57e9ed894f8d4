package client

import (
	"context"

	"roomly/pkg/logger"

	"github.com/redis/go-redis/v9"
)

type Client struct {
	Mongo *MongoClient
	Redis *redis.Client
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) SetRedis(log *logger.Logger, addr, password string, db int) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis", "error", err, "addr", addr)
	}

	log.Info("Successfully connected to Redis", "addr", addr)
	c.Redis = rdb
}

func (c *Client) Close(log *logger.Logger) {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn("Failed to close Redis client", "error", err)
		}
	}
	if c.Mongo != nil {
		c.Mongo.Close(log)
	}
}
