package client

import (
	"context"
	"time"

	"roomly/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoClient struct {
	Client *mongo.Client
}

func (c *Client) SetMongo(log *logger.Logger, mongoURI string, connTimeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), connTimeout)
	defer cancel()

	mc, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	if err := mc.Ping(ctx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB", "error", err)
	}

	log.Info("Successfully connected to MongoDB")
	c.Mongo = &MongoClient{Client: mc}
}

func (m *MongoClient) Close(log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		log.Warn("Failed to disconnect from MongoDB", "error", err)
	}
}
