package main

import (
	"context"
	"time"

	mongoMigration "roomly/internal/migrations/mongo"
	"roomly/pkg/config"
)

const JobName = "mongo-migration"

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Mongo migration job")
	if err := mongoMigration.RunMigration(ctx, cfg.Client.Mongo.Client, cfg.MongoDatabaseName); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}
	cfg.Log.Info("Migration completed successfully")
}
