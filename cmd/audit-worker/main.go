package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	auditrepo "roomly/internal/audit/repository"
	"roomly/internal/audit/worker"
	"roomly/pkg/config"
	kafka_config "roomly/pkg/kafka/config"
)

const ServiceName = "audit-worker"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	kafkaCfg := kafka_config.Load()

	w, err := worker.New(kafkaCfg, auditrepo.NewMongoAuditLogRepository(cfg), cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to start audit worker", "error", err)
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		cfg.Log.Fatal("Audit worker stopped", "error", err)
	}
	cfg.Log.Info("Audit worker shut down")
}
