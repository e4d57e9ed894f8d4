// Package worker drains the audit topic into the audit log collection. It is
// the consuming half of the recorder: services publish fire-and-forget, the
// worker makes events durable and queryable.
package worker

import (
	"context"
	"fmt"

	"roomly/internal/audit/repository"
	"roomly/pkg/audit"
	"roomly/pkg/kafka"
	kafka_config "roomly/pkg/kafka/config"
	"roomly/pkg/logger"
)

const consumerGroup = "roomly-audit-worker"

type Worker struct {
	consumer *kafka.Consumer
	log      *logger.Logger
}

func New(kafkaCfg *kafka_config.Config, repo repository.AuditLogRepository, log *logger.Logger) (*Worker, error) {
	handler := func(ctx context.Context, msg kafka.Message) error {
		var event audit.Event
		if err := msg.DecodeValue(&event); err != nil {
			return fmt.Errorf("undecodable audit event %s: %w", msg.GetEventID(), err)
		}

		if event.Action == "" || event.EntityID == "" {
			return fmt.Errorf("audit event %s missing action or entity", msg.GetEventID())
		}

		if err := repo.Insert(ctx, &event); err != nil {
			return err
		}

		log.Debug("Audit event persisted",
			"action", event.Action,
			"entity_type", event.EntityType,
			"entity_id", event.EntityID,
		)
		return nil
	}

	consumer, err := kafka.NewConsumer(kafkaCfg, audit.TopicEvents, consumerGroup, audit.TopicDLQ, handler, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create audit consumer: %w", err)
	}

	return &Worker{
		consumer: consumer,
		log:      log,
	}, nil
}

func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("Audit worker started", "topic", audit.TopicEvents, "group", consumerGroup)
	return w.consumer.Run(ctx)
}

func (w *Worker) Close() error {
	return w.consumer.Close()
}
