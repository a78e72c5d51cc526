// Package worker runs the Kafka consumer loop that feeds the notifier.
package worker

import (
	"context"
	"errors"
	"fmt"

	"stayledger/internal/notifications/notifier"
	"stayledger/pkg/kafka"
	kafka_config "stayledger/pkg/kafka/config"
	kafka_middleware "stayledger/pkg/kafka/middleware"
	"stayledger/pkg/logger"
)

const ConsumerGroupID = "stayledger-notifications"

type Worker struct {
	consumer *kafka.Consumer
	log      *logger.Logger
}

func NewWorker(kafkaCfg *kafka_config.Config, topic, dlqTopic string, log *logger.Logger) (*Worker, error) {
	n := notifier.NewNotifier(log)

	consumer, err := kafka.NewConsumer(kafkaCfg, topic, ConsumerGroupID, dlqTopic, n.Handle)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	if kafkaCfg.EnableMiddleware {
		consumer.Use(kafka_middleware.LoggingConsumerMiddleware())
		consumer.Use(kafka_middleware.MetricsConsumerMiddleware())
	}

	return &Worker{
		consumer: consumer,
		log:      log,
	}, nil
}

// Run consumes until the context is cancelled, then closes the consumer.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("Notification worker started", "group_id", ConsumerGroupID)

	err := w.consumer.Start(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		w.log.Error("Notification worker stopped with error", "error", err)
	}

	if closeErr := w.consumer.Close(); closeErr != nil {
		w.log.Error("Failed to close consumer", "error", closeErr)
	}

	w.log.Info("Notification worker stopped", "lag", w.consumer.Lag())

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
