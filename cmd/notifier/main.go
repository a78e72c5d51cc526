package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"stayledger/internal/notifications/worker"
	"stayledger/pkg/config"
	kafka_config "stayledger/pkg/kafka/config"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)
	defer cfg.GracefulShutdown()

	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	w, err := worker.NewWorker(kafkaCfg, cfg.BookingEventsTopic, cfg.BookingEventsDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create notification worker", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := w.Run(ctx); err != nil {
		cfg.Log.Fatal("Notification worker failed", "error", err)
	}
}
