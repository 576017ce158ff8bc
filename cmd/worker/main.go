package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/tripcomposer/config"
	"github.com/Domenick1991/tripcomposer/internal/kafka"
	"github.com/Domenick1991/tripcomposer/internal/logger"
	"github.com/Domenick1991/tripcomposer/internal/reconcile"
	"github.com/Domenick1991/tripcomposer/internal/upstream"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	workerLog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer workerLog.Sync()

	if len(cfg.Kafka.Brokers) == 0 {
		workerLog.Fatal("kafka.brokers is empty, nothing to consume")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	itineraries := upstream.NewItinerariesClient(cfg.Upstreams.Itineraries.BaseURL)
	reconciler := reconcile.NewReconciler(itineraries, cfg.Worker.ReconcileOrphans, workerLog)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.EventsTopic, workerLog.With("component", "consumer"))
	defer consumer.Close()

	workerLog.Info("worker started",
		"topic", cfg.Kafka.EventsTopic,
		"group_id", cfg.Kafka.GroupID,
		"reconcile_orphans", cfg.Worker.ReconcileOrphans,
	)

	// An uncommitted event is redelivered once the worker restarts.
	err = consumer.Consume(ctx, reconciler.Handle)
	if err != nil && !errors.Is(err, context.Canceled) {
		consumer.Close()
		workerLog.Fatal("consumer stopped", "error", err)
	}
	workerLog.Info("worker stopped")
}
