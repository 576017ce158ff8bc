package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/tripcomposer/api"
	"github.com/Domenick1991/tripcomposer/config"
	"github.com/Domenick1991/tripcomposer/internal/bootstrap"
	"github.com/Domenick1991/tripcomposer/internal/kafka"
	"github.com/Domenick1991/tripcomposer/internal/lock"
	"github.com/Domenick1991/tripcomposer/internal/logger"
	"github.com/Domenick1991/tripcomposer/internal/observability"
	"github.com/Domenick1991/tripcomposer/internal/service/composite"
	"github.com/Domenick1991/tripcomposer/internal/service/validation"
	"github.com/Domenick1991/tripcomposer/internal/upstream"
	"github.com/gin-gonic/gin"
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

	appLog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer appLog.Sync()

	if cfg.Env == "prod" || cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing, cfg.Env, appLog)
	if err != nil {
		appLog.Fatal("init tracing", "error", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			appLog.Warn("tracing shutdown", "error", err)
		}
	}()

	destinations := upstream.NewDestinationsClient(cfg.Upstreams.Destinations.BaseURL)
	pricing := upstream.NewPricingClient(cfg.Upstreams.Pricing.BaseURL)
	itineraries := upstream.NewItinerariesClient(cfg.Upstreams.Itineraries.BaseURL)

	opts := []composite.CompositeServiceOption{
		composite.WithPageLimit(cfg.Composite.PageLimit),
		composite.WithLogger(appLog.With("component", "composite")),
	}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, appLog.With("component", "kafka"))
		defer producer.Close()
		checkCtx, cancelCheck := context.WithTimeout(ctx, 5*time.Second)
		if err := producer.CheckConnection(checkCtx); err != nil {
			appLog.Warn("kafka unreachable, itinerary events will fail until it recovers", "brokers", cfg.Kafka.Brokers, "error", err)
		}
		cancelCheck()
		opts = append(opts, composite.WithEvents(producer, cfg.Kafka.EventsTopic))
	}

	service := composite.NewCompositeService(
		destinations,
		pricing,
		itineraries,
		validation.NewValidator(destinations, pricing),
		opts...,
	)

	routerCfg := api.RouterConfig{
		Service:        service,
		Log:            appLog,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	}
	if cfg.Tracing.Enabled {
		routerCfg.ServiceName = cfg.Tracing.ServiceName
	}
	if cfg.Redis.Addr != "" {
		locker := lock.NewRedisLocker(cfg.Redis, time.Duration(cfg.Idempotency.TTLSeconds)*time.Second)
		defer locker.Close()
		if err := locker.Ping(ctx); err != nil {
			appLog.Warn("redis unreachable, idempotency keys will fail until it recovers", "addr", cfg.Redis.Addr, "error", err)
		}
		routerCfg.Locker = locker
	}

	if err := bootstrap.Run(ctx, cfg, api.NewRouter(routerCfg), appLog); err != nil {
		appLog.Fatal("server error", "error", err)
	}
}
