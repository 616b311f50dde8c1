package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	"github.com/snapstage/snapstage/internal/api"
	"github.com/snapstage/snapstage/internal/config"
	"github.com/snapstage/snapstage/internal/queue"
	"github.com/snapstage/snapstage/internal/ratelimit"
	"github.com/snapstage/snapstage/internal/storage"
	"github.com/snapstage/snapstage/internal/store"
	"github.com/snapstage/snapstage/internal/telemetry"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.Lmsgprefix)

	ctx := context.Background()

	shutdownTracing, err := telemetry.SetupTracing(ctx, telemetry.TraceConfig{
		ServiceName:  "snapstage-api",
		Exporter:     cfg.Telemetry.Exporter,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		OTLPInsecure: cfg.Telemetry.OTLPInsecure,
	}, logger)
	if err != nil {
		logger.Fatalf("tracing setup failed: %v", err)
	}

	queueClient := queue.NewClient(cfg.Queue.RedisClientOpt(), cfg.Queue.Name)
	defer func() {
		if err := queueClient.Close(); err != nil {
			logger.Printf("queue client close error: %v", err)
		}
	}()

	var jobStore store.JobStore
	if pgStore, err := store.NewPostgresJobStore(ctx, cfg.Database.DSN); err != nil {
		logger.Printf("postgres unavailable, using in-memory job store: %v", err)
		jobStore = store.NewMemoryJobStore()
	} else {
		defer pgStore.Close()
		jobStore = pgStore
	}

	storageClient, err := storage.NewClient(storage.Config{
		Endpoint: cfg.Storage.Endpoint,
		Access:   cfg.Storage.AccessKey,
		Secret:   cfg.Storage.SecretKey,
		Bucket:   cfg.Storage.Bucket,
		UseSSL:   cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Printf("object storage unavailable: %v", err)
		storageClient = nil
	}

	var app *api.Server
	if storageClient != nil {
		app = api.NewServer(logger, queueClient, jobStore, storageClient, cfg.API.PresignTTL)
	} else {
		app = api.NewServer(logger, queueClient, jobStore, nil, cfg.API.PresignTTL)
	}
	app.WithTracer(otel.Tracer("snapstage/api"))

	if cfg.RateLimit.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Queue.RedisAddr,
			Password: cfg.Queue.RedisPassword,
			DB:       cfg.Queue.RedisDB,
		})
		limiter, err := ratelimit.NewRedisTokenBucket(redisClient, cfg.RateLimit.Capacity, cfg.RateLimit.Window, "snapstage:ratelimit")
		if err != nil {
			logger.Fatalf("rate limiter setup failed: %v", err)
		}
		app.WithRateLimiter(limiter, cfg.RateLimit.UserIDHeader)
	}

	httpServer := &http.Server{
		Addr:         cfg.API.Addr,
		Handler:      app.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Printf("listening on %s", cfg.API.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Println("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Printf("tracing shutdown failed: %v", err)
	}
}
