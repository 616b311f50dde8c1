package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/snapstage/snapstage/internal/config"
	"github.com/snapstage/snapstage/internal/export"
	"github.com/snapstage/snapstage/internal/storage"
	"github.com/snapstage/snapstage/internal/store"
	"github.com/snapstage/snapstage/internal/telemetry"
	"github.com/snapstage/snapstage/internal/webhook"
	"github.com/snapstage/snapstage/internal/worker"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "[worker] ", log.LstdFlags|log.Lmsgprefix)

	ctx := context.Background()

	shutdownTracing, err := telemetry.SetupTracing(ctx, telemetry.TraceConfig{
		ServiceName:  "snapstage-worker",
		Exporter:     cfg.Telemetry.Exporter,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		OTLPInsecure: cfg.Telemetry.OTLPInsecure,
	}, logger)
	if err != nil {
		logger.Fatalf("tracing setup failed: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Printf("tracing shutdown failed: %v", err)
		}
	}()

	if err := export.Startup(); err != nil {
		logger.Fatalf("encoder startup failed: %v", err)
	}
	defer export.Shutdown()

	storageClient, err := storage.NewClient(storage.Config{
		Endpoint: cfg.Storage.Endpoint,
		Access:   cfg.Storage.AccessKey,
		Secret:   cfg.Storage.SecretKey,
		Bucket:   cfg.Storage.Bucket,
		UseSSL:   cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatalf("storage client setup failed: %v", err)
	}
	if err := storageClient.EnsureBucket(ctx); err != nil {
		logger.Printf("ensure bucket failed: %v", err)
	}

	var jobStore store.JobStore
	var usageStore store.UsageStore
	if pgStore, err := store.NewPostgresJobStore(ctx, cfg.Database.DSN); err != nil {
		logger.Printf("postgres unavailable, using in-memory job store: %v", err)
		jobStore = store.NewMemoryJobStore()
	} else {
		defer pgStore.Close()
		jobStore = pgStore
		usageStore = pgStore
	}

	webhookClient := webhook.NewClient(webhook.Config{
		SigningSecret:  cfg.Webhook.SigningSecret,
		Timeout:        cfg.Webhook.Timeout,
		MaxAttempts:    cfg.Webhook.MaxAttempts,
		InitialBackoff: cfg.Webhook.InitialBackoff,
		MaxBackoff:     cfg.Webhook.MaxBackoff,
	})

	logger.Printf(
		"starting worker concurrency=%d max_active_jobs=%d queue=%s redis=%s",
		cfg.Worker.Concurrency,
		cfg.Worker.MaxActiveJobs,
		cfg.Queue.Name,
		cfg.Queue.RedisAddr,
	)

	srv, err := worker.NewServer(logger, cfg.Queue, cfg.Worker, storageClient, webhookClient, jobStore, usageStore)
	if err != nil {
		logger.Fatalf("worker setup failed: %v", err)
	}

	go func() {
		metricsServer := &http.Server{
			Addr:         cfg.Worker.MetricsAddr,
			Handler:      srv.MetricsHandler(),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		logger.Printf("metrics listening on %s", cfg.Worker.MetricsAddr)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Printf("metrics server failed: %v", err)
		}
	}()

	if err := srv.Run(); err != nil {
		logger.Fatalf("worker failed: %v", err)
	}
}
