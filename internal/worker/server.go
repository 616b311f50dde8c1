package worker

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/snapstage/snapstage/internal/config"
	"github.com/snapstage/snapstage/internal/domain"
	"github.com/snapstage/snapstage/internal/pipeline"
	"github.com/snapstage/snapstage/internal/queue"
	"github.com/snapstage/snapstage/internal/storage"
	"github.com/snapstage/snapstage/internal/store"
	"github.com/snapstage/snapstage/internal/webhook"
)

type Server struct {
	logger          *log.Logger
	server          *asynq.Server
	sem             chan struct{}
	localProcessor  *pipeline.Processor
	objectProcessor *pipeline.Processor
	webhookClient   webhookSender
	jobStore        store.JobStore
	usageStore      store.UsageStore
	metrics         *metrics
	tracer          trace.Tracer
}

type webhookSender interface {
	Send(ctx context.Context, endpoint, event string, payload any) error
}

func NewServer(
	logger *log.Logger,
	queueCfg config.QueueConfig,
	workerCfg config.WorkerConfig,
	storageClient *storage.Client,
	webhookClient *webhook.Client,
	jobStore store.JobStore,
	usageStore store.UsageStore,
) (*Server, error) {
	if storageClient == nil {
		return nil, fmt.Errorf("storage client is required")
	}

	localProcessor, err := pipeline.NewLocalProcessor(workerCfg.LocalOutputDir)
	if err != nil {
		return nil, fmt.Errorf("initialize render processor: %w", err)
	}

	objectProcessor, err := pipeline.NewObjectStoreProcessor(
		pipeline.ObjectStoreFetcher{Storage: storageClient},
		pipeline.ObjectStoreEmitter{Storage: storageClient, OutputPrefix: workerCfg.OutputPrefix},
	)
	if err != nil {
		return nil, fmt.Errorf("initialize object-store processor: %w", err)
	}

	if usageStore == nil {
		if jobAndUsageStore, ok := jobStore.(store.UsageStore); ok {
			usageStore = jobAndUsageStore
		}
	}

	s := &Server{
		logger: logger,
		server: asynq.NewServer(
			queueCfg.RedisClientOpt(),
			asynq.Config{
				Concurrency: workerCfg.Concurrency,
				Queues: map[string]int{
					queueCfg.Name: 1,
				},
				LogLevel: asynq.InfoLevel,
				ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
					retried, _ := asynq.GetRetryCount(ctx)
					maxRetry, _ := asynq.GetMaxRetry(ctx)
					logger.Printf("task failed type=%s retry=%d/%d err=%v", task.Type(), retried, maxRetry, err)
				}),
			},
		),
		sem:             make(chan struct{}, max(1, workerCfg.MaxActiveJobs)),
		localProcessor:  localProcessor,
		objectProcessor: objectProcessor,
		webhookClient:   webhookClient,
		jobStore:        jobStore,
		usageStore:      usageStore,
		metrics:         newMetrics(),
		tracer:          otel.Tracer("snapstage/worker"),
	}
	return s, nil
}

func (s *Server) Run() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TypeRenderCompose, s.handleRenderCompose)
	return s.server.Run(mux)
}

func (s *Server) MetricsHandler() http.Handler {
	return s.metrics.Handler()
}

func (s *Server) handleRenderCompose(ctx context.Context, task *asynq.Task) error {
	startedAt := time.Now()
	outcome := domain.JobStatusFailed

	payload, err := queue.ParseRenderComposePayload(task)
	if err != nil {
		return fmt.Errorf("parse payload: %v: %w", err, asynq.SkipRetry)
	}

	ctx, span := s.tracer.Start(ctx, "worker.render_compose", trace.WithSpanKind(trace.SpanKindConsumer))
	span.SetAttributes(
		attribute.String("job.id", payload.JobID),
		attribute.String("job.source_type", payload.SourceType),
		attribute.Int("job.render_steps", len(payload.Steps)),
	)
	defer span.End()
	defer func() {
		s.metrics.jobDuration.WithLabelValues(payload.SourceType, outcome).Observe(time.Since(startedAt).Seconds())
		s.metrics.jobsTotal.WithLabelValues(payload.SourceType, outcome).Inc()
	}()

	s.sem <- struct{}{}
	s.metrics.activeJobs.Inc()
	defer func() {
		<-s.sem
		s.metrics.activeJobs.Dec()
	}()

	s.logger.Printf(
		"Working... job_id=%s source_type=%s outputs=%d object_key=%s",
		payload.JobID,
		payload.SourceType,
		len(payload.Steps),
		payload.ObjectKey,
	)

	s.updateJobStatus(ctx, payload.JobID, domain.JobStatusProcessing)

	request := pipeline.Request{
		JobID:      payload.JobID,
		SourceType: payload.SourceType,
		ObjectKey:  payload.ObjectKey,
		Steps:      payload.Steps,
	}

	var result pipeline.Result
	switch payload.SourceType {
	case domain.SourceTypeLocalFile:
		result, err = s.localProcessor.Process(ctx, request)
	default:
		result, err = s.objectProcessor.Process(ctx, request)
	}
	if err != nil {
		s.updateJobStatus(ctx, payload.JobID, domain.JobStatusFailed)
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		s.dispatchWebhook(ctx, payload, webhook.EventJobFailed, webhook.JobEvent{
			JobID:       payload.JobID,
			Status:      domain.JobStatusFailed,
			SourceType:  payload.SourceType,
			ObjectKey:   payload.ObjectKey,
			RequestedAt: payload.RequestedAt,
			FinishedAt:  time.Now().UTC(),
			Error:       err.Error(),
		})
		return fmt.Errorf("run render: %w", err)
	}

	s.logger.Printf("Composed job_id=%s outputs=%d", payload.JobID, len(result.Outputs))
	s.updateJobStatus(ctx, payload.JobID, domain.JobStatusSucceeded)
	s.metrics.renderOutputsTotal.Add(float64(len(result.Outputs)))
	s.recordUsage(ctx, payload, result, time.Since(startedAt))

	if err := s.dispatchWebhook(ctx, payload, webhook.EventJobCompleted, webhook.JobEvent{
		JobID:       payload.JobID,
		Status:      domain.JobStatusSucceeded,
		SourceType:  payload.SourceType,
		ObjectKey:   payload.ObjectKey,
		RequestedAt: payload.RequestedAt,
		FinishedAt:  time.Now().UTC(),
		Outputs:     stepOutputs(result),
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "webhook dispatch failed")
		return err
	}

	outcome = domain.JobStatusSucceeded
	span.SetStatus(codes.Ok, "composed")
	return nil
}

func (s *Server) updateJobStatus(ctx context.Context, jobID, status string) {
	if s.jobStore == nil {
		return
	}
	if _, err := s.jobStore.UpdateStatus(ctx, jobID, status); err != nil {
		s.logger.Printf("job status update failed job_id=%s status=%s err=%v", jobID, status, err)
	}
}

func stepOutputs(result pipeline.Result) []webhook.StepOutput {
	outputs := make([]webhook.StepOutput, 0, len(result.Outputs))
	for _, out := range result.Outputs {
		outputs = append(outputs, webhook.StepOutput{
			StepID: out.StepID,
			Format: out.Format,
			Path:   out.Path,
			Bytes:  out.Bytes,
			Width:  out.Width,
			Height: out.Height,
		})
	}
	return outputs
}

func (s *Server) dispatchWebhook(ctx context.Context, payload queue.RenderComposePayload, event string, body webhook.JobEvent) error {
	if payload.WebhookURL == "" || s.webhookClient == nil {
		return nil
	}

	if err := s.webhookClient.Send(ctx, payload.WebhookURL, event, body); err != nil {
		s.logger.Printf("webhook delivery failed job_id=%s event=%s err=%v", payload.JobID, event, err)
		return fmt.Errorf("dispatch webhook: %w", err)
	}

	return nil
}

func (s *Server) recordUsage(ctx context.Context, payload queue.RenderComposePayload, result pipeline.Result, computeDuration time.Duration) {
	if s.usageStore == nil {
		return
	}

	userID := strings.TrimSpace(payload.UserID)
	if userID == "" {
		userID = "anonymous"
	}

	pixelsComposed := result.PixelsComposed()
	bytesWritten := result.BytesWritten()

	computeTimeMS := computeDuration.Milliseconds()
	if computeTimeMS < 1 {
		computeTimeMS = 1
	}

	usage := domain.UsageLog{
		UserID:         userID,
		JobID:          payload.JobID,
		PixelsComposed: pixelsComposed,
		BytesWritten:   bytesWritten,
		ComputeTimeMS:  computeTimeMS,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.usageStore.CreateUsageLog(ctx, usage); err != nil {
		s.logger.Printf("usage log write failed job_id=%s err=%v", payload.JobID, err)
		return
	}

	s.metrics.pixelsComposedTotal.Add(float64(pixelsComposed))
	s.metrics.bytesWrittenTotal.Add(float64(bytesWritten))
	s.metrics.computeTimeMSTotal.Add(float64(computeTimeMS))
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
