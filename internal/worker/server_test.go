package worker

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/snapstage/snapstage/internal/domain"
	"github.com/snapstage/snapstage/internal/pipeline"
	"github.com/snapstage/snapstage/internal/queue"
)

func TestRecordUsageWritesUsageLog(t *testing.T) {
	usageStore := &captureUsageStore{}
	s := &Server{
		logger:     log.New(io.Discard, "", 0),
		usageStore: usageStore,
		metrics:    newMetrics(),
	}

	payload := queue.RenderComposePayload{JobID: "job-1", UserID: "user-1"}
	s.recordUsage(context.Background(), payload, pipeline.Result{
		SourceBytes: 1_000,
		Outputs: []pipeline.Output{
			{Width: 10, Height: 10, Bytes: 300},
			{Width: 20, Height: 20, Bytes: 400},
		},
	}, 250*time.Millisecond)

	if !usageStore.called {
		t.Fatal("expected usage log to be written")
	}
	if usageStore.log.UserID != "user-1" {
		t.Fatalf("expected user_id=user-1, got %s", usageStore.log.UserID)
	}
	if usageStore.log.JobID != "job-1" {
		t.Fatalf("expected job_id=job-1, got %s", usageStore.log.JobID)
	}
	if usageStore.log.PixelsComposed != 500 {
		t.Fatalf("expected pixels_composed=500, got %d", usageStore.log.PixelsComposed)
	}
	if usageStore.log.BytesWritten != 700 {
		t.Fatalf("expected bytes_written=700, got %d", usageStore.log.BytesWritten)
	}
	if usageStore.log.ComputeTimeMS != 250 {
		t.Fatalf("expected compute_time_ms=250, got %d", usageStore.log.ComputeTimeMS)
	}
}

func TestRecordUsageDefaultsAnonymousUserAndMinimumCompute(t *testing.T) {
	usageStore := &captureUsageStore{}
	s := &Server{
		logger:     log.New(io.Discard, "", 0),
		usageStore: usageStore,
		metrics:    newMetrics(),
	}

	s.recordUsage(context.Background(), queue.RenderComposePayload{JobID: "job-2"}, pipeline.Result{
		SourceBytes: 100,
		Outputs: []pipeline.Output{
			{Width: 5, Height: 5, Bytes: 200},
		},
	}, 0)

	if usageStore.log.UserID != "anonymous" {
		t.Fatalf("expected user_id=anonymous, got %s", usageStore.log.UserID)
	}
	if usageStore.log.ComputeTimeMS < 1 {
		t.Fatalf("expected compute_time_ms to be at least 1, got %d", usageStore.log.ComputeTimeMS)
	}
}

func TestStepOutputsMapsEveryRender(t *testing.T) {
	result := pipeline.Result{
		Outputs: []pipeline.Output{
			{StepID: "hero", Format: "png", Path: "renders/job-1/hero.png", Bytes: 2048, Width: 2000, Height: 2000},
			{StepID: "social", Format: "jpeg", Path: "renders/job-1/social.jpeg", Bytes: 512, Width: 1001, Height: 563},
		},
	}

	outputs := stepOutputs(result)
	if len(outputs) != 2 {
		t.Fatalf("expected 2 webhook outputs, got %d", len(outputs))
	}
	for i, out := range outputs {
		src := result.Outputs[i]
		if out.StepID != src.StepID || out.Format != src.Format || out.Path != src.Path {
			t.Fatalf("output %d identity mismatch: %+v vs %+v", i, out, src)
		}
		if out.Bytes != src.Bytes || out.Width != src.Width || out.Height != src.Height {
			t.Fatalf("output %d size mismatch: %+v vs %+v", i, out, src)
		}
	}
}

type captureUsageStore struct {
	called bool
	log    domain.UsageLog
}

func (s *captureUsageStore) CreateUsageLog(_ context.Context, usage domain.UsageLog) error {
	s.called = true
	s.log = usage
	return nil
}
