package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/snapstage/snapstage/internal/domain"
)

func TestMemoryJobStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryJobStore()

	job := domain.Job{
		ID:         "job-1",
		UserID:     "user-1",
		Status:     domain.JobStatusCreated,
		SourceType: domain.SourceTypeLocalFile,
		ObjectKey:  "captures/job-1.png",
		Steps:      []domain.RenderStep{{ID: "social_wide", Ratio: "16:9"}},
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	if err := s.Create(ctx, job); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, ok, err := s.Get(ctx, "job-1")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.UserID != "user-1" || len(got.Steps) != 1 {
		t.Fatalf("unexpected job: %+v", got)
	}

	updated, err := s.UpdateStatus(ctx, "job-1", domain.JobStatusQueued)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != domain.JobStatusQueued {
		t.Fatalf("status = %q, want queued", updated.Status)
	}

	if _, _, err := s.Get(ctx, "missing"); err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if _, err := s.UpdateStatus(ctx, "missing", domain.JobStatusFailed); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("err = %v, want ErrJobNotFound", err)
	}
}
