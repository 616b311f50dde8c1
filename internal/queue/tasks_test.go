package queue

import (
	"testing"
	"time"

	"github.com/snapstage/snapstage/internal/domain"
)

func TestRenderComposeTaskRoundTrip(t *testing.T) {
	payload := RenderComposePayload{
		JobID:      "job-123",
		UserID:     "user-9",
		SourceType: "s3_presigned",
		ObjectKey:  "uploads/job-123/source",
		Steps: []domain.RenderStep{
			{
				ID:          "hero_tilt",
				Ratio:       "16:9",
				Perspective: &domain.PerspectiveSpec{Direction: "bottom-right"},
			},
		},
		RequestedAt: time.Now().UTC(),
	}

	task, err := NewRenderComposeTask(payload)
	if err != nil {
		t.Fatalf("NewRenderComposeTask returned error: %v", err)
	}
	if task.Type() != TypeRenderCompose {
		t.Fatalf("task type = %q, want %q", task.Type(), TypeRenderCompose)
	}

	parsed, err := ParseRenderComposePayload(task)
	if err != nil {
		t.Fatalf("ParseRenderComposePayload returned error: %v", err)
	}

	if parsed.JobID != payload.JobID {
		t.Fatalf("expected job_id %q, got %q", payload.JobID, parsed.JobID)
	}
	if len(parsed.Steps) != 1 {
		t.Fatalf("expected one render step, got %d", len(parsed.Steps))
	}
	if parsed.Steps[0].Perspective == nil || parsed.Steps[0].Perspective.Direction != "bottom-right" {
		t.Fatalf("perspective did not survive the round trip: %+v", parsed.Steps[0].Perspective)
	}
}
