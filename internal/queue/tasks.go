package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/snapstage/snapstage/internal/domain"
)

const TypeRenderCompose = "render:compose"

type RenderComposePayload struct {
	JobID       string              `json:"job_id"`
	UserID      string              `json:"user_id,omitempty"`
	SourceType  string              `json:"source_type"`
	WebhookURL  string              `json:"webhook_url,omitempty"`
	ObjectKey   string              `json:"object_key"`
	Steps       []domain.RenderStep `json:"steps"`
	RequestedAt time.Time           `json:"requested_at"`
}

func NewRenderComposeTask(payload RenderComposePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal render payload: %w", err)
	}
	return asynq.NewTask(TypeRenderCompose, body), nil
}

func ParseRenderComposePayload(task *asynq.Task) (RenderComposePayload, error) {
	var payload RenderComposePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return RenderComposePayload{}, fmt.Errorf("unmarshal render payload: %w", err)
	}
	return payload, nil
}
