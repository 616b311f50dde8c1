package webhook

import "time"

// Event names delivered in the X-Snapstage-Event header.
const (
	EventJobCompleted = "job.completed"
	EventJobFailed    = "job.failed"
)

// StepOutput is one rendered artifact reported back to the caller.
type StepOutput struct {
	StepID string `json:"step_id"`
	Format string `json:"format"`
	Path   string `json:"path"`
	Bytes  int    `json:"bytes"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// JobEvent is the payload for job.* callbacks: the job's identity, its
// terminal status, and either the per-step outputs or the failure reason.
type JobEvent struct {
	JobID       string       `json:"job_id"`
	Status      string       `json:"status"`
	SourceType  string       `json:"source_type"`
	ObjectKey   string       `json:"object_key"`
	RequestedAt time.Time    `json:"requested_at"`
	FinishedAt  time.Time    `json:"finished_at"`
	Outputs     []StepOutput `json:"outputs,omitempty"`
	Error       string       `json:"error,omitempty"`
}
