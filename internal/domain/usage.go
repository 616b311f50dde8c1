package domain

import "time"

// UsageLog records the metered cost of one completed render job.
type UsageLog struct {
	UserID         string
	JobID          string
	PixelsComposed int64
	BytesWritten   int64
	ComputeTimeMS  int64
	CreatedAt      time.Time
}
