package models

import "time"

// JobStatus tracks a thumbnail job inside the persistent queue.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// ThumbnailJob asks the worker to derive resized variants of an image.
// The payload is {UserID, FileID}; ID and Attempts are queue bookkeeping.
type ThumbnailJob struct {
	ID       int64
	UserID   string
	FileID   string
	Attempts int

	Status    JobStatus
	LastError string
	CreatedAt time.Time
}
