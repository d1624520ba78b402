// Package queue carries thumbnail jobs from the upload path to the worker.
package queue

import (
	"context"

	"github.com/osamanazar47/alx-files-manager/internal/server/models"
)

// Publisher is the producer side. Only UserID and FileID of job are used.
type Publisher interface {
	Enqueue(ctx context.Context, job models.ThumbnailJob) error
}

// Queue is the full job lifecycle used by the worker. Dequeue blocks until
// a job is available or ctx is done. Release hands an unfinished job back
// so another Dequeue can pick it up.
type Queue interface {
	Publisher
	Dequeue(ctx context.Context) (*models.ThumbnailJob, error)
	Complete(ctx context.Context, job *models.ThumbnailJob) error
	Fail(ctx context.Context, job *models.ThumbnailJob, reason string) error
	Release(ctx context.Context, job *models.ThumbnailJob) error
}
