// Package jobs stores thumbnail jobs for the persistent queue.
package jobs

import (
	"context"
	"time"

	"github.com/osamanazar47/alx-files-manager/internal/server/models"
)

type Repository interface {
	Enqueue(ctx context.Context, job *models.ThumbnailJob) (*models.ThumbnailJob, error)
	// ClaimNext locks the oldest claimable job, marks it processing and
	// returns it. A job is claimable when it is pending, or when it has been
	// processing for longer than lease (its worker is presumed dead). It must
	// run inside a transaction. With nothing claimable it returns
	// common.ErrorNotFound.
	ClaimNext(ctx context.Context, lease time.Duration) (*models.ThumbnailJob, error)
	Complete(ctx context.Context, id int64) error
	Fail(ctx context.Context, id int64, reason string) error
	// Release puts a processing job back to pending without recording an
	// outcome.
	Release(ctx context.Context, id int64) error
}
