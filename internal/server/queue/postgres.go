package queue

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/osamanazar47/alx-files-manager/internal/common"
	"github.com/osamanazar47/alx-files-manager/internal/dbx"
	"github.com/osamanazar47/alx-files-manager/internal/logging"
	"github.com/osamanazar47/alx-files-manager/internal/server/models"
	"github.com/osamanazar47/alx-files-manager/internal/server/repositories/jobs"
)

// PostgresQueue keeps jobs in the thumbnail_jobs table so the API and the
// worker can run as separate processes. Claiming uses SKIP LOCKED, so any
// number of workers may poll the same table. A job left processing for
// longer than lease is claimed again, so a crashed worker does not strand it.
type PostgresQueue struct {
	db           *sql.DB
	pollInterval time.Duration
	lease        time.Duration
	log          logging.Logger
	repo         func(dbx.DBTX) jobs.Repository
}

func NewPostgresQueue(db *sql.DB, pollInterval, lease time.Duration, log logging.Logger) *PostgresQueue {
	return &PostgresQueue{
		db:           db,
		pollInterval: pollInterval,
		lease:        lease,
		log:          log.With("module", "queue"),
		repo: func(db dbx.DBTX) jobs.Repository {
			return jobs.NewPostgresRepository(db)
		},
	}
}

func (q *PostgresQueue) Enqueue(ctx context.Context, job models.ThumbnailJob) error {
	stored, err := q.repo(q.db).Enqueue(ctx, &job)
	if err != nil {
		return err
	}
	q.log.Debug(ctx, "job enqueued", "job_id", stored.ID, "file_id", stored.FileID)
	return nil
}

// Dequeue claims the oldest pending or expired job, polling while there is
// none.
func (q *PostgresQueue) Dequeue(ctx context.Context) (*models.ThumbnailJob, error) {
	for {
		var job *models.ThumbnailJob
		err := dbx.WithTx(ctx, q.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			var err error
			job, err = q.repo(tx).ClaimNext(ctx, q.lease)
			return err
		})
		if err == nil {
			if job.Attempts > 1 {
				q.log.Warn(ctx, "job reclaimed", "job_id", job.ID, "attempts", job.Attempts)
			}
			return job, nil
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(q.pollInterval):
		}
	}
}

func (q *PostgresQueue) Complete(ctx context.Context, job *models.ThumbnailJob) error {
	return q.repo(q.db).Complete(ctx, job.ID)
}

func (q *PostgresQueue) Fail(ctx context.Context, job *models.ThumbnailJob, reason string) error {
	return q.repo(q.db).Fail(ctx, job.ID, reason)
}

func (q *PostgresQueue) Release(ctx context.Context, job *models.ThumbnailJob) error {
	return q.repo(q.db).Release(ctx, job.ID)
}
