package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/osamanazar47/alx-files-manager/internal/common"
	"github.com/osamanazar47/alx-files-manager/internal/dbx"
	"github.com/osamanazar47/alx-files-manager/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Enqueue(ctx context.Context, job *models.ThumbnailJob) (*models.ThumbnailJob, error) {
	query := `
		INSERT INTO thumbnail_jobs (user_id, file_id)
		VALUES ($1, $2)
		RETURNING id, status, created_at
	`
	err := r.db.QueryRowContext(ctx, query, job.UserID, job.FileID).Scan(&job.ID, &job.Status, &job.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return job, nil
}

func (r *PostgresRepository) ClaimNext(ctx context.Context, lease time.Duration) (*models.ThumbnailJob, error) {
	query := `
		SELECT id, user_id, file_id, attempts, created_at FROM thumbnail_jobs
		WHERE status = 'pending'
			OR (status = 'processing' AND updated_at < now() - make_interval(secs => $1))
		ORDER BY id
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	`
	job := &models.ThumbnailJob{}
	err := r.db.QueryRowContext(ctx, query, lease.Seconds()).Scan(&job.ID, &job.UserID, &job.FileID, &job.Attempts, &job.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	update := `
		UPDATE thumbnail_jobs SET status = 'processing', attempts = attempts + 1, updated_at = now()
		WHERE id = $1
		RETURNING attempts
	`
	if err := r.db.QueryRowContext(ctx, update, job.ID).Scan(&job.Attempts); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	job.Status = models.JobProcessing
	return job, nil
}

func (r *PostgresRepository) Complete(ctx context.Context, id int64) error {
	return r.finish(ctx, id, models.JobCompleted, "")
}

func (r *PostgresRepository) Fail(ctx context.Context, id int64, reason string) error {
	return r.finish(ctx, id, models.JobFailed, reason)
}

func (r *PostgresRepository) Release(ctx context.Context, id int64) error {
	query := `UPDATE thumbnail_jobs SET status = 'pending', updated_at = now() WHERE id = $1 AND status = 'processing'`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) finish(ctx context.Context, id int64, status models.JobStatus, reason string) error {
	query := `UPDATE thumbnail_jobs SET status = $2, last_error = $3, updated_at = now() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status, reason)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
