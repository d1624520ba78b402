// Package thumbnails consumes thumbnail jobs and writes resized variants
// of uploaded images next to their originals.
package thumbnails

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/osamanazar47/alx-files-manager/internal/common"
	"github.com/osamanazar47/alx-files-manager/internal/logging"
	"github.com/osamanazar47/alx-files-manager/internal/metrics"
	"github.com/osamanazar47/alx-files-manager/internal/server/content"
	"github.com/osamanazar47/alx-files-manager/internal/server/models"
	"github.com/osamanazar47/alx-files-manager/internal/server/queue"
	"github.com/osamanazar47/alx-files-manager/internal/server/repositories/repomanager"
)

// Sizes are the variant widths, generated in this order.
var Sizes = []int{500, 250, 100}

var (
	ErrMissingFileID       = errors.New("Missing fileId")
	ErrMissingUserID       = errors.New("Missing userId")
	ErrFileNotFound        = errors.New("File not found")
	ErrThumbnailGeneration = errors.New("thumbnail generation failed")
)

// dequeueBackoff is the pause after a queue error other than cancellation.
var dequeueBackoff = time.Second

type Worker struct {
	queue       queue.Queue
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	content     content.Store
	log         logging.Logger
	metrics     *metrics.Metrics
	concurrency int
}

func NewWorker(q queue.Queue, db *sql.DB, m repomanager.RepositoryManager, store content.Store, log logging.Logger, mtr *metrics.Metrics, concurrency int) *Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Worker{
		queue:       q,
		db:          db,
		repomanager: m,
		content:     store,
		log:         log.With("module", "thumbnails"),
		metrics:     mtr,
		concurrency: concurrency,
	}
}

// Run consumes jobs with the configured parallelism until ctx is done.
func (w *Worker) Run(ctx context.Context) {
	w.log.Info(ctx, "thumbnail worker started", "concurrency", w.concurrency)

	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			w.consume(ctx, id)
		}(i)
	}
	wg.Wait()

	w.log.Info(context.WithoutCancel(ctx), "thumbnail worker stopped")
}

func (w *Worker) consume(ctx context.Context, id int) {
	log := w.log.With("consumer", id)
	for {
		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error(ctx, "dequeue failed", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(dequeueBackoff):
			}
			continue
		}
		w.handle(ctx, log, job)
	}
}

// handle processes one job and records its outcome. A job interrupted by
// cancellation is released back to the queue instead of being failed.
func (w *Worker) handle(ctx context.Context, log logging.Logger, job *models.ThumbnailJob) {
	start := time.Now()
	err := w.Process(ctx, job)
	finishCtx := context.WithoutCancel(ctx)

	if err != nil && ctx.Err() != nil {
		log.Warn(finishCtx, "thumbnail job interrupted, releasing", "job_id", job.ID, "file_id", job.FileID, "error", err)
		if rerr := w.queue.Release(finishCtx, job); rerr != nil {
			log.Error(finishCtx, "failed to release job", "job_id", job.ID, "error", rerr)
		}
		return
	}
	if err != nil {
		w.metrics.JobProcessed(string(models.JobFailed), time.Since(start))
		log.Error(ctx, "thumbnail job failed", "job_id", job.ID, "file_id", job.FileID, "error", err)
		if ferr := w.queue.Fail(finishCtx, job, err.Error()); ferr != nil {
			log.Error(ctx, "failed to record job failure", "job_id", job.ID, "error", ferr)
		}
		return
	}

	w.metrics.JobProcessed(string(models.JobCompleted), time.Since(start))
	log.Info(ctx, "thumbnails generated", "job_id", job.ID, "file_id", job.FileID)
	if cerr := w.queue.Complete(finishCtx, job); cerr != nil {
		log.Error(ctx, "failed to record job completion", "job_id", job.ID, "error", cerr)
	}
}

// Process generates every size in Sizes for the job's image. Variants
// written before a failure are kept.
func (w *Worker) Process(ctx context.Context, job *models.ThumbnailJob) error {
	if job.FileID == "" {
		return ErrMissingFileID
	}
	if job.UserID == "" {
		return ErrMissingUserID
	}

	node, err := w.repomanager.Files(w.db).GetByIDAndOwner(ctx, job.FileID, job.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return ErrFileNotFound
		}
		return fmt.Errorf("%w: load file: %v", ErrThumbnailGeneration, err)
	}

	original, err := w.content.Read(ctx, node.ContentRef)
	if err != nil {
		return fmt.Errorf("%w: read original: %w", ErrThumbnailGeneration, err)
	}
	img, err := Decode(original)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrThumbnailGeneration, err)
	}

	for _, size := range Sizes {
		data, err := img.Resize(size)
		if err != nil {
			return fmt.Errorf("%w: size %d: %w", ErrThumbnailGeneration, size, err)
		}
		if err := w.content.WriteAt(ctx, content.DerivedRef(node.ContentRef, size), data); err != nil {
			return fmt.Errorf("%w: size %d: %w", ErrThumbnailGeneration, size, err)
		}
	}
	return nil
}
