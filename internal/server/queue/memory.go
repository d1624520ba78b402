package queue

import (
	"context"
	"sync"
	"time"

	"github.com/osamanazar47/alx-files-manager/internal/server/models"
)

// MemoryQueue is an unbounded in-process FIFO. Jobs are lost on restart.
type MemoryQueue struct {
	mu      sync.Mutex
	nextID  int64
	pending []*models.ThumbnailJob
	done    map[int64]*models.ThumbnailJob
	notify  chan struct{}
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{
		done:   make(map[int64]*models.ThumbnailJob),
		notify: make(chan struct{}, 1),
	}
}

func (q *MemoryQueue) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

func (q *MemoryQueue) Enqueue(ctx context.Context, job models.ThumbnailJob) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	q.mu.Lock()
	q.nextID++
	q.pending = append(q.pending, &models.ThumbnailJob{
		ID:        q.nextID,
		UserID:    job.UserID,
		FileID:    job.FileID,
		Status:    models.JobPending,
		CreatedAt: time.Now().UTC(),
	})
	q.mu.Unlock()
	q.signal()
	return nil
}

func (q *MemoryQueue) Dequeue(ctx context.Context) (*models.ThumbnailJob, error) {
	for {
		q.mu.Lock()
		if len(q.pending) > 0 {
			job := q.pending[0]
			q.pending = q.pending[1:]
			remaining := len(q.pending)
			q.mu.Unlock()

			if remaining > 0 {
				q.signal()
			}
			job.Status = models.JobProcessing
			job.Attempts++
			return job, nil
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-q.notify:
		}
	}
}

func (q *MemoryQueue) Complete(_ context.Context, job *models.ThumbnailJob) error {
	return q.finish(job, models.JobCompleted, "")
}

func (q *MemoryQueue) Fail(_ context.Context, job *models.ThumbnailJob, reason string) error {
	return q.finish(job, models.JobFailed, reason)
}

// Release puts job back at the head of the queue.
func (q *MemoryQueue) Release(_ context.Context, job *models.ThumbnailJob) error {
	q.mu.Lock()
	c := *job
	c.Status = models.JobPending
	q.pending = append([]*models.ThumbnailJob{&c}, q.pending...)
	q.mu.Unlock()
	q.signal()
	return nil
}

func (q *MemoryQueue) finish(job *models.ThumbnailJob, status models.JobStatus, reason string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	c := *job
	c.Status = status
	c.LastError = reason
	q.done[job.ID] = &c
	return nil
}

// Len returns the number of jobs waiting to be dequeued.
func (q *MemoryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Finished returns the final state of a completed or failed job.
func (q *MemoryQueue) Finished(id int64) (*models.ThumbnailJob, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	j, ok := q.done[id]
	if !ok {
		return nil, false
	}
	c := *j
	return &c, true
}
