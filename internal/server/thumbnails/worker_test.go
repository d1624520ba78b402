package thumbnails

import (
	"bytes"
	"context"
	"image"
	"testing"
	"time"

	"github.com/osamanazar47/alx-files-manager/internal/logging"
	"github.com/osamanazar47/alx-files-manager/internal/metrics"
	"github.com/osamanazar47/alx-files-manager/internal/server/content"
	"github.com/osamanazar47/alx-files-manager/internal/server/models"
	"github.com/osamanazar47/alx-files-manager/internal/server/queue"
	"github.com/osamanazar47/alx-files-manager/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	rm     *repomanager.MemoryRepositoryManager
	store  *content.MemoryStore
	queue  *queue.MemoryQueue
	worker *Worker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		rm:    repomanager.NewMemoryRepositoryManager(),
		store: content.NewMemoryStore(),
		queue: queue.NewMemoryQueue(),
	}
	f.worker = NewWorker(f.queue, nil, f.rm, f.store, logging.NewNop(), metrics.New(), 2)
	return f
}

func (f *fixture) addImage(t *testing.T, owner string, data []byte) *models.FileNode {
	t.Helper()
	ctx := context.Background()
	ref, err := f.store.Write(ctx, data)
	require.NoError(t, err)
	n, err := f.rm.Files(nil).Create(ctx, &models.FileNode{
		ID: "img-" + ref[:8], UserID: owner, Name: "a.png", Type: models.FileTypeImage, ContentRef: ref,
	})
	require.NoError(t, err)
	return n
}

func TestProcess_WritesAllSizes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	node := f.addImage(t, "u1", encodePNG(t, 1000, 500))

	require.NoError(t, f.worker.Process(ctx, &models.ThumbnailJob{UserID: "u1", FileID: node.ID}))

	for _, size := range Sizes {
		data, err := f.store.Read(ctx, content.DerivedRef(node.ContentRef, size))
		require.NoError(t, err, "size %d", size)
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, size, cfg.Width)
		assert.Equal(t, size/2, cfg.Height)
	}
}

func TestProcess_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	node := f.addImage(t, "u1", encodePNG(t, 10, 10))
	broken := f.addImage(t, "u1", []byte("definitely not a png"))

	tests := []struct {
		name string
		job  models.ThumbnailJob
		want error
	}{
		{"missing file id", models.ThumbnailJob{UserID: "u1"}, ErrMissingFileID},
		{"missing file id checked first", models.ThumbnailJob{}, ErrMissingFileID},
		{"missing user id", models.ThumbnailJob{FileID: node.ID}, ErrMissingUserID},
		{"unknown file", models.ThumbnailJob{UserID: "u1", FileID: "nope"}, ErrFileNotFound},
		{"wrong owner", models.ThumbnailJob{UserID: "u2", FileID: node.ID}, ErrFileNotFound},
		{"undecodable", models.ThumbnailJob{UserID: "u1", FileID: broken.ID}, ErrThumbnailGeneration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.worker.Process(ctx, &tt.job)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestProcess_TallImageFailsJobWithoutCrashing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	node := f.addImage(t, "u1", encodePNG(t, 1, 400))

	err := f.worker.Process(ctx, &models.ThumbnailJob{UserID: "u1", FileID: node.ID})
	assert.ErrorIs(t, err, ErrThumbnailGeneration)
	assert.ErrorIs(t, err, ErrImageTooLarge)

	ok, err := f.store.Exists(ctx, content.DerivedRef(node.ContentRef, 500))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProcess_MissingOriginal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	n, err := f.rm.Files(nil).Create(ctx, &models.FileNode{
		ID: "img", UserID: "u1", Name: "a.png", Type: models.FileTypeImage, ContentRef: "gone",
	})
	require.NoError(t, err)

	err = f.worker.Process(ctx, &models.ThumbnailJob{UserID: "u1", FileID: n.ID})
	assert.ErrorIs(t, err, ErrThumbnailGeneration)
	assert.ErrorIs(t, err, content.ErrContentNotFound)
}

func TestRun_ConsumesQueueAndRecordsOutcome(t *testing.T) {
	f := newFixture(t)
	node := f.addImage(t, "u1", encodePNG(t, 600, 300))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.worker.Run(ctx)
		close(done)
	}()

	require.NoError(t, f.queue.Enqueue(ctx, models.ThumbnailJob{UserID: "u1", FileID: node.ID}))
	require.NoError(t, f.queue.Enqueue(ctx, models.ThumbnailJob{UserID: "u1", FileID: "missing"}))

	require.Eventually(t, func() bool {
		_, ok1 := f.queue.Finished(1)
		_, ok2 := f.queue.Finished(2)
		return ok1 && ok2
	}, 5*time.Second, 10*time.Millisecond)

	ok, err := f.store.Exists(context.Background(), content.DerivedRef(node.ContentRef, 100))
	require.NoError(t, err)
	assert.True(t, ok)

	good, _ := f.queue.Finished(1)
	assert.Equal(t, models.JobCompleted, good.Status)
	bad, _ := f.queue.Finished(2)
	assert.Equal(t, models.JobFailed, bad.Status)
	assert.Equal(t, "File not found", bad.LastError)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}

// cancelOnRead cancels the job context while the original is being read,
// as a shutdown signal arriving mid-job would.
type cancelOnRead struct {
	*content.MemoryStore
	cancel context.CancelFunc
}

func (s *cancelOnRead) Read(ctx context.Context, ref string) ([]byte, error) {
	s.cancel()
	return nil, ctx.Err()
}

func TestHandle_CancelledJobIsReleasedNotFailed(t *testing.T) {
	f := newFixture(t)
	node := f.addImage(t, "u1", encodePNG(t, 10, 10))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := NewWorker(f.queue, nil, f.rm, &cancelOnRead{MemoryStore: f.store, cancel: cancel}, logging.NewNop(), nil, 1)

	require.NoError(t, f.queue.Enqueue(ctx, models.ThumbnailJob{UserID: "u1", FileID: node.ID}))
	job, err := f.queue.Dequeue(ctx)
	require.NoError(t, err)

	w.handle(ctx, w.log, job)

	_, finished := f.queue.Finished(job.ID)
	assert.False(t, finished, "an interrupted job must not be recorded as failed")
	assert.Equal(t, 1, f.queue.Len())

	again, err := f.queue.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, job.ID, again.ID)
	require.NoError(t, f.worker.Process(context.Background(), again))
}
