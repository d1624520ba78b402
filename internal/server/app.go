// Package server wires configuration, storage backends and services into
// the API process and the thumbnail worker process, and runs them until a
// termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/osamanazar47/alx-files-manager/internal/logging"
	"github.com/osamanazar47/alx-files-manager/internal/metrics"
	"github.com/osamanazar47/alx-files-manager/internal/server/config"
	"github.com/osamanazar47/alx-files-manager/internal/server/content"
	"github.com/osamanazar47/alx-files-manager/internal/server/httpapi"
	"github.com/osamanazar47/alx-files-manager/internal/server/queue"
	"github.com/osamanazar47/alx-files-manager/internal/server/repositories/repomanager"
	"github.com/osamanazar47/alx-files-manager/internal/server/services"
	"github.com/osamanazar47/alx-files-manager/internal/server/sessions"
	"github.com/osamanazar47/alx-files-manager/internal/server/thumbnails"
)

const sessionGCInterval = 10 * time.Minute

// openPostgres is a seam so tests can run without a database.
var openPostgres = repomanager.OpenPostgres

// core holds what the API and the worker both need.
type core struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	repos    repomanager.RepositoryManager
	metadata services.Pinger
	content  content.Store
	queue    queue.Queue
	metrics  *metrics.Metrics
}

func newCore(ctx context.Context, cfg *config.Config) (*core, error) {
	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}
	c := &core{config: cfg, logger: logger}
	if cfg.MetricsEnabled {
		c.metrics = metrics.New()
	}

	if err := c.openMetadata(ctx); err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := c.openContent(ctx); err != nil {
		c.close()
		return nil, fmt.Errorf("content store init error: %w", err)
	}
	c.openQueue()
	return c, nil
}

func (c *core) openMetadata(ctx context.Context) error {
	switch c.config.MetadataBackend {
	case config.BackendMemory:
		rm := repomanager.NewMemoryRepositoryManager()
		c.repos, c.metadata = rm, rm
		c.logger.Warn(ctx, "using in-memory metadata, nothing survives a restart")
		return nil
	case config.BackendPostgres:
		db, err := openPostgres(ctx, c.config.DatabaseDSN)
		if err != nil {
			return err
		}
		rm := repomanager.NewPostgresRepositoryManager()
		if err := rm.RunMigrations(ctx, db); err != nil {
			db.Close()
			return fmt.Errorf("migrations: %w", err)
		}
		c.db, c.repos, c.metadata = db, rm, db
		return nil
	default:
		return fmt.Errorf("unknown metadata backend %q", c.config.MetadataBackend)
	}
}

func (c *core) openContent(ctx context.Context) error {
	switch c.config.ContentBackend {
	case config.BackendFilesystem:
		s, err := content.NewFSStore(c.config.FolderPath)
		if err != nil {
			return err
		}
		c.content = s
	case config.BackendS3:
		s, err := content.NewS3Store(ctx, content.S3Config{
			AccessKey:    c.config.S3RootUser,
			SecretKey:    c.config.S3RootPassword,
			Region:       c.config.S3Region,
			Bucket:       c.config.S3Bucket,
			BaseEndpoint: c.config.S3BaseEndpoint,
			KeyPrefix:    c.config.S3KeyPrefix,
		})
		if err != nil {
			return err
		}
		c.content = s
	case config.BackendMemory:
		c.content = content.NewMemoryStore()
	default:
		return fmt.Errorf("unknown content backend %q", c.config.ContentBackend)
	}
	return nil
}

func (c *core) openQueue() {
	if c.config.QueueBackend == config.BackendPostgres {
		c.queue = queue.NewPostgresQueue(c.db, c.config.QueuePollInterval, c.config.QueueLease, c.logger)
		return
	}
	c.queue = queue.NewMemoryQueue()
}

func (c *core) newWorker() *thumbnails.Worker {
	return thumbnails.NewWorker(c.queue, c.db, c.repos, c.content, c.logger, c.metrics, c.config.WorkerConcurrency)
}

func (c *core) close() {
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			c.logger.Error(context.Background(), "failed to close db", "error", err)
		}
	}
}

func initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// App is the API process.
type App struct {
	*core
	sessions *sessions.Store
	users    *services.UserService
	files    *services.FileService
	stats    *services.StatsService
	worker   *thumbnails.Worker
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	c, err := newCore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sess, err := sessions.Open(cfg.SessionDBPath, cfg.SessionTTL)
	if err != nil {
		c.close()
		return nil, fmt.Errorf("session store init error: %w", err)
	}

	app := &App{
		core:     c,
		sessions: sess,
		users:    services.NewUserService(c.db, c.repos, sess, c.logger),
		files:    services.NewFileService(c.db, c.repos, c.content, c.queue, c.logger, c.metrics),
		stats:    services.NewStatsService(c.db, c.repos, c.metadata, sess),
	}
	if cfg.EmbeddedWorker || cfg.QueueBackend == config.BackendMemory {
		// An in-process queue is only drained by a worker in the same process.
		app.worker = c.newWorker()
	}
	return app, nil
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	s := httpapi.New(app.config.HTTPAddr, app.logger, app.users, app.files, app.stats, app.metrics,
		httpapi.WithShutdownTimeout(app.config.ShutdownTimeout))

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return err
	}
	return nil
}

// Run serves the API until ctx is cancelled or a termination signal
// arrives, then releases every store.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	initSignalHandler(cancelFunc)

	var (
		wg      sync.WaitGroup
		httpErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		httpErr = app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.sessions.RunGC(ctx, sessionGCInterval)
	}()

	if app.worker != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.worker.Run(ctx)
		}()
	}

	wg.Wait()
	return errors.Join(httpErr, app.Close())
}

// Close releases the session store and the database.
func (app *App) Close() error {
	err := app.sessions.Close()
	app.core.close()
	return err
}
