package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/osamanazar47/alx-files-manager/internal/server/config"
	"github.com/osamanazar47/alx-files-manager/internal/server/models"
	"github.com/osamanazar47/alx-files-manager/internal/server/services"
	"github.com/osamanazar47/alx-files-manager/internal/server/thumbnails"
)

// ErrNeedsSharedStore is returned when a standalone process is configured
// with state that only lives inside the API process.
var ErrNeedsSharedStore = errors.New("standalone process needs shared storage")

// WorkerApp is the standalone thumbnail worker process.
type WorkerApp struct {
	*core
	worker *thumbnails.Worker
}

func NewWorkerApp(ctx context.Context, cfg *config.Config) (*WorkerApp, error) {
	if cfg.QueueBackend != config.BackendPostgres {
		return nil, fmt.Errorf("%w: queue backend must be %q, run the API with the embedded worker instead",
			ErrNeedsSharedStore, config.BackendPostgres)
	}
	if cfg.ContentBackend == config.BackendMemory {
		return nil, fmt.Errorf("%w: content backend %q is private to one process", ErrNeedsSharedStore, cfg.ContentBackend)
	}

	c, err := newCore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &WorkerApp{core: c, worker: c.newWorker()}, nil
}

// Run consumes thumbnail jobs until ctx is cancelled or a termination
// signal arrives. When metrics are enabled they are served on HTTPAddr.
func (app *WorkerApp) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.core.close()

	app.logger.Info(ctx, "Starting worker...")
	initSignalHandler(cancelFunc)

	var (
		wg        sync.WaitGroup
		serverErr error
	)

	if app.metrics != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if serverErr = app.serveMetrics(ctx); serverErr != nil {
				app.logger.Error(ctx, serverErr.Error())
				cancelFunc()
			}
		}()
	}

	app.worker.Run(ctx)
	wg.Wait()
	return serverErr
}

func (app *WorkerApp) serveMetrics(ctx context.Context) error {
	l, err := net.Listen("tcp", app.config.HTTPAddr)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", app.metrics.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), app.config.ShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	app.logger.Info(ctx, "Serving worker metrics", "address", l.Addr().String())
	if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// RegisterUser creates an account directly in the metadata store, outside
// of any running API process.
func RegisterUser(ctx context.Context, cfg *config.Config, email, password string) (*models.User, error) {
	if cfg.MetadataBackend != config.BackendPostgres {
		return nil, fmt.Errorf("%w: metadata backend must be %q", ErrNeedsSharedStore, config.BackendPostgres)
	}

	c, err := newCore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer c.close()

	return services.NewUserService(c.db, c.repos, nil, c.logger).Register(ctx, email, password)
}
