// Package httpapi exposes the files manager over HTTP with JSON bodies.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/osamanazar47/alx-files-manager/internal/logging"
	"github.com/osamanazar47/alx-files-manager/internal/metrics"
	"github.com/osamanazar47/alx-files-manager/internal/server/services"
)

const defaultShutdownTimeout = 10 * time.Second

type Server struct {
	address         string
	mux             *http.ServeMux
	routes          []string
	users           *services.UserService
	files           *services.FileService
	stats           *services.StatsService
	metrics         *metrics.Metrics
	logger          logging.Logger
	shutdownTimeout time.Duration
}

type Option func(*Server)

// WithShutdownTimeout bounds how long Run waits for in-flight requests.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

func New(address string, l logging.Logger, us *services.UserService, fs *services.FileService, ss *services.StatsService, mtr *metrics.Metrics, opts ...Option) *Server {
	s := &Server{
		address:         address,
		mux:             http.NewServeMux(),
		users:           us,
		files:           fs,
		stats:           ss,
		metrics:         mtr,
		logger:          l.With("module", "http_server"),
		shutdownTimeout: defaultShutdownTimeout,
	}
	for _, o := range opts {
		o(s)
	}
	s.initRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Routes lists the registered patterns in registration order.
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

func (s *Server) registerRoute(pattern string, handler http.HandlerFunc, mw ...func(http.HandlerFunc) http.HandlerFunc) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, ChainMiddleware(handler, append(s.baseMiddleware(), mw...)...))
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on l until ctx is cancelled, then shuts down
// gracefully within the shutdown timeout.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()
		shutdownErr <- srv.Shutdown(sctx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", l.Addr().String(), "routes", len(s.routes))

	if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-shutdownErr
}
