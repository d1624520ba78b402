package httpapi

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/osamanazar47/alx-files-manager/internal/common"
	"github.com/osamanazar47/alx-files-manager/internal/server/models"
)

type ctxKey string

const userKey ctxKey = "user"

// ChainMiddleware wraps routeFunction so that mw[0] runs first.
func ChainMiddleware(routeFunction http.HandlerFunc, mw ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	chainedHandler := routeFunction
	for i := len(mw) - 1; i >= 0; i-- {
		chainedHandler = mw[i](chainedHandler)
	}
	return chainedHandler
}

func (s *Server) baseMiddleware() []func(http.HandlerFunc) http.HandlerFunc {
	return []func(http.HandlerFunc) http.HandlerFunc{
		s.LoggingMiddleware,
		s.RecoverMiddleware,
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// LoggingMiddleware logs each request and records it in the HTTP metrics
// under its route pattern.
func (s *Server) LoggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}

		elapsed := time.Since(start)
		s.metrics.ObserveHTTP(r.Method, r.Pattern, rec.status, elapsed)
		s.logger.Debug(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", elapsed,
		)
	}
}

func (s *Server) RecoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				s.logger.Error(r.Context(), "panic in handler", "panic", v, "stack", string(debug.Stack()))
				writeJSONError(w, http.StatusInternalServerError, msgInternal)
			}
		}()
		next(w, r)
	}
}

// RequireToken resolves the X-Token header to a user and rejects the
// request with 401 when it does not.
func (s *Server) RequireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(common.TokenHeaderName)
		if token == "" {
			writeJSONError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}
		user, err := s.users.Authenticate(r.Context(), token)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	}
}

// OptionalToken attaches the user when X-Token resolves and otherwise lets
// the request through anonymously.
func (s *Server) OptionalToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(common.TokenHeaderName)
		if token != "" {
			user, err := s.users.Authenticate(r.Context(), token)
			switch {
			case err == nil:
				r = r.WithContext(context.WithValue(r.Context(), userKey, user))
			case !errors.Is(err, common.ErrorUnauthorized):
				s.writeError(w, r, err)
				return
			}
		}
		next(w, r)
	}
}

func userFrom(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}
