// Package metrics exposes Prometheus collectors for the API and the
// thumbnail worker.
//
// A nil *Metrics is valid and records nothing, so components can be built
// without metrics in tests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "files_manager"

type Metrics struct {
	reg *prometheus.Registry

	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	filesCreated      *prometheus.CounterVec
	enqueueFailures   prometheus.Counter
	jobsProcessed     *prometheus.CounterVec
	thumbnailDuration prometheus.Histogram
}

// New registers all collectors, plus the Go and process collectors, on a
// dedicated registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route and status code",
		}, []string{"method", "route", "code"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		filesCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_created_total",
			Help:      "Total number of file nodes created by type",
		}, []string{"type"}),
		enqueueFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "thumbnail_enqueue_failures_total",
			Help:      "Thumbnail jobs that could not be enqueued after an image upload",
		}),
		jobsProcessed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "thumbnail_jobs_total",
			Help:      "Thumbnail jobs processed by outcome",
		}, []string{"status"}),
		thumbnailDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "thumbnail_job_duration_seconds",
			Help:      "Time spent generating all variants of one image",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// Registry returns the underlying registry; nil when m is nil.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// Handler serves the exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

func (m *Metrics) ObserveHTTP(method, route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) FileCreated(fileType string) {
	if m == nil {
		return
	}
	m.filesCreated.WithLabelValues(fileType).Inc()
}

func (m *Metrics) EnqueueFailed() {
	if m == nil {
		return
	}
	m.enqueueFailures.Inc()
}

// JobProcessed records a finished job; status is "completed" or "failed".
func (m *Metrics) JobProcessed(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.jobsProcessed.WithLabelValues(status).Inc()
	m.thumbnailDuration.Observe(d.Seconds())
}
