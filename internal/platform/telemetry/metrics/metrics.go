package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "alfurij_admin"

// Registry owns the console collectors. A nil *Registry is a valid no-op.
type Registry struct {
	reg *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	streamWatchers   prometheus.Gauge
	loginThrottled   prometheus.Counter
	eventsPublished  *prometheus.CounterVec
}

// New builds a registry with Go runtime and process collectors attached.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of console HTTP requests.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of console HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Marketplace API calls by resource and outcome.",
		}, []string{"resource", "method", "outcome"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of marketplace API calls.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20},
		}, []string{"resource", "method"}),
		streamWatchers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stream_watchers",
			Help:      "Open live-status watchers.",
		}),
		loginThrottled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_throttled_total",
			Help:      "Login attempts rejected by the rate limiter.",
		}),
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admin_events_published_total",
			Help:      "Admin action events handed to the broker.",
		}, []string{"kind", "outcome"}),
	}
	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.httpRequests,
		r.httpDuration,
		r.upstreamRequests,
		r.upstreamDuration,
		r.streamWatchers,
		r.loginThrottled,
		r.eventsPublished,
	)
	return r
}

// Gatherer exposes the underlying registry for tests and custom handlers.
func (r *Registry) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.Gatherer(), promhttp.HandlerOpts{})
}

// Middleware records request counts and latency. route maps a request to a
// low-cardinality label; raw paths with ids must not be used.
func (r *Registry) Middleware(route func(*http.Request) string, next http.Handler) http.Handler {
	if r == nil || next == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req)

		label := "other"
		if route != nil {
			if resolved := route(req); resolved != "" {
				label = resolved
			}
		}
		r.httpRequests.WithLabelValues(label, req.Method, strconv.Itoa(rec.status)).Inc()
		r.httpDuration.WithLabelValues(label, req.Method).Observe(time.Since(start).Seconds())
	})
}

// ObserveUpstream records one marketplace API call. status is zero when the
// request failed before a response arrived.
func (r *Registry) ObserveUpstream(resource, method string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.upstreamRequests.WithLabelValues(resource, method, outcome(status)).Inc()
	r.upstreamDuration.WithLabelValues(resource, method).Observe(elapsed.Seconds())
}

// WatcherStarted increments the open watcher gauge.
func (r *Registry) WatcherStarted() {
	if r == nil {
		return
	}
	r.streamWatchers.Inc()
}

// WatcherStopped decrements the open watcher gauge.
func (r *Registry) WatcherStopped() {
	if r == nil {
		return
	}
	r.streamWatchers.Dec()
}

// LoginThrottled counts one rejected login attempt.
func (r *Registry) LoginThrottled() {
	if r == nil {
		return
	}
	r.loginThrottled.Inc()
}

// EventPublished counts one admin action event publish attempt.
func (r *Registry) EventPublished(kind string, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.eventsPublished.WithLabelValues(kind, result).Inc()
}

func outcome(status int) string {
	switch {
	case status == 0:
		return "transport_error"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}
