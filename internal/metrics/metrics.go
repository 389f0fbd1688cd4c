// Package metrics exposes Prometheus instrumentation for the HTTP layer
// and the rating write path.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "genrelog_http_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "genrelog_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	// RatingsWritten counts successful rating upserts.
	RatingsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "genrelog_ratings_written_total",
		Help: "Successful rating upserts.",
	})

	// FlagsToggled counts successful flag toggles by flag name.
	FlagsToggled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "genrelog_flags_toggled_total",
		Help: "Successful flag toggles by flag.",
	}, []string{"flag"})
)

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler { return promhttp.Handler() }

// Middleware records request count and latency under a fixed route label
// (the chi pattern, not the raw URL, to keep cardinality bounded).
func Middleware(route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			requestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(ww.status)).Inc()
			requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
