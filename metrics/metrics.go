// Package metrics holds the Prometheus collectors of the meets service.
// Collectors register on the default registry and are served on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "meets_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	CandidatesReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "meets_candidates_returned",
			Help:    "Number of candidate profiles returned per listing",
			Buckets: []float64{0, 1, 5, 10, 15, 20},
		},
	)

	InteractionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meets_interactions_recorded_total",
			Help: "Seen-state writes by action",
		},
		[]string{"action"},
	)

	HistoryResets = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "meets_history_resets_total",
			Help: "Number of seen-history resets",
		},
	)

	PhotoSignFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "meets_photo_sign_failures_total",
			Help: "Photo URLs dropped because signing failed",
		},
	)

	PhotoURLCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "meets_photo_url_cache_hits_total",
			Help: "Signed photo URLs served from the cache",
		},
	)

	PhotoURLCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "meets_photo_url_cache_misses_total",
			Help: "Signed photo URL cache misses",
		},
	)
)

// RecordHTTPRequest observes one served request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}
