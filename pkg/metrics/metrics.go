// Package metrics provides Prometheus metrics for the clash reporter.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "clashreporter"

var (
	// RefreshTotal tracks clash cache refreshes by outcome (live, fallback, mock)
	RefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "repository",
			Name:      "refresh_total",
			Help:      "Total number of clash cache refreshes by outcome",
		},
		[]string{"outcome"},
	)

	// RefreshDuration tracks how long a refresh takes end to end
	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "repository",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of clash cache refreshes in seconds",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
	)

	// CachedClashes reports the size of the current clash collection
	CachedClashes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "repository",
			Name:      "cached_clashes",
			Help:      "Number of clashes in the current cached collection",
		},
	)

	// JoinSkipsTotal tracks clash records dropped during joining, by reason
	JoinSkipsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "join",
			Name:      "skips_total",
			Help:      "Total number of clash records skipped while joining feeds",
		},
		[]string{"reason"},
	)

	// BatchesTotal tracks clash test batches processed from the upstream service
	BatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aps",
			Name:      "batches_total",
			Help:      "Total number of clash test batches by status",
		},
		[]string{"status"},
	)

	// UpstreamRequestsTotal tracks outbound requests to the upstream service
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aps",
			Name:      "requests_total",
			Help:      "Total number of outbound upstream requests",
		},
		[]string{"endpoint", "status_code"},
	)

	// UpstreamRequestDuration tracks outbound request duration
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "aps",
			Name:      "request_duration_seconds",
			Help:      "Duration of outbound upstream requests in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint"},
	)
)

// Handler returns the HTTP handler exposing the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
