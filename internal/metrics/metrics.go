package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fleetcheck"

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		},
	)
)

// Aggregation metrics
var (
	AggregationsComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aggregations_computed_total",
			Help:      "Total number of completion aggregations computed",
		},
		[]string{"period"},
	)

	AggregationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "aggregation_duration_seconds",
			Help:      "Dashboard snapshot computation time distribution",
			Buckets:   []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	DashboardRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dashboard_refreshes_total",
			Help:      "Total number of background dashboard refresh runs",
		},
		[]string{"status"},
	)
)

// Business metrics
var (
	AssetsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assets_created_total",
			Help:      "Total number of assets registered",
		},
	)

	TransactionsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_recorded_total",
			Help:      "Total number of inspection transactions recorded",
		},
	)

	TransactionsClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_classified_total",
			Help:      "Total number of transactions scored by the status classifier",
		},
		[]string{"status"},
	)

	NaturalKeyCollisions = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "natural_key_collisions_total",
			Help:      "Total number of assets sharing an already-indexed natural key",
		},
	)

	OrphanedTransactions = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orphaned_transactions_total",
			Help:      "Total number of transactions dropped because no registered asset matched",
		},
	)
)
