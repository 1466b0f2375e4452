package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Booking metrics
var (
	// BookingOperationsTotal counts booking service calls by operation and outcome kind
	BookingOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_operations_total",
			Help: "Booking service operations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// TxRetriesTotal counts transactions re-run after a serialization conflict
	TxRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_tx_retries_total",
			Help: "Transactions retried after a serialization conflict",
		},
		[]string{"operation"},
	)

	// TxRetriesExhaustedTotal counts operations that ran out of attempts
	TxRetriesExhaustedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_tx_retries_exhausted_total",
			Help: "Operations that exhausted their retry attempts",
		},
		[]string{"operation"},
	)

	// LeaderSuccessionsTotal counts leader cancellations by result (promoted/cleared)
	LeaderSuccessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_leader_successions_total",
			Help: "Leader cancellations by result",
		},
		[]string{"result"},
	)
)

// Database metrics
var (
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"query"},
	)

	DBErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_errors_total",
			Help: "Database query errors",
		},
		[]string{"query"},
	)
)

// RPC metrics
var (
	RPCRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rpc_requests_total",
			Help: "RPC requests by method and status code",
		},
		[]string{"method", "code"},
	)

	RPCRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rpc_request_duration_seconds",
			Help:    "RPC request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rpc_rate_limited_total",
			Help: "Requests rejected by the per-IP rate limiter",
		},
	)
)
