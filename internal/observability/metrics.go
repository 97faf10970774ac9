package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreErrorRate counts document store errors by operation type.
	StoreErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_store_error_rate_total",
		Help: "Total number of document store errors by operation type",
	}, []string{"operation"})

	// BatchCommitLatency records atomic batch commit latency.
	BatchCommitLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "inkwell_batch_commit_latency_seconds",
		Help:    "Atomic write batch commit latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// BatchWriteSize records the number of writes per committed batch.
	BatchWriteSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "inkwell_batch_write_size",
		Help:    "Number of queued writes per atomic batch",
		Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250},
	})

	// BatchCommitFailures counts failed batch commits. A failed commit leaves
	// no partial state; the count is a proxy for store unavailability.
	BatchCommitFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_batch_commit_failures_total",
		Help: "Total number of failed atomic batch commits",
	})

	// ReconciliationRuns counts reconciliation passes by aggregate kind.
	ReconciliationRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_reconciliation_runs_total",
		Help: "Total number of counter reconciliation passes",
	}, []string{"aggregate"})

	// ReconciliationDrift records the absolute counter drift repaired per
	// reconciliation pass.
	ReconciliationDrift = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inkwell_reconciliation_drift",
		Help:    "Absolute aggregate counter drift repaired per reconciliation pass",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 100},
	}, []string{"aggregate"})
)
