// Package metrics holds the Prometheus collectors exported on the metrics
// port.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EvaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verdict_evaluations_total",
		Help: "Hierarchical evaluations run, by weight method.",
	}, []string{"method"})

	InconsistentMatricesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "verdict_inconsistent_matrices_total",
		Help: "Comparison matrices whose consistency ratio exceeded the threshold.",
	})

	ConsistencyRatio = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "verdict_consistency_ratio",
		Help:    "Consistency ratio of every matrix evaluated.",
		Buckets: []float64{0.01, 0.025, 0.05, 0.075, 0.1, 0.15, 0.2, 0.3, 0.5, 1},
	})

	CoreErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verdict_core_errors_total",
		Help: "Rejected inputs, by error kind.",
	}, []string{"kind"})
)

// ObserveConsistency records one matrix's CR and counts it when it is over
// threshold.
func ObserveConsistency(cr, threshold float64) {
	ConsistencyRatio.Observe(cr)
	if cr > threshold {
		InconsistentMatricesTotal.Inc()
	}
}

// CoreError counts a rejected input. Empty kinds are ignored.
func CoreError(kind string) {
	if kind == "" {
		return
	}
	CoreErrorsTotal.WithLabelValues(kind).Inc()
}
