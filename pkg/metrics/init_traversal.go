package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initTraversalMetrics() {
	r.TraversalsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "resgraph_traversals_total",
			Help: "Total number of DFU traversals",
		},
		[]string{"matcher", "status"},
	)

	r.TraversalDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resgraph_traversal_duration_seconds",
			Help:    "DFU traversal duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0},
		},
		[]string{"matcher"},
	)

	r.TraversalVisited = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resgraph_traversal_visited_pools",
			Help:    "Number of pools visited per traversal",
			Buckets: []float64{10, 100, 1000, 10000, 100000, 1000000},
		},
		[]string{"matcher"},
	)

	r.SlowTraversals = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "resgraph_slow_traversals_total",
			Help: "Total number of slow traversals (>1s)",
		},
		[]string{"matcher"},
	)

	r.TraversalsInFlight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "resgraph_traversals_in_flight",
			Help: "Number of traversals currently running",
		},
	)
}
