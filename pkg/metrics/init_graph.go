package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.BuildsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "resgraph_builds_total",
			Help: "Total number of graph builds",
		},
		[]string{"status"},
	)

	r.BuildDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "resgraph_build_duration_seconds",
			Help:    "Graph build duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
	)

	r.GraphPoolsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "resgraph_graph_pools",
			Help: "Number of pools in the last built graph",
		},
	)

	r.GraphRelationsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "resgraph_graph_relations",
			Help: "Number of relations in the last built graph",
		},
	)

	r.GraphSubsystems = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "resgraph_graph_subsystems",
			Help: "Number of subsystems in the last built graph",
		},
	)

	r.ProjectionDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resgraph_projection_duration_seconds",
			Help:    "Filtered view projection duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
		[]string{"matcher"},
	)

	r.ViewPools = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "resgraph_view_pools",
			Help: "Number of pools in the last projected view per matcher",
		},
		[]string{"matcher"},
	)

	r.ViewRelations = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "resgraph_view_relations",
			Help: "Number of relations in the last projected view per matcher",
		},
		[]string{"matcher"},
	)
}
