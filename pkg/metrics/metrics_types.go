package metrics

import (
	rtmetrics "runtime/metrics"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Build Metrics
	BuildsTotal         *prometheus.CounterVec
	BuildDuration       prometheus.Histogram
	GraphPoolsTotal     prometheus.Gauge
	GraphRelationsTotal prometheus.Gauge
	GraphSubsystems     prometheus.Gauge

	// Projection Metrics
	ProjectionDuration *prometheus.HistogramVec
	ViewPools          *prometheus.GaugeVec
	ViewRelations      *prometheus.GaugeVec

	// Traversal Metrics
	TraversalsTotal    *prometheus.CounterVec
	TraversalDuration  *prometheus.HistogramVec
	TraversalVisited   *prometheus.HistogramVec
	SlowTraversals     *prometheus.CounterVec
	TraversalsInFlight prometheus.Gauge

	// System Metrics
	UptimeSeconds   prometheus.Gauge
	GoRoutines      prometheus.Gauge
	HeapObjectBytes prometheus.Gauge
	HeapObjects     prometheus.Gauge
	GCCycles        prometheus.Gauge

	registry      *prometheus.Registry
	systemSamples []rtmetrics.Sample
	mu            sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initGraphMetrics()
	r.initTraversalMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
