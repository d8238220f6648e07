package view

import (
	"time"

	"github.com/dd0wney/cluso-resgraph/pkg/logging"
	"github.com/dd0wney/cluso-resgraph/pkg/matcher"
	"github.com/dd0wney/cluso-resgraph/pkg/metrics"
	"github.com/dd0wney/cluso-resgraph/pkg/resgraph"
)

// Projector wraps Project with timing, logging and metrics. It holds no
// per-projection state and may be shared between goroutines.
type Projector struct {
	logger  logging.Logger
	metrics *metrics.Registry
}

// ProjectorOption configures a Projector.
type ProjectorOption func(*Projector)

// WithLogger sets the projector logger.
func WithLogger(l logging.Logger) ProjectorOption {
	return func(p *Projector) { p.logger = l }
}

// WithMetrics sets the registry projection metrics are recorded in.
func WithMetrics(m *metrics.Registry) ProjectorOption {
	return func(p *Projector) { p.metrics = m }
}

// NewProjector creates a Projector.
func NewProjector(opts ...ProjectorOption) *Projector {
	p := &Projector{logger: logging.NewNopLogger()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Project projects g for cfg and records how long it took.
func (p *Projector) Project(g *resgraph.Graph, cfg *matcher.Config) *View {
	start := time.Now()
	v := Project(g, cfg)
	elapsed := time.Since(start)

	name := v.Config().Name()
	p.logger.Debug("view projected",
		logging.Matcher(name),
		logging.Int("pools", v.PoolCount()),
		logging.Int("relations", v.RelationCount()),
		logging.Latency(elapsed))
	if p.metrics != nil {
		p.metrics.RecordProjection(name, elapsed, v.PoolCount(), v.RelationCount())
	}
	return v
}
