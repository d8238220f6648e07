// Package builder materializes a resource graph from a specification.
package builder

import (
	"fmt"
	"path"
	"time"

	"github.com/dd0wney/cluso-resgraph/pkg/logging"
	"github.com/dd0wney/cluso-resgraph/pkg/metrics"
	"github.com/dd0wney/cluso-resgraph/pkg/resgraph"
	"github.com/dd0wney/cluso-resgraph/pkg/spec"
)

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used to report builds.
func WithLogger(l logging.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// WithMetrics sets the registry that build metrics are recorded in.
func WithMetrics(m *metrics.Registry) Option {
	return func(b *Builder) { b.metrics = m }
}

// Builder expands specifications into sealed graphs.
type Builder struct {
	logger  logging.Logger
	metrics *metrics.Registry
}

// New creates a Builder.
func New(opts ...Option) *Builder {
	b := &Builder{logger: logging.NewNopLogger()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build expands s with a default Builder.
func Build(s *spec.Specification, opts ...Option) (*resgraph.Graph, error) {
	return New(opts...).Build(s)
}

// Build validates s and materializes its graph. On failure no graph is
// returned and the error is a *resgraph.ValidationError.
//
// The containment hierarchy is expanded depth first, so pool ids follow
// preorder. Overlay hierarchies are then applied in declaration order.
func (b *Builder) Build(s *spec.Specification) (*resgraph.Graph, error) {
	start := time.Now()
	g, err := b.build(s)
	elapsed := time.Since(start)

	if err != nil {
		b.logger.Error("graph build failed", logging.Error(err), logging.Latency(elapsed))
		if b.metrics != nil {
			b.metrics.RecordBuild("error", elapsed, 0, 0, 0)
		}
		return nil, err
	}

	b.logger.Info("graph built",
		logging.Int("pools", g.PoolCount()),
		logging.Int("relations", g.RelationCount()),
		logging.Int("subsystems", g.Registry().Len()),
		logging.Latency(elapsed))
	if b.metrics != nil {
		b.metrics.RecordBuild("success", elapsed, g.PoolCount(), g.RelationCount(), g.Registry().Len())
	}
	return g, nil
}

func (b *Builder) build(s *spec.Specification) (*resgraph.Graph, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	reg := resgraph.NewRegistry()
	for _, h := range s.Hierarchies {
		if _, err := reg.Register(h.Subsystem); err != nil {
			return nil, resgraph.NewValidationError("register").Hierarchy(h.Subsystem).Cause(err).Err()
		}
	}

	g := resgraph.NewGraph(reg)
	for i := range s.Hierarchies {
		h := &s.Hierarchies[i]
		sid, _ := reg.Lookup(h.Subsystem)
		for j := range h.Units {
			u := &h.Units[j]
			var err error
			if i == 0 {
				err = expand(g, u, sid, nil, h.Subsystem)
			} else {
				err = attach(g, u, sid, nil, h.Subsystem)
			}
			if err != nil {
				return nil, err
			}
		}
	}

	g.Seal()
	return g, nil
}

// expand creates u.Count pools under every pool of parents, or as roots when
// parents is nil, and recurses into the children of each new pool.
func expand(g *resgraph.Graph, u *spec.Unit, sid resgraph.SubsystemID, parent *resgraph.PoolID, at string) error {
	where := path.Join(at, u.Type)
	kind := u.RelationOr(resgraph.Contains)

	for i := 0; i < u.Count; i++ {
		id, err := g.AddPool(resgraph.Pool{
			Type:     u.Type,
			Basename: u.Basename,
			Size:     u.Size,
			Unit:     u.Unit,
		})
		if err != nil {
			return resgraph.NewValidationError("expand").Unit(where).Cause(err).Err()
		}
		if err := g.Join(id, sid); err != nil {
			return resgraph.NewValidationError("expand").Unit(where).Cause(err).Err()
		}
		if parent != nil {
			if err := link(g, *parent, id, sid, kind, u.Upward); err != nil {
				return resgraph.NewValidationError("expand").Unit(where).Cause(err).Err()
			}
		}
		for c := range u.Children {
			if err := expand(g, &u.Children[c], sid, &id, where); err != nil {
				return err
			}
		}
	}
	return nil
}

// attach binds the existing pools of type u.Attach to parents in subsystem
// sid. The selected pools, in ascending id, are split into contiguous blocks:
// with M pools and K parents, pool j goes to parent j*K/M. Top-level attach
// units have no parents and only join the subsystem.
func attach(g *resgraph.Graph, u *spec.Unit, sid resgraph.SubsystemID, parents []resgraph.PoolID, at string) error {
	where := path.Join(at, u.Attach)

	pools := g.PoolsOfType(u.Attach)
	if len(pools) == 0 {
		return resgraph.NewValidationError("attach").Unit(where).Field("Attach").Cause(resgraph.ErrUnknownType).
			Context("no pools of type %q", u.Attach).Err()
	}
	if u.Count > len(pools) {
		return resgraph.NewValidationError("attach").Unit(where).Field("Count").Cause(resgraph.ErrInvalidCount).
			Context("count %d exceeds the %d pools of type %q", u.Count, len(pools), u.Attach).Err()
	}
	if u.Count > 0 {
		pools = pools[:u.Count]
	}

	m, k := len(pools), len(parents)
	for j, id := range pools {
		if err := g.Join(id, sid); err != nil {
			return resgraph.NewValidationError("attach").Unit(where).Cause(err).Err()
		}
		if k == 0 {
			continue
		}
		parent := parents[j*k/m]
		if err := link(g, parent, id, sid, u.Relation, u.Upward); err != nil {
			return resgraph.NewValidationError("attach").Unit(where).Cause(err).Err()
		}
	}

	for c := range u.Children {
		if err := attach(g, &u.Children[c], sid, pools, where); err != nil {
			return err
		}
	}
	return nil
}

func link(g *resgraph.Graph, parent, child resgraph.PoolID, sid resgraph.SubsystemID, kind string, upward bool) error {
	from, to := parent, child
	if upward {
		from, to = child, parent
	}
	if from == to {
		return fmt.Errorf("%w: pool %d cannot link to itself", resgraph.ErrInvalidSpec, from)
	}
	_, err := g.Link(from, to, sid, kind)
	return err
}
