package traverser

import (
	"time"

	"github.com/dd0wney/cluso-resgraph/pkg/resgraph"
)

// Rollup is the annotation MatchVisitor leaves on every vertex: the leaf
// units of the requested type found in its subtree.
type Rollup struct {
	Units     int64
	Satisfies bool
}

// MatchVisitor rolls up the units of one resource type from the leaves to the
// roots and records the pools whose subtree can satisfy a request, such as
// "nodes with at least 16 cores".
//
// A MatchVisitor keeps state across hooks and must not be shared between
// concurrent walks.
type MatchVisitor struct {
	Type     string        // resource type to count, e.g. "core"
	Count    int64         // units required
	Within   string        // only report pools of this type; empty reports any pool
	Deadline time.Duration // abort once the walk has run this long; zero disables

	start   time.Time
	matches []resgraph.PoolID
}

// NewMatchVisitor creates a visitor looking for count units of typ under
// pools of type within.
func NewMatchVisitor(typ string, count int64, within string) *MatchVisitor {
	return &MatchVisitor{Type: typ, Count: count, Within: within}
}

// Matches returns the satisfying pools in the order their subtrees finished.
func (m *MatchVisitor) Matches() []resgraph.PoolID {
	out := make([]resgraph.PoolID, len(m.matches))
	copy(out, m.matches)
	return out
}

// Reset clears the visitor for another walk.
func (m *MatchVisitor) Reset() {
	m.start = time.Time{}
	m.matches = m.matches[:0]
}

func (m *MatchVisitor) PreDown(ev Event) Action {
	if m.start.IsZero() {
		m.start = time.Now()
	}
	if m.Deadline > 0 && time.Since(m.start) > m.Deadline {
		return Abort
	}
	return Continue
}

func (m *MatchVisitor) PostDown(Event, []Annotation) Action {
	return Continue
}

func (m *MatchVisitor) PreUp(ev Event, children []Annotation) (Annotation, Action) {
	var units int64
	for _, c := range children {
		if r, ok := c.(Rollup); ok {
			units += r.Units
		}
	}
	if ev.Pool.Type == m.Type {
		units += ev.Pool.Size
	}

	r := Rollup{Units: units}
	if units >= m.Count && m.Count > 0 && (m.Within == "" || ev.Pool.Type == m.Within) {
		r.Satisfies = true
		m.matches = append(m.matches, ev.Pool.ID)
	}
	return r, Continue
}

func (m *MatchVisitor) PostUp(Event) Action {
	return Continue
}
