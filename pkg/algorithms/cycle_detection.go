// Package algorithms holds structural checks over filtered views: cycle
// detection, topological order and reachability from the view roots.
package algorithms

import (
	"github.com/dd0wney/cluso-resgraph/pkg/resgraph"
	"github.com/dd0wney/cluso-resgraph/pkg/view"
)

// Cycle is a detected cycle as the pools along it, starting at the pool the
// back edge returns to.
type Cycle []resgraph.PoolID

const (
	white = iota // unvisited
	gray         // on the recursion stack
	black        // finished
)

// DetectCycles finds cycles in the view with a three-color depth-first
// search started from every pool in ascending id. One cycle is reported per
// back edge, so the result is a witness set rather than every elementary
// cycle.
func DetectCycles(v *view.View) []Cycle {
	d := newCycleSearch(v)
	for _, id := range v.Pools() {
		if d.color[id] == white {
			d.visit(id)
		}
	}
	return d.cycles
}

type cycleSearch struct {
	view   *view.View
	graph  *resgraph.Graph
	color  []uint8
	stack  []resgraph.PoolID
	pos    []int // index of a gray pool in stack
	cycles []Cycle
	first  bool // stop at the first cycle
}

func newCycleSearch(v *view.View) *cycleSearch {
	n := v.Graph().PoolCount()
	return &cycleSearch{
		view:   v,
		graph:  v.Graph(),
		color:  make([]uint8, n),
		pos:    make([]int, n),
		cycles: make([]Cycle, 0),
	}
}

// visit reports whether the search should stop.
func (d *cycleSearch) visit(id resgraph.PoolID) bool {
	d.color[id] = gray
	d.pos[id] = len(d.stack)
	d.stack = append(d.stack, id)

	for _, rid := range d.view.Out(id) {
		rel, _ := d.graph.Relation(rid)
		next := rel.To
		switch d.color[next] {
		case white:
			if d.visit(next) {
				return true
			}
		case gray:
			// Back edge; a self-loop yields a cycle of length one.
			c := make(Cycle, len(d.stack)-d.pos[next])
			copy(c, d.stack[d.pos[next]:])
			d.cycles = append(d.cycles, c)
			if d.first {
				return true
			}
		}
	}

	d.stack = d.stack[:len(d.stack)-1]
	d.color[id] = black
	return false
}

// CycleDetectionOptions filters the cycles DetectCyclesWithOptions reports.
type CycleDetectionOptions struct {
	MinCycleLength int                       // 0 = no minimum
	MaxCycleLength int                       // 0 = unlimited
	PoolPredicate  func(*resgraph.Pool) bool // every pool of the cycle must match
}

// DetectCyclesWithOptions finds cycles matching the given criteria.
func DetectCyclesWithOptions(v *view.View, opts CycleDetectionOptions) []Cycle {
	filtered := make([]Cycle, 0)
	for _, cycle := range DetectCycles(v) {
		if opts.MinCycleLength > 0 && len(cycle) < opts.MinCycleLength {
			continue
		}
		if opts.MaxCycleLength > 0 && len(cycle) > opts.MaxCycleLength {
			continue
		}
		if opts.PoolPredicate != nil && !allPools(v.Graph(), cycle, opts.PoolPredicate) {
			continue
		}
		filtered = append(filtered, cycle)
	}
	return filtered
}

func allPools(g *resgraph.Graph, ids []resgraph.PoolID, pred func(*resgraph.Pool) bool) bool {
	for _, id := range ids {
		p, ok := g.Pool(id)
		if !ok || !pred(p) {
			return false
		}
	}
	return true
}

// CycleStats summarizes detected cycles.
type CycleStats struct {
	TotalCycles   int
	ShortestCycle int
	LongestCycle  int
	AverageLength float64
	SelfLoops     int
}

// AnalyzeCycles computes statistics about detected cycles.
func AnalyzeCycles(cycles []Cycle) CycleStats {
	if len(cycles) == 0 {
		return CycleStats{}
	}

	stats := CycleStats{
		TotalCycles:   len(cycles),
		ShortestCycle: len(cycles[0]),
		LongestCycle:  len(cycles[0]),
	}
	total := 0
	for _, cycle := range cycles {
		n := len(cycle)
		total += n
		if n == 1 {
			stats.SelfLoops++
		}
		if n < stats.ShortestCycle {
			stats.ShortestCycle = n
		}
		if n > stats.LongestCycle {
			stats.LongestCycle = n
		}
	}
	stats.AverageLength = float64(total) / float64(len(cycles))
	return stats
}

// HasCycle reports whether the view contains a cycle, stopping at the first.
func HasCycle(v *view.View) bool {
	d := newCycleSearch(v)
	d.first = true
	for _, id := range v.Pools() {
		if d.color[id] == white && d.visit(id) {
			return true
		}
	}
	return false
}
