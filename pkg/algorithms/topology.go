package algorithms

import (
	"errors"

	"github.com/dd0wney/cluso-resgraph/pkg/resgraph"
	"github.com/dd0wney/cluso-resgraph/pkg/view"
)

// ErrNotDAG is returned by TopologicalSort when the view has a cycle.
var ErrNotDAG = errors.New("view contains cycles, cannot perform topological sort")

// IsDAG reports whether the view has no cycles.
func IsDAG(v *view.View) bool {
	return !HasCycle(v)
}

// InDegrees returns, for every graph pool id, the number of view relations
// entering it. Pools outside the view have zero.
func InDegrees(v *view.View) []int {
	in := make([]int, v.Graph().PoolCount())
	v.EachRelation(func(r *resgraph.Relation) bool {
		in[r.To]++
		return true
	})
	return in
}

// TopologicalSort returns the view pools in an order where every relation
// runs from an earlier pool to a later one (Kahn's algorithm). Ties are
// broken by ascending id.
func TopologicalSort(v *view.View) ([]resgraph.PoolID, error) {
	g := v.Graph()
	in := InDegrees(v)

	queue := make([]resgraph.PoolID, 0)
	for _, id := range v.Pools() {
		if in[id] == 0 {
			queue = append(queue, id)
		}
	}

	sorted := make([]resgraph.PoolID, 0, v.PoolCount())
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		sorted = append(sorted, current)

		for _, rid := range v.Out(current) {
			rel, _ := g.Relation(rid)
			in[rel.To]--
			if in[rel.To] == 0 {
				queue = append(queue, rel.To)
			}
		}
	}

	if len(sorted) != v.PoolCount() {
		return nil, ErrNotDAG
	}
	return sorted, nil
}

// IsForest reports whether the view is a set of disjoint trees: acyclic,
// with at most one relation entering any pool.
func IsForest(v *view.View) bool {
	for _, n := range InDegrees(v) {
		if n > 1 {
			return false
		}
	}
	return IsDAG(v)
}

// IsTree reports whether the view is a single tree: a forest with exactly
// one pool that has no incoming relation.
func IsTree(v *view.View) bool {
	if v.PoolCount() == 0 || !IsForest(v) {
		return false
	}
	in := InDegrees(v)
	roots := 0
	for _, id := range v.Pools() {
		if in[id] == 0 {
			roots++
		}
	}
	return roots == 1
}
