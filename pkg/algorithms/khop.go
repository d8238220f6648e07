package algorithms

import (
	"fmt"

	"github.com/dd0wney/cluso-resgraph/pkg/resgraph"
	"github.com/dd0wney/cluso-resgraph/pkg/view"
)

// KHopResult holds the breadth-first neighbourhood of a source pool.
type KHopResult struct {
	Source         resgraph.PoolID
	ByHop          map[int][]resgraph.PoolID // hop distance → pools at that distance
	Distances      map[resgraph.PoolID]int   // pool → shortest hop count
	TotalReachable int
}

// KHopNeighbours performs a BFS over view relations from source up to
// maxHops levels. The source is never included in the result.
func KHopNeighbours(v *view.View, source resgraph.PoolID, maxHops int) (*KHopResult, error) {
	if maxHops < 1 {
		return nil, fmt.Errorf("maxHops must be >= 1, got %d", maxHops)
	}
	if !v.HasPool(source) {
		return nil, fmt.Errorf("%w: %d not in view", resgraph.ErrPoolNotFound, source)
	}

	g := v.Graph()
	res := &KHopResult{
		Source:    source,
		ByHop:     make(map[int][]resgraph.PoolID),
		Distances: make(map[resgraph.PoolID]int),
	}
	seen := make([]bool, g.PoolCount())
	seen[source] = true

	frontier := []resgraph.PoolID{source}
	for hop := 1; hop <= maxHops && len(frontier) > 0; hop++ {
		var next []resgraph.PoolID
		for _, id := range frontier {
			for _, rid := range v.Out(id) {
				rel, _ := g.Relation(rid)
				if seen[rel.To] {
					continue
				}
				seen[rel.To] = true
				res.Distances[rel.To] = hop
				res.ByHop[hop] = append(res.ByHop[hop], rel.To)
				next = append(next, rel.To)
			}
		}
		res.TotalReachable += len(next)
		frontier = next
	}
	return res, nil
}

// Reachable returns the view pools reachable from roots, roots included,
// indexed by graph pool id.
func Reachable(v *view.View, roots []resgraph.PoolID) []bool {
	g := v.Graph()
	seen := make([]bool, g.PoolCount())
	queue := make([]resgraph.PoolID, 0, len(roots))
	for _, r := range roots {
		if int(r) < len(seen) && v.HasPool(r) && !seen[r] {
			seen[r] = true
			queue = append(queue, r)
		}
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, rid := range v.Out(current) {
			rel, _ := g.Relation(rid)
			if !seen[rel.To] {
				seen[rel.To] = true
				queue = append(queue, rel.To)
			}
		}
	}
	return seen
}

// Unreachable returns the view pools no view root reaches, ascending.
func Unreachable(v *view.View) []resgraph.PoolID {
	seen := Reachable(v, v.Roots())
	var out []resgraph.PoolID
	for _, id := range v.Pools() {
		if !seen[id] {
			out = append(out, id)
		}
	}
	return out
}
