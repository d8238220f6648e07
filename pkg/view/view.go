// Package view projects a resource graph onto the subsystems a matcher selects.
package view

import (
	"sort"

	"github.com/dd0wney/cluso-resgraph/pkg/matcher"
	"github.com/dd0wney/cluso-resgraph/pkg/resgraph"
)

// View is a read-only filtered projection of a Graph. It holds inclusion
// bitmaps over the graph arenas plus a compact adjacency of the included
// relations; the graph itself is shared and never modified.
type View struct {
	graph *resgraph.Graph
	cfg   *matcher.Config

	pools     []uint64 // bitmap over pool ids
	relations []uint64 // bitmap over relation ids
	poolCount int
	relCount  int

	// CSR adjacency: out[offsets[p]:offsets[p+1]] are the included
	// outgoing relations of pool p, in graph insertion order.
	offsets []uint32
	out     []resgraph.RelationID
}

// Project derives the view of g selected by cfg in a single pass over pools
// and relations.
//
// A pool is included if it belongs to an active subsystem. A relation is
// included if both endpoints are included and it carries a kind matching the
// filter of one of its active subsystems.
func Project(g *resgraph.Graph, cfg *matcher.Config) *View {
	if cfg == nil {
		cfg = matcher.NewConfig("")
	}
	np, nr := g.PoolCount(), g.RelationCount()
	v := &View{
		graph:     g,
		cfg:       cfg,
		pools:     make([]uint64, (np+63)/64),
		relations: make([]uint64, (nr+63)/64),
		offsets:   make([]uint32, np+1),
	}

	mask := cfg.Mask()
	g.EachPool(func(p *resgraph.Pool) bool {
		if p.Members.Intersects(mask) {
			setBit(v.pools, uint64(p.ID))
			v.poolCount++
		}
		return true
	})

	for i := 0; i < np; i++ {
		v.offsets[i] = uint32(len(v.out))
		if !hasBit(v.pools, uint64(i)) {
			continue
		}
		for _, rid := range g.Out(resgraph.PoolID(i)) {
			r, _ := g.Relation(rid)
			if !hasBit(v.pools, uint64(r.To)) || !cfg.Matches(r) {
				continue
			}
			setBit(v.relations, uint64(rid))
			v.out = append(v.out, rid)
		}
	}
	v.offsets[np] = uint32(len(v.out))
	v.relCount = len(v.out)
	return v
}

func setBit(bits []uint64, i uint64) { bits[i>>6] |= 1 << (i & 63) }

func hasBit(bits []uint64, i uint64) bool {
	w := i >> 6
	return w < uint64(len(bits)) && bits[w]&(1<<(i&63)) != 0
}

// Graph returns the underlying graph.
func (v *View) Graph() *resgraph.Graph {
	return v.graph
}

// Config returns the matcher configuration the view was projected for.
func (v *View) Config() *matcher.Config {
	return v.cfg
}

// Registry returns the subsystem registry of the underlying graph.
func (v *View) Registry() *resgraph.Registry {
	return v.graph.Registry()
}

// HasPool reports whether the pool is in the view.
func (v *View) HasPool(id resgraph.PoolID) bool {
	return hasBit(v.pools, uint64(id))
}

// HasRelation reports whether the relation is in the view.
func (v *View) HasRelation(id resgraph.RelationID) bool {
	return hasBit(v.relations, uint64(id))
}

// PoolCount returns the number of pools in the view.
func (v *View) PoolCount() int {
	return v.poolCount
}

// RelationCount returns the number of relations in the view.
func (v *View) RelationCount() int {
	return v.relCount
}

// Out returns the included outgoing relations of a pool, in graph insertion
// order. The returned slice must not be modified.
func (v *View) Out(id resgraph.PoolID) []resgraph.RelationID {
	if int(id)+1 >= len(v.offsets) {
		return nil
	}
	return v.out[v.offsets[id]:v.offsets[id+1]]
}

// Pools returns the ids of the included pools in ascending order.
func (v *View) Pools() []resgraph.PoolID {
	ids := make([]resgraph.PoolID, 0, v.poolCount)
	v.EachPool(func(p *resgraph.Pool) bool {
		ids = append(ids, p.ID)
		return true
	})
	return ids
}

// Relations returns the ids of the included relations in ascending order.
func (v *View) Relations() []resgraph.RelationID {
	ids := make([]resgraph.RelationID, 0, v.relCount)
	v.EachRelation(func(r *resgraph.Relation) bool {
		ids = append(ids, r.ID)
		return true
	})
	return ids
}

// EachPool calls fn for every included pool in id order until fn returns false.
func (v *View) EachPool(fn func(*resgraph.Pool) bool) {
	v.graph.EachPool(func(p *resgraph.Pool) bool {
		if !v.HasPool(p.ID) {
			return true
		}
		return fn(p)
	})
}

// EachRelation calls fn for every included relation in id order until fn
// returns false.
func (v *View) EachRelation(fn func(*resgraph.Relation) bool) {
	v.graph.EachRelation(func(r *resgraph.Relation) bool {
		if !v.HasRelation(r.ID) {
			return true
		}
		return fn(r)
	})
}

// Roots returns the traversal entry points of the view: the graph roots of
// every active subsystem that are in the view, ascending and without
// duplicates.
func (v *View) Roots() []resgraph.PoolID {
	var roots []resgraph.PoolID
	for _, sid := range v.cfg.Mask().IDs() {
		for _, id := range v.graph.RootsOf(sid) {
			if v.HasPool(id) {
				roots = append(roots, id)
			}
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })
	out := roots[:0]
	for i, id := range roots {
		if i == 0 || id != roots[i-1] {
			out = append(out, id)
		}
	}
	return out
}

// Equal reports whether two views contain the same pools and relations.
func (v *View) Equal(other *View) bool {
	if v.poolCount != other.poolCount || v.relCount != other.relCount {
		return false
	}
	if len(v.pools) != len(other.pools) || len(v.relations) != len(other.relations) {
		return false
	}
	for i := range v.pools {
		if v.pools[i] != other.pools[i] {
			return false
		}
	}
	for i := range v.relations {
		if v.relations[i] != other.relations[i] {
			return false
		}
	}
	return true
}

// Contains reports whether every pool and relation of other is also in v.
func (v *View) Contains(other *View) bool {
	if len(v.pools) != len(other.pools) || len(v.relations) != len(other.relations) {
		return false
	}
	for i := range v.pools {
		if other.pools[i]&^v.pools[i] != 0 {
			return false
		}
	}
	for i := range v.relations {
		if other.relations[i]&^v.relations[i] != 0 {
			return false
		}
	}
	return true
}
