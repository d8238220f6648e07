package resgraph

import (
	"fmt"
	"sort"
)

// Graph is the full multi-subsystem resource graph. Pools and relations live
// in id-indexed arenas; outgoing adjacency keeps relation insertion order.
//
// A Graph is mutated only by its builder. Once Seal has been called it is
// immutable and safe for concurrent readers without locking.
type Graph struct {
	pools     []Pool
	relations []Relation
	out       [][]RelationID // pool ID -> outgoing relation IDs, insertion order
	hasIn     []SubsystemSet // pool ID -> subsystems with an incoming relation
	byType    map[string][]PoolID
	roots     map[SubsystemID][]PoolID
	registry  *Registry
	sealed    bool
}

// NewGraph creates an empty, unsealed graph bound to registry.
func NewGraph(registry *Registry) *Graph {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Graph{
		pools:     make([]Pool, 0, 64),
		relations: make([]Relation, 0, 64),
		out:       make([][]RelationID, 0, 64),
		hasIn:     make([]SubsystemSet, 0, 64),
		byType:    make(map[string][]PoolID),
		roots:     make(map[SubsystemID][]PoolID),
		registry:  registry,
	}
}

// AddPool appends a pool to the arena and returns its id. The pool's ID and
// Name are assigned here; Name is Basename plus the per-type sequence number.
func (g *Graph) AddPool(p Pool) (PoolID, error) {
	if g.sealed {
		return 0, ErrSealed
	}
	if p.Basename == "" {
		p.Basename = p.Type
	}
	if p.Size == 0 {
		p.Size = 1
	}
	p.ID = PoolID(len(g.pools))
	p.Name = fmt.Sprintf("%s%d", p.Basename, len(g.byType[p.Type]))

	g.pools = append(g.pools, p)
	g.out = append(g.out, nil)
	g.hasIn = append(g.hasIn, 0)
	g.byType[p.Type] = append(g.byType[p.Type], p.ID)
	return p.ID, nil
}

// Join marks pool id as a member of subsystem s.
func (g *Graph) Join(id PoolID, s SubsystemID) error {
	if g.sealed {
		return ErrSealed
	}
	if int(id) >= len(g.pools) {
		return fmt.Errorf("%w: %d", ErrPoolNotFound, id)
	}
	g.pools[id].Members = g.pools[id].Members.Add(s)
	return nil
}

// Link records a relation from -> to of the given kind in subsystem s. Both
// endpoints join s. If a relation from -> to already exists and does not yet
// belong to s, s is added to its memberships instead of creating a parallel
// relation.
func (g *Graph) Link(from, to PoolID, s SubsystemID, kind string) (RelationID, error) {
	if g.sealed {
		return 0, ErrSealed
	}
	if int(from) >= len(g.pools) {
		return 0, fmt.Errorf("%w: %d", ErrPoolNotFound, from)
	}
	if int(to) >= len(g.pools) {
		return 0, fmt.Errorf("%w: %d", ErrPoolNotFound, to)
	}

	g.pools[from].Members = g.pools[from].Members.Add(s)
	g.pools[to].Members = g.pools[to].Members.Add(s)
	g.hasIn[to] = g.hasIn[to].Add(s)

	for _, rid := range g.out[from] {
		r := &g.relations[rid]
		if r.To == to && !r.InSubsystem(s) {
			r.Members = append(r.Members, Membership{Subsystem: s, Kind: kind})
			return rid, nil
		}
	}

	rid := RelationID(len(g.relations))
	g.relations = append(g.relations, Relation{
		ID:      rid,
		From:    from,
		To:      to,
		Kind:    kind,
		Members: []Membership{{Subsystem: s, Kind: kind}},
	})
	g.out[from] = append(g.out[from], rid)
	return rid, nil
}

// Seal freezes the graph and computes the per-subsystem roots: the member
// pools with no incoming relation in that subsystem, in ascending id.
func (g *Graph) Seal() {
	if g.sealed {
		return
	}
	for i := range g.pools {
		p := &g.pools[i]
		for _, s := range p.Members.IDs() {
			if !g.hasIn[i].Has(s) {
				g.roots[s] = append(g.roots[s], p.ID)
			}
		}
	}
	g.sealed = true
}

// Sealed reports whether the graph is immutable.
func (g *Graph) Sealed() bool {
	return g.sealed
}

// Registry returns the subsystem registry of the graph.
func (g *Graph) Registry() *Registry {
	return g.registry
}

// Pool returns the pool with the given id.
func (g *Graph) Pool(id PoolID) (*Pool, bool) {
	if int(id) >= len(g.pools) {
		return nil, false
	}
	return &g.pools[id], true
}

// Relation returns the relation with the given id.
func (g *Graph) Relation(id RelationID) (*Relation, bool) {
	if int(id) >= len(g.relations) {
		return nil, false
	}
	return &g.relations[id], true
}

// Out returns the outgoing relations of a pool in insertion order. The
// returned slice must not be modified.
func (g *Graph) Out(id PoolID) []RelationID {
	if int(id) >= len(g.out) {
		return nil
	}
	return g.out[id]
}

// PoolCount returns the number of pools.
func (g *Graph) PoolCount() int {
	return len(g.pools)
}

// RelationCount returns the number of relations.
func (g *Graph) RelationCount() int {
	return len(g.relations)
}

// PoolsOfType returns the ids of all pools of the given type in ascending order.
func (g *Graph) PoolsOfType(typ string) []PoolID {
	ids := g.byType[typ]
	out := make([]PoolID, len(ids))
	copy(out, ids)
	return out
}

// Types returns the resource types present in the graph, sorted.
func (g *Graph) Types() []string {
	types := make([]string, 0, len(g.byType))
	for t := range g.byType {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// HasType reports whether any pool of the given type exists.
func (g *Graph) HasType(typ string) bool {
	return len(g.byType[typ]) > 0
}

// Roots returns the containment roots, the usual traversal entry points.
func (g *Graph) Roots() []PoolID {
	id, ok := g.registry.Lookup(Containment)
	if !ok {
		return nil
	}
	return g.RootsOf(id)
}

// RootsOf returns the roots of subsystem s in ascending id.
func (g *Graph) RootsOf(s SubsystemID) []PoolID {
	roots := g.roots[s]
	out := make([]PoolID, len(roots))
	copy(out, roots)
	return out
}

// EachPool calls fn for every pool in id order until fn returns false.
func (g *Graph) EachPool(fn func(*Pool) bool) {
	for i := range g.pools {
		if !fn(&g.pools[i]) {
			return
		}
	}
}

// EachRelation calls fn for every relation in id order until fn returns false.
func (g *Graph) EachRelation(fn func(*Relation) bool) {
	for i := range g.relations {
		if !fn(&g.relations[i]) {
			return
		}
	}
}

// GetStatistics returns a size summary of the graph.
func (g *Graph) GetStatistics() Statistics {
	byType := make(map[string]int, len(g.byType))
	for t, ids := range g.byType {
		byType[t] = len(ids)
	}
	return Statistics{
		PoolCount:     len(g.pools),
		RelationCount: len(g.relations),
		Subsystems:    g.registry.Len(),
		PoolsByType:   byType,
	}
}
