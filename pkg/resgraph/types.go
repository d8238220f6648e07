package resgraph

import (
	"math/bits"
)

// Well-known subsystem names of the built-in cluster topology.
const (
	Containment = "containment"
	IBNet       = "ibnet"
	IBNetBW     = "ibnetbw"
	PFS1BW      = "pfs1bw"
	Power       = "power"
)

// Well-known relation kinds.
const (
	Contains      = "contains"
	ConnectedUp   = "connected_up"
	ConnectedDown = "connected_down"
	FlowsUp       = "flows_up"
	FlowsDown     = "flows_down"
	Drawn         = "drawn"

	// Wildcard matches any relation kind within a subsystem.
	Wildcard = "*"
)

// MaxSubsystems is the number of distinct subsystems a single graph can carry.
const MaxSubsystems = 64

// PoolID identifies a resource pool. IDs are dense indexes into the graph arena.
type PoolID uint64

// RelationID identifies a resource relation. IDs are dense indexes into the graph arena.
type RelationID uint64

// SubsystemID is the interned form of a subsystem name within one Registry.
type SubsystemID uint8

// SubsystemSet is a membership marker over at most MaxSubsystems subsystems.
type SubsystemSet uint64

// Add returns the set with id added.
func (s SubsystemSet) Add(id SubsystemID) SubsystemSet {
	return s | 1<<id
}

// Has reports whether id is in the set.
func (s SubsystemSet) Has(id SubsystemID) bool {
	return s&(1<<id) != 0
}

// Intersects reports whether the two sets share a subsystem.
func (s SubsystemSet) Intersects(other SubsystemSet) bool {
	return s&other != 0
}

// Len returns the number of subsystems in the set.
func (s SubsystemSet) Len() int {
	return bits.OnesCount64(uint64(s))
}

// IDs returns the members of the set in ascending order.
func (s SubsystemSet) IDs() []SubsystemID {
	ids := make([]SubsystemID, 0, s.Len())
	for rest := uint64(s); rest != 0; rest &= rest - 1 {
		ids = append(ids, SubsystemID(bits.TrailingZeros64(rest)))
	}
	return ids
}

// Pool is a vertex of the resource graph: a set of identical resources of one type.
type Pool struct {
	ID       PoolID
	Type     string       // resource type, e.g. "node" or "core"
	Basename string       // name prefix, defaults to Type
	Name     string       // Basename followed by the per-type sequence number
	Size     int64        // number of identical leaf units the pool represents
	Unit     string       // unit of Size, empty for plain counts
	Members  SubsystemSet // subsystems this pool participates in
}

// Membership records that a relation belongs to a subsystem under a given kind.
type Membership struct {
	Subsystem SubsystemID
	Kind      string
}

// Relation is a directed edge of the resource graph.
type Relation struct {
	ID      RelationID
	From    PoolID
	To      PoolID
	Kind    string       // kind under the subsystem that created the relation
	Members []Membership // every subsystem the relation belongs to, in link order
}

// KindIn returns the relation kind the relation carries in subsystem s.
func (r *Relation) KindIn(s SubsystemID) (string, bool) {
	for _, m := range r.Members {
		if m.Subsystem == s {
			return m.Kind, true
		}
	}
	return "", false
}

// InSubsystem reports whether the relation belongs to subsystem s.
func (r *Relation) InSubsystem(s SubsystemID) bool {
	_, ok := r.KindIn(s)
	return ok
}

// Statistics summarizes the size of a graph.
type Statistics struct {
	PoolCount     int
	RelationCount int
	Subsystems    int
	PoolsByType   map[string]int
}
