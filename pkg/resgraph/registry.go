package resgraph

import (
	"fmt"
)

// Registry is the set of subsystem names discovered while building a graph,
// in discovery order. It is populated by the builder and read-only afterwards.
type Registry struct {
	names []string
	index map[string]SubsystemID
}

// NewRegistry creates an empty subsystem registry.
func NewRegistry() *Registry {
	return &Registry{
		names: make([]string, 0, 8),
		index: make(map[string]SubsystemID),
	}
}

// Register interns name, returning the existing id if it is already known.
func (r *Registry) Register(name string) (SubsystemID, error) {
	if id, ok := r.index[name]; ok {
		return id, nil
	}
	if len(r.names) >= MaxSubsystems {
		return 0, fmt.Errorf("%w: cannot register %q, limit is %d", ErrTooManySubsystems, name, MaxSubsystems)
	}
	id := SubsystemID(len(r.names))
	r.names = append(r.names, name)
	r.index[name] = id
	return id, nil
}

// Lookup returns the id of a registered subsystem.
func (r *Registry) Lookup(name string) (SubsystemID, bool) {
	id, ok := r.index[name]
	return id, ok
}

// Has reports whether the subsystem has been registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Name returns the subsystem name for id, or "" if id is unknown.
func (r *Registry) Name(id SubsystemID) string {
	if int(id) >= len(r.names) {
		return ""
	}
	return r.names[id]
}

// Names returns all registered subsystem names in discovery order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of registered subsystems.
func (r *Registry) Len() int {
	return len(r.names)
}

// NamesOf resolves a membership set to subsystem names in discovery order.
func (r *Registry) NamesOf(set SubsystemSet) []string {
	ids := set.IDs()
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.Name(id))
	}
	return out
}
