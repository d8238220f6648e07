// Package matcher holds matcher configurations and the catalog of named
// selection policies.
package matcher

import (
	"fmt"

	"github.com/dd0wney/cluso-resgraph/pkg/resgraph"
	"github.com/dd0wney/cluso-resgraph/pkg/validation"
)

// Pair is one activated (subsystem, relation filter) step.
type Pair struct {
	Subsystem string
	Filter    string
}

// Config is a matcher configuration: a policy name plus the ordered pairs
// activated so far. Failed activations leave earlier pairs in place.
//
// A Config is built by one goroutine and read-only once handed to a projector.
type Config struct {
	name  string
	pairs []Pair
	ids   []resgraph.SubsystemID // parallel to pairs
	mask  resgraph.SubsystemSet
}

// NewConfig creates an empty configuration.
func NewConfig(name string) *Config {
	return &Config{name: name}
}

// SetName sets the policy name.
func (c *Config) SetName(name string) {
	c.name = name
}

// Name returns the policy name.
func (c *Config) Name() string {
	return c.name
}

// AddSubsystem activates subsystem with the given relation filter. The
// subsystem must be present in reg; otherwise an *UnknownSubsystemError is
// returned and the configuration is left as it was.
func (c *Config) AddSubsystem(reg *resgraph.Registry, subsystem, filter string) error {
	if err := validation.ValidateRelationKind("filter", filter); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	id, ok := reg.Lookup(subsystem)
	if !ok {
		return &UnknownSubsystemError{Matcher: c.name, Subsystem: subsystem, Filter: filter}
	}
	c.pairs = append(c.pairs, Pair{Subsystem: subsystem, Filter: filter})
	c.ids = append(c.ids, id)
	c.mask = c.mask.Add(id)
	return nil
}

// ActiveSubsystems returns the activated pairs in activation order.
func (c *Config) ActiveSubsystems() []Pair {
	out := make([]Pair, len(c.pairs))
	copy(out, c.pairs)
	return out
}

// Mask returns the set of active subsystems.
func (c *Config) Mask() resgraph.SubsystemSet {
	return c.mask
}

// Len returns the number of activated pairs.
func (c *Config) Len() int {
	return len(c.pairs)
}

// Matches reports whether r carries, in some active subsystem, a kind that
// passes that subsystem's filter. A subsystem activated more than once
// matches if any of its filters does.
func (c *Config) Matches(r *resgraph.Relation) bool {
	for _, m := range r.Members {
		if !c.mask.Has(m.Subsystem) {
			continue
		}
		for i, id := range c.ids {
			if id != m.Subsystem {
				continue
			}
			if f := c.pairs[i].Filter; f == resgraph.Wildcard || f == m.Kind {
				return true
			}
		}
	}
	return false
}
