// Package spec describes resource topologies declaratively. A Specification
// lists one hierarchy per subsystem; the containment hierarchy materializes
// pools and every other hierarchy overlays relations onto them.
package spec

import (
	"fmt"
	"path"

	"github.com/dd0wney/cluso-resgraph/pkg/resgraph"
	"github.com/dd0wney/cluso-resgraph/pkg/validation"
)

// MaxPools bounds how many pools a specification may expand to.
const MaxPools = 1 << 24

// Specification is an ordered list of subsystem hierarchies.
type Specification struct {
	Name        string      `yaml:"name,omitempty" json:"name,omitempty"`
	Hierarchies []Hierarchy `yaml:"hierarchies" json:"hierarchies" validate:"required,min=1,max=64,dive"`
}

// Hierarchy is the unit tree of one subsystem.
type Hierarchy struct {
	Subsystem string `yaml:"subsystem" json:"subsystem" validate:"required,ident,max=64"`
	Units     []Unit `yaml:"units" json:"units" validate:"required,min=1,dive"`
}

// Unit declares Count instances of a resource type under every instance of
// its parent unit. An attach unit creates no pools: it binds the existing
// pools of type Attach to the parent instances instead.
type Unit struct {
	Type     string `yaml:"type,omitempty" json:"type,omitempty" validate:"required_without=Attach,excluded_with=Attach,omitempty,ident,max=64"`
	Attach   string `yaml:"attach,omitempty" json:"attach,omitempty" validate:"omitempty,ident,max=64"`
	Basename string `yaml:"basename,omitempty" json:"basename,omitempty" validate:"omitempty,ident,max=64"`
	Count    int    `yaml:"count,omitempty" json:"count,omitempty" validate:"gte=0,lte=1048576"`
	Size     int64  `yaml:"size,omitempty" json:"size,omitempty" validate:"gte=0"`
	Unit     string `yaml:"unit,omitempty" json:"unit,omitempty" validate:"max=64"`
	Relation string `yaml:"relation,omitempty" json:"relation,omitempty" validate:"omitempty,relkind"`
	Upward   bool   `yaml:"upward,omitempty" json:"upward,omitempty"`
	Children []Unit `yaml:"children,omitempty" json:"children,omitempty" validate:"dive"`
}

// Resource returns the resource type the unit refers to.
func (u *Unit) Resource() string {
	if u.Attach != "" {
		return u.Attach
	}
	return u.Type
}

// IsAttach reports whether the unit binds existing pools.
func (u *Unit) IsAttach() bool {
	return u.Attach != ""
}

// RelationOr returns the unit's relation kind, or def if none is declared.
func (u *Unit) RelationOr(def string) string {
	return validation.DefaultOr(u.Relation, def)
}

// Merge concatenates the hierarchies of several specifications in order.
func Merge(specs ...*Specification) *Specification {
	merged := &Specification{}
	for _, s := range specs {
		if s == nil {
			continue
		}
		if merged.Name == "" {
			merged.Name = s.Name
		}
		merged.Hierarchies = append(merged.Hierarchies, s.Hierarchies...)
	}
	return merged
}

// Subsystems returns the subsystem names in declaration order, without duplicates.
func (s *Specification) Subsystems() []string {
	seen := make(map[string]bool, len(s.Hierarchies))
	names := make([]string, 0, len(s.Hierarchies))
	for _, h := range s.Hierarchies {
		if !seen[h.Subsystem] {
			seen[h.Subsystem] = true
			names = append(names, h.Subsystem)
		}
	}
	return names
}

// Validate checks the specification without building it. Every failure is a
// *resgraph.ValidationError.
//
// Beyond the field rules this requires that the containment hierarchy comes
// first and only once, that it holds plain units with a positive count, that
// overlay hierarchies hold attach units only, that no unit declares the
// wildcard as its relation kind, and that nesting and expansion stay bounded.
func (s *Specification) Validate() error {
	if s == nil {
		return resgraph.NewValidationError("validate").Context("nil specification").Err()
	}
	if err := validation.Struct(s); err != nil {
		return resgraph.NewValidationError("validate").Cause(fmt.Errorf("%w: %v", resgraph.ErrInvalidSpec, err)).Err()
	}
	if len(s.Subsystems()) > resgraph.MaxSubsystems {
		return resgraph.NewValidationError("validate").Cause(resgraph.ErrTooManySubsystems).
			Context("%d subsystems, limit is %d", len(s.Subsystems()), resgraph.MaxSubsystems).Err()
	}

	if s.Hierarchies[0].Subsystem != resgraph.Containment {
		return resgraph.NewValidationError("validate").Hierarchy(s.Hierarchies[0].Subsystem).
			Context("the %s hierarchy must be declared first", resgraph.Containment).Err()
	}

	var total int64
	for i := range s.Hierarchies {
		h := &s.Hierarchies[i]
		overlay := i > 0
		if overlay && h.Subsystem == resgraph.Containment {
			return resgraph.NewValidationError("validate").Hierarchy(h.Subsystem).
				Context("declared more than once").Err()
		}
		for j := range h.Units {
			n, err := checkUnit(&h.Units[j], h.Subsystem, overlay, 1)
			if err != nil {
				return err
			}
			total += n
			if total > MaxPools {
				return resgraph.NewValidationError("validate").Hierarchy(h.Subsystem).Cause(resgraph.ErrInvalidCount).
					Context("expands to more than %d pools", MaxPools).Err()
			}
		}
	}
	return nil
}

// checkUnit validates u located at parent and returns how many pools it and
// its children materialize per parent instance.
func checkUnit(u *Unit, parent string, overlay bool, depth int) (int64, error) {
	where := path.Join(parent, u.Resource())

	if depth > validation.MaxUnitDepth {
		return 0, resgraph.NewValidationError("validate").Unit(where).
			Context("nested deeper than %d", validation.MaxUnitDepth).Err()
	}
	if u.Relation == resgraph.Wildcard {
		return 0, resgraph.NewValidationError("validate").Unit(where).Field("Relation").
			Context("%q is a filter, not a relation kind", resgraph.Wildcard).Err()
	}
	if overlay && !u.IsAttach() {
		return 0, resgraph.NewValidationError("validate").Unit(where).Field("Attach").
			Context("overlay hierarchies may only attach existing pools").Err()
	}
	if !overlay && u.IsAttach() {
		return 0, resgraph.NewValidationError("validate").Unit(where).Field("Attach").
			Context("the %s hierarchy cannot attach pools", resgraph.Containment).Err()
	}
	if overlay && depth > 1 && u.Relation == "" {
		return 0, resgraph.NewValidationError("validate").Unit(where).Field("Relation").
			Context("overlay links need a relation kind").Err()
	}
	if !overlay && u.Count <= 0 {
		return 0, resgraph.NewValidationError("validate").Unit(where).Field("Count").Cause(resgraph.ErrInvalidCount).
			Context("count %d must be positive", u.Count).Err()
	}

	var below int64
	for i := range u.Children {
		n, err := checkUnit(&u.Children[i], where, overlay, depth+1)
		if err != nil {
			return 0, err
		}
		below += n
		if below > MaxPools {
			return 0, resgraph.NewValidationError("validate").Unit(where).Cause(resgraph.ErrInvalidCount).
				Context("expands to more than %d pools", MaxPools).Err()
		}
	}
	if overlay {
		return 0, nil
	}

	n := int64(u.Count) * (1 + below)
	if n > MaxPools {
		return 0, resgraph.NewValidationError("validate").Unit(where).Cause(resgraph.ErrInvalidCount).
			Context("expands to more than %d pools", MaxPools).Err()
	}
	return n, nil
}
