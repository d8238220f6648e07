package traverser

import (
	"github.com/dd0wney/cluso-resgraph/pkg/resgraph"
)

// Action tells the traverser how to proceed after a hook.
type Action int

const (
	// Continue descends into the children of the vertex.
	Continue Action = iota
	// SkipSubtree treats the vertex as a leaf and moves to its up phase.
	SkipSubtree
	// Abort ends the whole walk.
	Abort
)

func (a Action) String() string {
	switch a {
	case Continue:
		return "continue"
	case SkipSubtree:
		return "skip-subtree"
	case Abort:
		return "abort"
	default:
		return "unknown"
	}
}

// Annotation is the per-vertex value a visitor leaves behind in PreUp. It is
// recorded in the result and passed to the parent among its children results.
type Annotation any

// Event describes the vertex a hook is called for.
type Event struct {
	Pool  *resgraph.Pool
	Via   *resgraph.Relation // relation the vertex was reached through, nil at a root
	Depth int                // 0 at a root
	Root  resgraph.PoolID    // root of the current descent
}

// Visitor receives the four DFU events of every vertex. For one vertex the
// order is PreDown, the walks of its children, PostDown, PreUp and PostUp.
//
// children holds the PreUp annotations of the children entered from this
// vertex, in child order. A child that was already finished through another
// parent is not entered again and contributes nothing.
type Visitor interface {
	PreDown(ev Event) Action
	PostDown(ev Event, children []Annotation) Action
	PreUp(ev Event, children []Annotation) (Annotation, Action)
	PostUp(ev Event) Action
}

// NopVisitor continues everywhere and annotates nothing.
type NopVisitor struct{}

func (NopVisitor) PreDown(Event) Action                           { return Continue }
func (NopVisitor) PostDown(Event, []Annotation) Action            { return Continue }
func (NopVisitor) PreUp(Event, []Annotation) (Annotation, Action) { return nil, Continue }
func (NopVisitor) PostUp(Event) Action                            { return Continue }

// FuncVisitor adapts plain functions to a Visitor. Nil hooks continue.
type FuncVisitor struct {
	OnPreDown  func(ev Event) Action
	OnPostDown func(ev Event, children []Annotation) Action
	OnPreUp    func(ev Event, children []Annotation) (Annotation, Action)
	OnPostUp   func(ev Event) Action
}

func (f FuncVisitor) PreDown(ev Event) Action {
	if f.OnPreDown == nil {
		return Continue
	}
	return f.OnPreDown(ev)
}

func (f FuncVisitor) PostDown(ev Event, children []Annotation) Action {
	if f.OnPostDown == nil {
		return Continue
	}
	return f.OnPostDown(ev, children)
}

func (f FuncVisitor) PreUp(ev Event, children []Annotation) (Annotation, Action) {
	if f.OnPreUp == nil {
		return nil, Continue
	}
	return f.OnPreUp(ev, children)
}

func (f FuncVisitor) PostUp(ev Event) Action {
	if f.OnPostUp == nil {
		return Continue
	}
	return f.OnPostUp(ev)
}
