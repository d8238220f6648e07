package traverser

import (
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-resgraph/pkg/resgraph"
	"github.com/dd0wney/cluso-resgraph/pkg/view"
)

// Result is the outcome of one traversal. It is owned by the caller and
// never shared with other traversals.
type Result struct {
	RunID       uuid.UUID
	Matcher     string
	Roots       []resgraph.PoolID              // roots walked, ascending
	Visited     []resgraph.PoolID              // pools in pre-down order
	Tree        []resgraph.RelationID          // relations descended through
	Annotations map[resgraph.PoolID]Annotation // non-nil PreUp annotations
	Events      int                            // hook invocations
	Aborted     bool
	Start       time.Time
	End         time.Time
	Elapsed     time.Duration

	view *view.View
	seen []uint64
}

func newResult(v *view.View, matcher string) *Result {
	return &Result{
		RunID:       uuid.New(),
		Matcher:     matcher,
		Visited:     make([]resgraph.PoolID, 0, v.PoolCount()),
		Tree:        make([]resgraph.RelationID, 0, v.PoolCount()),
		Annotations: make(map[resgraph.PoolID]Annotation),
		view:        v,
		seen:        make([]uint64, (v.Graph().PoolCount()+63)/64),
	}
}

// View returns the view the traversal walked.
func (r *Result) View() *view.View {
	return r.view
}

// Registry returns the subsystem registry of the walked graph.
func (r *Result) Registry() *resgraph.Registry {
	return r.view.Registry()
}

// WasVisited reports whether the traversal entered the pool.
func (r *Result) WasVisited(id resgraph.PoolID) bool {
	i := uint64(id)
	w := i >> 6
	return w < uint64(len(r.seen)) && r.seen[w]&(1<<(i&63)) != 0
}

func (r *Result) markVisited(id resgraph.PoolID) {
	i := uint64(id)
	r.seen[i>>6] |= 1 << (i & 63)
}

// Annotation returns the annotation left on a pool.
func (r *Result) Annotation(id resgraph.PoolID) (Annotation, bool) {
	a, ok := r.Annotations[id]
	return a, ok
}

// EachPool calls fn for every visited pool in id order until fn returns false.
func (r *Result) EachPool(fn func(*resgraph.Pool) bool) {
	r.view.EachPool(func(p *resgraph.Pool) bool {
		if !r.WasVisited(p.ID) {
			return true
		}
		return fn(p)
	})
}

// EachRelation calls fn, in id order, for every view relation whose
// endpoints were both visited.
func (r *Result) EachRelation(fn func(*resgraph.Relation) bool) {
	r.view.EachRelation(func(rel *resgraph.Relation) bool {
		if !r.WasVisited(rel.From) || !r.WasVisited(rel.To) {
			return true
		}
		return fn(rel)
	})
}
