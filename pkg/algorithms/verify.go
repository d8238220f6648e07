package algorithms

import (
	"fmt"

	"github.com/dd0wney/cluso-resgraph/pkg/resgraph"
	"github.com/dd0wney/cluso-resgraph/pkg/view"
)

// Report is the structural summary of a view.
type Report struct {
	Matcher     string
	Pools       int
	Relations   int
	Roots       int
	Forest      bool
	Cycles      []Cycle
	Unreachable []resgraph.PoolID
}

// OK reports whether the view can be walked without a cycle error and
// without leaving pools behind.
func (r Report) OK() bool {
	return len(r.Cycles) == 0 && len(r.Unreachable) == 0
}

func (r Report) String() string {
	return fmt.Sprintf("%s: pools=%d relations=%d roots=%d forest=%t cycles=%d unreachable=%d",
		r.Matcher, r.Pools, r.Relations, r.Roots, r.Forest, len(r.Cycles), len(r.Unreachable))
}

// Verify checks v for cycles and for pools unreachable from its roots.
func Verify(v *view.View) Report {
	cycles := DetectCycles(v)
	return Report{
		Matcher:     v.Config().Name(),
		Pools:       v.PoolCount(),
		Relations:   v.RelationCount(),
		Roots:       len(v.Roots()),
		Forest:      len(cycles) == 0 && IsForest(v),
		Cycles:      cycles,
		Unreachable: Unreachable(v),
	}
}
