package traverser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-resgraph/pkg/resgraph"
)

// ErrCycleDetected is the sentinel matched by CycleDetectedError.
var ErrCycleDetected = errors.New("cycle detected")

// CycleDetectedError reports a vertex met again on the current descent path.
// Path runs from the root to the repeated vertex, which appears at both ends
// of the cycle.
type CycleDetectedError struct {
	Pool resgraph.PoolID
	Path []resgraph.PoolID
}

func (e *CycleDetectedError) Error() string {
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = fmt.Sprint(id)
	}
	return fmt.Sprintf("%v at pool %d (path %s)", ErrCycleDetected, e.Pool, strings.Join(parts, " -> "))
}

// Is reports whether target is ErrCycleDetected.
func (e *CycleDetectedError) Is(target error) bool {
	return target == ErrCycleDetected
}

// errAborted unwinds the recursion after a hook returned Abort.
var errAborted = errors.New("traversal aborted")
