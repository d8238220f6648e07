// Package traverser implements the depth-first down/up (DFU) walk over a
// filtered view.
package traverser

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dd0wney/cluso-resgraph/pkg/logging"
	"github.com/dd0wney/cluso-resgraph/pkg/matcher"
	"github.com/dd0wney/cluso-resgraph/pkg/metrics"
	"github.com/dd0wney/cluso-resgraph/pkg/pools"
	"github.com/dd0wney/cluso-resgraph/pkg/resgraph"
	"github.com/dd0wney/cluso-resgraph/pkg/view"
)

// Option configures a Traverser.
type Option func(*Traverser)

// WithLogger sets the traverser logger.
func WithLogger(l logging.Logger) Option {
	return func(t *Traverser) { t.logger = l }
}

// WithMetrics sets the registry traversal metrics are recorded in.
func WithMetrics(m *metrics.Registry) Option {
	return func(t *Traverser) { t.metrics = m }
}

// Traverser runs DFU walks. It carries no per-walk state, so one Traverser
// may run walks over different views from several goroutines at once.
type Traverser struct {
	logger  logging.Logger
	metrics *metrics.Registry
}

// New creates a Traverser.
func New(opts ...Option) *Traverser {
	t := &Traverser{logger: logging.NewNopLogger()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Traverse walks v with a default Traverser.
func Traverse(v *view.View, roots []resgraph.PoolID, cfg *matcher.Config, vis Visitor) (*Result, error) {
	return New().Traverse(v, roots, cfg, vis)
}

// Traverse walks v depth first from roots, in ascending id, calling the hooks
// of vis. A nil roots slice walks from v.Roots(); a nil cfg names the result
// after the view's configuration.
//
// Children are taken in view adjacency order. The visited set is shared by
// all roots, so every reachable pool is entered exactly once. Reaching a pool
// that is still on the descent path fails with a *CycleDetectedError, and the
// partial result is returned alongside it. A hook returning Abort stops the
// walk with Aborted set and no error.
func (t *Traverser) Traverse(v *view.View, roots []resgraph.PoolID, cfg *matcher.Config, vis Visitor) (*Result, error) {
	if cfg == nil {
		cfg = v.Config()
	}
	if vis == nil {
		vis = NopVisitor{}
	}
	if roots == nil {
		roots = v.Roots()
	}

	res := newResult(v, cfg.Name())
	log := t.logger.With(logging.Matcher(res.Matcher), logging.RunID(res.RunID.String()))

	sorted := make([]resgraph.PoolID, len(roots))
	copy(sorted, roots)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	if t.metrics != nil {
		t.metrics.TraversalStarted()
	}
	res.Start = time.Now()

	w := &walk{
		view:   v,
		graph:  v.Graph(),
		vis:    vis,
		res:    res,
		onPath: pools.GetWords(len(res.seen)),
	}
	err := w.run(sorted, log)
	pools.PutWords(w.onPath)

	res.End = time.Now()
	res.Elapsed = res.End.Sub(res.Start)

	status := "success"
	switch {
	case errors.Is(err, errAborted):
		res.Aborted = true
		status = "aborted"
		err = nil
	case errors.Is(err, ErrCycleDetected):
		status = "cycle"
	case err != nil:
		status = "error"
	}

	if t.metrics != nil {
		t.metrics.RecordTraversal(res.Matcher, status, res.Elapsed, len(res.Visited))
	}
	if err != nil {
		log.Error("traversal failed", logging.Error(err), logging.Count(len(res.Visited)), logging.Latency(res.Elapsed))
		return res, err
	}
	log.Info("traversal finished",
		logging.String("status", status),
		logging.Count(len(res.Visited)),
		logging.Int("events", res.Events),
		logging.Latency(res.Elapsed))
	return res, nil
}

type walk struct {
	view   *view.View
	graph  *resgraph.Graph
	vis    Visitor
	res    *Result
	onPath []uint64
	path   []resgraph.PoolID
	root   resgraph.PoolID
}

func (w *walk) run(roots []resgraph.PoolID, log logging.Logger) error {
	for i, root := range roots {
		if i > 0 && root == roots[i-1] {
			continue
		}
		if int(root) >= w.graph.PoolCount() {
			return fmt.Errorf("%w: root %d", resgraph.ErrPoolNotFound, root)
		}
		if !w.view.HasPool(root) {
			log.Warn("root not in view, skipping", logging.PoolID(uint64(root)))
			continue
		}
		if w.res.WasVisited(root) {
			continue
		}
		w.res.Roots = append(w.res.Roots, root)
		w.root = root
		if _, _, err := w.visit(root, nil, 0); err != nil {
			return err
		}
	}
	return nil
}

// visit runs the DFU events of id and its subtree. It reports false when id
// had already been finished and was not entered.
func (w *walk) visit(id resgraph.PoolID, via *resgraph.Relation, depth int) (Annotation, bool, error) {
	if hasBit(w.onPath, id) {
		path := make([]resgraph.PoolID, len(w.path), len(w.path)+1)
		copy(path, w.path)
		return nil, false, &CycleDetectedError{Pool: id, Path: append(path, id)}
	}
	if w.res.WasVisited(id) {
		return nil, false, nil
	}

	pool, _ := w.graph.Pool(id)
	ev := Event{Pool: pool, Via: via, Depth: depth, Root: w.root}

	w.res.markVisited(id)
	w.res.Visited = append(w.res.Visited, id)
	if via != nil {
		w.res.Tree = append(w.res.Tree, via.ID)
	}
	setBit(w.onPath, id)
	w.path = append(w.path, id)

	w.res.Events++
	act := w.vis.PreDown(ev)
	if act == Abort {
		return nil, true, errAborted
	}

	var children []Annotation
	if act == Continue {
		for _, rid := range w.view.Out(id) {
			rel, _ := w.graph.Relation(rid)
			ann, entered, err := w.visit(rel.To, rel, depth+1)
			if err != nil {
				return nil, true, err
			}
			if entered {
				children = append(children, ann)
			}
		}
	}

	w.res.Events++
	if w.vis.PostDown(ev, children) == Abort {
		return nil, true, errAborted
	}

	w.res.Events++
	ann, act := w.vis.PreUp(ev, children)
	if ann != nil {
		w.res.Annotations[id] = ann
	}
	if act == Abort {
		return ann, true, errAborted
	}

	clearBit(w.onPath, id)
	w.path = w.path[:len(w.path)-1]

	w.res.Events++
	if w.vis.PostUp(ev) == Abort {
		return ann, true, errAborted
	}
	return ann, true, nil
}

func setBit(bits []uint64, id resgraph.PoolID) {
	i := uint64(id)
	bits[i>>6] |= 1 << (i & 63)
}

func clearBit(bits []uint64, id resgraph.PoolID) {
	i := uint64(id)
	bits[i>>6] &^= 1 << (i & 63)
}

func hasBit(bits []uint64, id resgraph.PoolID) bool {
	i := uint64(id)
	return bits[i>>6]&(1<<(i&63)) != 0
}
