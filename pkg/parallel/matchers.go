package parallel

import (
	"context"
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-resgraph/pkg/logging"
	"github.com/dd0wney/cluso-resgraph/pkg/matcher"
	"github.com/dd0wney/cluso-resgraph/pkg/resgraph"
	"github.com/dd0wney/cluso-resgraph/pkg/traverser"
	"github.com/dd0wney/cluso-resgraph/pkg/view"
)

// ErrJobPanicked wraps a panic raised while a job ran.
var ErrJobPanicked = errors.New("matcher job panicked")

// Job is one configure, project and traverse run. Its visitor is owned by
// the job and must not be shared with another job.
type Job struct {
	Matcher string
	Visitor traverser.Visitor // nil walks with a NopVisitor
	Roots   []resgraph.PoolID // nil walks from the view roots
}

// Outcome is the result of one Job. Err is set when configuration or the
// traversal failed; Config, View and Result hold whatever was produced
// before the failure.
type Outcome struct {
	Matcher string
	Config  *matcher.Config
	View    *view.View
	Result  *traverser.Result
	Err     error
}

// Runner runs jobs against one sealed graph.
type Runner struct {
	graph     *resgraph.Graph
	workers   int
	projector *view.Projector
	traverser *traverser.Traverser
	logger    logging.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithWorkers sets the number of jobs run at once.
func WithWorkers(n int) RunnerOption {
	return func(r *Runner) { r.workers = n }
}

// WithProjector sets the projector views are built with.
func WithProjector(p *view.Projector) RunnerOption {
	return func(r *Runner) { r.projector = p }
}

// WithTraverser sets the traverser jobs walk with.
func WithTraverser(t *traverser.Traverser) RunnerOption {
	return func(r *Runner) { r.traverser = t }
}

// WithLogger sets the runner logger.
func WithLogger(l logging.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// NewRunner creates a Runner over g, which must be sealed.
func NewRunner(g *resgraph.Graph, opts ...RunnerOption) *Runner {
	r := &Runner{graph: g, workers: 1, logger: logging.NewNopLogger()}
	for _, opt := range opts {
		opt(r)
	}
	if r.projector == nil {
		r.projector = view.NewProjector()
	}
	if r.traverser == nil {
		r.traverser = traverser.New(traverser.WithLogger(r.logger))
	}
	return r
}

// Run executes jobs and returns their outcomes in job order. Jobs not yet
// started when ctx is done report ctx.Err().
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Outcome, error) {
	if !r.graph.Sealed() {
		return nil, resgraph.ErrNotSealed
	}
	pool, err := NewWorkerPool(min(r.workers, max(len(jobs), 1)), WithPoolLogger(r.logger))
	if err != nil {
		return nil, err
	}

	out := make([]Outcome, len(jobs))
	for i := range jobs {
		out[i].Matcher = jobs[i].Matcher
		pool.Submit(func() { r.runJob(ctx, jobs[i], &out[i]) })
	}
	pool.Wait()

	r.logger.Info("matcher jobs finished",
		logging.Count(len(jobs)),
		logging.Int("workers", pool.Workers()),
		logging.Int("failed", countFailed(out)))
	return out, nil
}

func (r *Runner) runJob(ctx context.Context, job Job, o *Outcome) {
	defer func() {
		if p := recover(); p != nil {
			o.Err = fmt.Errorf("%w: %s: %v", ErrJobPanicked, job.Matcher, p)
		}
	}()

	if err := ctx.Err(); err != nil {
		o.Err = err
		return
	}
	cfg, err := matcher.Configure(r.graph.Registry(), job.Matcher)
	o.Config = cfg
	if err != nil {
		o.Err = err
		return
	}
	o.View = r.projector.Project(r.graph, cfg)
	o.Result, o.Err = r.traverser.Traverse(o.View, job.Roots, cfg, job.Visitor)
}

func countFailed(out []Outcome) int {
	n := 0
	for _, o := range out {
		if o.Err != nil {
			n++
		}
	}
	return n
}

// RunMatchers runs one NopVisitor job per matcher name on workers goroutines.
func RunMatchers(ctx context.Context, g *resgraph.Graph, names []string, workers int) ([]Outcome, error) {
	jobs := make([]Job, len(names))
	for i, name := range names {
		jobs[i] = Job{Matcher: name}
	}
	return NewRunner(g, WithWorkers(workers)).Run(ctx, jobs)
}
