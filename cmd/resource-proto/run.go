package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dd0wney/cluso-resgraph/pkg/algorithms"
	"github.com/dd0wney/cluso-resgraph/pkg/builder"
	"github.com/dd0wney/cluso-resgraph/pkg/config"
	"github.com/dd0wney/cluso-resgraph/pkg/export"
	"github.com/dd0wney/cluso-resgraph/pkg/logging"
	"github.com/dd0wney/cluso-resgraph/pkg/matcher"
	"github.com/dd0wney/cluso-resgraph/pkg/metrics"
	"github.com/dd0wney/cluso-resgraph/pkg/parallel"
	"github.com/dd0wney/cluso-resgraph/pkg/resgraph"
	"github.com/dd0wney/cluso-resgraph/pkg/spec"
	"github.com/dd0wney/cluso-resgraph/pkg/traverser"
	"github.com/dd0wney/cluso-resgraph/pkg/view"
)

// errVerify is returned when --verify finds a view that cannot be walked cleanly.
var errVerify = errors.New("view verification failed")

func run(c *cli.Context) error {
	out := c.App.Writer

	if c.Bool("display-matchers") {
		displayMatchers(out)
		return nil
	}

	cfg, err := runConfig(c)
	if err != nil {
		return err
	}

	level, _ := logging.ParseLevelStrict(cfg.LogLevel)
	logger := logging.NewJSONLogger(c.App.ErrWriter, level).With(logging.Component("resource-proto"))
	reg := metrics.NewRegistry()

	s, err := loadSpec(cfg)
	if err != nil {
		return err
	}
	g, err := builder.New(builder.WithLogger(logger), builder.WithMetrics(reg)).Build(s)
	if err != nil {
		return fmt.Errorf("error in generating resources: %w", err)
	}

	if c.Bool("list-subsystems") {
		for _, name := range g.Registry().Names() {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	fmt.Fprintln(out, "[INFO] Load the matcher ...")
	jobs := make([]parallel.Job, 0, len(cfg.Parallel)+1)
	var request *traverser.MatchVisitor
	for i, name := range cfg.Matchers() {
		job := parallel.Job{Matcher: name}
		if i == 0 && cfg.Request.Enabled() {
			request = traverser.NewMatchVisitor(cfg.Request.Type, cfg.Request.Count, cfg.Request.Within)
			job.Visitor = request
		}
		jobs = append(jobs, job)
	}

	runner := parallel.NewRunner(g,
		parallel.WithWorkers(cfg.Workers),
		parallel.WithLogger(logger),
		parallel.WithProjector(view.NewProjector(view.WithLogger(logger), view.WithMetrics(reg))),
		parallel.WithTraverser(traverser.New(traverser.WithLogger(logger), traverser.WithMetrics(reg))),
	)
	outcomes, err := runner.Run(appContext(c), jobs)
	if err != nil {
		return err
	}

	primary := outcomes[0]
	if primary.Err != nil {
		return fmt.Errorf("matcher %s: %w", primary.Matcher, primary.Err)
	}
	fmt.Fprintln(out, banner(primary.Result))

	for _, o := range outcomes[1:] {
		if o.Err != nil {
			fmt.Fprintf(out, "[WARN] %s: %v\n", o.Matcher, o.Err)
			continue
		}
		fmt.Fprintf(out, "[INFO] %s: visited %d of %d pools in %s\n",
			o.Config.Name(), len(o.Result.Visited), o.View.PoolCount(), o.Result.Elapsed)
	}

	if request != nil {
		printMatches(out, g, cfg.Request, request.Matches())
	}

	if cfg.Verify {
		if err := verify(out, outcomes); err != nil {
			return err
		}
	}

	if cfg.Output != "" {
		format, _ := export.ParseFormat(cfg.GraphFormat)
		fmt.Fprintln(out, "[INFO] Write the target graph of the matcher...")
		path, err := export.WriteFile(cfg.Output, format, primary.View, cfg.Compress)
		if err != nil {
			return err
		}
		logger.Info("graph exported", logging.Path(path), logging.Matcher(primary.Config.Name()))
	}

	reg.UpdateSystemMetrics()
	return nil
}

// runConfig layers the command line flags over the run configuration file
// and the environment.
func runConfig(c *cli.Context) (*config.RunConfig, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	str := map[string]*string{
		"graph-scale":    &cfg.Scale,
		"spec":           &cfg.SpecFile,
		"matcher":        &cfg.Matcher,
		"graph-format":   &cfg.GraphFormat,
		"output":         &cfg.Output,
		"log-level":      &cfg.LogLevel,
		"request-type":   &cfg.Request.Type,
		"request-within": &cfg.Request.Within,
	}
	for flag, dst := range str {
		if c.IsSet(flag) {
			*dst = c.String(flag)
		}
	}
	if c.IsSet("compress") {
		cfg.Compress = c.Bool("compress")
	}
	if c.IsSet("verify") {
		cfg.Verify = c.Bool("verify")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("request-count") {
		cfg.Request.Count = c.Int64("request-count")
	}
	if c.IsSet("parallel") {
		cfg.Parallel = config.SplitList(c.String("parallel"))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadSpec(cfg *config.RunConfig) (*spec.Specification, error) {
	if cfg.SpecFile != "" {
		return spec.LoadFile(cfg.SpecFile)
	}
	scale, err := spec.ParseScale(cfg.Scale)
	if err != nil {
		return nil, err
	}
	return spec.ForScale(scale), nil
}

func displayMatchers(w io.Writer) {
	for _, p := range matcher.Catalog() {
		steps := make([]string, len(p.Steps))
		for i, s := range p.Steps {
			steps[i] = s.Subsystem + ":" + s.Filter
		}
		fmt.Fprintf(w, "%-9s %s [%s]\n", p.Name, p.Description, strings.Join(steps, ", "))
	}
}

func printMatches(w io.Writer, g *resgraph.Graph, req config.Request, matches []resgraph.PoolID) {
	within := req.Within
	if within == "" {
		within = "any pool"
	}
	fmt.Fprintf(w, "[INFO] %d pools of %s hold at least %d %s\n", len(matches), within, req.Count, req.Type)
	for _, id := range matches {
		p, _ := g.Pool(id)
		fmt.Fprintf(w, "  %s\n", p.Name)
	}
}

func verify(w io.Writer, outcomes []parallel.Outcome) error {
	var failed []string
	for _, o := range outcomes {
		if o.View == nil {
			continue
		}
		report := algorithms.Verify(o.View)
		fmt.Fprintf(w, "[VERIFY] %s\n", report)
		if !report.OK() {
			failed = append(failed, report.Matcher)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%w: %s", errVerify, strings.Join(failed, ", "))
	}
	return nil
}

// appContext returns the command context, or a background one outside app.Run.
func appContext(c *cli.Context) context.Context {
	if c.Context != nil {
		return c.Context
	}
	return context.Background()
}
