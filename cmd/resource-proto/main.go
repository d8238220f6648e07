// resource-proto builds a test resource graph, walks it under a matcher and
// optionally exports the filtered graph.
//
// Usage:
//
//	resource-proto [--graph-scale mini] [--matcher CA] [--graph-format dot] [--output basename]
//	resource-proto --spec cluster.yaml --matcher C+PA --request-type core --request-count 16 --request-within node
//	resource-proto --list-subsystems
//	resource-proto --display-matchers
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dd0wney/cluso-resgraph/pkg/export"
	"github.com/dd0wney/cluso-resgraph/pkg/matcher"
	"github.com/dd0wney/cluso-resgraph/pkg/spec"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "resource-proto",
		Usage:     "build a test resource graph and walk it under a matcher",
		Version:   fmt.Sprintf("%s (commit: %s)", version, commit),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "graph-scale",
				Aliases: []string{"s"},
				Usage:   "scale of the test resource graph: " + strings.Join(spec.ScaleNames(), "|"),
			},
			&cli.StringFlag{
				Name:  "spec",
				Usage: "YAML resource specification to build instead of a built-in scale",
			},
			&cli.StringFlag{
				Name:    "matcher",
				Aliases: []string{"m"},
				Usage:   "matcher to walk with: " + strings.Join(matcherNames(), "|"),
			},
			&cli.BoolFlag{
				Name:    "list-subsystems",
				Aliases: []string{"l"},
				Usage:   "list the subsystems of the resource graph and exit",
			},
			&cli.BoolFlag{
				Name:  "display-matchers",
				Usage: "describe the available matchers and exit",
			},
			&cli.StringFlag{
				Name:    "graph-format",
				Aliases: []string{"g"},
				Usage:   "format of the output file: " + strings.Join(export.FormatNames(), "|"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "basename of the output file; the filtered graph is written to <basename>.<format>",
			},
			&cli.BoolFlag{
				Name:  "compress",
				Usage: "snappy-compress the output file (<basename>.<format>.sz)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML run configuration",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "parallel",
				Usage: "comma-separated matchers walked concurrently with the main one",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "number of matchers walked at once",
			},
			&cli.StringFlag{
				Name:  "request-type",
				Usage: "resource type to roll up, e.g. core",
			},
			&cli.Int64Flag{
				Name:  "request-count",
				Usage: "units of --request-type required",
			},
			&cli.StringFlag{
				Name:  "request-within",
				Usage: "only report pools of this type, e.g. node",
			},
			&cli.BoolFlag{
				Name:  "verify",
				Usage: "check every walked view for cycles and unreachable pools",
			},
		},
		Action: run,
	}
}

func matcherNames() []string {
	policies := matcher.Catalog()
	names := make([]string, len(policies))
	for i, p := range policies {
		names[i] = p.Name
	}
	return names
}
