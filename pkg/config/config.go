// Package config holds the run configuration of the resource-proto driver:
// defaults, an optional YAML file and RESGRAPH_* environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-resgraph/pkg/export"
	"github.com/dd0wney/cluso-resgraph/pkg/logging"
	"github.com/dd0wney/cluso-resgraph/pkg/matcher"
	"github.com/dd0wney/cluso-resgraph/pkg/spec"
	"github.com/dd0wney/cluso-resgraph/pkg/validation"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "RESGRAPH_"

// MaxWorkers bounds the matcher job concurrency a run may ask for.
const MaxWorkers = 1024

// Request asks the rollup visitor for Count units of Type under pools of
// type Within.
type Request struct {
	Type   string `yaml:"type,omitempty"`
	Count  int64  `yaml:"count,omitempty"`
	Within string `yaml:"within,omitempty"`
}

// Enabled reports whether a request was given.
func (r Request) Enabled() bool {
	return r.Type != ""
}

// RunConfig configures one driver run.
type RunConfig struct {
	Scale       string   `yaml:"scale"`
	SpecFile    string   `yaml:"spec_file,omitempty"` // replaces Scale when set
	Matcher     string   `yaml:"matcher"`
	GraphFormat string   `yaml:"graph_format"`
	Output      string   `yaml:"output,omitempty"` // basename; empty writes nothing
	Compress    bool     `yaml:"compress,omitempty"`
	LogLevel    string   `yaml:"log_level"`
	Parallel    []string `yaml:"parallel,omitempty"` // extra matchers run concurrently
	Workers     int      `yaml:"workers"`
	Verify      bool     `yaml:"verify,omitempty"`
	Request     Request  `yaml:"request,omitempty"`
}

// DefaultRunConfig returns the configuration of a bare run: the mini
// topology under the containment matcher, no output file.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Scale:       spec.Mini.String(),
		Matcher:     matcher.Default,
		GraphFormat: export.DOT.String(),
		LogLevel:    "info",
		Workers:     runtime.NumCPU(),
	}
}

// ApplyDefaults fills unset fields from DefaultRunConfig.
func (c *RunConfig) ApplyDefaults() {
	d := DefaultRunConfig()
	c.Scale = validation.DefaultOr(c.Scale, d.Scale)
	c.Matcher = validation.DefaultOr(c.Matcher, d.Matcher)
	c.GraphFormat = validation.DefaultOr(c.GraphFormat, d.GraphFormat)
	c.LogLevel = validation.DefaultOr(c.LogLevel, d.LogLevel)
	c.Workers = validation.DefaultOrInt(c.Workers, d.Workers)
	c.Workers = min(c.Workers, MaxWorkers)
}

// Validate checks every field and reports all problems at once.
func (c *RunConfig) Validate() error {
	return validation.NewConfigValidator("RunConfig").
		When(c.SpecFile == "", func(cv *validation.ConfigValidator) {
			cv.OneOf("Scale", c.Scale, spec.ScaleNames())
		}).
		Custom("Matcher", func() error { return knownMatcher(c.Matcher) }).
		OneOf("GraphFormat", c.GraphFormat, export.FormatNames()).
		Custom("LogLevel", func() error {
			_, err := logging.ParseLevelStrict(c.LogLevel)
			return err
		}).
		RangeInt("Workers", c.Workers, 1, MaxWorkers).
		Custom("Parallel", func() error {
			var errs []error
			for _, name := range c.Parallel {
				errs = append(errs, knownMatcher(name))
			}
			return errors.Join(errs...)
		}).
		When(c.Request.Enabled(), func(cv *validation.ConfigValidator) {
			cv.Positive64("Request.Count", c.Request.Count)
		}).
		When(!c.Request.Enabled(), func(cv *validation.ConfigValidator) {
			cv.Custom("Request.Type", func() error {
				if c.Request.Count != 0 || c.Request.Within != "" {
					return errors.New("required when count or within is set")
				}
				return nil
			})
		}).
		Validate()
}

func knownMatcher(name string) error {
	if _, ok := matcher.Lookup(name); !ok {
		return &matcher.UnknownMatcherError{Name: name}
	}
	return nil
}

// Decode reads a YAML run configuration over the defaults. Unknown keys are
// rejected.
func Decode(r io.Reader) (*RunConfig, error) {
	cfg := DefaultRunConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode run config: %w", err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// LoadFile reads the run configuration at path.
func LoadFile(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read run config: %w", err)
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Load builds the run configuration from the defaults, the file at path
// when path is not empty, and the process environment, then validates it.
func Load(path string) (*RunConfig, error) {
	cfg := DefaultRunConfig()
	if path != "" {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overrides fields from RESGRAPH_* variables found by lookup. A
// plain LOG_LEVEL is honored when RESGRAPH_LOG_LEVEL is not set.
func (c *RunConfig) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	str("SCALE", &c.Scale)
	str("SPEC", &c.SpecFile)
	str("MATCHER", &c.Matcher)
	str("GRAPH_FORMAT", &c.GraphFormat)
	str("OUTPUT", &c.Output)
	str("REQUEST_TYPE", &c.Request.Type)
	str("REQUEST_WITHIN", &c.Request.Within)

	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		c.LogLevel = v
	}
	str("LOG_LEVEL", &c.LogLevel)

	if v, ok := lookup(EnvPrefix + "PARALLEL"); ok && v != "" {
		c.Parallel = SplitList(v)
	}

	var errs []error
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = b
		}
	}
	boolean("COMPRESS", &c.Compress)
	boolean("VERIFY", &c.Verify)

	if v, ok := lookup(EnvPrefix + "WORKERS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sWORKERS: %w", EnvPrefix, err))
		} else {
			c.Workers = n
		}
	}
	if v, ok := lookup(EnvPrefix + "REQUEST_COUNT"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sREQUEST_COUNT: %w", EnvPrefix, err))
		} else {
			c.Request.Count = n
		}
	}
	return errors.Join(errs...)
}

// Matchers returns the primary matcher followed by the parallel ones, with
// case-insensitive duplicates removed.
func (c *RunConfig) Matchers() []string {
	seen := make(map[string]bool, len(c.Parallel)+1)
	out := make([]string, 0, len(c.Parallel)+1)
	for _, name := range append([]string{c.Matcher}, c.Parallel...) {
		key := strings.ToLower(name)
		if policy, ok := matcher.Lookup(name); ok {
			key = strings.ToLower(policy.Name)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}

// SplitList parses a comma-separated matcher list.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
