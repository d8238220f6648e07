package matcher

import (
	"strings"

	"github.com/dd0wney/cluso-resgraph/pkg/resgraph"
)

// Policy is a named, data-driven sequence of activation steps.
type Policy struct {
	Name        string
	Aliases     []string
	Description string
	Steps       []Pair
}

// Default is the policy used when none is named.
const Default = "CA"

var catalog = []Policy{
	{
		Name:        "CA",
		Aliases:     []string{"containment-only"},
		Description: "containment hierarchy only",
		Steps:       []Pair{{resgraph.Containment, resgraph.Contains}},
	},
	{
		Name:        "IBA",
		Aliases:     []string{"interconnect-aware"},
		Description: "interconnect fabric",
		Steps:       []Pair{{resgraph.IBNet, resgraph.Wildcard}},
	},
	{
		Name:        "IBBA",
		Aliases:     []string{"interconnect-bandwidth-aware"},
		Description: "interconnect bandwidth",
		Steps:       []Pair{{resgraph.IBNetBW, resgraph.Wildcard}},
	},
	{
		Name:        "PFS1BA",
		Aliases:     []string{"bandwidth-aware", "filesystem-bandwidth-aware"},
		Description: "parallel filesystem bandwidth",
		Steps:       []Pair{{resgraph.PFS1BW, resgraph.FlowsUp}},
	},
	{
		Name:        "PA",
		Aliases:     []string{"power-aware"},
		Description: "power distribution",
		Steps:       []Pair{{resgraph.Power, resgraph.Wildcard}},
	},
	{
		Name:        "C+IBA",
		Description: "containment plus uplinks to the interconnect",
		Steps:       []Pair{{resgraph.Containment, resgraph.Contains}, {resgraph.IBNet, resgraph.ConnectedUp}},
	},
	{
		Name:        "C+PFS1BA",
		Description: "containment plus filesystem bandwidth",
		Steps:       []Pair{{resgraph.Containment, resgraph.Contains}, {resgraph.PFS1BW, resgraph.FlowsUp}},
	},
	{
		Name:        "C+PA",
		Description: "containment plus power draw",
		Steps:       []Pair{{resgraph.Containment, resgraph.Contains}, {resgraph.Power, resgraph.Drawn}},
	},
	{
		Name:        "IB+IBBA",
		Description: "interconnect downlinks plus interconnect bandwidth",
		Steps:       []Pair{{resgraph.IBNet, resgraph.ConnectedDown}, {resgraph.IBNetBW, resgraph.Wildcard}},
	},
	{
		Name:        "C+P+IBA",
		Description: "containment, power draw and interconnect uplinks",
		Steps: []Pair{
			{resgraph.Containment, resgraph.Contains},
			{resgraph.Power, resgraph.Drawn},
			{resgraph.IBNet, resgraph.ConnectedUp},
		},
	},
	{
		Name:        "ALL",
		Aliases:     []string{"all"},
		Description: "every subsystem, any relation",
		Steps: []Pair{
			{resgraph.Containment, resgraph.Wildcard},
			{resgraph.IBNet, resgraph.Wildcard},
			{resgraph.IBNetBW, resgraph.Wildcard},
			{resgraph.PFS1BW, resgraph.Wildcard},
			{resgraph.Power, resgraph.Wildcard},
		},
	},
}

var index = func() map[string]int {
	idx := make(map[string]int, 2*len(catalog))
	for i, p := range catalog {
		idx[strings.ToLower(p.Name)] = i
		for _, a := range p.Aliases {
			idx[strings.ToLower(a)] = i
		}
	}
	return idx
}()

// Catalog returns every policy in catalog order.
func Catalog() []Policy {
	out := make([]Policy, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup resolves a policy by name or alias, ignoring case.
func Lookup(name string) (Policy, bool) {
	i, ok := index[strings.ToLower(name)]
	if !ok {
		return Policy{}, false
	}
	return catalog[i], true
}

// Configure builds the configuration of the named policy against reg. The
// steps run in order and the first failing step stops the sequence; the
// partial configuration is returned alongside the error.
func Configure(reg *resgraph.Registry, name string) (*Config, error) {
	p, ok := Lookup(name)
	if !ok {
		return nil, &UnknownMatcherError{Name: name}
	}
	cfg := NewConfig(p.Name)
	for _, step := range p.Steps {
		if err := cfg.AddSubsystem(reg, step.Subsystem, step.Filter); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}
