package spec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-resgraph/pkg/resgraph"
)

// ErrUnknownScale is returned by ParseScale for an unrecognized tier name.
var ErrUnknownScale = errors.New("unknown graph scale")

// Scale selects one of the built-in cluster sizes.
type Scale int

// Scale tiers, smallest first.
const (
	Mini Scale = iota
	Small
	Medium
	MedPlus
	Large
	Largest
)

var scaleNames = [...]string{"mini", "small", "medium", "medplus", "large", "largest"}

// Topology holds the fan-out numbers of the built-in cluster topology.
type Topology struct {
	CoreSwitches   int
	PowerFeeds     int
	Racks          int
	NodesPerRack   int
	Sockets        int
	CoresPerSocket int
	MemoryGB       int64
}

var scaleTopologies = [...]Topology{
	Mini:    {CoreSwitches: 1, PowerFeeds: 1, Racks: 1, NodesPerRack: 2, Sockets: 2, CoresPerSocket: 4, MemoryGB: 16},
	Small:   {CoreSwitches: 1, PowerFeeds: 1, Racks: 2, NodesPerRack: 8, Sockets: 2, CoresPerSocket: 8, MemoryGB: 32},
	Medium:  {CoreSwitches: 2, PowerFeeds: 2, Racks: 8, NodesPerRack: 16, Sockets: 2, CoresPerSocket: 16, MemoryGB: 64},
	MedPlus: {CoreSwitches: 2, PowerFeeds: 2, Racks: 16, NodesPerRack: 32, Sockets: 2, CoresPerSocket: 16, MemoryGB: 64},
	Large:   {CoreSwitches: 4, PowerFeeds: 4, Racks: 32, NodesPerRack: 64, Sockets: 2, CoresPerSocket: 18, MemoryGB: 128},
	Largest: {CoreSwitches: 8, PowerFeeds: 8, Racks: 64, NodesPerRack: 128, Sockets: 2, CoresPerSocket: 22, MemoryGB: 128},
}

// Scales returns every tier, smallest first.
func Scales() []Scale {
	return []Scale{Mini, Small, Medium, MedPlus, Large, Largest}
}

// ScaleNames returns the tier names, smallest first.
func ScaleNames() []string {
	return scaleNames[:]
}

// ParseScale resolves a tier name, ignoring case.
func ParseScale(name string) (Scale, error) {
	for i, n := range scaleNames {
		if strings.EqualFold(name, n) {
			return Scale(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q (expected one of %s)", ErrUnknownScale, name, strings.Join(scaleNames[:], ", "))
}

// String returns the tier name.
func (s Scale) String() string {
	if s < 0 || int(s) >= len(scaleNames) {
		return fmt.Sprintf("Scale(%d)", int(s))
	}
	return scaleNames[s]
}

// Topology returns the fan-out numbers of the tier.
func (s Scale) Topology() Topology {
	if s < 0 || int(s) >= len(scaleTopologies) {
		return scaleTopologies[Mini]
	}
	return scaleTopologies[s]
}

// ForScale returns the built-in five-subsystem specification at scale s.
func ForScale(s Scale) *Specification {
	spec := FromTopology(s.Topology())
	spec.Name = s.String()
	return spec
}

// Pools returns how many pools the topology expands to.
func (t Topology) Pools() int {
	perSocket := t.CoresPerSocket + 1
	perNode := 1 + t.Sockets*(1+perSocket)
	perRack := 1 + 2 + t.NodesPerRack*perNode
	return 1 + t.CoreSwitches + 1 + t.PowerFeeds + t.Racks*perRack
}

// FromTopology returns the cluster specification for t.
//
// The containment tree is cluster > {core-switch, pfs, power-feed, rack},
// rack > {edge-switch, pdu, node}, node > socket > {core, memory}. Nodes link
// up to their rack's edge switch in ibnet and pfs1bw, edge switches hang off
// the core switches in ibnet and ibnetbw and feed the filesystem in pfs1bw,
// and power runs node > pdu > power-feed.
func FromTopology(t Topology) *Specification {
	containment := Hierarchy{
		Subsystem: resgraph.Containment,
		Units: []Unit{{
			Type:  "cluster",
			Count: 1,
			Children: []Unit{
				{Type: "core-switch", Count: t.CoreSwitches},
				{Type: "pfs", Count: 1, Size: 100, Unit: "GB/s"},
				{Type: "power-feed", Count: t.PowerFeeds, Size: 400, Unit: "kW"},
				{
					Type:  "rack",
					Count: t.Racks,
					Children: []Unit{
						{Type: "edge-switch", Count: 1},
						{Type: "pdu", Count: 1, Size: 40, Unit: "kW"},
						{
							Type:  "node",
							Count: t.NodesPerRack,
							Children: []Unit{{
								Type:  "socket",
								Count: t.Sockets,
								Children: []Unit{
									{Type: "core", Count: t.CoresPerSocket},
									{Type: "memory", Count: 1, Size: t.MemoryGB, Unit: "GB"},
								},
							}},
						},
					},
				},
			},
		}},
	}

	ibnet := Hierarchy{
		Subsystem: resgraph.IBNet,
		Units: []Unit{{
			Attach: "core-switch",
			Children: []Unit{{
				Attach:   "edge-switch",
				Relation: resgraph.ConnectedDown,
				Children: []Unit{{
					Attach:   "node",
					Relation: resgraph.ConnectedUp,
					Upward:   true,
				}},
			}},
		}},
	}

	ibnetbw := Hierarchy{
		Subsystem: resgraph.IBNetBW,
		Units: []Unit{{
			Attach: "core-switch",
			Children: []Unit{{
				Attach:   "edge-switch",
				Relation: resgraph.FlowsDown,
			}},
		}},
	}

	pfs1bw := Hierarchy{
		Subsystem: resgraph.PFS1BW,
		Units: []Unit{{
			Attach: "pfs",
			Children: []Unit{{
				Attach:   "edge-switch",
				Relation: resgraph.FlowsUp,
				Upward:   true,
				Children: []Unit{{
					Attach:   "node",
					Relation: resgraph.FlowsUp,
					Upward:   true,
				}},
			}},
		}},
	}

	power := Hierarchy{
		Subsystem: resgraph.Power,
		Units: []Unit{{
			Attach: "power-feed",
			Children: []Unit{{
				Attach:   "pdu",
				Relation: resgraph.Drawn,
				Upward:   true,
				Children: []Unit{{
					Attach:   "node",
					Relation: resgraph.Drawn,
					Upward:   true,
				}},
			}},
		}},
	}

	return &Specification{Hierarchies: []Hierarchy{containment, ibnet, ibnetbw, pfs1bw, power}}
}

// Simple returns a containment-only specification of one cluster holding
// nodes nodes with cores cores each.
func Simple(nodes, cores int) *Specification {
	return &Specification{
		Name: fmt.Sprintf("%dx%d", nodes, cores),
		Hierarchies: []Hierarchy{{
			Subsystem: resgraph.Containment,
			Units: []Unit{{
				Type:  "cluster",
				Count: 1,
				Children: []Unit{{
					Type:     "node",
					Count:    nodes,
					Children: []Unit{{Type: "core", Count: cores}},
				}},
			}},
		}},
	}
}
