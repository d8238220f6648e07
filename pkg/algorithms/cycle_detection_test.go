package algorithms

import (
	"reflect"
	"testing"

	"github.com/dd0wney/cluso-resgraph/pkg/resgraph"
	"github.com/dd0wney/cluso-resgraph/pkg/spec"
)

func TestDetectCycles(t *testing.T) {
	tests := []struct {
		name  string
		types []string
		links [][2]int
		want  []Cycle
	}{
		{"empty", nil, nil, []Cycle{}},
		{"single pool", []string{"a"}, nil, []Cycle{}},
		{"chain", []string{"a", "b", "c"}, [][2]int{{0, 1}, {1, 2}}, []Cycle{}},
		{"self loop", []string{"a"}, [][2]int{{0, 0}}, []Cycle{{0}}},
		{"two pools", []string{"a", "b"}, [][2]int{{0, 1}, {1, 0}}, []Cycle{{0, 1}}},
		{"triangle", []string{"a", "b", "c"}, [][2]int{{0, 1}, {1, 2}, {2, 0}}, []Cycle{{0, 1, 2}}},
		{
			"independent cycles",
			[]string{"a", "b", "c", "d", "e"},
			[][2]int{{0, 1}, {1, 0}, {2, 3}, {3, 4}, {4, 2}},
			[]Cycle{{0, 1}, {2, 3, 4}},
		},
		{
			// 0 -> 1 -> 2 -> 5 -> 3, 1 -> 3 -> 4 -> 0
			"back edge behind a cross edge",
			[]string{"a", "b", "c", "d", "e", "f"},
			[][2]int{{0, 1}, {1, 2}, {1, 3}, {2, 5}, {3, 4}, {4, 0}, {5, 3}},
			[]Cycle{{0, 1, 2, 5, 3, 4}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := handView(t, tt.types, tt.links)
			got := DetectCycles(v)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DetectCycles() = %v, want %v", got, tt.want)
			}
			if HasCycle(v) != (len(tt.want) > 0) {
				t.Errorf("HasCycle() = %t, want %t", HasCycle(v), len(tt.want) > 0)
			}
		})
	}
}

func TestDetectCyclesBuiltTopologies(t *testing.T) {
	for _, name := range []string{"CA", "IBA", "PFS1BA", "PA", "C+P+IBA", "ALL"} {
		v := specView(t, spec.ForScale(spec.Mini), name)
		if cycles := DetectCycles(v); len(cycles) != 0 {
			t.Errorf("%s: DetectCycles() = %v, want none", name, cycles)
		}
	}
}

func TestDetectCyclesWithOptions(t *testing.T) {
	// Self loop on 0, triangle 1 -> 2 -> 3 -> 1.
	v := handView(t, []string{"a", "b", "b", "b"}, [][2]int{{0, 0}, {1, 2}, {2, 3}, {3, 1}})

	if got := DetectCyclesWithOptions(v, CycleDetectionOptions{MinCycleLength: 2}); !reflect.DeepEqual(got, []Cycle{{1, 2, 3}}) {
		t.Errorf("MinCycleLength=2: %v", got)
	}
	if got := DetectCyclesWithOptions(v, CycleDetectionOptions{MaxCycleLength: 2}); !reflect.DeepEqual(got, []Cycle{{0}}) {
		t.Errorf("MaxCycleLength=2: %v", got)
	}
	onlyA := func(p *resgraph.Pool) bool { return p.Type == "a" }
	if got := DetectCyclesWithOptions(v, CycleDetectionOptions{PoolPredicate: onlyA}); !reflect.DeepEqual(got, []Cycle{{0}}) {
		t.Errorf("PoolPredicate: %v", got)
	}
}

func TestAnalyzeCycles(t *testing.T) {
	if got := AnalyzeCycles(nil); got != (CycleStats{}) {
		t.Errorf("AnalyzeCycles(nil) = %+v", got)
	}

	got := AnalyzeCycles([]Cycle{{0}, {1, 2, 3}, {4, 5}})
	want := CycleStats{TotalCycles: 3, ShortestCycle: 1, LongestCycle: 3, AverageLength: 2, SelfLoops: 1}
	if got != want {
		t.Errorf("AnalyzeCycles() = %+v, want %+v", got, want)
	}
}
