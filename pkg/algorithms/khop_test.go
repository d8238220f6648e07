package algorithms

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dd0wney/cluso-resgraph/pkg/resgraph"
	"github.com/dd0wney/cluso-resgraph/pkg/spec"
)

func TestKHopNeighbours(t *testing.T) {
	v := specView(t, spec.Simple(2, 4), "CA")

	res, err := KHopNeighbours(v, 0, 2)
	if err != nil {
		t.Fatalf("KHopNeighbours() error = %v", err)
	}
	if !reflect.DeepEqual(res.ByHop[1], []resgraph.PoolID{1, 6}) {
		t.Errorf("ByHop[1] = %v", res.ByHop[1])
	}
	if !reflect.DeepEqual(res.ByHop[2], []resgraph.PoolID{2, 3, 4, 5, 7, 8, 9, 10}) {
		t.Errorf("ByHop[2] = %v", res.ByHop[2])
	}
	if res.TotalReachable != 10 || res.Distances[9] != 2 {
		t.Errorf("TotalReachable = %d, Distances[9] = %d", res.TotalReachable, res.Distances[9])
	}
	if _, ok := res.Distances[0]; ok {
		t.Error("source included in Distances")
	}

	res, _ = KHopNeighbours(v, 0, 1)
	if res.TotalReachable != 2 {
		t.Errorf("maxHops=1: TotalReachable = %d, want 2", res.TotalReachable)
	}

	res, _ = KHopNeighbours(v, 2, 3)
	if res.TotalReachable != 0 {
		t.Errorf("leaf: TotalReachable = %d, want 0", res.TotalReachable)
	}
}

func TestKHopNeighboursErrors(t *testing.T) {
	v := specView(t, spec.ForScale(spec.Mini), "PA")

	if _, err := KHopNeighbours(v, 0, 0); err == nil {
		t.Error("maxHops=0: expected error")
	}
	// The cluster pool carries no power relation.
	if _, err := KHopNeighbours(v, 0, 1); !errors.Is(err, resgraph.ErrPoolNotFound) {
		t.Errorf("source outside view: error = %v", err)
	}
}

func TestUnreachable(t *testing.T) {
	for _, name := range []string{"CA", "IBA", "IBBA", "PFS1BA", "PA", "C+IBA", "IB+IBBA", "ALL"} {
		v := specView(t, spec.ForScale(spec.Mini), name)
		if got := Unreachable(v); len(got) != 0 {
			t.Errorf("%s: Unreachable() = %v", name, got)
		}
	}

	// A rootless cycle next to a lone root.
	v := handView(t, []string{"a", "b", "c"}, [][2]int{{0, 1}, {1, 0}})
	if got := Unreachable(v); !reflect.DeepEqual(got, []resgraph.PoolID{0, 1}) {
		t.Errorf("Unreachable() = %v, want [0 1]", got)
	}
}

func TestReachableIgnoresForeignRoots(t *testing.T) {
	v := handView(t, []string{"a", "b"}, [][2]int{{0, 1}})
	seen := Reachable(v, []resgraph.PoolID{1, 99})
	if seen[0] || !seen[1] {
		t.Errorf("Reachable() = %v", seen)
	}
}

func TestVerify(t *testing.T) {
	r := Verify(specView(t, spec.ForScale(spec.Mini), "CA"))
	if !r.OK() || !r.Forest || r.Roots != 1 || r.Pools != 33 || r.Relations != 32 {
		t.Errorf("Verify(CA) = %s", r)
	}

	r = Verify(handView(t, []string{"a", "b", "c"}, [][2]int{{0, 1}, {1, 0}}))
	if r.OK() || r.Forest || len(r.Cycles) != 1 || len(r.Unreachable) != 2 {
		t.Errorf("Verify(cycle) = %s", r)
	}
}
