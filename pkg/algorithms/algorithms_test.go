package algorithms

import (
	"testing"

	"github.com/dd0wney/cluso-resgraph/pkg/builder"
	"github.com/dd0wney/cluso-resgraph/pkg/matcher"
	"github.com/dd0wney/cluso-resgraph/pkg/resgraph"
	"github.com/dd0wney/cluso-resgraph/pkg/spec"
	"github.com/dd0wney/cluso-resgraph/pkg/view"
)

// handView builds a containment-only view with one pool per type and a
// contains relation per link.
func handView(t testing.TB, types []string, links [][2]int) *view.View {
	t.Helper()
	reg := resgraph.NewRegistry()
	cid, _ := reg.Register(resgraph.Containment)
	g := resgraph.NewGraph(reg)
	for _, typ := range types {
		id, err := g.AddPool(resgraph.Pool{Type: typ})
		if err != nil {
			t.Fatal(err)
		}
		if err := g.Join(id, cid); err != nil {
			t.Fatal(err)
		}
	}
	for _, l := range links {
		if _, err := g.Link(resgraph.PoolID(l[0]), resgraph.PoolID(l[1]), cid, resgraph.Contains); err != nil {
			t.Fatal(err)
		}
	}
	g.Seal()
	cfg, err := matcher.Configure(reg, "CA")
	if err != nil {
		t.Fatal(err)
	}
	return view.Project(g, cfg)
}

func specView(t testing.TB, s *spec.Specification, name string) *view.View {
	t.Helper()
	g, err := builder.Build(s)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	cfg, err := matcher.Configure(g.Registry(), name)
	if err != nil {
		t.Fatalf("Configure(%q) error = %v", name, err)
	}
	return view.Project(g, cfg)
}
