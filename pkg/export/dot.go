package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dd0wney/cluso-resgraph/pkg/resgraph"
)

// DOTExporter writes Graphviz dot. Vertices are keyed by pool id and labelled
// with the pool name; each edge is labelled with its memberships as
// subsystem:kind pairs.
type DOTExporter struct {
	Name string
}

func (e *DOTExporter) Format() Format { return DOT }

func (e *DOTExporter) Export(w io.Writer, src Source) error {
	bw := bufio.NewWriter(w)
	reg := src.Registry()

	name := e.Name
	if name == "" {
		name = "G"
	}
	fmt.Fprintf(bw, "digraph %s {\n", quoteID(name))
	src.EachPool(func(p *resgraph.Pool) bool {
		fmt.Fprintf(bw, "%d [label=%s];\n", p.ID, quote(p.Name))
		return true
	})
	src.EachRelation(func(r *resgraph.Relation) bool {
		fmt.Fprintf(bw, "%d->%d [label=%s];\n", r.From, r.To, quote(membershipLabel(reg, r)))
		return true
	})
	bw.WriteString("}\n")
	return bw.Flush()
}

func membershipLabel(reg *resgraph.Registry, r *resgraph.Relation) string {
	parts := make([]string, len(r.Members))
	for i, m := range r.Members {
		parts[i] = reg.Name(m.Subsystem) + ":" + m.Kind
	}
	return strings.Join(parts, ",")
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func quote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

// quoteID leaves plain identifiers bare.
func quoteID(s string) string {
	for i, c := range s {
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (i > 0 && c >= '0' && c <= '9') {
			continue
		}
		return quote(s)
	}
	return s
}
