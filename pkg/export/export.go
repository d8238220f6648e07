// Package export writes a view or a traversal result in a graph file format.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dd0wney/cluso-resgraph/pkg/resgraph"
)

var (
	// ErrUnknownFormat is returned when a format name is not recognized.
	ErrUnknownFormat = errors.New("unknown graph format")

	// ErrNotImplemented is returned by formats that can be selected but not yet written.
	ErrNotImplemented = errors.New("graph format not implemented")
)

// Format is an output graph format.
type Format int

const (
	DOT Format = iota
	GraphML
	Cypher
)

var formatNames = map[Format]string{
	DOT:     "dot",
	GraphML: "graphml",
	Cypher:  "cypher",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// Extension returns the file extension for the format, without the dot.
func (f Format) Extension() string {
	return f.String()
}

// ParseFormat parses a format name case-insensitively.
func ParseFormat(name string) (Format, error) {
	for f, n := range formatNames {
		if strings.EqualFold(name, n) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FormatNames returns the accepted format names.
func FormatNames() []string {
	return []string{DOT.String(), GraphML.String(), Cypher.String()}
}

// Source is a subgraph that can be exported. Both *view.View and
// *traverser.Result implement it.
type Source interface {
	Registry() *resgraph.Registry
	EachPool(fn func(*resgraph.Pool) bool)
	EachRelation(fn func(*resgraph.Relation) bool)
}

// Exporter writes a Source in one format.
type Exporter interface {
	Format() Format
	Export(w io.Writer, src Source) error
}

// New returns the exporter for f.
func New(f Format) (Exporter, error) {
	switch f {
	case DOT:
		return &DOTExporter{Name: "G"}, nil
	case GraphML, Cypher:
		return unimplemented{format: f}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, f)
	}
}

type unimplemented struct {
	format Format
}

func (u unimplemented) Format() Format { return u.format }

func (u unimplemented) Export(io.Writer, Source) error {
	return fmt.Errorf("%w: %s", ErrNotImplemented, u.format)
}
