package spec

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-resgraph/pkg/resgraph"
)

// Load decodes a YAML specification from r and validates it.
func Load(r io.Reader) (*Specification, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Specification
	if err := dec.Decode(&s); err != nil {
		if err == io.EOF {
			return nil, resgraph.NewValidationError("load").Context("empty document").Err()
		}
		return nil, resgraph.NewValidationError("load").Cause(fmt.Errorf("%w: %v", resgraph.ErrInvalidSpec, err)).Err()
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile reads and validates the YAML specification at path.
func LoadFile(path string) (*Specification, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read specification %s: %w", path, err)
	}
	return Load(bytes.NewReader(data))
}

// Marshal encodes s as YAML.
func Marshal(s *Specification) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("failed to encode specification: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode specification: %w", err)
	}
	return buf.Bytes(), nil
}
