package resgraph

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrInvalidSpec       = errors.New("invalid resource specification")
	ErrUnknownType       = errors.New("undefined resource type")
	ErrInvalidCount      = errors.New("invalid count")
	ErrTooManySubsystems = errors.New("too many subsystems")
	ErrPoolNotFound      = errors.New("pool not found")
	ErrSealed            = errors.New("graph is sealed")
	ErrNotSealed         = errors.New("graph is not sealed")
)

// ValidationError reports a malformed or inconsistent resource specification.
// Graph construction that fails with a ValidationError emits no graph.
type ValidationError struct {
	Op      string // operation that failed (e.g. "expand", "attach")
	Entity  string // offending entity (e.g. "unit", "hierarchy")
	Field   string // offending field, if any
	Path    string // location of the entity inside the specification
	Cause   error  // underlying error
	Context string // additional context
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	where := e.Entity
	if e.Path != "" {
		where = fmt.Sprintf("%s %s", e.Entity, e.Path)
	}
	if e.Field != "" {
		where = fmt.Sprintf("%s (field %s)", where, e.Field)
	}
	if e.Context != "" {
		return fmt.Sprintf("%s %s: %v: %s", e.Op, where, e.Cause, e.Context)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, where, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrInvalidSpec or matches the cause.
func (e *ValidationError) Is(target error) bool {
	if target == nil {
		return false
	}
	return target == ErrInvalidSpec || errors.Is(e.Cause, target)
}

// ErrorBuilder provides a fluent interface for building ValidationErrors.
type ErrorBuilder struct {
	err ValidationError
}

// NewValidationError creates a new error builder with the given operation.
func NewValidationError(op string) *ErrorBuilder {
	return &ErrorBuilder{err: ValidationError{Op: op}}
}

// Unit sets the entity to "unit" located at path.
func (b *ErrorBuilder) Unit(path string) *ErrorBuilder {
	b.err.Entity = "unit"
	b.err.Path = path
	return b
}

// Hierarchy sets the entity to "hierarchy" with the given subsystem name.
func (b *ErrorBuilder) Hierarchy(subsystem string) *ErrorBuilder {
	b.err.Entity = "hierarchy"
	b.err.Path = subsystem
	return b
}

// Field sets the offending field name.
func (b *ErrorBuilder) Field(name string) *ErrorBuilder {
	b.err.Field = name
	return b
}

// Context sets additional context information.
func (b *ErrorBuilder) Context(format string, args ...any) *ErrorBuilder {
	b.err.Context = fmt.Sprintf(format, args...)
	return b
}

// Cause sets the underlying error cause.
func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

// Err returns the constructed ValidationError as an error.
func (b *ErrorBuilder) Err() error {
	if b.err.Entity == "" {
		b.err.Entity = "specification"
	}
	if b.err.Cause == nil {
		b.err.Cause = ErrInvalidSpec
	}
	return &b.err
}

// IsValidation returns true if err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
