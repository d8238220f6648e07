package matcher

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrUnknownSubsystem = errors.New("unknown subsystem")
	ErrUnknownMatcher   = errors.New("unknown matcher")
	ErrInvalidFilter    = errors.New("invalid relation filter")
)

// UnknownSubsystemError reports an activation step naming a subsystem that
// the graph registry does not know.
type UnknownSubsystemError struct {
	Matcher   string
	Subsystem string
	Filter    string
}

func (e *UnknownSubsystemError) Error() string {
	if e.Matcher == "" {
		return fmt.Sprintf("add subsystem %s:%s: %v", e.Subsystem, e.Filter, ErrUnknownSubsystem)
	}
	return fmt.Sprintf("matcher %s: add subsystem %s:%s: %v", e.Matcher, e.Subsystem, e.Filter, ErrUnknownSubsystem)
}

// Is reports whether target is ErrUnknownSubsystem.
func (e *UnknownSubsystemError) Is(target error) bool {
	return target == ErrUnknownSubsystem
}

// UnknownMatcherError reports a policy name absent from the catalog.
type UnknownMatcherError struct {
	Name string
}

func (e *UnknownMatcherError) Error() string {
	return fmt.Sprintf("matcher %q: %v", e.Name, ErrUnknownMatcher)
}

// Is reports whether target is ErrUnknownMatcher.
func (e *UnknownMatcherError) Is(target error) bool {
	return target == ErrUnknownMatcher
}
