package validation

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError reports one invalid configuration field as Config.Field.
type FieldError struct {
	Config string
	Field  string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Config, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ConfigValidator checks configuration fields in a chain and collects every
// failure instead of stopping at the first.
type ConfigValidator struct {
	name   string
	errors []error
}

// NewConfigValidator creates a validator for the configuration struct name.
func NewConfigValidator(configName string) *ConfigValidator {
	return &ConfigValidator{name: configName}
}

func (cv *ConfigValidator) fail(field string, err error) *ConfigValidator {
	cv.errors = append(cv.errors, &FieldError{Config: cv.name, Field: field, Err: err})
	return cv
}

func (cv *ConfigValidator) failf(field, format string, args ...any) *ConfigValidator {
	return cv.fail(field, fmt.Errorf(format, args...))
}

// Required fails on an empty string.
func (cv *ConfigValidator) Required(field, value string) *ConfigValidator {
	if value == "" {
		return cv.failf(field, "required field is empty")
	}
	return cv
}

// RangeInt fails unless min <= value <= max.
func (cv *ConfigValidator) RangeInt(field string, value, min, max int) *ConfigValidator {
	return cv.Range64(field, int64(value), int64(min), int64(max))
}

// Range64 is RangeInt for int64 fields such as unit counts.
func (cv *ConfigValidator) Range64(field string, value, min, max int64) *ConfigValidator {
	if value < min || value > max {
		return cv.failf(field, "value %d is outside range [%d, %d]", value, min, max)
	}
	return cv
}

// Positive fails unless value > 0.
func (cv *ConfigValidator) Positive(field string, value int) *ConfigValidator {
	return cv.Positive64(field, int64(value))
}

// Positive64 fails unless value > 0.
func (cv *ConfigValidator) Positive64(field string, value int64) *ConfigValidator {
	if value <= 0 {
		return cv.failf(field, "value %d must be positive", value)
	}
	return cv
}

// NonNegative fails when value < 0.
func (cv *ConfigValidator) NonNegative(field string, value int) *ConfigValidator {
	if value < 0 {
		return cv.failf(field, "value %d must be non-negative", value)
	}
	return cv
}

// OneOf fails unless value equals one of allowed, ignoring case.
func (cv *ConfigValidator) OneOf(field, value string, allowed []string) *ConfigValidator {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return cv
		}
	}
	return cv.failf(field, "value %q must be one of %s", value, strings.Join(allowed, "|"))
}

// Custom records the error returned by fn, if any. The error stays
// reachable through errors.Is and errors.As.
func (cv *ConfigValidator) Custom(field string, fn func() error) *ConfigValidator {
	if err := fn(); err != nil {
		return cv.fail(field, err)
	}
	return cv
}

// When runs validations only if condition holds.
func (cv *ConfigValidator) When(condition bool, validations func(*ConfigValidator)) *ConfigValidator {
	if condition {
		validations(cv)
	}
	return cv
}

func (cv *ConfigValidator) HasErrors() bool {
	return len(cv.errors) > 0
}

// Errors returns the collected *FieldError values in check order.
func (cv *ConfigValidator) Errors() []error {
	return cv.errors
}

// Validate returns nil, the single failure, or all failures joined.
func (cv *ConfigValidator) Validate() error {
	switch len(cv.errors) {
	case 0:
		return nil
	case 1:
		return cv.errors[0]
	}
	return fmt.Errorf("%s: %d errors: %w", cv.name, len(cv.errors), errors.Join(cv.errors...))
}

// DefaultOr returns value unless it is the zero value.
func DefaultOr[T comparable](value, defaultValue T) T {
	var zero T
	if value == zero {
		return defaultValue
	}
	return value
}

// DefaultOrInt returns value if positive, otherwise defaultValue.
func DefaultOrInt(value, defaultValue int) int {
	if value <= 0 {
		return defaultValue
	}
	return value
}
