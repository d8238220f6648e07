package validation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Validation limits
	MaxNameLength = 64
	MaxUnitDepth  = 16

	// Regular expressions
	identPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)
	kindPattern  = regexp.MustCompile(`^(\*|[a-z][a-z0-9_]*)$`)
)

func init() {
	validate = validator.New()
	// Registration only fails on an empty tag or nil func.
	_ = validate.RegisterValidation("ident", func(fl validator.FieldLevel) bool {
		return identPattern.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("relkind", func(fl validator.FieldLevel) bool {
		return kindPattern.MatchString(fl.Field().String())
	})
}

// Struct validates s using its `validate` struct tags. Nested structs and
// slices are only checked when tagged with `dive`.
func Struct(s any) error {
	if s == nil {
		return errors.New("value to validate cannot be nil")
	}
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateIdent validates a resource type, basename or subsystem name.
func ValidateIdent(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s: field is required", field)
	}
	if len(value) > MaxNameLength {
		return fmt.Errorf("%s: '%s' exceeds maximum length of %d characters", field, value, MaxNameLength)
	}
	if !identPattern.MatchString(value) {
		return fmt.Errorf("%s: '%s' is invalid (must start with a letter, followed by alphanumeric, '-' or '_')", field, value)
	}
	return nil
}

// ValidateRelationKind validates a relation kind or a matcher relation filter.
func ValidateRelationKind(field, value string) error {
	if !kindPattern.MatchString(value) {
		return fmt.Errorf("%s: '%s' is not a relation kind or wildcard", field, value)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min", "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max", "lte":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "ident":
			return fmt.Errorf("%s: '%v' is not a valid name", field, e.Value())
		case "relkind":
			return fmt.Errorf("%s: '%v' is not a relation kind", field, e.Value())
		case "excluded_with":
			return fmt.Errorf("%s: cannot be combined with %s", field, param)
		case "required_without":
			return fmt.Errorf("%s: field is required when %s is empty", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}
