package soap

import (
	"errors"
	"fmt"
	"strings"
)

// BuildError reports a parameter tree that cannot be serialized, an invalid
// credential, or a missing required field.
type BuildError struct {
	// Field names the missing or offending parameter, if any.
	Field   string
	Message string
	Err     error
}

func (e *BuildError) Error() string {
	msg := "build request: "
	if e.Field != "" {
		msg += e.Field + ": "
	}
	msg += e.Message
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Unwrap supports errors.Is and errors.As.
func (e *BuildError) Unwrap() error { return e.Err }

// ParseError reports input that is empty, not well-formed, or has no
// locatable payload. Raw carries the input for diagnostics.
type ParseError struct {
	Raw     string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse response: %s: %v", e.Message, e.Err)
	}
	return "parse response: " + e.Message
}

// Unwrap supports errors.Is and errors.As.
func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError aggregates every structural error collected by a
// Validator. It is only produced by Validator.Err.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "validation failed"
	case 1:
		return "validation failed: " + e.Errors[0]
	default:
		return fmt.Sprintf("validation failed with %d errors: %s", len(e.Errors), strings.Join(e.Errors, "; "))
	}
}

// IsBuildError reports whether err is or wraps a BuildError.
func IsBuildError(err error) bool {
	var e *BuildError
	return errors.As(err, &e)
}

// IsParseError reports whether err is or wraps a ParseError.
func IsParseError(err error) bool {
	var e *ParseError
	return errors.As(err, &e)
}

// IsValidationError reports whether err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}
