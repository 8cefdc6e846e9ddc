package ramlerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrParse indicates a parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrReference indicates a named-reference resolution failure.
	ErrReference = errors.New("reference error")

	// ErrCircularReference indicates circular type inheritance was detected.
	ErrCircularReference = errors.New("circular reference")

	// ErrValidation indicates a value failed a declared type constraint.
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates a resource or method lookup miss.
	ErrNotFound = errors.New("not found")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// ParseError represents a failure to parse a RAML document or one of its
// definition fragments. This includes YAML/JSON deserialization errors,
// wrong data shapes, invalid header lines, and mutually exclusive keys
// declared together.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Key is the document key being parsed when the error occurred, if known
	Key string
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Key != "" {
		msg += " at key " + e.Key
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ReferenceError represents a failure to resolve a declared name.
// This includes undeclared security schemes, undeclared annotation types,
// type references left unresolved after inheritance resolution, disallowed
// annotation targets, and circular type inheritance.
type ReferenceError struct {
	// Name is the reference that failed to resolve
	Name string
	// Kind indicates what the reference names: "type", "securityScheme",
	// "annotationType", or "annotationTarget"
	Kind string
	// IsCircular is true if this error is due to circular inheritance
	IsCircular bool
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	msg := "reference error"
	if e.IsCircular {
		msg = "circular reference"
	}
	if e.Kind != "" {
		msg += " (" + e.Kind + ")"
	}
	if e.Name != "" {
		msg += ": " + e.Name
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ReferenceError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrReference, and also ErrCircularReference when IsCircular is set.
func (e *ReferenceError) Is(target error) bool {
	if target == ErrReference {
		return true
	}
	if target == ErrCircularReference && e.IsCircular {
		return true
	}
	return false
}

// ValidationError represents a runtime value violating a declared type's
// constraints. These are intended for caller-level handling, distinct from
// the fatal parse-time errors above.
type ValidationError struct {
	// Property is the name of the offending property
	Property string
	// Constraint describes the constraint that was violated
	Constraint string
	// Value is the offending value (may be nil)
	Value any
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ValidationError) Error() string {
	msg := "validation error"
	if e.Property != "" {
		msg += " for property " + e.Property
	}
	if e.Constraint != "" {
		msg += ": " + e.Constraint
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError represents a lookup miss against a parsed definition.
// Callers can use this to distinguish "bad definition" from "bad query".
type NotFoundError struct {
	// Kind identifies what was looked up: "resource" or "method"
	Kind string
	// Key is the lookup key that produced no match
	Key string
}

// Error returns a human-readable error message.
func (e *NotFoundError) Error() string {
	kind := e.Kind
	if kind == "" {
		kind = "entry"
	}
	return fmt.Sprintf("%s not found: %s", kind, e.Key)
}

// Unwrap returns nil as NotFoundError has no underlying cause.
func (e *NotFoundError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ConfigError represents invalid configuration or input options.
type ConfigError struct {
	// Option is the configuration option with the issue
	Option string
	// Message describes the configuration problem
	Message string
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for option " + e.Option
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as ConfigError has no underlying cause.
func (e *ConfigError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
