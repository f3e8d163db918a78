// Package errors provides standardized error handling for treels.
// It classifies failures into the kinds that drive the final exit
// status: configuration errors abort before any traversal, root errors
// fail a single root, and walk errors are recovered per directory.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package functions re-exported for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// Kind represents the kind of error
type Kind int

const (
	// KindUnknown is an unclassified error
	KindUnknown Kind = iota
	// KindConfig is a configuration error, fatal before traversal
	KindConfig
	// KindRoot is an inaccessible or missing root path
	KindRoot
	// KindWalk is a recovered in-traversal error (e.g. an unreadable
	// directory); the walk continues but the final status is non-zero
	KindWalk
)

// Error is the base error type carrying a kind and an optional cause.
type Error struct {
	msg  string
	err  error
	kind Kind
}

// Error returns the error message
func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *Error) Kind() Kind {
	return e.kind
}

// ConfigError creates a configuration error.
func ConfigError(msg string, err error) error {
	return &Error{msg: msg, err: err, kind: KindConfig}
}

// ConfigErrorf creates a configuration error with a formatted message.
func ConfigErrorf(format string, args ...interface{}) error {
	return &Error{msg: fmt.Sprintf(format, args...), kind: KindConfig}
}

// RootError creates an error for an inaccessible root path.
func RootError(path string, err error) error {
	return &Error{msg: fmt.Sprintf("cannot access %s", path), err: err, kind: KindRoot}
}

// WalkError creates a recovered in-traversal error.
func WalkError(path string, err error) error {
	return &Error{msg: fmt.Sprintf("error reading %s", path), err: err, kind: KindWalk}
}

// Walkf creates a recovered in-traversal error with a formatted message.
func Walkf(format string, args ...interface{}) error {
	return &Error{msg: fmt.Sprintf(format, args...), kind: KindWalk}
}

// KindOf returns the kind of err, or KindUnknown when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}

// New creates a new unclassified error with a message.
func New(msg string) error {
	return &Error{msg: msg, kind: KindUnknown}
}
