// Package skderrors defines the abstract error kinds the daemon's
// components report: not exception types, just enough structure for
// callers to distinguish "surface to the requester" from "retry me".
package skderrors

import (
	"errors"
	"fmt"
)

// Kind is one of the closed set of abstract failure categories.
type Kind string

const (
	// KindParseError marks malformed input: YAML, layout expressions,
	// skill frontmatter, task numbering. Never retried.
	KindParseError Kind = "parse_error"
	// KindNotFound marks a named agent/folder/task that does not exist.
	KindNotFound Kind = "not_found"
	// KindConflict marks a duplicate name on create.
	KindConflict Kind = "conflict"
	// KindBackendError marks a session backend failure. Fed into the
	// retry controller; surfaced only after retries exhaust.
	KindBackendError Kind = "backend_error"
	// KindIoError marks a filesystem failure during load/save.
	KindIoError Kind = "io_error"
	// KindTimeout marks a request that exceeded its budget. Treated as
	// a transient backend failure.
	KindTimeout Kind = "timeout"
)

// Error is a typed failure carrying one of the abstract Kinds plus a
// human-readable message and optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New constructs an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap constructs an Error of the given kind around a lower-level cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Retryable reports whether the error kind is one the retry controller
// should treat as a backend-layer failure (BackendError or Timeout).
func Retryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == KindBackendError || e.Kind == KindTimeout
	}
	return false
}
