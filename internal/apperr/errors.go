// Package apperr holds the error taxonomy shared by the engine and the server.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means no document is available. Callers fall back to the bundled default.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized means the token was rejected (or missing where required).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrReadOnly is returned when a mutation is attempted from the guest view.
	ErrReadOnly = errors.New("read-only guest view")
	// ErrResourceUnavailable covers icon fetch failures and timeouts. Never surfaced to the user.
	ErrResourceUnavailable = errors.New("resource unavailable")

	ErrValidation = errors.New("validation failed")
	ErrParse      = errors.New("parse failed")
)

// ValidationError reports a missing or malformed field in an edit session.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ParseError reports imported text that could not be turned into a document.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("parse failed: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }
