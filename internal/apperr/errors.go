// Package apperr defines the sentinel errors shared across Pulse layers.
package apperr

import "errors"

var (
	// ErrNotFound signals that an operation addressed a nonexistent record.
	ErrNotFound = errors.New("not found")
	// ErrClosed signals that the store has been closed (or never opened).
	ErrClosed = errors.New("store closed")
	// ErrValidation wraps input validation failures; the wrapped message is
	// safe to surface to the caller.
	ErrValidation = errors.New("validation failed")
)
