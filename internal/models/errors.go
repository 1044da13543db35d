// Package models defines the error taxonomy shared across TalentPipe modules.
package models

import "errors"

// Error taxonomy. Every failure surfaced by the stage catalog, the process
// state machine, and the session controller wraps exactly one of these
// sentinels so callers can map it to user-facing behavior.
var (
	// ErrValidation marks malformed input. Caller's fault, never retried.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a referenced id absent from the store.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState marks an operation that is illegal for the entity's
	// current lifecycle state, such as completing a stage out of order.
	ErrInvalidState = errors.New("invalid state")
	// ErrExternalService marks a content provider failure or timeout.
	// Always recoverable by retry; persisted state is never touched first.
	ErrExternalService = errors.New("external service failed")
)

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsInvalidState reports whether err is an invalid-state error.
func IsInvalidState(err error) bool { return errors.Is(err, ErrInvalidState) }

// IsExternalService reports whether err is an external-service error.
func IsExternalService(err error) bool { return errors.Is(err, ErrExternalService) }
