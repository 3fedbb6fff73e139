// Package apperror defines the error taxonomy shared by all operations.
// Callers classify failures with errors.Is; wrapped detail is for logs only.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks bad input. Recoverable by correcting the request.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized marks a role or department mismatch. The message shown
	// to users stays generic so department structure does not leak.
	ErrUnauthorized = errors.New("not authorized")

	// ErrNotFound marks a missing record, or a claim that is not in the
	// state the requested transition expects.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a lost race on a concurrent transition. Retryable.
	ErrConflict = errors.New("conflict")

	// ErrSystem marks a storage or transport failure. Nothing partial was
	// committed, so the operation is safe to retry.
	ErrSystem = errors.New("system error")
)

// Validation wraps a formatted message as a validation error.
func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Unauthorized wraps a formatted message as an authorization error.
func Unauthorized(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUnauthorized, fmt.Sprintf(format, args...))
}

// NotFound wraps a formatted message as a not-found error.
func NotFound(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Conflict wraps a formatted message as a conflict error.
func Conflict(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// System wraps an underlying failure as a system error, preserving the cause.
func System(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrSystem, op, err)
}

// IsRetryable reports whether the caller may retry the operation unchanged.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrSystem)
}
