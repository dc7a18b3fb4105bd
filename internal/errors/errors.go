// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. These errors should be used by use cases
// and mapped to appropriate HTTP status codes by handlers.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates that credentials were rejected by a backing service.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSecretUnavailable indicates a secret could not be obtained from any source.
	ErrSecretUnavailable = errors.New("secret unavailable")

	// ErrUnavailable indicates a backing service (secret store, database) could not be reached.
	ErrUnavailable = errors.New("service unavailable")

	// ErrTimeout indicates a call to a backing service exceeded its deadline.
	ErrTimeout = errors.New("timeout")
)

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message while preserving the error chain.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsInfrastructure reports whether err means a backing service could not serve the
// request: missing secrets, rejected credentials, unreachable service or timeout.
func IsInfrastructure(err error) bool {
	return Is(err, ErrSecretUnavailable) ||
		Is(err, ErrUnauthorized) ||
		Is(err, ErrUnavailable) ||
		Is(err, ErrTimeout)
}
