package domain

import (
	"github.com/allisson/blog/internal/errors"
)

// Secret-specific error definitions.
var (
	// ErrSecretNotFound indicates no source could produce a value for the secret.
	ErrSecretNotFound = errors.Wrap(errors.ErrSecretUnavailable, "secret not found")

	// ErrStoreNotConfigured indicates the secret store address is not set.
	ErrStoreNotConfigured = errors.Wrap(errors.ErrSecretUnavailable, "secret store address is not configured")

	// ErrNotAuthenticated indicates the secret store rejected the token or no token was found.
	ErrNotAuthenticated = errors.Wrap(errors.ErrSecretUnavailable, "secret store client is not authenticated")

	// ErrKeyNotFound indicates the secret document exists but lacks the requested field.
	ErrKeyNotFound = errors.Wrap(errors.ErrSecretUnavailable, "secret key not found")
)
