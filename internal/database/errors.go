package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/mongo"

	apperrors "github.com/allisson/blog/internal/errors"
)

// MongoDB server error codes used for classification.
const (
	codeUnauthorized         = 13
	codeAuthenticationFailed = 18
	codeNamespaceExists      = 48
)

// Database-specific error definitions.
var (
	// ErrHostNotConfigured indicates MONGO_DB_HOST is not set.
	ErrHostNotConfigured = apperrors.Wrap(apperrors.ErrSecretUnavailable, "database host is not configured")

	// ErrPoolClosed indicates the connection pool was closed.
	ErrPoolClosed = apperrors.Wrap(apperrors.ErrUnavailable, "database pool is closed")
)

// Classify maps driver errors onto the domain error taxonomy so connection and
// authentication failures are distinguishable from data errors. Errors that are
// already classified and nil are returned unchanged.
func Classify(err error) error {
	if err == nil || isClassified(err) {
		return err
	}

	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%w: %w", apperrors.ErrNotFound, err)
	case isAuthError(err):
		return fmt.Errorf("database authentication: %w: %w", apperrors.ErrUnauthorized, err)
	case mongo.IsTimeout(err), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("database call: %w: %w", apperrors.ErrTimeout, err)
	case mongo.IsNetworkError(err),
		errors.Is(err, mongo.ErrClientDisconnected),
		strings.Contains(err.Error(), "server selection"):
		return fmt.Errorf("database connection: %w: %w", apperrors.ErrUnavailable, err)
	default:
		return err
	}
}

func isClassified(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrUnauthorized) ||
		errors.Is(err, apperrors.ErrTimeout) ||
		errors.Is(err, apperrors.ErrUnavailable)
}

func isAuthError(err error) bool {
	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) &&
		(serverErr.HasErrorCode(codeAuthenticationFailed) || serverErr.HasErrorCode(codeUnauthorized)) {
		return true
	}
	// Handshake failures surface as connection errors carrying the SASL message.
	msg := err.Error()
	return strings.Contains(msg, "AuthenticationFailed") || strings.Contains(msg, "auth error")
}
