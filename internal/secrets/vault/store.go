// Package vault implements the secret store client on top of a Vault KV v2 engine.
//
// Every call authenticates afresh: the token is resolved, a client is built and the
// token is verified server-side before any secret is read. An unauthenticated client
// never issues a read.
package vault

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/vault/api"

	apperrors "github.com/allisson/blog/internal/errors"
	secretsDomain "github.com/allisson/blog/internal/secrets/domain"
)

// Config holds the secret store settings.
type Config struct {
	// Address is the Vault server address (VAULT_ADDR).
	Address string
	// MountPath is the KV v2 mount holding application secrets.
	MountPath string
	// Timeout bounds each call to Vault. Zero means no timeout.
	Timeout time.Duration
}

// TokenResolver resolves the Vault token by name.
type TokenResolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// Store reads secrets from a Vault KV v2 mount.
type Store struct {
	config Config
	tokens TokenResolver
	logger *slog.Logger
}

// NewStore creates a Store. tokens is used to obtain VAULT_TOKEN on every connection.
func NewStore(config Config, tokens TokenResolver, logger *slog.Logger) *Store {
	return &Store{
		config: config,
		tokens: tokens,
		logger: logger,
	}
}

// Connect builds a client and verifies its token with a lookup-self call.
// It returns an error wrapping apperrors.ErrSecretUnavailable when the address or
// token is missing or the token is rejected.
func (s *Store) Connect(ctx context.Context) (*api.Client, error) {
	if s.config.Address == "" {
		return nil, secretsDomain.ErrStoreNotConfigured
	}

	token, err := s.tokens.Resolve(ctx, secretsDomain.TokenSecretName)
	if err != nil {
		s.logger.Warn("vault token unavailable", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", secretsDomain.ErrNotAuthenticated, err)
	}

	apiConfig := api.DefaultConfig()
	apiConfig.Address = s.config.Address
	apiConfig.MaxRetries = 0
	if s.config.Timeout > 0 {
		apiConfig.Timeout = s.config.Timeout
	}

	client, err := api.NewClient(apiConfig)
	if err != nil {
		return nil, fmt.Errorf("create vault client: %w: %w", apperrors.ErrUnavailable, err)
	}
	client.SetToken(token)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := client.Auth().Token().LookupSelfWithContext(ctx); err != nil {
		if isAuthError(err) {
			s.logger.Warn("vault token rejected", slog.String("addr", s.config.Address))
			return nil, fmt.Errorf("%w: %w", secretsDomain.ErrNotAuthenticated, apperrors.ErrUnauthorized)
		}
		return nil, classify("verify vault token", err)
	}

	return client, nil
}

// GetSecret returns field key of the latest version of the document at path.
func (s *Store) GetSecret(ctx context.Context, path, key string) (string, error) {
	client, err := s.Connect(ctx)
	if err != nil {
		return "", err
	}

	ref := secretsDomain.Ref{Path: path, Key: key}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	secret, err := client.KVv2(s.config.MountPath).Get(ctx, path)
	if err != nil {
		if errors.Is(err, api.ErrSecretNotFound) {
			return "", apperrors.Wrapf(secretsDomain.ErrSecretNotFound, "read %s/%s", s.config.MountPath, path)
		}
		if isAuthError(err) {
			return "", fmt.Errorf("read %s/%s: %w: %w", s.config.MountPath, path,
				secretsDomain.ErrNotAuthenticated, apperrors.ErrUnauthorized)
		}
		return "", classify(fmt.Sprintf("read %s/%s", s.config.MountPath, path), err)
	}

	raw, ok := secret.Data[key]
	if !ok {
		return "", apperrors.Wrapf(secretsDomain.ErrKeyNotFound, "read %s", ref)
	}
	value, ok := raw.(string)
	if !ok || value == "" {
		return "", apperrors.Wrapf(secretsDomain.ErrKeyNotFound, "read %s: value is not a non-empty string", ref)
	}

	s.logger.Debug("secret read from vault",
		slog.String("ref", ref.String()),
		slog.Int("version", secretVersion(secret)),
	)

	return value, nil
}

// Ping verifies that the store is reachable and the token is accepted.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.Connect(ctx)
	return err
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.config.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.config.Timeout)
}

func secretVersion(secret *api.KVSecret) int {
	if secret.VersionMetadata == nil {
		return 0
	}
	return secret.VersionMetadata.Version
}

// isAuthError reports whether Vault rejected the token.
func isAuthError(err error) bool {
	var respErr *api.ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode == http.StatusUnauthorized || respErr.StatusCode == http.StatusForbidden
	}
	return false
}

// classify maps transport failures onto the domain error taxonomy.
func classify(op string, err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w: %w", op, apperrors.ErrTimeout, err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%s: %w: %w", op, apperrors.ErrTimeout, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, apperrors.ErrUnavailable, err)
	}
}
