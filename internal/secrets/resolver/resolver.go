// Package resolver resolves named secrets from layered sources so the same binary
// runs unchanged in a developer shell, a container with mounted secret files and
// a cluster backed by a secret store.
//
// Sources are tried in order and the first one that produces a value wins:
//
//  1. a process environment variable named exactly like the secret;
//  2. a file named like the secret inside the mounted secrets directory;
//  3. an optional Fallback, typically the secret store.
package resolver

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/allisson/blog/internal/errors"
	secretsDomain "github.com/allisson/blog/internal/secrets/domain"
)

// Fallback is consulted when neither the environment nor the secrets directory
// produce a value.
type Fallback interface {
	Lookup(ctx context.Context, name string) (string, error)
}

// Resolver resolves secrets by name.
type Resolver struct {
	secretsDir string
	fallback   Fallback
	logger     *slog.Logger

	lookupEnv func(string) (string, bool)
	readFile  func(string) ([]byte, error)
}

// New creates a Resolver reading files from secretsDir. fallback may be nil, in which
// case only the environment and the secrets directory are consulted.
func New(secretsDir string, fallback Fallback, logger *slog.Logger) *Resolver {
	return &Resolver{
		secretsDir: secretsDir,
		fallback:   fallback,
		logger:     logger,
		lookupEnv:  os.LookupEnv,
		readFile:   os.ReadFile,
	}
}

// Resolve returns the value of the named secret. An environment variable that is
// set to the empty string counts as unset, so resolution moves on to the file and
// then the fallback. It returns an error wrapping apperrors.ErrSecretUnavailable
// when every source came up empty.
func (r *Resolver) Resolve(ctx context.Context, name string) (string, error) {
	if value, ok := r.lookupEnv(name); ok && value != "" {
		r.logger.Debug("secret resolved", slog.String("name", name), slog.String("source", "env"))
		return value, nil
	}

	if value, ok := r.fromFile(name); ok {
		r.logger.Debug("secret resolved", slog.String("name", name), slog.String("source", "file"))
		return value, nil
	}

	if r.fallback == nil {
		return "", apperrors.Wrapf(secretsDomain.ErrSecretNotFound, "resolve %s", name)
	}

	value, err := r.fallback.Lookup(ctx, name)
	if err != nil {
		return "", apperrors.Wrapf(err, "resolve %s", name)
	}
	if value == "" {
		return "", apperrors.Wrapf(secretsDomain.ErrSecretNotFound, "resolve %s", name)
	}

	r.logger.Debug("secret resolved", slog.String("name", name), slog.String("source", "store"))
	return value, nil
}

// fromFile reads <secretsDir>/<name>. Any I/O failure is treated as "not found".
func (r *Resolver) fromFile(name string) (string, bool) {
	if r.secretsDir == "" || !isPlainName(name) {
		return "", false
	}

	path := filepath.Join(r.secretsDir, name)
	data, err := r.readFile(path)
	if err != nil {
		r.logger.Debug("secret file not readable",
			slog.String("name", name),
			slog.String("path", path),
			slog.Any("error", err),
		)
		return "", false
	}

	value := strings.TrimSpace(string(data))
	return value, value != ""
}

// isPlainName reports whether name is a single path element, so it cannot escape
// the secrets directory.
func isPlainName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return filepath.Base(name) == name && !strings.ContainsAny(name, `/\`)
}
