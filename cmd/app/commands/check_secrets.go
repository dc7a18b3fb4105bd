package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/allisson/blog/internal/database"
)

// NameResolver resolves a secret by name.
type NameResolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// SecretReader reads a single field of a secret document.
type SecretReader interface {
	GetSecret(ctx context.Context, path, key string) (string, error)
}

// SecretCheck verifies that one secret can be obtained.
type SecretCheck struct {
	Name   string
	Source string
	Check  func(ctx context.Context) error
}

// SecretChecks lists every secret the server needs: the Vault token, the database
// credentials at mongoPath and the signing key named appKey.
func SecretChecks(tokens NameResolver, reader SecretReader, keys NameResolver, mongoPath, appKey string) []SecretCheck {
	resolve := func(r NameResolver, name string) func(context.Context) error {
		return func(ctx context.Context) error {
			_, err := r.Resolve(ctx, name)
			return err
		}
	}

	checks := []SecretCheck{
		{Name: "VAULT_TOKEN", Source: "env/file", Check: resolve(tokens, "VAULT_TOKEN")},
	}
	for _, field := range []string{database.FieldDatabase, database.FieldUsername, database.FieldPassword} {
		checks = append(checks, SecretCheck{
			Name:   mongoPath + "#" + field,
			Source: "vault",
			Check: func(ctx context.Context) error {
				_, err := reader.GetSecret(ctx, mongoPath, field)
				return err
			},
		})
	}
	checks = append(checks, SecretCheck{Name: appKey, Source: "env/file/vault", Check: resolve(keys, appKey)})

	return checks
}

type secretStatus struct {
	Name      string `json:"name"`
	Source    string `json:"source"`
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

type checkSecretsResult struct {
	Secrets     []secretStatus `json:"secrets"`
	Unavailable int            `json:"unavailable"`
}

// RunCheckSecrets runs every check and reports which secrets are available.
// Secret values are discarded and never written or logged.
func RunCheckSecrets(
	ctx context.Context,
	checks []SecretCheck,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	result := checkSecretsResult{Secrets: make([]secretStatus, 0, len(checks))}
	for _, check := range checks {
		status := secretStatus{Name: check.Name, Source: check.Source, Available: true}
		if err := check.Check(ctx); err != nil {
			status.Available = false
			status.Error = err.Error()
			result.Unavailable++
			logger.Warn("secret unavailable", slog.String("name", check.Name), slog.Any("error", err))
		}
		result.Secrets = append(result.Secrets, status)
	}

	if format == "json" {
		if err := writeJSON(writer, result); err != nil {
			return fmt.Errorf("failed to output JSON: %w", err)
		}
	} else {
		outputCheckSecretsText(writer, result)
	}

	if result.Unavailable > 0 {
		return fmt.Errorf("%d of %d secret(s) unavailable", result.Unavailable, len(checks))
	}
	return nil
}

func outputCheckSecretsText(writer io.Writer, result checkSecretsResult) {
	_, _ = fmt.Fprintf(writer, "Secret Availability\n")
	_, _ = fmt.Fprintf(writer, "===================\n\n")

	for _, s := range result.Secrets {
		mark := "OK     "
		if !s.Available {
			mark = "MISSING"
		}
		_, _ = fmt.Fprintf(writer, "[%s] %-28s (%s)\n", mark, s.Name, s.Source)
		if s.Error != "" {
			_, _ = fmt.Fprintf(writer, "          %s\n", s.Error)
		}
	}

	_, _ = fmt.Fprintf(writer, "\n%d of %d available\n", len(result.Secrets)-result.Unavailable, len(result.Secrets))
}
