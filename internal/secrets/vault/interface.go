package vault

import (
	"context"
)

// SecretReader reads a single field of a secret document.
type SecretReader interface {
	GetSecret(ctx context.Context, path, key string) (string, error)
}

var _ SecretReader = (*Store)(nil)
