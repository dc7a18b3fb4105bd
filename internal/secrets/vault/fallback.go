package vault

import (
	"context"
)

// PathFallback lets the secret resolver fall back to the store: a secret named N is
// read as field N of the document at a fixed path.
type PathFallback struct {
	reader SecretReader
	path   string
}

// NewPathFallback creates a PathFallback reading from path.
func NewPathFallback(reader SecretReader, path string) *PathFallback {
	return &PathFallback{reader: reader, path: path}
}

// Lookup reads field name of the document at the configured path.
func (f *PathFallback) Lookup(ctx context.Context, name string) (string, error) {
	return f.reader.GetSecret(ctx, f.path, name)
}
