// Package domain defines the types shared by the secret resolver and the secret store.
// A secret is addressed by a logical path inside the store mount and a field name
// inside the latest version of the document stored at that path.
package domain

import "fmt"

// TokenSecretName is the name under which the Vault token is resolved.
const TokenSecretName = "VAULT_TOKEN"

// Ref identifies a single field of a versioned secret document.
type Ref struct {
	// Path is the logical path inside the mount (e.g., "MongoDB").
	Path string
	// Key is the field name inside the document (e.g., "Password").
	Key string
}

// String returns the ref in "path#key" form, suitable for logs and cache keys.
func (r Ref) String() string {
	return fmt.Sprintf("%s#%s", r.Path, r.Key)
}
