package app

import (
	"fmt"

	"github.com/allisson/blog/internal/secrets/cache"
	"github.com/allisson/blog/internal/secrets/resolver"
	"github.com/allisson/blog/internal/secrets/vault"
)

// TokenResolver returns the resolver used to obtain VAULT_TOKEN.
// It reads the environment and the secrets directory only.
func (c *Container) TokenResolver() *resolver.Resolver {
	c.tokenResolverInit.Do(func() {
		c.tokenResolver = resolver.New(c.config.SecretsDir, nil, c.Logger())
	})
	return c.tokenResolver
}

// SecretStore returns the Vault store client.
func (c *Container) SecretStore() *vault.Store {
	c.secretStoreInit.Do(func() {
		c.secretStore = vault.NewStore(vault.Config{
			Address:   c.config.VaultAddr,
			MountPath: c.config.VaultMountPath,
			Timeout:   c.config.VaultTimeout,
		}, c.TokenResolver(), c.Logger())
	})
	return c.secretStore
}

// SecretReader returns the reader every component uses for store secrets:
// the store, instrumented when metrics are enabled and cached when a TTL is set.
func (c *Container) SecretReader() (vault.SecretReader, error) {
	c.secretReaderInit.Do(func() {
		var err error
		c.secretReader, err = c.initSecretReader()
		if err != nil {
			c.setInitError("secretReader", err)
		}
	})
	if err := c.initError("secretReader"); err != nil {
		return nil, err
	}
	return c.secretReader, nil
}

// SecretResolver returns the resolver for application secrets. Names missing from the
// environment and the secrets directory are read from the application secret document.
func (c *Container) SecretResolver() (*resolver.Resolver, error) {
	c.secretResolverInit.Do(func() {
		var err error
		c.secretResolver, err = c.initSecretResolver()
		if err != nil {
			c.setInitError("secretResolver", err)
		}
	})
	if err := c.initError("secretResolver"); err != nil {
		return nil, err
	}
	return c.secretResolver, nil
}

func (c *Container) initSecretReader() (vault.SecretReader, error) {
	var reader vault.SecretReader = c.SecretStore()

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for secret reader: %w", err)
		}
		reader = vault.NewSecretReaderWithMetrics(reader, businessMetrics)
	}

	return cache.New(reader, c.config.SecretCacheTTL), nil
}

func (c *Container) initSecretResolver() (*resolver.Resolver, error) {
	reader, err := c.SecretReader()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret reader for secret resolver: %w", err)
	}

	fallback := vault.NewPathFallback(reader, c.config.AppSecretPath)
	return resolver.New(c.config.SecretsDir, fallback, c.Logger()), nil
}
