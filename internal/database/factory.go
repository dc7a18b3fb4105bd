package database

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Credential fields read from the database secret document.
const (
	FieldDatabase = "Database"
	FieldUsername = "Username"
	FieldPassword = "Password"
)

// SecretReader reads a single field of a secret document.
type SecretReader interface {
	GetSecret(ctx context.Context, path, key string) (string, error)
}

// FactoryConfig holds the non-secret connection settings.
type FactoryConfig struct {
	Host       string
	Port       int
	AuthSource string
	// SecretPath is the store path of the document holding Database, Username and Password.
	SecretPath string
}

// Factory builds connections from freshly resolved credentials.
type Factory struct {
	config  FactoryConfig
	secrets SecretReader
	pool    *Pool
	logger  *slog.Logger
}

// NewFactory creates a Factory.
func NewFactory(config FactoryConfig, secrets SecretReader, pool *Pool, logger *slog.Logger) *Factory {
	return &Factory{
		config:  config,
		secrets: secrets,
		pool:    pool,
		logger:  logger,
	}
}

// Descriptor resolves the connection descriptor. Credentials are read on every call
// so rotated values are picked up. It fails on the first missing field.
func (f *Factory) Descriptor(ctx context.Context) (Descriptor, error) {
	if f.config.Host == "" {
		return Descriptor{}, ErrHostNotConfigured
	}

	d := Descriptor{
		Host:       f.config.Host,
		Port:       f.config.Port,
		AuthSource: f.config.AuthSource,
	}
	if d.Port <= 0 {
		d.Port = DefaultPort
	}
	if d.AuthSource == "" {
		d.AuthSource = DefaultAuthSource
	}

	fields := []struct {
		name string
		dst  *string
	}{
		{FieldDatabase, &d.Database},
		{FieldUsername, &d.Username},
		{FieldPassword, &d.Password},
	}
	for _, field := range fields {
		value, err := f.secrets.GetSecret(ctx, f.config.SecretPath, field.name)
		if err != nil {
			return Descriptor{}, fmt.Errorf("resolve database %s: %w", field.name, err)
		}
		*field.dst = value
	}

	return d, nil
}

// Handle is a connection scoped to the resolved database.
type Handle struct {
	lease      *Lease
	database   *mongo.Database
	descriptor Descriptor
}

// Database returns the database the descriptor names.
func (h *Handle) Database() *mongo.Database {
	return h.database
}

// Collection returns a collection of the handle's database.
func (h *Handle) Collection(name string) *mongo.Collection {
	return h.database.Collection(name)
}

// Descriptor returns the descriptor the handle was opened with.
func (h *Handle) Descriptor() Descriptor {
	return h.descriptor
}

// Release returns the underlying client to the pool.
func (h *Handle) Release() {
	h.lease.Release()
}

// Connect resolves a fresh descriptor and checks out a client for it.
// The caller must Release the handle.
func (f *Factory) Connect(ctx context.Context) (*Handle, error) {
	d, err := f.Descriptor(ctx)
	if err != nil {
		return nil, err
	}

	lease, err := f.pool.Acquire(ctx, d)
	if err != nil {
		return nil, err
	}

	return &Handle{
		lease:      lease,
		database:   lease.Client().Database(d.Database),
		descriptor: d,
	}, nil
}

// Ping connects and verifies the server answers.
func (f *Factory) Ping(ctx context.Context) error {
	handle, err := f.Connect(ctx)
	if err != nil {
		return err
	}
	defer handle.Release()

	if err := handle.lease.Client().Ping(ctx, nil); err != nil {
		return Classify(err)
	}
	return nil
}
