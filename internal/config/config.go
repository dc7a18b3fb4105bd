// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
//
// Secret material (VAULT_TOKEN, database credentials, the signing key) is never
// part of Config; it is obtained through the secret resolver and the vault store.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// VaultAddr is the address of the Vault server (e.g., "http://vault:8200").
	VaultAddr string
	// VaultMountPath is the KV v2 mount point holding application secrets.
	VaultMountPath string
	// VaultTimeout bounds every call made to Vault.
	VaultTimeout time.Duration
	// SecretsDir is the directory where per-secret files are mounted.
	SecretsDir string
	// SecretCacheTTL is how long a secret read from Vault may be reused. Zero disables caching.
	SecretCacheTTL time.Duration

	// MongoHost is the MongoDB host name.
	MongoHost string
	// MongoPort is the MongoDB port.
	MongoPort int
	// MongoAuthSource is the database used to validate the connecting user's credentials.
	MongoAuthSource string
	// MongoTimeout bounds every database call.
	MongoTimeout time.Duration
	// MongoSecretPath is the Vault path holding the Database, Username and Password fields.
	MongoSecretPath string

	// AppSecretPath is the Vault path holding the application signing key.
	AppSecretPath string
	// AppSecretKey is the field name of the signing key inside AppSecretPath.
	AppSecretKey string
	// CookieSecure marks the flash cookie Secure; enable when served over TLS.
	CookieSecure bool

	// RateLimitEnabled indicates whether rate limiting for write endpoints is enabled.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the number of write requests allowed per second per client IP.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst size for write endpoint rate limiting.
	RateLimitBurst int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort: env.GetInt("SERVER_PORT", 8080),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Secret store
		VaultAddr:      env.GetString("VAULT_ADDR", ""),
		VaultMountPath: env.GetString("VAULT_MOUNT_PATH", "flask_blog"),
		VaultTimeout:   env.GetDuration("VAULT_TIMEOUT_SECONDS", 5, time.Second),
		SecretsDir:     env.GetString("SECRETS_DIR", "/run/secrets"),
		SecretCacheTTL: env.GetDuration("SECRET_CACHE_TTL_SECONDS", 0, time.Second),

		// Database
		MongoHost:       env.GetString("MONGO_DB_HOST", ""),
		MongoPort:       env.GetInt("MONGO_DB_PORT", 27017),
		MongoAuthSource: env.GetString("MONGO_DB_AUTH_SOURCE", "admin"),
		MongoTimeout:    env.GetDuration("MONGO_DB_TIMEOUT_SECONDS", 10, time.Second),
		MongoSecretPath: env.GetString("MONGO_DB_SECRET_PATH", "MongoDB"),

		// Application signing key
		AppSecretPath: env.GetString("APP_SECRET_PATH", "flask"),
		AppSecretKey:  env.GetString("APP_SECRET_KEY", "FLASK_SECRET_KEY"),
		CookieSecure:  env.GetBool("COOKIE_SECURE", false),

		// Rate Limiting (write endpoints)
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 5.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 10),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "blog"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),
	}
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
