// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Rate     RateLimitConfig
	Redis    RedisConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Janitor  JanitorConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 15s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"15s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL" required:"true"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 2)
	MinConns int `env:"DB_MIN_CONNS" default:"2"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// MigrateOnStart applies pending schema migrations at startup (default: true)
	MigrateOnStart bool `env:"DB_MIGRATE_ON_START" default:"true"`
}

// AuthConfig holds login and token settings.
type AuthConfig struct {
	// JWTSecret signs access tokens (required, at least 32 bytes)
	JWTSecret string `env:"AUTH_JWT_SECRET" required:"true"`

	// Issuer is written to and checked against the token "iss" claim (default: painel)
	Issuer string `env:"AUTH_ISSUER" default:"painel"`

	// TokenTTL is how long an issued token stays valid (default: 8h)
	TokenTTL time.Duration `env:"AUTH_TOKEN_TTL" default:"8h"`

	// CookieSecure marks the session cookie Secure (default: false)
	CookieSecure bool `env:"AUTH_COOKIE_SECURE" default:"false"`

	// AdminEmail and AdminPassword seed the first account when both are set
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	// AdminName is the display name of the seeded account (default: Administrador)
	AdminName string `env:"ADMIN_NAME" default:"Administrador"`

	// AdminDocumento is the seeded account's CPF, digits or formatted
	AdminDocumento string `env:"ADMIN_DOCUMENTO"`
}

// RateLimitConfig holds per-IP throttling of login attempts.
type RateLimitConfig struct {
	// Enabled controls whether login throttling is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// LoginPerMinute is the sustained login attempts per minute per IP (default: 10)
	LoginPerMinute int `env:"RATE_LIMIT_LOGIN_PER_MINUTE" default:"10"`

	// LoginBurst is how many attempts may arrive at once (default: 5)
	LoginBurst int `env:"RATE_LIMIT_LOGIN_BURST" default:"5"`

	// MaxConcurrentLogins bounds password checks running at once (default: 8)
	MaxConcurrentLogins int `env:"MAX_CONCURRENT_LOGINS" default:"8"`

	// LoginQueueWait is how long a login waits for a free slot (default: 5s)
	LoginQueueWait time.Duration `env:"LOGIN_QUEUE_WAIT" default:"5s"`
}

// RedisConfig holds the optional token revocation backend.
// When URL is empty revoked tokens are kept in memory.
type RedisConfig struct {
	// URL is a redis:// connection string
	URL string `env:"REDIS_URL"`

	// KeyPrefix namespaces revocation keys (default: painel:revoked:)
	KeyPrefix string `env:"REDIS_KEY_PREFIX" default:"painel:revoked:"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// JanitorConfig holds the background purge of expired revocations.
type JanitorConfig struct {
	// Interval is how often expired revocations are dropped (default: 10m)
	Interval time.Duration `env:"JANITOR_INTERVAL" default:"10m"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// SeedAdmin reports whether an admin account should be seeded at startup.
func (c *AuthConfig) SeedAdmin() bool {
	return c.AdminEmail != "" && c.AdminPassword != ""
}
