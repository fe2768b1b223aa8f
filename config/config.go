package config

import (
	"errors"
	"os"
	"time"
)

// Config holds all process-wide settings. It is built once at startup and
// passed to every component that needs it, so no service reads the
// environment on its own.
type Config struct {
	Port           string
	DatabaseURL    string
	JWTSecret      []byte
	AllowedOrigins string

	// Seed credentials for the single administrative user. Only the
	// "seed" subcommand reads these.
	AdminUsername string
	AdminPassword string

	// TokenTTL is the session token lifetime. Fixed at 7 days.
	TokenTTL time.Duration

	// AuditInterval controls the ledger audit worker. Zero disables it.
	AuditInterval time.Duration
}

// Load reads configuration from the environment. The signing secret and
// database URL are mandatory; the process must not start without them.
func Load() (*Config, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET environment variable not set")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, errors.New("DATABASE_URL environment variable not set")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	origins := os.Getenv("ALLOWED_ORIGINS")
	if origins == "" {
		origins = "*"
	}

	auditInterval := time.Hour
	if v := os.Getenv("LEDGER_AUDIT_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, errors.New("LEDGER_AUDIT_INTERVAL must be a duration (e.g. 30m)")
		}
		auditInterval = d
	}

	return &Config{
		Port:           port,
		DatabaseURL:    dsn,
		JWTSecret:      []byte(secret),
		AllowedOrigins: origins,
		AdminUsername:  os.Getenv("ADMIN_USERNAME"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		TokenTTL:       7 * 24 * time.Hour,
		AuditInterval:  auditInterval,
	}, nil
}
