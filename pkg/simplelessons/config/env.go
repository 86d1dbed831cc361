package config

import (
	"fmt"
	"os"
	"strings"
)

// WithEnv applies environment variable overrides using the provided prefix.
//
// Environment variable mapping:
//
//	PORT - HTTP port (default: "8080")
//	ENVIRONMENT - Runtime environment (default: "development")
//	DATABASE_URL - "memory" (or empty) for the in-memory store, or a
//	               postgresql:// connection string for Postgres
//	JWT_SECRET - session token secret
func WithEnv(prefix string) Option {
	return func(c *ServerConfig) error {
		if v, ok := lookupEnv(prefix, "PORT"); ok && v != "" {
			c.Port = v
		}
		if v, ok := lookupEnv(prefix, "ENVIRONMENT"); ok && v != "" {
			c.Environment = v
		}
		if v, ok := lookupEnv(prefix, "JWT_SECRET"); ok && v != "" {
			c.JWTSecret = v
		}

		if v, ok := lookupEnv(prefix, "DATABASE_URL"); ok {
			if err := applyDatabaseURL(c, v); err != nil {
				return err
			}
		}
		return nil
	}
}

// applyDatabaseURL auto-detects the store type from a connection string.
func applyDatabaseURL(c *ServerConfig, url string) error {
	switch {
	case url == "" || url == "memory":
		c.DatabaseType = "memory"
		c.DatabaseURL = ""
	case strings.HasPrefix(url, "postgresql://") || strings.HasPrefix(url, "postgres://"):
		c.DatabaseType = "postgres"
		c.DatabaseURL = url
	default:
		return fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory' or 'postgresql://...')", url)
	}
	return nil
}

func lookupEnv(prefix, name string) (string, bool) {
	if prefix != "" {
		name = prefix + "_" + name
	}
	return os.LookupEnv(name)
}
