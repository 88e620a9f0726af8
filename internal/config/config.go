package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// Backend selection
	DataBackend string

	// Auth gate. The bcrypt hash of the shared password arrives either
	// base64-encoded (the deploy-friendly form, since bcrypt hashes contain
	// '$') or verbatim.
	PasswordHashBase64 string
	PasswordHashPlain  string

	// Session lifetime for issued login tokens.
	SessionTTL time.Duration
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8081"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/kakeibo.db"),
		DataBackend:  getEnv("DATA_BACKEND", "sqlite"),

		PasswordHashBase64: getEnv("APP_PASSWORD_HASH_BASE64", ""),
		PasswordHashPlain:  getEnv("APP_PASSWORD_HASH", ""),

		SessionTTL: getEnvDuration("SESSION_TTL", 7*24*time.Hour),
	}
}

// PasswordHash resolves the configured bcrypt hash, preferring the base64
// form when both are set.
func (c *Config) PasswordHash() (string, error) {
	if c.PasswordHashBase64 != "" {
		raw, err := base64.StdEncoding.DecodeString(c.PasswordHashBase64)
		if err != nil {
			return "", fmt.Errorf("decode APP_PASSWORD_HASH_BASE64: %w", err)
		}
		return string(raw), nil
	}
	if c.PasswordHashPlain != "" {
		return c.PasswordHashPlain, nil
	}
	return "", fmt.Errorf("no password hash configured")
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if _, err := c.PasswordHash(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid auth configuration: %v", err))
	}

	if c.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	} else if c.SessionTTL > 90*24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at most 90 days", c.SessionTTL))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
