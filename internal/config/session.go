package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Session cookie defaults
const (
	DefaultSessionTTLHours   = 24 * 7
	DefaultSessionCookieName = "session"
	minSessionSecretLength   = 32
)

// SessionConfig holds configuration for signed session tokens and the cookie
// that carries them.
type SessionConfig struct {
	Secret       string
	TTLHours     int
	CookieName   string
	CookieSecure bool
}

// NewSessionConfig reads SESSION_SECRET (required), SESSION_TTL_HOURS
// (default one week) and COOKIE_SECURE (default true).
func NewSessionConfig() (*SessionConfig, error) {
	return sessionConfigFrom(os.Getenv)
}

func sessionConfigFrom(getenv func(string) string) (*SessionConfig, error) {
	secret := getenv("SESSION_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required but not set")
	}

	ttl := DefaultSessionTTLHours
	if v := getenv("SESSION_TTL_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TTL_HOURS: %v", err)
		}
		ttl = hours
	}

	secure := true
	if v := getenv("COOKIE_SECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid COOKIE_SECURE: %v", err)
		}
		secure = b
	}

	cfg := &SessionConfig{
		Secret:       secret,
		TTLHours:     ttl,
		CookieName:   DefaultSessionCookieName,
		CookieSecure: secure,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the session configuration
func (c *SessionConfig) Validate() error {
	if len(c.Secret) < minSessionSecretLength {
		return fmt.Errorf("SESSION_SECRET must be at least %d characters", minSessionSecretLength)
	}
	if c.TTLHours < 1 {
		return fmt.Errorf("SESSION_TTL_HOURS must be at least 1 hour, got: %d", c.TTLHours)
	}
	if c.CookieName == "" {
		return fmt.Errorf("session cookie name cannot be empty")
	}
	return nil
}

// TTL returns the token lifetime
func (c *SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}
