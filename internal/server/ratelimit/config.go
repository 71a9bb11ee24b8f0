package ratelimit

import (
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the limit applied to one route group.
type EndpointConfig struct {
	Path   string        // Exact path, or a prefix when it ends with "/"
	Method string        // HTTP method
	Limit  int           // Maximum requests per window; 0 means unlimited
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	// IdleTimeout is how long an unused bucket is kept
	IdleTimeout     time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// LoadConfig reads rate limiting configuration from the environment.
func LoadConfig(getenv func(string) string) *Config {
	env := envReader(getenv)
	if !env.bool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    env.int("RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow:   env.duration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: env.duration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		IdleTimeout:     time.Hour,
		Whitelist:       parseIPList(getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(env.int("RATE_LIMIT_GENERATION_PER_HOUR", 20)),
	}
}

// DefaultEndpointConfigs returns the route tiers. generationPerHour bounds
// the model-backed endpoints.
func DefaultEndpointConfigs(generationPerHour int) []EndpointConfig {
	burst := generationPerHour / 5
	if burst < 1 {
		burst = 1
	}
	write := func(path, method string) EndpointConfig {
		return EndpointConfig{Path: path, Method: method, Limit: 60, Window: time.Minute, Burst: 10}
	}

	return []EndpointConfig{
		// Model-backed operations
		{Path: "/tailor", Method: "POST", Limit: generationPerHour, Window: time.Hour, Burst: burst},
		{Path: "/tailor/", Method: "POST", Limit: generationPerHour, Window: time.Hour, Burst: burst},
		{Path: "/extract", Method: "POST", Limit: generationPerHour, Window: time.Hour, Burst: burst},

		// Account creation and sign in
		{Path: "/auth/", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},

		// Writes
		write("/profiles", "POST"),
		write("/profiles/", "PUT"),
		write("/profiles/", "DELETE"),
		write("/resumes", "POST"),
		write("/account/settings", "PUT"),

		// Reads use the default limit; /health and /ready are unlimited
	}
}

type envReader func(string) string

func (e envReader) int(key string, def int) int {
	if v, err := strconv.Atoi(e(key)); err == nil {
		return v
	}
	return def
}

func (e envReader) bool(key string, def bool) bool {
	if v, err := strconv.ParseBool(e(key)); err == nil {
		return v
	}
	return def
}

func (e envReader) duration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(e(key)); err == nil {
		return v
	}
	return def
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
