// Package config loads service configuration from an optional JSON file
// overlaid by environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/melodyxpot/resumate-app/internal/llm"
	"github.com/melodyxpot/resumate-app/internal/publish"
)

// DefaultPort is the HTTP port used when none is configured
const DefaultPort = 8080

// StorageConfig describes the bucket resumes are published to.
type StorageConfig struct {
	Endpoint        string `json:"endpoint,omitempty"`
	Region          string `json:"region,omitempty"`
	Bucket          string `json:"bucket,omitempty"`
	AccessKeyID     string `json:"access_key_id,omitempty"`
	SecretAccessKey string `json:"secret_access_key,omitempty"`
	PublicBaseURL   string `json:"public_base_url,omitempty"`
	Prefix          string `json:"prefix,omitempty"`
	UsePathStyle    bool   `json:"use_path_style,omitempty"`
}

// Config represents the service configuration. All fields are optional in the
// file; required values are checked by Validate after env and flags are merged.
type Config struct {
	Port        int    `json:"port,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"`
	APIKey      string `json:"api_key,omitempty"` // Gemini API key
	CORSOrigin  string `json:"cors_origin,omitempty"`
	ChromePath  string `json:"chrome_path,omitempty"`
	Verbose     bool   `json:"verbose,omitempty"`

	// Models overrides the model used per tier ("lite", "standard", "advanced")
	Models map[string]string `json:"models,omitempty"`

	// Temperature overrides the sampling temperature of resume generation
	Temperature *float32 `json:"temperature,omitempty"`

	Storage StorageConfig `json:"storage,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load reads the optional file at path, overlays the process environment and
// fills remaining gaps with defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	merged := cfg.MergeWithDefaults(Default())
	return &merged, nil
}

// Default returns the built-in defaults
func Default() Config {
	return Config{
		Port:       DefaultPort,
		CORSOrigin: "*",
		Storage:    StorageConfig{Region: "auto"},
	}
}

// ApplyEnv overlays values found in the environment. Set variables win over
// the file.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %w", err)
		}
		c.Port = port
	}
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.APIKey, "GEMINI_API_KEY")
	setString(&c.CORSOrigin, "CORS_ORIGIN")
	setString(&c.ChromePath, "CHROME_PATH")

	if c.Models == nil {
		c.Models = map[string]string{}
	}
	for _, tier := range []llm.ModelTier{llm.TierLite, llm.TierStandard, llm.TierAdvanced} {
		if v := strings.TrimSpace(getenv("GEMINI_MODEL_" + strings.ToUpper(string(tier)))); v != "" {
			c.Models[string(tier)] = v
		}
	}

	if v := strings.TrimSpace(getenv("GEMINI_TEMPERATURE")); v != "" {
		t, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return fmt.Errorf("invalid GEMINI_TEMPERATURE: %w", err)
		}
		temperature := float32(t)
		c.Temperature = &temperature
	}

	s := &c.Storage
	if account := strings.TrimSpace(getenv("R2_ACCOUNT_ID")); account != "" {
		s.Endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", account)
	}
	setString(&s.Endpoint, "STORAGE_ENDPOINT")
	setString(&s.Region, "STORAGE_REGION")
	setString(&s.Bucket, "STORAGE_BUCKET")
	setString(&s.AccessKeyID, "STORAGE_ACCESS_KEY_ID")
	setString(&s.SecretAccessKey, "STORAGE_SECRET_ACCESS_KEY")
	setString(&s.PublicBaseURL, "STORAGE_PUBLIC_BASE_URL")
	setString(&s.Prefix, "STORAGE_PREFIX")
	if v := getenv("STORAGE_PATH_STYLE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid STORAGE_PATH_STYLE: %w", err)
		}
		s.UsePathStyle = b
	}

	return nil
}

// Validate checks that the configuration has valid values.
// Missing API key or database URL are reported by the commands that need them.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535, got %d", c.Port)
	}

	if c.DatabaseURL != "" {
		u, err := url.Parse(c.DatabaseURL)
		if err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
			return fmt.Errorf("config error: 'database_url' must be a postgres:// URL")
		}
	}

	for tier := range c.Models {
		if _, err := llm.ParseModelTier(tier); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}

	if c.Temperature != nil && (*c.Temperature < 0 || *c.Temperature > 2) {
		return fmt.Errorf("config error: 'temperature' must be between 0 and 2, got %g", *c.Temperature)
	}

	if c.StorageEnabled() {
		cfg := c.PublishConfig()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.CORSOrigin == "" {
		result.CORSOrigin = defaults.CORSOrigin
	}
	if result.ChromePath == "" {
		result.ChromePath = defaults.ChromePath
	}
	if result.Storage.Region == "" {
		result.Storage.Region = defaults.Storage.Region
	}
	if result.Storage.Endpoint == "" {
		result.Storage.Endpoint = defaults.Storage.Endpoint
	}

	models := make(map[string]string, len(defaults.Models)+len(c.Models))
	for k, v := range defaults.Models {
		models[k] = v
	}
	for k, v := range c.Models {
		models[k] = v
	}
	result.Models = models

	// Bools cannot distinguish unset from false, so they are not merged

	return result
}

// StorageEnabled reports whether a bucket is configured
func (c *Config) StorageEnabled() bool {
	return c.Storage.Bucket != ""
}

// PublishConfig converts the storage section for the publisher
func (c *Config) PublishConfig() publish.Config {
	s := c.Storage
	return publish.Config{
		Endpoint:        s.Endpoint,
		Region:          s.Region,
		Bucket:          s.Bucket,
		AccessKeyID:     s.AccessKeyID,
		SecretAccessKey: s.SecretAccessKey,
		PublicBaseURL:   s.PublicBaseURL,
		Prefix:          s.Prefix,
		UsePathStyle:    s.UsePathStyle,
	}
}

// LLMConfig returns the model configuration with per-tier overrides applied
func (c *Config) LLMConfig() *llm.Config {
	cfg := llm.DefaultConfig()
	for tier, model := range c.Models {
		cfg = cfg.WithModel(llm.ModelTier(tier), model)
	}
	return cfg
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
