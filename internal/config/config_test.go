package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodyxpot/resumate-app/internal/llm"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"port": 9090,
		"database_url": "postgres://localhost/resumate",
		"models": {"advanced": "gemini-exp"},
		"storage": {"bucket": "resumes", "public_base_url": "https://cdn.example.com"},
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres://localhost/resumate", cfg.DatabaseURL)
	assert.Equal(t, "gemini-exp", cfg.Models["advanced"])
	assert.Equal(t, "resumes", cfg.Storage.Bucket)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644))

	_, err := LoadConfig(tmpFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadConfig("")
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	cfg := &Config{Port: 9090, APIKey: "file-key"}
	err := cfg.ApplyEnv(envMap(map[string]string{
		"PORT":                    "7000",
		"GEMINI_API_KEY":          "env-key",
		"DATABASE_URL":            "postgres://db/resumate",
		"GEMINI_MODEL_ADVANCED":   "gemini-custom",
		"R2_ACCOUNT_ID":           "abc123",
		"STORAGE_BUCKET":          "resumes",
		"STORAGE_PUBLIC_BASE_URL": "https://files.example.com",
		"STORAGE_PATH_STYLE":      "true",
		"GEMINI_TEMPERATURE":      "0.4",
	}))
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "postgres://db/resumate", cfg.DatabaseURL)
	assert.Equal(t, "gemini-custom", cfg.Models["advanced"])
	assert.Equal(t, "https://abc123.r2.cloudflarestorage.com", cfg.Storage.Endpoint)
	assert.Equal(t, "resumes", cfg.Storage.Bucket)
	assert.True(t, cfg.Storage.UsePathStyle)
	require.NotNil(t, cfg.Temperature)
	assert.Equal(t, float32(0.4), *cfg.Temperature)
}

func TestApplyEnv_ExplicitEndpointWins(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.ApplyEnv(envMap(map[string]string{
		"R2_ACCOUNT_ID":    "abc123",
		"STORAGE_ENDPOINT": "http://localhost:9000",
	})))
	assert.Equal(t, "http://localhost:9000", cfg.Storage.Endpoint)
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	assert.Error(t, (&Config{}).ApplyEnv(envMap(map[string]string{"PORT": "eighty"})))
	assert.Error(t, (&Config{}).ApplyEnv(envMap(map[string]string{"STORAGE_PATH_STYLE": "maybe"})))
	assert.Error(t, (&Config{}).ApplyEnv(envMap(map[string]string{"GEMINI_TEMPERATURE": "warm"})))
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{Models: map[string]string{"lite": "tiny"}}
	merged := cfg.MergeWithDefaults(Default())

	assert.Equal(t, DefaultPort, merged.Port)
	assert.Equal(t, "*", merged.CORSOrigin)
	assert.Equal(t, "auto", merged.Storage.Region)
	assert.Equal(t, "tiny", merged.Models["lite"])
	assert.Equal(t, ":8080", merged.Addr())
}

func TestValidate(t *testing.T) {
	valid := Default()
	assert.NoError(t, valid.Validate())

	badPort := Default()
	badPort.Port = 70000
	assert.Error(t, badPort.Validate())

	badDB := Default()
	badDB.DatabaseURL = "mysql://localhost/x"
	assert.Error(t, badDB.Validate())

	badTier := Default()
	badTier.Models = map[string]string{"ultra": "x"}
	assert.Error(t, badTier.Validate())

	hot := float32(3)
	badTemperature := Default()
	badTemperature.Temperature = &hot
	assert.Error(t, badTemperature.Validate())

	badStorage := Default()
	badStorage.Storage.Bucket = "resumes"
	assert.Error(t, badStorage.Validate(), "bucket without public URL")

	goodStorage := badStorage
	goodStorage.Storage.PublicBaseURL = "https://cdn.example.com"
	assert.NoError(t, goodStorage.Validate())
}

func TestLLMConfig(t *testing.T) {
	cfg := Config{Models: map[string]string{"advanced": "gemini-custom"}}
	llmCfg := cfg.LLMConfig()

	assert.Equal(t, "gemini-custom", llmCfg.GetModel(llm.TierAdvanced))
	assert.Equal(t, "gemini-2.5-flash", llmCfg.GetModel(llm.TierStandard))
}

func TestPublishConfig(t *testing.T) {
	cfg := Config{Storage: StorageConfig{Bucket: "b", PublicBaseURL: "https://cdn", Prefix: "p"}}
	pc := cfg.PublishConfig()
	assert.Equal(t, "b", pc.Bucket)
	assert.Equal(t, "p", pc.Prefix)
	assert.True(t, cfg.StorageEnabled())
}
