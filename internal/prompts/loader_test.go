package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	prompt, err := Get(TailoringFile, "preamble")
	require.NoError(t, err)
	assert.Contains(t, prompt, "tailored resume in Markdown")
}

func TestGet_InvalidFile(t *testing.T) {
	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	_, err := Get(TailoringFile, "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestEmbeddedFilesComplete(t *testing.T) {
	files := map[string][]string{
		TailoringFile:  {"instructions", "preamble", "profile-intro"},
		ExtractionFile: {"extract-profile", "missing-values", "verbatim"},
	}

	for file, keys := range files {
		for _, key := range keys {
			prompt, err := Get(file, key)
			require.NoError(t, err, "%s/%s", file, key)
			assert.NotEmpty(t, prompt)
		}
	}
}

func TestCaching(t *testing.T) {
	prompt1, err := Get(ExtractionFile, "extract-profile")
	require.NoError(t, err)
	prompt2, err := Get(ExtractionFile, "extract-profile")
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}
