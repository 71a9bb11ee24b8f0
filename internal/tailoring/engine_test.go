package tailoring

import (
	"context"
	"errors"
	"testing"

	"github.com/melodyxpot/resumate-app/internal/llm"
	"github.com/melodyxpot/resumate-app/internal/llm/llmtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTailor_ReturnsTextUnmodified(t *testing.T) {
	out := "# Jane Doe\n\n**Staff Engineer**  \n"
	client := &llmtest.Client{Response: out}

	md, err := NewEngine(client).Tailor(context.Background(), fullProfile(), fullJob())
	require.NoError(t, err)
	assert.Equal(t, out, md)

	calls := client.Calls()
	require.Len(t, calls, 1)
	assert.False(t, calls[0].JSON)
	assert.Equal(t, llm.TierAdvanced, calls[0].Tier)
	assert.Equal(t, int32(MaxOutputTokens), calls[0].Options.MaxOutputTokens)
	assert.Equal(t, int32(4000), calls[0].Options.MaxOutputTokens)
	assert.Equal(t, BuildPrompt(fullProfile(), fullJob()), calls[0].Prompt)
}

func TestTailor_ConfiguredTemperature(t *testing.T) {
	client := &llmtest.Client{Response: "# Jane Doe"}
	temperature := float32(0.6)

	_, err := NewEngine(client).WithTemperature(&temperature).Tailor(context.Background(), fullProfile(), fullJob())
	require.NoError(t, err)

	calls := client.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, float32(0.6), calls[0].Options.Temperature)
}

func TestTailor_DefaultTemperature(t *testing.T) {
	client := &llmtest.Client{Response: "# Jane Doe"}

	_, err := NewEngine(client).WithTemperature(nil).Tailor(context.Background(), fullProfile(), fullJob())
	require.NoError(t, err)

	assert.Equal(t, llm.ResolveOptions().Temperature, client.Calls()[0].Options.Temperature)
}

func TestTailor_ProviderError(t *testing.T) {
	cause := errors.New("deadline exceeded")
	client := &llmtest.Client{Err: cause}

	md, err := NewEngine(client).Tailor(context.Background(), fullProfile(), fullJob())
	assert.Empty(t, md)

	var failure *GenerationFailure
	require.ErrorAs(t, err, &failure)
	assert.ErrorIs(t, err, cause)
	assert.Len(t, client.Calls(), 1, "no retry")
}

func TestTailor_EmptyResponse(t *testing.T) {
	_, err := NewEngine(&llmtest.Client{Response: " \n "}).Tailor(context.Background(), fullProfile(), fullJob())

	var failure *GenerationFailure
	require.ErrorAs(t, err, &failure)
	assert.Contains(t, err.Error(), "empty response")
}
