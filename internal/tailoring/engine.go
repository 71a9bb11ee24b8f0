// Package tailoring generates a job-specific resume in Markdown from a stored
// profile dataset.
package tailoring

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/melodyxpot/resumate-app/internal/llm"
	"github.com/melodyxpot/resumate-app/internal/types"
)

// MaxOutputTokens caps the length of a generated resume
const MaxOutputTokens = 4000

// GenerationFailure is returned when the model does not produce a resume
type GenerationFailure struct {
	Message string
	Cause   error
}

func (e *GenerationFailure) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("resume generation failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("resume generation failed: %s", e.Message)
}

func (e *GenerationFailure) Unwrap() error {
	return e.Cause
}

// Engine produces tailored resumes
type Engine struct {
	client      llm.Client
	tier        llm.ModelTier
	temperature *float32
}

// NewEngine creates an Engine backed by client
func NewEngine(client llm.Client) *Engine {
	return &Engine{client: client, tier: llm.TierAdvanced}
}

// WithTemperature sets the sampling temperature of generation calls.
// A nil value keeps the client default.
func (e *Engine) WithTemperature(t *float32) *Engine {
	e.temperature = t
	return e
}

// Tailor issues one generation call and returns the model's Markdown
// unmodified. It does not retry.
func (e *Engine) Tailor(ctx context.Context, profile *types.ProfileDataset, job *types.JobPosting) (string, error) {
	prompt := BuildPrompt(profile, job)

	opts := []llm.Option{llm.WithMaxOutputTokens(MaxOutputTokens)}
	if e.temperature != nil {
		opts = append(opts, llm.WithTemperature(*e.temperature))
	}

	text, err := e.client.GenerateContent(ctx, prompt, e.tier, opts...)
	if err != nil {
		return "", &GenerationFailure{Message: "model call failed", Cause: err}
	}
	if strings.TrimSpace(text) == "" {
		return "", &GenerationFailure{Message: "model returned an empty response"}
	}

	log.Printf("[tailor] generated %d bytes for %q at %q", len(text), job.JobTitle, job.CompanyName)
	return text, nil
}
