// Package llmtest provides an in-memory llm.Client for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/melodyxpot/resumate-app/internal/llm"
)

// Call records one generation request
type Call struct {
	Prompt  string
	Tier    llm.ModelTier
	JSON    bool
	Options llm.CallOptions
}

// Client returns canned responses and records every call
type Client struct {
	Response string
	Err      error

	mu    sync.Mutex
	calls []Call
}

var _ llm.Client = (*Client)(nil)

func (c *Client) record(prompt string, tier llm.ModelTier, json bool, opts []llm.Option) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, Call{Prompt: prompt, Tier: tier, JSON: json, Options: llm.ResolveOptions(opts...)})
}

// GenerateContent implements llm.Client
func (c *Client) GenerateContent(_ context.Context, prompt string, tier llm.ModelTier, opts ...llm.Option) (string, error) {
	c.record(prompt, tier, false, opts)
	return c.Response, c.Err
}

// GenerateJSON implements llm.Client
func (c *Client) GenerateJSON(_ context.Context, prompt string, tier llm.ModelTier, opts ...llm.Option) (string, error) {
	c.record(prompt, tier, true, opts)
	return c.Response, c.Err
}

// GetModel implements llm.Client
func (c *Client) GetModel(tier llm.ModelTier) string {
	return "fake-" + string(tier)
}

// Close implements llm.Client
func (c *Client) Close() error { return nil }

// Calls returns a copy of the recorded calls
func (c *Client) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}
