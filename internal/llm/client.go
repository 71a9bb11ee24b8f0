package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// defaultTemperature keeps output consistent between runs
const defaultTemperature = 0.1

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateContent generates text content using the specified model tier
	GenerateContent(ctx context.Context, prompt string, tier ModelTier, opts ...Option) (string, error)
	// GenerateJSON generates JSON content using the specified model tier
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier, opts ...Option) (string, error)
	// GetModel returns the underlying provider model for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// Attachment is a binary document sent alongside the prompt
type Attachment struct {
	MIMEType string
	Data     []byte
}

// CallOptions are the per-call generation settings
type CallOptions struct {
	MaxOutputTokens int32
	Temperature     float32
	Attachments     []Attachment
	ResponseSchema  *genai.Schema
}

// Option configures a single generation call
type Option func(*CallOptions)

// WithMaxOutputTokens caps the length of the generated output
func WithMaxOutputTokens(n int32) Option {
	return func(o *CallOptions) { o.MaxOutputTokens = n }
}

// WithTemperature overrides the sampling temperature
func WithTemperature(t float32) Option {
	return func(o *CallOptions) { o.Temperature = t }
}

// WithAttachment sends a document as an inline blob part after the prompt
func WithAttachment(mimeType string, data []byte) Option {
	return func(o *CallOptions) {
		o.Attachments = append(o.Attachments, Attachment{MIMEType: mimeType, Data: data})
	}
}

// WithResponseSchema constrains JSON output to the given schema
func WithResponseSchema(schema *genai.Schema) Option {
	return func(o *CallOptions) { o.ResponseSchema = schema }
}

// ResolveOptions applies opts over the defaults
func ResolveOptions(opts ...Option) CallOptions {
	o := CallOptions{Temperature: defaultTemperature}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

func (c *GeminiClient) model(tier ModelTier, o CallOptions) (*genai.GenerativeModel, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return nil, fmt.Errorf("no model configured for tier %s", tier)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(o.Temperature)
	if o.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(o.MaxOutputTokens)
	}
	return model, nil
}

// GenerateContent generates text content using the specified model tier
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier, opts ...Option) (string, error) {
	o := ResolveOptions(opts...)
	model, err := c.model(tier, o)
	if err != nil {
		return "", err
	}

	resp, err := model.GenerateContent(ctx, buildParts(prompt, o)...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(resp)
}

// GenerateJSON generates JSON content using the specified model tier
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier, opts ...Option) (string, error) {
	o := ResolveOptions(opts...)
	model, err := c.model(tier, o)
	if err != nil {
		return "", err
	}
	model.ResponseMIMEType = "application/json"
	if o.ResponseSchema != nil {
		model.ResponseSchema = o.ResponseSchema
	}

	resp, err := model.GenerateContent(ctx, buildParts(prompt, o)...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", err
	}

	return CleanJSONBlock(text), nil
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func buildParts(prompt string, o CallOptions) []genai.Part {
	parts := []genai.Part{genai.Text(prompt)}
	for _, a := range o.Attachments {
		parts = append(parts, genai.Blob{MIMEType: a.MIMEType, Data: a.Data})
	}
	return parts
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
