package llm

import (
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"json code block", "```json\n{\"key\": \"value\"}\n```", `{"key": "value"}`},
		{"generic code block", "```\n{\"key\": \"value\"}\n```", `{"key": "value"}`},
		{"code block with language", "```javascript\n{\"key\": \"value\"}\n```", `{"key": "value"}`},
		{"plain JSON", `{"key": "value"}`, `{"key": "value"}`},
		{"surrounding whitespace", "  \n{\"a\": 1}\n ", `{"a": 1}`},
		{"preamble before object", "Here is the JSON:\n{\"company\": \"Acme\"}", `{"company": "Acme"}`},
		{"preamble before array", "Result: [1, 2]", `[1, 2]`},
		{"no JSON at all", "nothing here", "nothing here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractTextFromResponse(t *testing.T) {
	_, err := extractTextFromResponse(&genai.GenerateContentResponse{})
	assert.Error(t, err)

	_, err = extractTextFromResponse(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{}}},
	})
	assert.Error(t, err)

	_, err = extractTextFromResponse(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}}}}},
	})
	assert.Error(t, err)

	text, err := extractTextFromResponse(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Text("# Jane"), genai.Text(" Doe")}}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "# Jane Doe", text)
}

func TestBuildParts(t *testing.T) {
	parts := buildParts("prompt", ResolveOptions(WithAttachment("application/pdf", []byte("x"))))
	require.Len(t, parts, 2)
	assert.Equal(t, genai.Text("prompt"), parts[0])
	assert.Equal(t, genai.Blob{MIMEType: "application/pdf", Data: []byte("x")}, parts[1])
}

func TestBuildExtractionPrompt(t *testing.T) {
	schema := ExtractionSchema{
		Name:        "Test",
		Description: "Extract things.",
		Fields: []SchemaField{
			{Name: "name", Type: "\"string\"", Required: true},
			{Name: "tags", Type: "[\"string\"]", Description: "labels"},
		},
		Rules: []string{"Use empty arrays for missing lists."},
	}

	prompt := BuildExtractionPrompt(schema, "Jane Doe")
	assert.True(t, strings.HasPrefix(prompt, "Extract things."))
	assert.Contains(t, prompt, `"name": "string" (required),`)
	assert.Contains(t, prompt, `"tags": ["string"] // labels`)
	assert.Contains(t, prompt, "- Use empty arrays for missing lists.")
	assert.Contains(t, prompt, "\"\"\"\nJane Doe\n\"\"\"")

	attached := BuildExtractionPrompt(schema, "")
	assert.Contains(t, attached, "The document is attached.")
	assert.NotContains(t, attached, "Input text:")
}
