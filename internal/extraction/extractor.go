// Package extraction turns an uploaded resume document into a profile dataset
// through one schema-constrained model call.
package extraction

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/melodyxpot/resumate-app/internal/llm"
	"github.com/melodyxpot/resumate-app/internal/prompts"
	"github.com/melodyxpot/resumate-app/internal/schemas"
	"github.com/melodyxpot/resumate-app/internal/types"
	rootschemas "github.com/melodyxpot/resumate-app/schemas"
)

// MaxDocumentBytes bounds the decoded size of an upload
const MaxDocumentBytes = 10 << 20

// Extractor parses resume documents into profile datasets
type Extractor struct {
	client llm.Client
	tier   llm.ModelTier
}

// New creates an Extractor backed by client
func New(client llm.Client) *Extractor {
	return &Extractor{client: client, tier: llm.TierStandard}
}

// Extract decodes the file, reads its text layer when it has one, and asks the
// model for a profile dataset. The result carries no owner or timestamps.
func (e *Extractor) Extract(ctx context.Context, file types.ExtractFile) (*types.ProfileDataset, error) {
	mediaType := ResolveMediaType(file.MediaType, file.Filename)
	if mediaType == "" {
		return nil, failure(KindUnsupportedMediaType, "unsupported file type "+describe(file), nil)
	}

	data, err := DecodeData(file.Data)
	if err != nil {
		return nil, failure(KindInvalidInput, "file data is not valid base64", err)
	}
	if len(data) == 0 {
		return nil, failure(KindInvalidInput, "file is empty", nil)
	}
	if len(data) > MaxDocumentBytes {
		return nil, failure(KindInvalidInput, "file is too large", nil)
	}

	var (
		text string
		opts = []llm.Option{llm.WithResponseSchema(ProfileResponseSchema())}
	)
	if imageTypes[mediaType] {
		opts = append(opts, llm.WithAttachment(mediaType, data))
	} else {
		text, err = ExtractText(mediaType, data)
		if err != nil {
			return nil, failure(KindInvalidInput, "could not read "+describe(file), err)
		}
		if text == "" {
			if mediaType != MediaTypePDF {
				return nil, failure(KindInvalidInput, "document contains no text", nil)
			}
			log.Printf("[extract] %s has no text layer, sending the document to the model", describe(file))
			opts = append(opts, llm.WithAttachment(mediaType, data))
		}
	}

	prompt := llm.BuildExtractionPrompt(ProfileSchema(), text)
	raw, err := e.client.GenerateJSON(ctx, prompt, e.tier, opts...)
	if err != nil {
		return nil, failure(KindModel, "model call failed", err)
	}

	return ParseProfile(raw)
}

// ParseProfile validates model output against the profile extraction schema
// and decodes it into a normalized dataset.
func ParseProfile(raw string) (*types.ProfileDataset, error) {
	raw = llm.CleanJSONBlock(raw)
	if err := schemas.ValidateJSONString(rootschemas.MustGet(rootschemas.ProfileExtraction), raw); err != nil {
		return nil, failure(KindInvalidOutput, "model output does not match the profile schema", err)
	}

	var profile types.ProfileDataset
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, failure(KindInvalidOutput, "model output could not be decoded", err)
	}

	// identity, ownership and timestamps are assigned by the store
	profile.ID = uuid.Nil
	profile.UserID = uuid.Nil
	profile.CreatedAt = time.Time{}
	profile.UpdatedAt = time.Time{}
	profile.Normalize()
	return &profile, nil
}

func describe(file types.ExtractFile) string {
	name := strings.TrimSpace(file.Filename)
	if name == "" {
		name = "document"
	}
	if file.MediaType != "" {
		return name + " (" + file.MediaType + ")"
	}
	return name
}

// ProfileSchema is the prompt-side description of the profile dataset.
func ProfileSchema() llm.ExtractionSchema {
	return llm.ExtractionSchema{
		Name:        "ProfileDataset",
		Description: prompts.MustGet(prompts.ExtractionFile, "extract-profile"),
		Fields: []llm.SchemaField{
			{
				Name:        "header",
				Type:        `{"name": "string", "role": "string", "email": "string", "phoneNumber": "string", "github"?: "string", "location"?: "string", "linkedin"?: "string", "portfolioWebsite"?: "string"}`,
				Description: "Candidate identity and contact details",
				Required:    true,
			},
			{Name: "summary", Type: `"string"`, Description: "Professional summary", Required: true},
			{
				Name:        "experiences",
				Type:        `[{"jobRole": "string", "companyName": "string", "duration": "string", "summary"?: "string"}]`,
				Description: "Work history in document order",
				Required:    true,
			},
			{
				Name:        "educations",
				Type:        `[{"schoolName": "string", "duration": "string", "fieldOfStudy": "string", "credential": "string"}]`,
				Description: "Education in document order",
				Required:    true,
			},
			{Name: "skills", Type: `["string"]`, Required: true},
			{
				Name:        "projectPortfolios",
				Type:        `[{"projectName": "string", "link": "string", "description"?: "string"}]`,
				Description: "Projects the candidate lists",
				Required:    true,
			},
			{Name: "certifications", Type: `["string"]`},
			{Name: "awards", Type: `["string"]`},
			{Name: "publications", Type: `["string"]`},
			{Name: "languages", Type: `["string"]`, Description: "Spoken languages"},
		},
		Rules: []string{
			prompts.MustGet(prompts.ExtractionFile, "missing-values"),
			prompts.MustGet(prompts.ExtractionFile, "verbatim"),
		},
	}
}

func stringSchema() *genai.Schema {
	return &genai.Schema{Type: genai.TypeString}
}

func stringList() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: stringSchema()}
}

func object(required []string, props map[string]*genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required}
}

// ProfileResponseSchema constrains the model's JSON output to the profile shape.
// It mirrors schemas/profile_extraction.schema.json.
func ProfileResponseSchema() *genai.Schema {
	return object(
		[]string{"header", "summary", "experiences", "educations", "skills", "projectPortfolios"},
		map[string]*genai.Schema{
			"header": object(
				[]string{"name", "role", "email", "phoneNumber"},
				map[string]*genai.Schema{
					"name":             stringSchema(),
					"role":             stringSchema(),
					"email":            stringSchema(),
					"phoneNumber":      stringSchema(),
					"github":           stringSchema(),
					"location":         stringSchema(),
					"linkedin":         stringSchema(),
					"portfolioWebsite": stringSchema(),
				},
			),
			"summary": stringSchema(),
			"experiences": {Type: genai.TypeArray, Items: object(
				[]string{"jobRole", "companyName", "duration"},
				map[string]*genai.Schema{
					"jobRole":     stringSchema(),
					"companyName": stringSchema(),
					"duration":    stringSchema(),
					"summary":     stringSchema(),
				},
			)},
			"educations": {Type: genai.TypeArray, Items: object(
				[]string{"schoolName", "duration", "fieldOfStudy", "credential"},
				map[string]*genai.Schema{
					"schoolName":   stringSchema(),
					"duration":     stringSchema(),
					"fieldOfStudy": stringSchema(),
					"credential":   stringSchema(),
				},
			)},
			"skills": stringList(),
			"projectPortfolios": {Type: genai.TypeArray, Items: object(
				[]string{"projectName", "link"},
				map[string]*genai.Schema{
					"projectName": stringSchema(),
					"link":        stringSchema(),
					"description": stringSchema(),
				},
			)},
			"certifications": stringList(),
			"awards":         stringList(),
			"publications":   stringList(),
			"languages":      stringList(),
		},
	)
}
