package types

import (
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
)

// JobPosting describes the job a resume is tailored for.
// It is never stored on its own, only as a snapshot inside a SavedResume.
type JobPosting struct {
	JobTitle       string `json:"jobTitle" validate:"required"`
	CompanyName    string `json:"companyName" validate:"required"`
	AboutRole      string `json:"aboutRole,omitempty"`
	AboutCompany   string `json:"aboutCompany,omitempty"`
	RequiredSkills string `json:"requiredSkills,omitempty"`
}

// jobPostingWire accepts both the canonical shape and the legacy one, which
// carried a single jobDescription and requiredSkills as a list.
type jobPostingWire struct {
	JobTitle       string          `json:"jobTitle"`
	CompanyName    string          `json:"companyName"`
	AboutRole      string          `json:"aboutRole"`
	AboutCompany   string          `json:"aboutCompany"`
	JobDescription string          `json:"jobDescription"`
	RequiredSkills json.RawMessage `json:"requiredSkills"`
}

// UnmarshalJSON decodes a job posting, migrating legacy snapshots into the
// canonical shape.
func (j *JobPosting) UnmarshalJSON(data []byte) error {
	var wire jobPostingWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	out := JobPosting{
		JobTitle:     wire.JobTitle,
		CompanyName:  wire.CompanyName,
		AboutRole:    wire.AboutRole,
		AboutCompany: wire.AboutCompany,
	}
	out.AboutRole = mergeDescription(out.AboutRole, wire.JobDescription)

	skills, err := decodeSkills(wire.RequiredSkills)
	if err != nil {
		return err
	}
	out.RequiredSkills = skills

	*j = out
	return nil
}

// mergeDescription folds a legacy jobDescription into aboutRole. Both texts are
// kept when they differ.
func mergeDescription(aboutRole, description string) string {
	description = strings.TrimSpace(description)
	switch {
	case description == "" || description == strings.TrimSpace(aboutRole):
		return aboutRole
	case strings.TrimSpace(aboutRole) == "":
		return description
	default:
		return strings.TrimSpace(aboutRole) + "\n\n" + description
	}
}

// decodeSkills accepts either free text or a list of skills.
func decodeSkills(raw json.RawMessage) (string, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return "", nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			return "", err
		}
		kept := make([]string, 0, len(list))
		for _, s := range list {
			if s = strings.TrimSpace(s); s != "" {
				kept = append(kept, s)
			}
		}
		return strings.Join(kept, ", "), nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", err
	}
	return text, nil
}

// Validate checks that the job identity is present.
func (j *JobPosting) Validate() error {
	validate := validator.New()
	return validate.Struct(j)
}
