// Package types provides type definitions for structured data used throughout the resumate system.
package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Header holds the candidate identity and contact fields of a profile dataset.
type Header struct {
	Name             string `json:"name" validate:"required"`
	Role             string `json:"role" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	PhoneNumber      string `json:"phoneNumber"`
	GitHub           string `json:"github,omitempty"`
	Location         string `json:"location,omitempty"`
	LinkedIn         string `json:"linkedin,omitempty"`
	PortfolioWebsite string `json:"portfolioWebsite,omitempty"`
}

// Experience is a single work history entry.
// ID is a synthetic identifier used for list editing only.
type Experience struct {
	ID          string `json:"id"`
	JobRole     string `json:"jobRole"`
	CompanyName string `json:"companyName"`
	Duration    string `json:"duration"`
	Summary     string `json:"summary,omitempty"`
}

// Education is a single education entry.
type Education struct {
	ID           string `json:"id"`
	SchoolName   string `json:"schoolName"`
	FieldOfStudy string `json:"fieldOfStudy"`
	Credential   string `json:"credential"`
	Duration     string `json:"duration"`
}

// PortfolioItem is a project the candidate wants to showcase.
type PortfolioItem struct {
	ID          string `json:"id"`
	ProjectName string `json:"projectName"`
	Link        string `json:"link"`
	Description string `json:"description,omitempty"`
}

// ProfileDataset is a user's stored candidate information ("project").
type ProfileDataset struct {
	ID                uuid.UUID       `json:"id"`
	UserID            uuid.UUID       `json:"userId"`
	ProjectName       string          `json:"projectName"`
	Header            Header          `json:"header"`
	Summary           string          `json:"summary"`
	Experiences       []Experience    `json:"experiences"`
	Educations        []Education     `json:"educations"`
	Skills            []string        `json:"skills"`
	ProjectPortfolios []PortfolioItem `json:"projectPortfolios"`
	Certifications    []string        `json:"certifications"`
	Awards            []string        `json:"awards"`
	Publications      []string        `json:"publications"`
	Languages         []string        `json:"languages"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// Normalize replaces nil list fields with empty slices and assigns synthetic ids
// to list entries that lack one.
func (p *ProfileDataset) Normalize() {
	if p.Experiences == nil {
		p.Experiences = []Experience{}
	}
	if p.Educations == nil {
		p.Educations = []Education{}
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.ProjectPortfolios == nil {
		p.ProjectPortfolios = []PortfolioItem{}
	}
	if p.Certifications == nil {
		p.Certifications = []string{}
	}
	if p.Awards == nil {
		p.Awards = []string{}
	}
	if p.Publications == nil {
		p.Publications = []string{}
	}
	if p.Languages == nil {
		p.Languages = []string{}
	}

	for i := range p.Experiences {
		if p.Experiences[i].ID == "" {
			p.Experiences[i].ID = uuid.NewString()
		}
	}
	for i := range p.Educations {
		if p.Educations[i].ID == "" {
			p.Educations[i].ID = uuid.NewString()
		}
	}
	for i := range p.ProjectPortfolios {
		if p.ProjectPortfolios[i].ID == "" {
			p.ProjectPortfolios[i].ID = uuid.NewString()
		}
	}
}

// Validate checks the mandatory header fields.
func (p *ProfileDataset) Validate() error {
	validate := validator.New()
	return validate.Struct(p.Header)
}

// patchProtectedKeys are document keys a client may never overwrite.
var patchProtectedKeys = map[string]bool{
	"id":        true,
	"_id":       true,
	"userId":    true,
	"createdAt": true,
	"updatedAt": true,
}

// ApplyPatch replaces every provided top-level field of the dataset with the
// patch value. Fields are replaced wholesale, never merged.
func (p *ProfileDataset) ApplyPatch(patch map[string]json.RawMessage) error {
	current, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(current, &doc); err != nil {
		return fmt.Errorf("failed to decode dataset: %w", err)
	}

	for key, value := range patch {
		if patchProtectedKeys[key] {
			continue
		}
		doc[key] = value
	}

	merged, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal patched dataset: %w", err)
	}

	var next ProfileDataset
	if err := json.Unmarshal(merged, &next); err != nil {
		return fmt.Errorf("invalid patch: %w", err)
	}

	next.ID = p.ID
	next.UserID = p.UserID
	next.CreatedAt = p.CreatedAt
	next.UpdatedAt = p.UpdatedAt
	next.Normalize()
	*p = next
	return nil
}
