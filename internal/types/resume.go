package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// GeneratedResume is the result of a tailoring run. It lives in memory until saved.
type GeneratedResume struct {
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
	BlobURL  string `json:"blobUrl"`
}

// SavedResume records a published resume artifact. Saved resumes are immutable.
// ProjectID may reference a dataset that has since been deleted.
type SavedResume struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"userId"`
	ProjectID uuid.UUID  `json:"projectId"`
	FileName  string     `json:"fileName"`
	BlobURL   string     `json:"blobUrl"`
	JobInfo   JobPosting `json:"jobInfo"`
	CreatedAt time.Time  `json:"createdAt"`
}

// ExtractFile is an uploaded resume document. Data is base64 encoded.
type ExtractFile struct {
	Data      string `json:"data" validate:"required"`
	MediaType string `json:"mediaType"`
	Filename  string `json:"filename"`
}

// ExtractRequest is the body of POST /extract.
type ExtractRequest struct {
	File ExtractFile `json:"file"`
}

// TailorRequest is the body of POST /tailor.
// ProjectID and ShouldSave fall back to the account settings when omitted.
type TailorRequest struct {
	ProjectID  string     `json:"projectId,omitempty"`
	JobInfo    JobPosting `json:"jobInfo"`
	ShouldSave *bool      `json:"shouldSave,omitempty"`
}

// CreateResumeRequest is the body of POST /resumes.
type CreateResumeRequest struct {
	ProjectID string     `json:"projectId" validate:"required,uuid"`
	FileName  string     `json:"fileName" validate:"required"`
	BlobURL   string     `json:"blobUrl" validate:"required,url"`
	JobInfo   JobPosting `json:"jobInfo"`
}

// Validate checks that the upload carries data.
func (r *ExtractRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate checks the artifact reference fields.
func (r *CreateResumeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
