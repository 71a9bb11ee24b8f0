package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// SignUpRequest represents the request to create a new account.
type SignUpRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,min=1"`
}

// SignInRequest represents the sign-in request. Accounts are identified by email alone.
type SignInRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// User represents an account for API responses.
type User struct {
	ID                  uuid.UUID  `json:"id"`
	Email               string     `json:"email"`
	Name                string     `json:"name"`
	DefaultProjectID    *uuid.UUID `json:"defaultProjectId,omitempty"`
	SaveResumeByDefault bool       `json:"saveResumeByDefault"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// SessionResponse is returned by sign-up and sign-in. The session token itself
// travels in an HTTP-only cookie; Token is set for non-browser clients.
type SessionResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token,omitempty"`
}

// UpdateSettingsRequest represents an account settings update.
// An empty DefaultProjectID clears the default.
type UpdateSettingsRequest struct {
	DefaultProjectID    *string `json:"defaultProjectId" validate:"omitempty,uuid"`
	SaveResumeByDefault *bool   `json:"saveResumeByDefault"`
}

// Validate validates the SignUpRequest using the validator.
func (r *SignUpRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the SignInRequest using the validator.
func (r *SignInRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the UpdateSettingsRequest using the validator.
func (r *UpdateSettingsRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
