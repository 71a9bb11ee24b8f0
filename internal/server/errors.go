// Package server provides the HTTP API for profile datasets, resume
// generation and saved resumes.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/melodyxpot/resumate-app/internal/db"
	"github.com/melodyxpot/resumate-app/internal/extraction"
	"github.com/melodyxpot/resumate-app/internal/publish"
	"github.com/melodyxpot/resumate-app/internal/rendering"
	"github.com/melodyxpot/resumate-app/internal/tailoring"
)

// Error kinds returned in the "kind" field of error bodies
const (
	KindAuthenticationRequired = "authentication_required"
	KindNotFound               = "not_found"
	KindValidationFailed       = "validation_failed"
	KindConflict               = "conflict"
	KindExternalService        = "external_service_failure"
	KindRateLimited            = "rate_limited"
	KindInternal               = "internal"
)

// genericExternalMessage is the only detail clients see for upstream failures
const genericExternalMessage = "an upstream service failed; please try again"

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrAccountNotFound indicates no account uses the email
type ErrAccountNotFound struct {
	Email string
}

func (e *ErrAccountNotFound) Error() string {
	return fmt.Sprintf("no account for email: %s", e.Email)
}

// ErrUserNotFound indicates a session references a user that no longer exists
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrResourceNotFound indicates the id is absent or owned by another user
type ErrResourceNotFound struct {
	Resource string
	ID       string
}

func (e *ErrResourceNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch ErrorKind(err) {
	case KindAuthenticationRequired:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindValidationFailed:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// ErrorKind classifies an error into one of the machine-readable kinds.
func ErrorKind(err error) string {
	var (
		emailTaken  *ErrEmailAlreadyExists
		noAccount   *ErrAccountNotFound
		noUser      *ErrUserNotFound
		notFound    *ErrResourceNotFound
		validation  *ErrValidation
		extract     *extraction.ExtractionFailure
		generation  *tailoring.GenerationFailure
		renderErr   *rendering.RenderError
		templateErr *rendering.TemplateError
		publishErr  *publish.PublishFailure
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &noUser):
		return KindAuthenticationRequired
	case errors.As(err, &notFound), errors.As(err, &noAccount), errors.Is(err, db.ErrNotFound):
		return KindNotFound
	case errors.As(err, &validation):
		return KindValidationFailed
	case errors.As(err, &emailTaken), errors.Is(err, db.ErrEmailTaken):
		return KindConflict
	case errors.As(err, &extract):
		if extract.ClientError() {
			return KindValidationFailed
		}
		return KindExternalService
	case errors.As(err, &generation), errors.As(err, &renderErr),
		errors.As(err, &templateErr), errors.As(err, &publishErr):
		return KindExternalService
	default:
		return KindInternal
	}
}

// PublicMessage returns the message safe to show a client. Upstream and
// internal failures never expose their detail.
func PublicMessage(err error) string {
	switch ErrorKind(err) {
	case KindExternalService:
		return genericExternalMessage
	case KindInternal:
		return "internal server error"
	case KindAuthenticationRequired:
		return "authentication required"
	}

	var extract *extraction.ExtractionFailure
	if errors.As(err, &extract) {
		return extract.Message
	}
	return err.Error()
}

// kindForStatus is used when an error is written from a bare status code
func kindForStatus(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return KindAuthenticationRequired
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusRequestEntityTooLarge:
		return KindValidationFailed
	case http.StatusConflict:
		return KindConflict
	case http.StatusTooManyRequests:
		return KindRateLimited
	default:
		return KindInternal
	}
}
