package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/melodyxpot/resumate-app/internal/db"
	"github.com/melodyxpot/resumate-app/internal/types"
)

// normalizeEmail lowercases and trims an address so lookups are stable
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// handleSignUp creates an account and starts a session
func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req types.SignUpRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)

	if err := req.Validate(); err != nil {
		s.writeError(w, r, validationError(err))
		return
	}

	user, err := s.deps.Store.CreateUser(r.Context(), req.Email, req.Name)
	if err != nil {
		if errors.Is(err, db.ErrEmailTaken) {
			s.writeError(w, r, &ErrEmailAlreadyExists{Email: req.Email})
			return
		}
		s.writeError(w, r, err)
		return
	}

	log.Printf("[auth] account created: %s", user.ID)
	s.startSession(w, r, user, http.StatusCreated)
}

// handleSignIn starts a session for an existing account
func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req types.SignInRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	req.Email = normalizeEmail(req.Email)

	if err := req.Validate(); err != nil {
		s.writeError(w, r, validationError(err))
		return
	}

	user, err := s.deps.Store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if user == nil {
		s.writeError(w, r, &ErrAccountNotFound{Email: req.Email})
		return
	}

	s.startSession(w, r, user, http.StatusOK)
}

// handleLogout clears the session cookie
func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.deps.Sessions.ClearCookie(w)
	s.jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request, user *types.User, status int) {
	token, expiresAt, err := s.deps.Sessions.IssueToken(user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.deps.Sessions.SetCookie(w, token, expiresAt)
	s.jsonResponse(w, status, types.SessionResponse{User: user, Token: token})
}

// validationError converts validator errors to an ErrValidation naming the
// first failing field.
func validationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return &ErrValidation{Field: ve.Field(), Message: fmt.Sprintf("failed on %q", ve.Tag())}
	}
	return &ErrValidation{Message: err.Error()}
}
