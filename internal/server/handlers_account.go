package server

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/melodyxpot/resumate-app/internal/types"
)

// handleGetSettings returns the caller's account
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	user, err := s.deps.Store.GetUser(r.Context(), s.currentUser(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if user == nil {
		s.writeError(w, r, &ErrUserNotFound{UserID: s.currentUser(r)})
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"user": user})
}

// handleUpdateSettings updates defaultProjectId and saveResumeByDefault.
// Omitted fields keep their current value; an empty defaultProjectId clears it.
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	ownerID := s.currentUser(r)

	var req types.UpdateSettingsRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	clearDefault := false
	if req.DefaultProjectID != nil {
		trimmed := strings.TrimSpace(*req.DefaultProjectID)
		if trimmed == "" {
			clearDefault = true
			req.DefaultProjectID = nil
		} else {
			req.DefaultProjectID = &trimmed
		}
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, validationError(err))
		return
	}

	current, err := s.deps.Store.GetUser(r.Context(), ownerID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if current == nil {
		s.writeError(w, r, &ErrUserNotFound{UserID: ownerID})
		return
	}

	defaultProjectID := current.DefaultProjectID
	switch {
	case clearDefault:
		defaultProjectID = nil
	case req.DefaultProjectID != nil:
		id := uuid.MustParse(*req.DefaultProjectID)
		// The default must be one of the caller's datasets
		project, err := s.deps.Store.GetProject(r.Context(), ownerID, id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if project == nil {
			s.writeError(w, r, &ErrResourceNotFound{Resource: "project", ID: id.String()})
			return
		}
		defaultProjectID = &id
	}

	saveByDefault := current.SaveResumeByDefault
	if req.SaveResumeByDefault != nil {
		saveByDefault = *req.SaveResumeByDefault
	}

	user, err := s.deps.Store.UpdateUserSettings(r.Context(), ownerID, defaultProjectID, saveByDefault)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if user == nil {
		s.writeError(w, r, &ErrUserNotFound{UserID: ownerID})
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"user": user})
}
