package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/melodyxpot/resumate-app/internal/types"
)

// handleListProfiles lists the caller's datasets, most recently updated first
func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	projects, err := s.deps.Store.ListProjects(r.Context(), s.currentUser(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"projects": projects})
}

// handleCreateProfile stores a new dataset owned by the caller
func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var project types.ProfileDataset
	if err := s.decodeJSON(w, r, &project); err != nil {
		s.writeError(w, r, err)
		return
	}

	// Identity and timestamps are assigned by the store
	project.ID = uuid.Nil
	project.UserID = s.currentUser(r)
	project.ProjectName = strings.TrimSpace(project.ProjectName)
	if project.ProjectName == "" {
		project.ProjectName = project.Header.Name
	}
	project.Normalize()

	if err := project.Validate(); err != nil {
		s.writeError(w, r, validationError(err))
		return
	}

	if err := s.deps.Store.CreateProject(r.Context(), &project); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{"project": project})
}

// handleGetProfile returns one of the caller's datasets
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	project, err := s.ownedProject(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"project": project})
}

// handleUpdateProfile replaces the provided top-level fields of a dataset.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	project, err := s.ownedProject(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var patch map[string]json.RawMessage
	if err := s.decodeJSON(w, r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := project.ApplyPatch(patch); err != nil {
		s.writeError(w, r, &ErrValidation{Message: err.Error()})
		return
	}
	if err := project.Validate(); err != nil {
		s.writeError(w, r, validationError(err))
		return
	}

	updated, err := s.deps.Store.UpdateProject(r.Context(), project.UserID, project.ID, project)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if updated == nil {
		// Deleted between read and write
		s.writeError(w, r, &ErrResourceNotFound{Resource: "project", ID: project.ID.String()})
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"project": updated})
}

// handleDeleteProfile deletes one of the caller's datasets. Saved resumes
// that reference it are kept.
func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "project")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.deps.Store.DeleteProject(r.Context(), s.currentUser(r), id); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}

// ownedProject loads the {id} dataset scoped to the caller. Datasets owned by
// someone else are reported exactly like missing ones.
func (s *Server) ownedProject(r *http.Request) (*types.ProfileDataset, error) {
	id, err := pathID(r, "project")
	if err != nil {
		return nil, err
	}
	return s.loadProject(r, id)
}

func (s *Server) loadProject(r *http.Request, id uuid.UUID) (*types.ProfileDataset, error) {
	project, err := s.deps.Store.GetProject(r.Context(), s.currentUser(r), id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, &ErrResourceNotFound{Resource: "project", ID: id.String()}
	}
	return project, nil
}
