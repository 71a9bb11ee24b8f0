package server

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/melodyxpot/resumate-app/internal/types"
)

// handleListResumes lists the caller's saved resumes, newest first
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	resumes, err := s.deps.Store.ListResumes(r.Context(), s.currentUser(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"resumes": resumes})
}

// handleCreateResume records an already published artifact
func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	var req types.CreateResumeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	req.ProjectID = strings.TrimSpace(req.ProjectID)
	req.FileName = strings.TrimSpace(req.FileName)

	if err := req.Validate(); err != nil {
		s.writeError(w, r, validationError(err))
		return
	}
	if err := req.JobInfo.Validate(); err != nil {
		s.writeError(w, r, validationError(err))
		return
	}

	project, err := s.loadProject(r, uuid.MustParse(req.ProjectID))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resume := &types.SavedResume{
		UserID:    s.currentUser(r),
		ProjectID: project.ID,
		FileName:  req.FileName,
		BlobURL:   req.BlobURL,
		JobInfo:   req.JobInfo,
	}
	if err := s.deps.Store.CreateResume(r.Context(), resume); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{"resume": resume})
}
