package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/melodyxpot/resumate-app/internal/pipeline"
	"github.com/melodyxpot/resumate-app/internal/types"
)

// TailorResponse is the body returned by POST /tailor
type TailorResponse struct {
	types.GeneratedResume
	Resume    *types.SavedResume `json:"resume,omitempty"`
	SaveError string             `json:"saveError,omitempty"`
}

// PDFRequest is the body of POST /tailor/pdf
type PDFRequest struct {
	HTML     string `json:"html"`
	FileName string `json:"fileName,omitempty"`
}

// handleExtract parses an uploaded resume into a profile dataset
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req types.ExtractRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, validationError(err))
		return
	}

	profile, err := s.deps.Extractor.Extract(r.Context(), req.File)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"data": profile})
}

// handleTailor generates a tailored resume and optionally saves it
func (s *Server) handleTailor(w http.ResponseWriter, r *http.Request) {
	opts, err := s.tailorOptions(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.deps.Generator.Run(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, tailorResponse(result))
}

// handleTailorStream runs a generation and streams progress via SSE
func (s *Server) handleTailorStream(w http.ResponseWriter, r *http.Request) {
	opts, err := s.tailorOptions(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	opts.OnProgress = func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent("step", event); err != nil {
			log.Printf("[server] error writing SSE event: %v", err)
		}
	}

	result, err := s.deps.Generator.Run(r.Context(), opts)
	if err != nil {
		log.Printf("[server] streaming generation failed: %v", err)
		sse.WriteError(PublicMessage(err), ErrorKind(err))
		return
	}

	sse.WriteComplete(tailorResponse(result))
}

// handleTailorPDF prints a rendered resume document to a PDF download
func (s *Server) handleTailorPDF(w http.ResponseWriter, r *http.Request) {
	var req PDFRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.HTML) == "" {
		s.writeError(w, r, &ErrValidation{Field: "html", Message: "is required"})
		return
	}

	pdf, err := s.deps.PDF.RenderPDF(r.Context(), req.HTML)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pdfFileName(req.FileName)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		log.Printf("[server] error writing PDF: %v", err)
	}
}

// tailorOptions resolves the dataset and save preference for a tailoring
// request, falling back to the caller's account settings.
func (s *Server) tailorOptions(w http.ResponseWriter, r *http.Request) (pipeline.RunOptions, error) {
	ownerID := s.currentUser(r)

	var req types.TailorRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		return pipeline.RunOptions{}, err
	}
	if err := req.JobInfo.Validate(); err != nil {
		return pipeline.RunOptions{}, validationError(err)
	}

	user, err := s.deps.Store.GetUser(r.Context(), ownerID)
	if err != nil {
		return pipeline.RunOptions{}, err
	}
	if user == nil {
		return pipeline.RunOptions{}, &ErrUserNotFound{UserID: ownerID}
	}

	var projectID uuid.UUID
	switch raw := strings.TrimSpace(req.ProjectID); {
	case raw != "":
		projectID, err = uuid.Parse(raw)
		if err != nil {
			return pipeline.RunOptions{}, &ErrValidation{Field: "projectId", Message: "must be a UUID"}
		}
	case user.DefaultProjectID != nil:
		projectID = *user.DefaultProjectID
	default:
		return pipeline.RunOptions{}, &ErrValidation{Field: "projectId", Message: "is required when no default dataset is set"}
	}

	project, err := s.loadProject(r, projectID)
	if err != nil {
		return pipeline.RunOptions{}, err
	}

	shouldSave := user.SaveResumeByDefault
	if req.ShouldSave != nil {
		shouldSave = *req.ShouldSave
	}

	job := req.JobInfo
	return pipeline.RunOptions{
		OwnerID:    ownerID,
		Profile:    project,
		Job:        &job,
		ShouldSave: shouldSave,
	}, nil
}

func tailorResponse(result *pipeline.Result) TailorResponse {
	resp := TailorResponse{
		GeneratedResume: types.GeneratedResume{
			Markdown: result.Markdown,
			HTML:     result.HTML,
			BlobURL:  result.BlobURL,
		},
		Resume: result.Resume,
	}
	if result.SaveError != nil {
		if errors.Is(result.SaveError, pipeline.ErrStorageUnavailable) {
			resp.SaveError = result.SaveError.Error()
		} else {
			resp.SaveError = "the resume was generated but could not be saved"
		}
	}
	return resp
}

// pdfFileName derives a download name from an artifact file name
func pdfFileName(name string) string {
	name = path.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == "/" {
		return "resume.pdf"
	}
	name = strings.TrimSuffix(name, path.Ext(name))
	return name + ".pdf"
}
