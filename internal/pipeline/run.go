// Package pipeline orchestrates resume generation: tailoring, rendering and
// the optional publish-and-record step.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/melodyxpot/resumate-app/internal/publish"
	"github.com/melodyxpot/resumate-app/internal/rendering"
	"github.com/melodyxpot/resumate-app/internal/types"
)

// Step names reported through progress events
const (
	StepPrompt   = "prompt"
	StepGenerate = "generate"
	StepRender   = "render"
	StepPublish  = "publish"
	StepRecord   = "record"
)

// Step categories
const (
	CategoryGeneration  = "generation"
	CategoryPersistence = "persistence"
)

// ErrStorageUnavailable is reported as the save error when saving was
// requested but no publisher is configured.
var ErrStorageUnavailable = errors.New("artifact storage is not configured")

// ProgressEvent represents a progress update during a run
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when run progress occurs
type ProgressCallback func(event ProgressEvent)

// Tailorer generates resume Markdown for a profile and a job
type Tailorer interface {
	Tailor(ctx context.Context, profile *types.ProfileDataset, job *types.JobPosting) (string, error)
}

// ResumeRecorder persists saved resume records
type ResumeRecorder interface {
	CreateResume(ctx context.Context, r *types.SavedResume) error
}

// Runner wires the generation components together. Publisher and Store may be
// nil when saving is never requested.
type Runner struct {
	Engine    Tailorer
	Renderer  rendering.Renderer
	Publisher publish.Publisher
	Store     ResumeRecorder
	Now       func() time.Time
}

// RunOptions holds the inputs of one generation run
type RunOptions struct {
	OwnerID    uuid.UUID
	Profile    *types.ProfileDataset
	Job        *types.JobPosting
	ShouldSave bool
	OnProgress ProgressCallback
}

// Result is the outcome of a run. SaveError is set when saving was requested
// and failed; Markdown and HTML remain valid in that case.
type Result struct {
	Markdown  string
	HTML      string
	BlobURL   string
	Resume    *types.SavedResume
	SaveError error
}

func emitProgress(opts *RunOptions, step, category, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:     step,
			Category: category,
			Message:  message,
			Content:  content,
		})
	}
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Run generates a tailored resume. A generation or render failure fails the
// run; a publish or record failure only sets Result.SaveError.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	if opts.Profile == nil || opts.Job == nil {
		return nil, fmt.Errorf("profile and job are required")
	}

	emitProgress(&opts, StepPrompt, CategoryGeneration,
		fmt.Sprintf("Preparing prompt for %s at %s", opts.Job.JobTitle, opts.Job.CompanyName), nil)

	emitProgress(&opts, StepGenerate, CategoryGeneration, "Generating tailored resume", nil)
	markdown, err := r.Engine.Tailor(ctx, opts.Profile, opts.Job)
	if err != nil {
		return nil, err
	}

	emitProgress(&opts, StepRender, CategoryGeneration, "Rendering HTML", nil)
	html, err := r.Renderer.Render(markdown, opts.Profile.Header.Name)
	if err != nil {
		return nil, err
	}

	result := &Result{Markdown: markdown, HTML: html}
	if !opts.ShouldSave {
		return result, nil
	}

	if r.Publisher == nil {
		result.SaveError = ErrStorageUnavailable
		return result, nil
	}

	fileName := publish.FileName(opts.Job.CompanyName, r.now())
	emitProgress(&opts, StepPublish, CategoryPersistence, "Publishing "+fileName, nil)
	blobURL, err := r.Publisher.Publish(ctx, fileName, publish.ContentTypeHTML, []byte(html))
	if err != nil {
		log.Printf("[pipeline] publish failed for owner %s: %v", opts.OwnerID, err)
		result.SaveError = err
		return result, nil
	}
	result.BlobURL = blobURL

	if r.Store == nil {
		return result, nil
	}

	saved := &types.SavedResume{
		UserID:    opts.OwnerID,
		ProjectID: opts.Profile.ID,
		FileName:  fileName,
		BlobURL:   blobURL,
		JobInfo:   *opts.Job,
	}
	emitProgress(&opts, StepRecord, CategoryPersistence, "Recording saved resume", nil)
	if err := r.Store.CreateResume(ctx, saved); err != nil {
		log.Printf("[pipeline] failed to record resume %s: %v", fileName, err)
		result.SaveError = fmt.Errorf("failed to record saved resume: %w", err)
		return result, nil
	}
	result.Resume = saved

	return result, nil
}
