// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/melodyxpot/resumate-app/internal/pipeline"
	"github.com/melodyxpot/resumate-app/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most width runes
func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}

// listSection writes up to limit items with a trailing "and N more" line
func listSection(sb *strings.Builder, title string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(title + ":\n")
	for _, item := range items[:min(len(items), limit)] {
		sb.WriteString(fmt.Sprintf("  • %s\n", item))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
	sb.WriteString("\n")
}

// PrintProfile outputs a human-readable summary of an extracted or stored profile dataset.
func (p *Printer) PrintProfile(profile *types.ProfileDataset) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	h := profile.Header
	sb.WriteString(fmt.Sprintf("Name:     %s\n", h.Name))
	sb.WriteString(fmt.Sprintf("Role:     %s\n", h.Role))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", h.Email))
	if h.PhoneNumber != "" {
		sb.WriteString(fmt.Sprintf("Phone:    %s\n", h.PhoneNumber))
	}
	if h.Location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", h.Location))
	}
	sb.WriteString("\n")

	experiences := make([]string, 0, len(profile.Experiences))
	for _, e := range profile.Experiences {
		experiences = append(experiences, fmt.Sprintf("%s @ %s (%s)", e.JobRole, e.CompanyName, e.Duration))
	}
	listSection(&sb, "Experience", experiences, maxItemsToShow)

	educations := make([]string, 0, len(profile.Educations))
	for _, e := range profile.Educations {
		educations = append(educations, fmt.Sprintf("%s, %s", e.Credential, e.SchoolName))
	}
	listSection(&sb, "Education", educations, 3)

	if len(profile.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("Skills (%d): %s\n", len(profile.Skills), strings.Join(profile.Skills, ", ")))
	}
	sb.WriteString(fmt.Sprintf("Projects: %d  Certifications: %d  Awards: %d  Publications: %d  Languages: %d",
		len(profile.ProjectPortfolios), len(profile.Certifications), len(profile.Awards),
		len(profile.Publications), len(profile.Languages)))

	p.printBox("PROFILE DATASET", sb.String())
}

// PrintJob outputs the job posting a resume is tailored for.
func (p *Printer) PrintJob(job *types.JobPosting) {
	if job == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:  %s\n", job.CompanyName))
	sb.WriteString(fmt.Sprintf("Title:    %s", job.JobTitle))
	if job.RequiredSkills != "" {
		sb.WriteString(fmt.Sprintf("\nSkills:   %s", job.RequiredSkills))
	}

	p.printBox("JOB POSTING", sb.String())
}

// PrintProgress outputs a single line for a generation step.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintProgress(event pipeline.ProgressEvent) {
	fmt.Fprintf(p.out, "→ [%s] %s\n", event.Step, event.Message)
}

// PrintResult outputs a summary of a generation run.
func (p *Printer) PrintResult(result *pipeline.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Markdown: %d bytes, %d lines\n", len(result.Markdown), strings.Count(result.Markdown, "\n")+1))
	sb.WriteString(fmt.Sprintf("HTML:     %d bytes", len(result.HTML)))

	if headings := markdownHeadings(result.Markdown); len(headings) > 0 {
		sb.WriteString("\n\n")
		listSection(&sb, "Sections", headings, maxItemsToShow*2)
	}

	switch {
	case result.BlobURL != "":
		sb.WriteString(fmt.Sprintf("\nPublished: %s", result.BlobURL))
	case result.SaveError != nil:
		sb.WriteString(fmt.Sprintf("\nSave failed: %v", result.SaveError))
	}

	p.printBox("TAILORED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// markdownHeadings returns the ATX headings of a Markdown document
func markdownHeadings(markdown string) []string {
	var headings []string
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") {
			continue
		}
		if text := strings.TrimSpace(strings.TrimLeft(trimmed, "#")); text != "" {
			headings = append(headings, text)
		}
	}
	return headings
}
