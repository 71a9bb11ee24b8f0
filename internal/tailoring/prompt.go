package tailoring

import (
	"strings"

	"github.com/melodyxpot/resumate-app/internal/prompts"
	"github.com/melodyxpot/resumate-app/internal/types"
)

// BuildPrompt serializes a profile and a job posting into the tailoring prompt.
// Sections follow resume layout order and a section whose field is blank is
// left out entirely. The output depends only on its inputs.
func BuildPrompt(profile *types.ProfileDataset, job *types.JobPosting) string {
	var b promptBuilder

	b.paragraph(prompts.MustGet(prompts.TailoringFile, "preamble"))

	// Job identity
	b.line("Job Title", job.JobTitle)
	b.line("Company", job.CompanyName)
	b.blank()

	// Job context
	b.line("About the Role", job.AboutRole)
	b.line("About the Company", job.AboutCompany)
	b.line("Required Skills", job.RequiredSkills)
	b.blank()

	b.paragraph(prompts.MustGet(prompts.TailoringFile, "profile-intro"))

	h := profile.Header
	b.line("Name", h.Name)
	b.line("Role", h.Role)
	b.line("Contact", joinNonBlank(" | ", h.Email, h.PhoneNumber))
	b.line("Location", h.Location)
	b.line("GitHub", h.GitHub)
	b.line("LinkedIn", h.LinkedIn)
	b.line("Portfolio", h.PortfolioWebsite)
	b.blank()

	b.line("Summary", profile.Summary)
	b.blank()

	b.list("Experience", experienceLines(profile.Experiences))
	b.list("Education", educationLines(profile.Educations))
	b.line("Skills", joinNonBlank(", ", profile.Skills...))
	b.blank()
	b.list("Projects", portfolioLines(profile.ProjectPortfolios))

	b.line("Certifications", joinNonBlank(", ", profile.Certifications...))
	b.line("Awards", joinNonBlank(", ", profile.Awards...))
	b.line("Publications", joinNonBlank(", ", profile.Publications...))
	b.line("Languages", joinNonBlank(", ", profile.Languages...))
	b.blank()

	b.paragraph(prompts.MustGet(prompts.TailoringFile, "instructions"))

	return strings.TrimSpace(b.sb.String()) + "\n"
}

type promptBuilder struct {
	sb strings.Builder
	// pending is set once a line has been written since the last blank line
	pending bool
}

func (b *promptBuilder) line(label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	b.sb.WriteString(label)
	b.sb.WriteString(": ")
	b.sb.WriteString(value)
	b.sb.WriteString("\n")
	b.pending = true
}

// blank ends a group of lines; consecutive calls collapse.
func (b *promptBuilder) blank() {
	if !b.pending {
		return
	}
	b.sb.WriteString("\n")
	b.pending = false
}

func (b *promptBuilder) paragraph(text string) {
	b.blank()
	b.sb.WriteString(strings.TrimSpace(text))
	b.sb.WriteString("\n\n")
	b.pending = false
}

func (b *promptBuilder) list(title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.blank()
	b.sb.WriteString(title)
	b.sb.WriteString(":\n")
	for _, item := range items {
		b.sb.WriteString("- ")
		b.sb.WriteString(item)
		b.sb.WriteString("\n")
	}
	b.sb.WriteString("\n")
	b.pending = false
}

func experienceLines(experiences []types.Experience) []string {
	var lines []string
	for _, exp := range experiences {
		head := joinNonBlank(" at ", exp.JobRole, exp.CompanyName)
		if d := strings.TrimSpace(exp.Duration); d != "" {
			head = joinNonBlank(" ", head, "("+d+")")
		}
		if head == "" {
			continue
		}
		if s := strings.TrimSpace(exp.Summary); s != "" {
			head += "\n  " + s
		}
		lines = append(lines, head)
	}
	return lines
}

func educationLines(educations []types.Education) []string {
	var lines []string
	for _, edu := range educations {
		head := joinNonBlank(" in ", edu.Credential, edu.FieldOfStudy)
		head = joinNonBlank(", ", head, edu.SchoolName)
		if d := strings.TrimSpace(edu.Duration); d != "" {
			head = joinNonBlank(" ", head, "("+d+")")
		}
		if head == "" {
			continue
		}
		lines = append(lines, head)
	}
	return lines
}

func portfolioLines(items []types.PortfolioItem) []string {
	var lines []string
	for _, p := range items {
		head := strings.TrimSpace(p.ProjectName)
		if l := strings.TrimSpace(p.Link); l != "" {
			head = joinNonBlank(" ", head, "("+l+")")
		}
		if head == "" {
			continue
		}
		if d := strings.TrimSpace(p.Description); d != "" {
			head += "\n  " + d
		}
		lines = append(lines, head)
	}
	return lines
}

func joinNonBlank(sep string, values ...string) string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, sep)
}
