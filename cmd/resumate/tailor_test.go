package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodyxpot/resumate-app/internal/pipeline"
)

func TestLoadProfileFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "profile.json", sampleProfileJSON)

	profile, err := loadProfileFile(path)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", profile.Header.Name)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, profile.Skills)
	require.Len(t, profile.Experiences, 1)
	assert.NotEmpty(t, profile.Experiences[0].ID)
	assert.NotNil(t, profile.Certifications)
}

func TestLoadProfileFile_SchemaViolation(t *testing.T) {
	path := writeFile(t, t.TempDir(), "profile.json", `{"header": {"name": "Jane"}}`)

	_, err := loadProfileFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid profile")
}

func TestLoadProfileFile_InvalidEmail(t *testing.T) {
	content := `{
  "header": {"name": "Jane", "role": "Engineer", "email": "not-an-email", "phoneNumber": "555-0100"},
  "summary": "Engineer.", "experiences": [], "educations": [], "skills": [], "projectPortfolios": []
}`
	path := writeFile(t, t.TempDir(), "profile.json", content)

	_, err := loadProfileFile(path)
	require.Error(t, err)
}

func TestLoadJobFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "job.json", sampleJobJSON)

	job, err := loadJobFile(path)
	require.NoError(t, err)

	assert.Equal(t, "Staff Engineer", job.JobTitle)
	assert.Equal(t, "Go, Kubernetes", job.RequiredSkills)
}

func TestLoadJobFile_MissingCompany(t *testing.T) {
	path := writeFile(t, t.TempDir(), "job.json", `{"jobTitle": "Staff Engineer"}`)

	_, err := loadJobFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid job")
}

func TestLoadJobFile_Missing(t *testing.T) {
	_, err := loadJobFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestWriteTailorOutputs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	err := writeTailorOutputs(dir, &pipeline.Result{
		Markdown: "# Jane Doe",
		HTML:     "<h1>Jane Doe</h1>",
	})
	require.NoError(t, err)

	md, err := os.ReadFile(filepath.Join(dir, "resume.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Jane Doe", string(md))

	html, err := os.ReadFile(filepath.Join(dir, "resume.html"))
	require.NoError(t, err)
	assert.Equal(t, "<h1>Jane Doe</h1>", string(html))
}

func TestTailorCommand_MissingProfileFlag(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "tailor", "--job", "job.json", "--out", t.TempDir())
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "required flag(s) \"profile\" not set")
}

func TestTailorCommand_MissingOutFlag(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "tailor", "--profile", "profile.json", "--job", "job.json")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "required flag(s) \"out\" not set")
}
