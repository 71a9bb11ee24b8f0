package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// getBinaryPath returns the path to the resumate binary for CLI tests
func getBinaryPath(t *testing.T) string {
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", "resumate")
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'go build -o bin/resumate ./cmd/resumate'", binaryPath)
	}

	return binaryPath
}

const sampleProfileJSON = `{
  "projectName": "Backend roles",
  "header": {
    "name": "Jane Doe",
    "role": "Backend Engineer",
    "email": "jane@example.com",
    "phoneNumber": "+1 555 0100",
    "github": "github.com/janedoe"
  },
  "summary": "Backend engineer focused on distributed systems.",
  "experiences": [
    {"jobRole": "Senior Engineer", "companyName": "Acme", "duration": "2020 - Present", "summary": "Built the billing platform in Go."}
  ],
  "educations": [
    {"schoolName": "State University", "fieldOfStudy": "Computer Science", "credential": "BSc", "duration": "2012 - 2016"}
  ],
  "skills": ["Go", "PostgreSQL"],
  "projectPortfolios": [
    {"projectName": "queuekit", "link": "https://github.com/janedoe/queuekit"}
  ]
}`

const sampleJobJSON = `{
  "jobTitle": "Staff Engineer",
  "companyName": "Globex",
  "aboutRole": "Own the payments platform.",
  "requiredSkills": ["Go", "Kubernetes"]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
