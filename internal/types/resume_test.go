package types

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestExtractRequest_Validate(t *testing.T) {
	assert.NoError(t, (&ExtractRequest{File: ExtractFile{Data: "aGVsbG8=", MediaType: "text/plain"}}).Validate())
	assert.Error(t, (&ExtractRequest{}).Validate())
}

func TestCreateResumeRequest_Validate(t *testing.T) {
	valid := CreateResumeRequest{
		ProjectID: uuid.NewString(),
		FileName:  "Jane_Doe_Acme.html",
		BlobURL:   "https://cdn.example.com/Jane_Doe_Acme.html",
		JobInfo:   JobPosting{JobTitle: "Engineer", CompanyName: "Acme"},
	}
	assert.NoError(t, valid.Validate())

	badURL := valid
	badURL.BlobURL = "not a url"
	assert.Error(t, badURL.Validate())

	badProject := valid
	badProject.ProjectID = "42"
	assert.Error(t, badProject.Validate())

	missingJob := valid
	missingJob.JobInfo = JobPosting{}
	assert.Error(t, missingJob.Validate())
}
