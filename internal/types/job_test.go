package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobPosting_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		json string
		want JobPosting
	}{
		{
			name: "canonical shape",
			json: `{"jobTitle":"Engineer","companyName":"Acme","aboutRole":"Build APIs","aboutCompany":"Payments","requiredSkills":"Go, SQL"}`,
			want: JobPosting{JobTitle: "Engineer", CompanyName: "Acme", AboutRole: "Build APIs", AboutCompany: "Payments", RequiredSkills: "Go, SQL"},
		},
		{
			name: "legacy description and skill list",
			json: `{"jobTitle":"Engineer","companyName":"Acme","jobDescription":"Build APIs","requiredSkills":["Go"," ","SQL"]}`,
			want: JobPosting{JobTitle: "Engineer", CompanyName: "Acme", AboutRole: "Build APIs", RequiredSkills: "Go, SQL"},
		},
		{
			name: "aboutRole and legacy description are both kept",
			json: `{"jobTitle":"Engineer","companyName":"Acme","aboutRole":"role text","jobDescription":"full description"}`,
			want: JobPosting{JobTitle: "Engineer", CompanyName: "Acme", AboutRole: "role text\n\nfull description"},
		},
		{
			name: "identical description is not repeated",
			json: `{"jobTitle":"Engineer","companyName":"Acme","aboutRole":"Build APIs","jobDescription":"Build APIs"}`,
			want: JobPosting{JobTitle: "Engineer", CompanyName: "Acme", AboutRole: "Build APIs"},
		},
		{
			name: "null skills",
			json: `{"jobTitle":"Engineer","companyName":"Acme","requiredSkills":null}`,
			want: JobPosting{JobTitle: "Engineer", CompanyName: "Acme"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got JobPosting
			require.NoError(t, json.Unmarshal([]byte(tt.json), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJobPosting_UnmarshalJSON_InvalidSkills(t *testing.T) {
	var got JobPosting
	err := json.Unmarshal([]byte(`{"requiredSkills": 42}`), &got)
	assert.Error(t, err)
}

func TestJobPosting_Validate(t *testing.T) {
	assert.NoError(t, (&JobPosting{JobTitle: "Engineer", CompanyName: "Acme"}).Validate())
	assert.Error(t, (&JobPosting{JobTitle: "Engineer"}).Validate())
	assert.Error(t, (&JobPosting{CompanyName: "Acme"}).Validate())
}
