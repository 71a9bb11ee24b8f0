package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodyxpot/resumate-app/internal/types"
)

func decodeProject(t *testing.T, body []byte) types.ProfileDataset {
	t.Helper()
	var resp struct {
		Project types.ProfileDataset `json:"project"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.Project
}

func TestCreateProfile(t *testing.T) {
	env := newTestEnv(t)
	user, cookie := env.signUp(t, "ada@example.com")

	project := env.createProject(t, cookie, "Backend")

	assert.NotEqual(t, uuid.Nil, project.ID)
	assert.Equal(t, user.ID, project.UserID)
	assert.Equal(t, "Backend", project.ProjectName)
	assert.Equal(t, []string{"Rust", "C++"}, project.Skills)
	require.Len(t, project.Experiences, 1)
	assert.NotEmpty(t, project.Experiences[0].ID)
	assert.NotNil(t, project.Educations)
	assert.NotNil(t, project.Languages)
}

func TestCreateProfile_ListFieldsNeverAbsent(t *testing.T) {
	env := newTestEnv(t)
	_, cookie := env.signUp(t, "ada@example.com")

	rec := env.do(t, http.MethodPost, "/profiles", sampleProject("Lists"), cookie)
	require.Equal(t, http.StatusCreated, rec.Code)

	project := decodeBody(t, rec)["project"].(map[string]any)
	for _, key := range []string{"experiences", "educations", "skills", "projectPortfolios", "certifications", "awards", "publications", "languages"} {
		assert.IsType(t, []any{}, project[key], key)
	}
}

func TestCreateProfile_IgnoresClientOwnership(t *testing.T) {
	env := newTestEnv(t)
	user, cookie := env.signUp(t, "ada@example.com")

	body := sampleProject("Spoofed")
	body["userId"] = uuid.NewString()
	body["id"] = uuid.NewString()

	rec := env.do(t, http.MethodPost, "/profiles", body, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)

	project := decodeProject(t, rec.Body.Bytes())
	assert.Equal(t, user.ID, project.UserID)
	assert.NotEqual(t, body["id"], project.ID.String())
}

func TestCreateProfile_DefaultsProjectName(t *testing.T) {
	env := newTestEnv(t)
	_, cookie := env.signUp(t, "ada@example.com")

	rec := env.do(t, http.MethodPost, "/profiles", sampleProject("  "), cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Ada Lovelace", decodeProject(t, rec.Body.Bytes()).ProjectName)
}

func TestCreateProfile_Validation(t *testing.T) {
	env := newTestEnv(t)
	_, cookie := env.signUp(t, "ada@example.com")

	body := sampleProject("Broken")
	body["header"] = map[string]any{"name": "Ada", "role": "Engineer", "email": "nope"}

	rec := env.do(t, http.MethodPost, "/profiles", body, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, KindValidationFailed, decodeBody(t, rec)["kind"])
	assert.Empty(t, env.store.projects)
}

func TestListProfiles_OwnOnly(t *testing.T) {
	env := newTestEnv(t)
	_, alice := env.signUp(t, "alice@example.com")
	_, bob := env.signUp(t, "bob@example.com")

	env.createProject(t, alice, "Alice One")
	env.createProject(t, alice, "Alice Two")
	env.createProject(t, bob, "Bob One")

	rec := env.do(t, http.MethodGet, "/profiles", nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Projects []types.ProfileDataset `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Projects, 2)
	for _, p := range resp.Projects {
		assert.Contains(t, []string{"Alice One", "Alice Two"}, p.ProjectName)
	}
}

func TestGetProfile(t *testing.T) {
	env := newTestEnv(t)
	_, cookie := env.signUp(t, "ada@example.com")
	created := env.createProject(t, cookie, "Backend")

	rec := env.do(t, http.MethodGet, "/profiles/"+created.ID.String(), nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decodeProject(t, rec.Body.Bytes()).ID)
}

func TestProfiles_OwnershipIsolation(t *testing.T) {
	env := newTestEnv(t)
	_, alice := env.signUp(t, "alice@example.com")
	_, mallory := env.signUp(t, "mallory@example.com")
	project := env.createProject(t, alice, "Private")
	path := "/profiles/" + project.ID.String()

	rec := env.do(t, http.MethodGet, path, nil, mallory)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Ada Lovelace")

	rec = env.do(t, http.MethodPut, path, map[string]any{"summary": "hijacked"}, mallory)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, path, nil, mallory)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, KindNotFound, decodeBody(t, rec)["kind"])

	// Alice's dataset is untouched
	rec = env.do(t, http.MethodGet, path, nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Analytical engine programmer.", decodeProject(t, rec.Body.Bytes()).Summary)
}

func TestGetProfile_NotFound(t *testing.T) {
	env := newTestEnv(t)
	_, cookie := env.signUp(t, "ada@example.com")

	for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
		rec := env.do(t, http.MethodGet, "/profiles/"+id, nil, cookie)
		assert.Equal(t, http.StatusNotFound, rec.Code, id)
	}
}

func TestUpdateProfile_ReplacesFieldsWholesale(t *testing.T) {
	env := newTestEnv(t)
	user, cookie := env.signUp(t, "ada@example.com")
	created := env.createProject(t, cookie, "Backend")

	patch := map[string]any{
		"skills":  []string{"Go"},
		"summary": "Now writes Go.",
		"userId":  uuid.NewString(),
		"id":      uuid.NewString(),
	}
	rec := env.do(t, http.MethodPut, "/profiles/"+created.ID.String(), patch, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	updated := decodeProject(t, rec.Body.Bytes())
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, user.ID, updated.UserID)
	assert.Equal(t, []string{"Go"}, updated.Skills)
	assert.Equal(t, "Now writes Go.", updated.Summary)
	assert.Equal(t, created.Header, updated.Header, "fields absent from the patch are kept")
	assert.Equal(t, created.Experiences, updated.Experiences)
}

func TestUpdateProfile_Validation(t *testing.T) {
	env := newTestEnv(t)
	_, cookie := env.signUp(t, "ada@example.com")
	created := env.createProject(t, cookie, "Backend")
	path := "/profiles/" + created.ID.String()

	rec := env.do(t, http.MethodPut, path, map[string]any{"header": map[string]any{"name": "", "role": "x", "email": "a@b.co"}}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPut, path, map[string]any{"skills": "not-a-list"}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, path, nil, cookie)
	assert.Equal(t, []string{"Rust", "C++"}, decodeProject(t, rec.Body.Bytes()).Skills)
}

func TestDeleteProfile(t *testing.T) {
	env := newTestEnv(t)
	_, cookie := env.signUp(t, "ada@example.com")
	created := env.createProject(t, cookie, "Backend")
	path := "/profiles/" + created.ID.String()

	rec := env.do(t, http.MethodDelete, path, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = env.do(t, http.MethodGet, path, nil, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, path, nil, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
