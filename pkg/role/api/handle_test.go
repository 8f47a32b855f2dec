package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-rbac/pkg/permission"
	"github.com/tendant/simple-rbac/pkg/role"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	config := role.Config{
		Types:              []string{"System"},
		DefaultType:        "System",
		PopulationMaxDepth: 1,
	}
	service := role.NewRoleService(role.NewInMemoryRoleRepository(), permission.NewInMemoryChecker(), config)

	r := chi.NewRouter()
	NewHandle(service).RegisterRoutes(r)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestRoleLifecycle(t *testing.T) {
	server := setupTestServer(t)

	// create
	resp, created := doJSON(t, http.MethodPost, server.URL+"/roles", map[string]interface{}{
		"name": "Administrator",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Administrator", created["name"])
	assert.Equal(t, "System", created["type"])
	assert.Equal(t, "Administrator permissions", created["description"])
	id, ok := created["id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)

	// read back
	resp, found := doJSON(t, http.MethodGet, server.URL+"/roles/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Administrator", found["name"])
	assert.Equal(t, id, found["id"])

	// partial update
	resp, patched := doJSON(t, http.MethodPatch, server.URL+"/roles/"+id, map[string]interface{}{
		"description": "root",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "root", patched["description"])
	assert.Equal(t, "Administrator", patched["name"])

	// full replace
	resp, replaced := doJSON(t, http.MethodPut, server.URL+"/roles/"+id, map[string]interface{}{
		"name": "Administrator",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Administrator permissions", replaced["description"])

	// delete returns the deleted representation
	resp, deleted := doJSON(t, http.MethodDelete, server.URL+"/roles/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Administrator", deleted["name"])

	// delete is not idempotent
	resp, body := doJSON(t, http.MethodDelete, server.URL+"/roles/"+id, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not Found", body["message"])
}

func TestCreateRoleValidationErrors(t *testing.T) {
	server := setupTestServer(t)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/roles", map[string]interface{}{
		"description": "no name",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	fieldErrors, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, fieldErrors, "name")
}

func TestCreateRoleConflict(t *testing.T) {
	server := setupTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/roles", map[string]interface{}{"name": "Accountant"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/roles", map[string]interface{}{"name": "Accountant"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestGetRoleNotFound(t *testing.T) {
	server := setupTestServer(t)

	resp, body := doJSON(t, http.MethodGet, server.URL+"/roles/a9d41bcf-11c5-4f5c-9cf6-25e6a4a3a3f9", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not Found", body["message"])
}

func TestGetRoleInvalidID(t *testing.T) {
	server := setupTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, server.URL+"/roles/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListRolesEnvelope(t *testing.T) {
	server := setupTestServer(t)

	for _, name := range []string{"Administrator", "Accountant", "Auditor"} {
		resp, _ := doJSON(t, http.MethodPost, server.URL+"/roles", map[string]interface{}{"name": name})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, envelope := doJSON(t, http.MethodGet, server.URL+"/roles?limit=2&skip=0&sort=name", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.EqualValues(t, 3, envelope["total"])
	assert.EqualValues(t, 2, envelope["size"])
	assert.EqualValues(t, 2, envelope["limit"])
	assert.EqualValues(t, 0, envelope["skip"])
	assert.EqualValues(t, 1, envelope["page"])
	assert.EqualValues(t, 2, envelope["pages"])
	assert.NotNil(t, envelope["lastModified"])

	data, ok := envelope["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, data, 2)
	first, ok := data[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Accountant", first["name"])
}

func TestListRolesSearch(t *testing.T) {
	server := setupTestServer(t)

	for _, name := range []string{"IT Officer", "Billing Officer", "Administrator"} {
		resp, _ := doJSON(t, http.MethodPost, server.URL+"/roles", map[string]interface{}{"name": name})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, envelope := doJSON(t, http.MethodGet, server.URL+"/roles?q=officer", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, envelope["total"])
}

func TestGetSchema(t *testing.T) {
	server := setupTestServer(t)

	resp, schema := doJSON(t, http.MethodGet, server.URL+"/roles/schema/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "Role", schema["title"])
	assert.Equal(t, "object", schema["type"])

	fields, ok := schema["fields"].([]interface{})
	require.True(t, ok)
	assert.Len(t, fields, 4)
}
