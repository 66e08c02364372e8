package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderlm/coderlm/internal/project"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n\nfunc main() {}\n"), 0o644))

	reg, err := project.NewRegistry(4, 10<<20, 50*time.Millisecond)
	require.NoError(t, err)
	return NewServer(reg, ""), root
}

func createProject(t *testing.T, s *Server, root string) string {
	t.Helper()
	body, _ := json.Marshal(CreateProjectRequest{Path: root})
	req := httptest.NewRequest(http.MethodPost, "/projects/", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp CreateProjectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)
	return resp.SessionID
}

func TestHealthAndVersion(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateProjectThenStructure(t *testing.T) {
	s, root := newTestServer(t)
	sessionID := createProject(t, s, root)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/projects/"+sessionID+"/structure", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "main.go")
}

func TestUnknownSessionReturnsNotFound(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/projects/does-not-exist/structure", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGrepEndToEnd(t *testing.T) {
	s, root := newTestServer(t)
	sessionID := createProject(t, s, root)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/projects/"+sessionID+"/grep?pattern=func", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "total_matches")
}

func TestDefineFileRefusesOverwriteThenRedefineSucceeds(t *testing.T) {
	s, root := newTestServer(t)
	sessionID := createProject(t, s, root)

	define := func(path string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(DefinitionRequest{File: "main.go", Definition: "entry point"})
		req := httptest.NewRequest(http.MethodPost, "/projects/"+sessionID+path, bytes.NewReader(body))
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		return rec
	}

	rec := define("/files/define")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = define("/files/define")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = define("/files/redefine")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIKeyAuthRejectsMissingKey(t *testing.T) {
	reg, err := project.NewRegistry(4, 10<<20, 50*time.Millisecond)
	require.NoError(t, err)
	s := NewServer(reg, "secret")

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/projects/anything/structure", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
