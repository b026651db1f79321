package project

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortytwo-ai/horizon/pkg/cerr"
	"github.com/fortytwo-ai/horizon/pkg/clog"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
}

func newTestRouter(c *Catalog) http.Handler {
	r := chi.NewRouter()
	r.Use(clog.SlogChiMiddleware())
	r.Use(cerr.NewJSONResponseChiMiddleware())
	r.Route("/api", NewServer(c).Mount)
	return r
}

func get(t *testing.T, h http.Handler, path string) (int, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestServer_ListProjects(t *testing.T) {
	h := newTestRouter(NewCatalog(&fakeRepository{name: "static", projects: projectsWithFeatured(true, false)}, nil))

	status, env := get(t, h, "/api/projects")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)

	var projects []*Project
	require.NoError(t, json.Unmarshal(env.Data, &projects))
	assert.Equal(t, []string{"p1", "p2"}, ids(projects))
}

func TestServer_ListProjectsServesFallback(t *testing.T) {
	h := newTestRouter(NewCatalog(
		&fakeRepository{name: "airtable", err: errors.New("down")},
		&fakeRepository{name: "static", projects: projectsWithFeatured(true)},
	))

	status, env := get(t, h, "/api/projects")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)

	var projects []*Project
	require.NoError(t, json.Unmarshal(env.Data, &projects))
	assert.Equal(t, []string{"p1"}, ids(projects))
}

func TestServer_ListFeaturedProjects(t *testing.T) {
	h := newTestRouter(NewCatalog(&fakeRepository{name: "static", projects: projectsWithFeatured(false, true)}, nil))

	status, env := get(t, h, "/api/projects/featured")
	assert.Equal(t, http.StatusOK, status)

	var projects []*Project
	require.NoError(t, json.Unmarshal(env.Data, &projects))
	assert.Equal(t, []string{"p2"}, ids(projects))
}

func TestServer_GetProject(t *testing.T) {
	h := newTestRouter(NewCatalog(&fakeRepository{name: "static", projects: projectsWithFeatured(true)}, nil))

	status, env := get(t, h, "/api/projects/p1")
	assert.Equal(t, http.StatusOK, status)
	var p Project
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, "p1", p.ID)

	status, env = get(t, h, "/api/projects/nope")
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)
	assert.Equal(t, "Project not found", env.Message)
}

func TestServer_GetProjectUnavailable(t *testing.T) {
	h := newTestRouter(NewCatalog(&fakeRepository{name: "airtable", err: errors.New("down")}, nil))

	status, env := get(t, h, "/api/projects/p1")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "Failed to fetch project", env.Message)
}
