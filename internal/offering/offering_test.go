package offering

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortytwo-ai/horizon/pkg/cerr"
)

func TestNewCatalog(t *testing.T) {
	c, err := NewCatalog()
	require.NoError(t, err)

	services := c.List(context.Background())
	ids := make([]string, 0, len(services))
	for _, s := range services {
		ids = append(ids, s.ID)
		assert.NotEmpty(t, s.Title)
		assert.Len(t, s.Features, 4)
		assert.Len(t, s.Technologies, 6)
	}
	assert.Equal(t, []string{
		"web-development", "mobile-development", "backend-apis",
		"cloud-devops", "qa-testing", "ui-ux-design",
	}, ids)

	svc, err := c.Get(context.Background(), "cloud-devops")
	require.NoError(t, err)
	assert.Equal(t, "$1,800", svc.StartingPrice)
	assert.True(t, c.Has("qa-testing"))
	assert.False(t, c.Has("gardening"))

	_, err = c.Get(context.Background(), "gardening")
	assert.True(t, cerr.IsCode(err, cerr.NotFound))
}

func TestNewCatalogFromYAML_Duplicate(t *testing.T) {
	_, err := NewCatalogFromYAML([]byte("services:\n  - id: a\n  - id: a\n"))
	assert.Error(t, err)
}

func TestServer(t *testing.T) {
	c, err := NewCatalog()
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(cerr.NewJSONResponseChiMiddleware())
	r.Route("/api", NewServer(c).Mount)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/services/ui-ux-design", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var ok struct {
		Success bool    `json:"success"`
		Data    Service `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ok))
	assert.True(t, ok.Success)
	assert.Equal(t, "UI/UX Design", ok.Data.Title)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/services/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var failed struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &failed))
	assert.False(t, failed.Success)
	assert.Equal(t, "Service not found", failed.Message)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/services", nil))
	var list struct {
		Data []Service `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Data, 6)
}
