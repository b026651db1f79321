package internal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortytwo-ai/horizon/internal/config"
	"github.com/fortytwo-ai/horizon/internal/eventbus"
	"github.com/fortytwo-ai/horizon/internal/inquiry"
	inquiryrepo "github.com/fortytwo-ai/horizon/internal/inquiry/repositoryimpl"
	"github.com/fortytwo-ai/horizon/internal/mailer"
	"github.com/fortytwo-ai/horizon/internal/offering"
	"github.com/fortytwo-ai/horizon/internal/project"
	projectrepo "github.com/fortytwo-ai/horizon/internal/project/repositoryimpl"
	"github.com/fortytwo-ai/horizon/internal/pushnotification"
	pushrepo "github.com/fortytwo-ai/horizon/internal/pushsubscription/repositoryimpl"
	"github.com/fortytwo-ai/horizon/pkg/storage"
)

type nopMailer struct{}

func (nopMailer) Send(context.Context, ...*mailer.Message) error { return nil }

func newTestServer(t *testing.T, apiKey string) *Server {
	t.Helper()
	env := &config.Env{}
	env.APIKey = apiKey
	env.AllowedOrigins = []string{"https://studio.example.com"}
	env.EmailUser = "studio@example.com"
	env.VAPIDPublicKey = "public-key"

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	static, err := projectrepo.NewStaticRepository()
	require.NoError(t, err)
	services, err := offering.NewCatalog()
	require.NoError(t, err)

	bus := eventbus.New()
	relay := inquiry.NewRelay(&env.MailEnv, nopMailer{}, inquiryrepo.NewYAMLRepository(store), bus)
	pushRepo := pushrepo.NewYAMLRepository(store)

	s := NewServer(
		env,
		project.NewServer(project.NewCatalog(static, nil)),
		offering.NewServer(services),
		inquiry.NewServer(relay),
		pushnotification.NewServer(&env.VAPIDEnv, pushRepo, pushnotification.NewSender(&env.VAPIDEnv, pushRepo)),
	)
	s.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

type envelope struct {
	Success   bool            `json:"success"`
	Code      string          `json:"code"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp"`
}

func request(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestServer_Health(t *testing.T) {
	h := newTestServer(t, "").Handler()

	rec, res := request(t, h, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, res.Success)
	assert.Equal(t, "Server is running", res.Message)
	assert.Equal(t, "2025-03-01T12:00:00Z", res.Timestamp)
}

func TestServer_RouteNotFound(t *testing.T) {
	h := newTestServer(t, "").Handler()

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/nope", nil),
		httptest.NewRequest(http.MethodDelete, "/api/projects", nil),
	} {
		rec, res := request(t, h, req)
		assert.Equal(t, http.StatusNotFound, rec.Code, req.Method+" "+req.URL.Path)
		assert.False(t, res.Success)
		assert.Equal(t, "Route not found", res.Message)
	}
}

func TestServer_PublicRoutes(t *testing.T) {
	h := newTestServer(t, "").Handler()

	rec, res := request(t, h, httptest.NewRequest(http.MethodGet, "/api/projects", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	var projects []map[string]any
	require.NoError(t, json.Unmarshal(res.Data, &projects))
	assert.Len(t, projects, 6)

	rec, _ = request(t, h, httptest.NewRequest(http.MethodGet, "/api/services/qa-testing", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = request(t, h, httptest.NewRequest(http.MethodGet, "/api/push/vapid-public-key", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_AdminRoutes(t *testing.T) {
	h := newTestServer(t, "secret").Handler()

	rec, res := request(t, h, httptest.NewRequest(http.MethodGet, "/api/inquiries", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized", res.Message)

	req := httptest.NewRequest(http.MethodGet, "/api/inquiries", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec, _ = request(t, h, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/inquiries", nil)
	req.Header.Set("X-API-Key", "secret")
	rec, res = request(t, h, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, res.Success)

	req = httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec, _ = request(t, h, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_AdminRoutesDisabledWithoutKey(t *testing.T) {
	h := newTestServer(t, "").Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/inquiries", nil)
	req.Header.Set("X-API-Key", "")
	rec, res := request(t, h, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", res.Message)
}

func TestServer_CORSPreflight(t *testing.T) {
	h := newTestServer(t, "").Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/service-inquiry", nil)
	req.Header.Set("Origin", "https://studio.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://studio.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/service-inquiry", nil)
	req.Header.Set("Origin", "https://elsewhere.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_GRPCHealth(t *testing.T) {
	h := newTestServer(t, "").Handler()

	req := httptest.NewRequest(http.MethodPost, "/grpc.health.v1.Health/Check", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "SERVING")
}

func TestServer_ShutdownBeforeStart(t *testing.T) {
	assert.NoError(t, newTestServer(t, "").Shutdown(context.Background()))
}
