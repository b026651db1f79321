package cerr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"buf.build/gen/go/bufbuild/protovalidate/protocolbuffers/go/buf/validate"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortytwo-ai/horizon/pkg/storage"
)

func serve(t *testing.T, h http.HandlerFunc) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	r := chi.NewRouter()
	r.Use(NewJSONResponseChiMiddleware())
	r.Get("/", h)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestMiddleware_Data(t *testing.T) {
	rec, body := serve(t, func(w http.ResponseWriter, r *http.Request) {
		SetJSONData(r.Context(), []string{})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, []any{}, body["data"])
}

func TestMiddleware_CodedError(t *testing.T) {
	rec, body := serve(t, func(w http.ResponseWriter, r *http.Request) {
		SetNewJSONError(r.Context(), NotFound, "Project not found", nil)
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "not_found", body["code"])
	assert.Equal(t, "Project not found", body["message"])
	assert.NotContains(t, body, "details")
}

func TestMiddleware_PlainErrorIsUnknown(t *testing.T) {
	rec, body := serve(t, func(w http.ResponseWriter, r *http.Request) {
		SetJSONError(r.Context(), errors.New("boom"))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "unknown error", body["message"])
}

func TestMiddleware_Violations(t *testing.T) {
	rec, body := serve(t, func(w http.ResponseWriter, r *http.Request) {
		e := NewError(InvalidArgument, "Missing required fields", nil)
		e.AddViolation("name", "name is required")
		e.AddViolation("email", "email is required")
		SetJSONError(r.Context(), e)
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{
		map[string]any{"field": "name", "message": "name is required"},
		map[string]any{"field": "email", "message": "email is required"},
	}, body["details"])
}

func TestAddViolation_FieldPath(t *testing.T) {
	e := NewError(InvalidArgument, "Invalid subscription", nil).
		AddViolation("keys.p256dh", "is required")

	require.Len(t, e.Details, 1)
	v, ok := e.Details[0].(*validate.Violation)
	require.True(t, ok)
	assert.Empty(t, v.GetRuleId())
	require.Len(t, v.GetField().GetElements(), 2)
	assert.Equal(t, "keys", v.GetField().GetElements()[0].GetFieldName())
	assert.Equal(t, "p256dh", v.GetField().GetElements()[1].GetFieldName())

	assert.Equal(t, []FieldViolation{{Field: "keys.p256dh", Message: "is required"}}, e.Violations())
}

func TestCodeMapping(t *testing.T) {
	assert.Equal(t, "unavailable", Unavailable.String())
	assert.Equal(t, http.StatusServiceUnavailable, Unavailable.HTTPCode())
	assert.Equal(t, NotFound, CodeFromConnect(NotFound.ConnectCode()))
	assert.Equal(t, OK, CodeOf(nil))
	assert.Equal(t, Unknown, CodeOf(errors.New("x")))
}

func TestFromStorage(t *testing.T) {
	err := FromStorage(StorageRead, "catalog", fmt.Errorf("projects.yaml: %w", storage.ErrNotFound))
	assert.True(t, IsCode(err, NotFound))
	assert.Equal(t, "catalog not found", err.(*Error).Msg)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = FromStorage(StorageWrite, "catalog", errors.New("disk on fire"))
	assert.True(t, IsCode(err, Internal))
	assert.ErrorContains(t, err, "failed to write catalog: disk on fire")

	assert.NoError(t, FromStorage(StorageDelete, "catalog", nil))
}
