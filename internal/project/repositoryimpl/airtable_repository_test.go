package repositoryimpl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortytwo-ai/horizon/pkg/cerr"
)

type fakeAirtable struct {
	mu      sync.Mutex
	queries []string
	status  int
}

func (f *fakeAirtable) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.queries = append(f.queries, r.URL.RawQuery)
	status := f.status
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":{"type":"SERVER_ERROR"}}`))
		return
	}

	path := strings.TrimSuffix(r.URL.Path, "/")
	switch {
	case strings.HasSuffix(path, "/appTEST/Projects"):
		if r.URL.Query().Get("offset") == "" {
			writeJSON(w, map[string]any{
				"records": []any{record("rec2", "Second", "2024-02-01T00:00:00.000Z")},
				"offset":  "page2",
			})
			return
		}
		writeJSON(w, map[string]any{
			"records": []any{record("rec1", "First", "2024-01-01T00:00:00.000Z")},
		})
	case strings.HasSuffix(path, "/appTEST/Projects/rec1"):
		writeJSON(w, record("rec1", "First", "2024-01-01T00:00:00.000Z"))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"NOT_FOUND"}`))
	}
}

func record(id, title, created string) map[string]any {
	return map[string]any{
		"id":          id,
		"createdTime": created,
		"fields": map[string]any{
			"Title":      title,
			"Tech Stack": "Go, React",
			"Featured":   true,
			"Image": []any{
				map[string]any{"url": "https://cdn.example.com/" + id + ".png", "filename": id + ".png"},
			},
		},
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	_ = json.NewEncoder(w).Encode(v)
}

func newTestAirtable(t *testing.T, fake *fakeAirtable) *AirtableRepository {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	repo, err := NewAirtableRepository("key", "appTEST", "Projects", "Grid view", srv.URL)
	require.NoError(t, err)
	return repo
}

func TestAirtableRepository_ListFollowsOffset(t *testing.T) {
	fake := &fakeAirtable{}
	repo := newTestAirtable(t, fake)
	assert.Equal(t, "airtable", repo.Name())

	projects, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 2)

	assert.Equal(t, "rec2", projects[0].ID)
	assert.Equal(t, "Second", projects[0].Title)
	assert.Equal(t, "rec1", projects[1].ID)
	assert.Equal(t, []string{"Go", "React"}, projects[1].Technologies)
	assert.Equal(t, "https://cdn.example.com/rec1.png", projects[1].ImageURL)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", projects[1].CreatedTime)
	assert.True(t, projects[1].Featured)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.queries, 2)
	assert.Contains(t, fake.queries[0], "view=Grid+view")
	assert.Contains(t, fake.queries[0], "Created")
	assert.Contains(t, fake.queries[1], "offset=page2")
}

func TestAirtableRepository_Get(t *testing.T) {
	repo := newTestAirtable(t, &fakeAirtable{})

	p, err := repo.Get(context.Background(), "rec1")
	require.NoError(t, err)
	assert.Equal(t, "First", p.Title)

	_, err = repo.Get(context.Background(), "recMissing")
	assert.True(t, cerr.IsCode(err, cerr.NotFound))
}

func TestAirtableRepository_FailuresAreUnavailable(t *testing.T) {
	repo := newTestAirtable(t, &fakeAirtable{status: http.StatusBadGateway})

	_, err := repo.List(context.Background())
	assert.True(t, cerr.IsCode(err, cerr.Unavailable))

	_, err = repo.Get(context.Background(), "rec1")
	assert.True(t, cerr.IsCode(err, cerr.Unavailable))
}

func TestAirtableRepository_OutageIsNotNotFound(t *testing.T) {
	repo := newTestAirtable(t, &fakeAirtable{status: http.StatusServiceUnavailable})

	// The record id ends up in the client's error text.
	_, err := repo.Get(context.Background(), "rec404abc")
	assert.True(t, cerr.IsCode(err, cerr.Unavailable))
	assert.False(t, cerr.IsCode(err, cerr.NotFound))
}

func TestAirtableRepository_HonorsContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	repo, err := NewAirtableRepository("key", "appTEST", "Projects", "", srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err = repo.List(ctx)
	assert.True(t, cerr.IsCode(err, cerr.DeadlineExceeded))
	assert.Less(t, time.Since(start), 2*time.Second)

	ctx, cancel = context.WithCancel(context.Background())
	cancel()
	start = time.Now()
	_, err = repo.Get(ctx, "rec1")
	assert.True(t, cerr.IsCode(err, cerr.Canceled))
	assert.Less(t, time.Since(start), 2*time.Second)
}
