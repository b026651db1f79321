package repositoryimpl

import (
	"context"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortytwo-ai/horizon/internal/inquiry"
	"github.com/fortytwo-ai/horizon/pkg/cerr"
	"github.com/fortytwo-ai/horizon/pkg/storage"
)

func newRepo(t *testing.T) (*YAMLRepository, storage.Storage) {
	t.Helper()
	s, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return NewYAMLRepository(s), s
}

func TestYAMLRepository_Inquiries(t *testing.T) {
	ctx := context.Background()
	repo, s := newRepo(t)

	empty, err := repo.ListInquiries(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	received := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	first := &inquiry.Inquiry{ID: ulid.Make().String(), Name: "Ada", Email: "ada@example.com", ServiceType: "web-development", Message: "hi", ReceivedAt: received}
	second := &inquiry.Inquiry{ID: ulid.Make().String(), Name: "Bob", Email: "bob@example.com", ServiceType: "qa-testing", Message: "yo", ReceivedAt: received}
	require.NoError(t, repo.CreateInquiry(ctx, first))
	require.NoError(t, repo.CreateInquiry(ctx, second))

	err = repo.CreateInquiry(ctx, first)
	assert.True(t, cerr.IsCode(err, cerr.AlreadyExists))

	data, err := s.Read(ctx, "inquiries/"+first.ID+".yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "service_type: web-development")

	list, err := repo.ListInquiries(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.True(t, received.Equal(list[1].ReceivedAt))
}

func TestYAMLRepository_ContactsSkipCorruptFiles(t *testing.T) {
	ctx := context.Background()
	repo, s := newRepo(t)

	c := &inquiry.Contact{ID: ulid.Make().String(), Name: "Ada", Email: "ada@example.com", Subject: "Hello", Message: "hi"}
	require.NoError(t, repo.CreateContact(ctx, c))
	require.NoError(t, s.Write(ctx, "contacts/zzz.yaml", []byte("name: [unterminated\n")))

	list, err := repo.ListContacts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Hello", list[0].Subject)
}
