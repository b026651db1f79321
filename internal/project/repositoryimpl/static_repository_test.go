package repositoryimpl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortytwo-ai/horizon/internal/project"
	"github.com/fortytwo-ai/horizon/pkg/cerr"
	"github.com/fortytwo-ai/horizon/pkg/storage"
)

func TestNewStaticRepository_EmbeddedCatalog(t *testing.T) {
	repo, err := NewStaticRepository()
	require.NoError(t, err)
	assert.Equal(t, "static", repo.Name())

	projects, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 6)

	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
		assert.NotEmpty(t, p.Title)
		assert.NotEmpty(t, p.Category)
		assert.NotEmpty(t, p.Status)
		assert.NotNil(t, p.Technologies)
		assert.NotNil(t, p.Tags)
	}
	assert.Equal(t, []string{"project1", "project2", "project3", "project4", "project5", "project6"}, ids)

	first := projects[0]
	assert.Equal(t, "Recipe Genie", first.Title)
	require.NotNil(t, first.StartDate)
	assert.Equal(t, "2024-01-15", *first.StartDate)
	assert.True(t, first.Featured)

	ongoing := projects[4]
	assert.Equal(t, "In Progress", ongoing.Status)
	assert.True(t, ongoing.Ongoing())
	assert.Equal(t, "/images/projects/project5.png", ongoing.ImageURL)
}

func TestStaticRepository_ListReturnsCopy(t *testing.T) {
	repo, err := NewStaticRepository()
	require.NoError(t, err)

	first, err := repo.List(context.Background())
	require.NoError(t, err)
	first[0] = nil

	second, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, second[0])
}

func TestStaticRepository_Get(t *testing.T) {
	repo, err := NewStaticRepository()
	require.NoError(t, err)

	p, err := repo.Get(context.Background(), "project3")
	require.NoError(t, err)
	assert.Equal(t, "Savora", p.Title)

	_, err = repo.Get(context.Background(), "nope")
	assert.True(t, cerr.IsCode(err, cerr.NotFound))
}

func TestNewStaticRepositoryFromYAML_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "malformed", data: "projects: [\n"},
		{name: "duplicate id", data: "projects:\n  - id: a\n  - id: a\n"},
		{name: "missing id", data: "projects:\n  - title: nameless\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStaticRepositoryFromYAML("test", []byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestNewStaticRepositoryFromYAML_Aliases(t *testing.T) {
	data := `
projects:
  - ID: rec1
    Title: Labelled
    Tech Stack: "Go, Postgres"
    Link: https://example.com
`
	repo, err := NewStaticRepositoryFromYAML("labelled", []byte(data))
	require.NoError(t, err)

	p, err := repo.Get(context.Background(), "rec1")
	require.NoError(t, err)
	assert.Equal(t, "Labelled", p.Title)
	assert.Equal(t, []string{"Go", "Postgres"}, p.Technologies)
	assert.Equal(t, "https://example.com", p.ProjectURL)
	assert.Equal(t, project.DefaultCategory, p.Category)
}

func TestLoadStaticRepository(t *testing.T) {
	ctx := context.Background()
	s, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = LoadStaticRepository(ctx, s, "catalog.yaml")
	assert.True(t, cerr.IsCode(err, cerr.NotFound))

	require.NoError(t, s.Write(ctx, "catalog.yaml", []byte("projects:\n  - id: only\n    featured: true\n")))
	repo, err := LoadStaticRepository(ctx, s, "catalog.yaml")
	require.NoError(t, err)
	assert.Equal(t, "static:catalog.yaml", repo.Name())

	projects, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, project.DefaultTitle, projects[0].Title)
	assert.True(t, projects[0].Featured)
}

func TestParseCatalog_KeepsRawFields(t *testing.T) {
	records, err := ParseCatalog([]byte("projects:\n  - id: a\n    colour: blue\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "blue", records[0].Fields["colour"])
	assert.Empty(t, records[0].ID)
}
