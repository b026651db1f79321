package repositoryimpl

import (
	"context"
	_ "embed"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/fortytwo-ai/horizon/internal/project"
	"github.com/fortytwo-ai/horizon/pkg/cerr"
	"github.com/fortytwo-ai/horizon/pkg/storage"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// catalogFile is the on-disk shape of a static catalog. Entries are kept as
// raw maps so they go through the same normalization as external records.
type catalogFile struct {
	Projects []map[string]any `yaml:"projects"`
}

// StaticRepository serves a fixed list of projects in the order it was
// authored. It is built once and never changes.
type StaticRepository struct {
	name     string
	projects []*project.Project
	byID     map[string]*project.Project
}

// NewStaticRepository serves the catalog compiled into the binary.
func NewStaticRepository() (*StaticRepository, error) {
	return NewStaticRepositoryFromYAML("static", embeddedCatalog)
}

// LoadStaticRepository serves a catalog file kept in storage instead of the
// embedded one.
func LoadStaticRepository(ctx context.Context, s storage.Storage, path string) (*StaticRepository, error) {
	data, err := s.Read(ctx, path)
	if err != nil {
		return nil, cerr.FromStorage(cerr.StorageRead, "catalog "+path, err)
	}
	return NewStaticRepositoryFromYAML("static:"+path, data)
}

func NewStaticRepositoryFromYAML(name string, data []byte) (*StaticRepository, error) {
	records, err := ParseCatalog(data)
	if err != nil {
		return nil, err
	}
	projects := make([]*project.Project, 0, len(records))
	for _, rec := range records {
		projects = append(projects, project.Normalize(rec))
	}
	return NewStaticRepositoryFromProjects(name, projects)
}

// NewStaticRepositoryFromProjects serves already-normalized projects. The
// catalog must satisfy project.Validate.
func NewStaticRepositoryFromProjects(name string, projects []*project.Project) (*StaticRepository, error) {
	if err := project.Validate(projects); err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", name, err)
	}
	byID := make(map[string]*project.Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}
	return &StaticRepository{name: name, projects: projects, byID: byID}, nil
}

// ParseCatalog decodes a catalog file into raw records without normalizing
// them.
func ParseCatalog(data []byte) ([]project.RawRecord, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	records := make([]project.RawRecord, 0, len(f.Projects))
	for _, fields := range f.Projects {
		records = append(records, project.RawRecord{Fields: fields})
	}
	return records, nil
}

func (r *StaticRepository) Name() string {
	return r.name
}

func (r *StaticRepository) List(_ context.Context) ([]*project.Project, error) {
	return slices.Clone(r.projects), nil
}

func (r *StaticRepository) Get(_ context.Context, id string) (*project.Project, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, cerr.NewError(cerr.NotFound, "project not found", nil)
	}
	return p, nil
}
