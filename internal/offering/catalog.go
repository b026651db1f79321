package offering

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/fortytwo-ai/horizon/pkg/cerr"
)

//go:embed services.yaml
var embeddedServices []byte

type servicesFile struct {
	Services []*Service `yaml:"services"`
}

// Catalog is the fixed, ordered list of service offerings.
type Catalog struct {
	services []*Service
	byID     map[string]*Service
}

func NewCatalog() (*Catalog, error) {
	return NewCatalogFromYAML(embeddedServices)
}

func NewCatalogFromYAML(data []byte) (*Catalog, error) {
	var f servicesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse services: %w", err)
	}
	c := &Catalog{
		services: f.Services,
		byID:     make(map[string]*Service, len(f.Services)),
	}
	for _, s := range f.Services {
		if s.ID == "" {
			return nil, errors.New("service without id")
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate service id %q", s.ID)
		}
		c.byID[s.ID] = s
	}
	return c, nil
}

func (c *Catalog) List(_ context.Context) []*Service {
	return slices.Clone(c.services)
}

func (c *Catalog) Get(_ context.Context, id string) (*Service, error) {
	s, ok := c.byID[id]
	if !ok {
		return nil, cerr.NewError(cerr.NotFound, "Service not found", nil)
	}
	return s, nil
}

// Has reports whether id names a service. Inquiries use it to tag known
// service types.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}
