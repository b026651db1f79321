package project

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fortytwo-ai/horizon/pkg/cerr"
	"github.com/fortytwo-ai/horizon/pkg/panicerr"
)

// Result is the outcome of a catalog read. Fallback is nil when the primary
// source answered and holds the primary's failure when the fallback list was
// served instead.
type Result struct {
	Projects []*Project
	Source   string
	Fallback error
}

func (r Result) FellBack() bool {
	return r.Fallback != nil
}

// Catalog is the read API over the configured project source. The source is
// chosen once at construction; a nil fallback means the primary is the
// embedded list and there is nothing to fall back to.
type Catalog struct {
	primary  Repository
	fallback Repository
}

func NewCatalog(primary, fallback Repository) *Catalog {
	return &Catalog{primary: primary, fallback: fallback}
}

func (c *Catalog) SourceName() string {
	return c.primary.Name()
}

// List reads the whole catalog. It does not fail: a primary failure is logged
// and answered from the fallback, and the failure is not remembered, so the
// next call asks the primary again.
func (c *Catalog) List(ctx context.Context) Result {
	projects, err := panicerr.Call(func() ([]*Project, error) {
		return c.primary.List(ctx)
	})
	if err == nil {
		return Result{Projects: projects, Source: c.primary.Name()}
	}

	if c.fallback == nil {
		slog.ErrorContext(ctx, "project source failed with no fallback",
			"source", c.primary.Name(), "error", err)
		return Result{Projects: []*Project{}, Source: c.primary.Name(), Fallback: err}
	}

	slog.WarnContext(ctx, "project source failed, serving fallback",
		"source", c.primary.Name(), "fallback", c.fallback.Name(), "error", err)
	fallback, ferr := c.fallback.List(ctx)
	if ferr != nil {
		slog.ErrorContext(ctx, "fallback project source failed",
			"source", c.fallback.Name(), "error", ferr)
		fallback = []*Project{}
	}
	return Result{Projects: fallback, Source: c.fallback.Name(), Fallback: err}
}

func (c *Catalog) All(ctx context.Context) []*Project {
	return c.List(ctx).Projects
}

// Featured returns the featured projects in catalog order, at most
// FeaturedLimit of them.
func (c *Catalog) Featured(ctx context.Context) []*Project {
	return SelectFeatured(c.All(ctx))
}

func SelectFeatured(projects []*Project) []*Project {
	out := make([]*Project, 0, FeaturedLimit)
	for _, p := range projects {
		if len(out) == FeaturedLimit {
			break
		}
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// Get looks up one project. An unknown id is a cerr.NotFound error. Any other
// primary failure is reported as cerr.Unavailable rather than answered from
// the fallback, so callers can tell "does not exist" from "could not ask".
func (c *Catalog) Get(ctx context.Context, id string) (*Project, error) {
	p, err := panicerr.Call(func() (*Project, error) {
		return c.primary.Get(ctx, id)
	})
	switch {
	case err == nil:
		return p, nil
	case cerr.IsCode(err, cerr.NotFound),
		cerr.IsCode(err, cerr.Unavailable),
		cerr.IsCode(err, cerr.Canceled),
		cerr.IsCode(err, cerr.DeadlineExceeded):
		return nil, err
	default:
		return nil, cerr.NewError(cerr.Unavailable, "project source unavailable",
			fmt.Errorf("get project %s from %s: %w", id, c.primary.Name(), err))
	}
}
