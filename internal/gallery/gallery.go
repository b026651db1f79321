package gallery

import (
	"context"
	"sync"

	"github.com/fortytwo-ai/horizon/internal/project"
	"github.com/fortytwo-ai/horizon/pkg/panicerr"
)

// Fetcher retrieves the full catalog. client.ProjectClient implements it.
type Fetcher interface {
	ListProjects(ctx context.Context) ([]*project.Project, error)
}

type State int

const (
	StateLoading State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Gallery is the project browser: the last fetched catalog, the current
// selection and the fetch state. A failed fetch leaves the catalog empty and
// the state Failed; it is never replaced by other data.
type Gallery struct {
	fetcher Fetcher

	mu        sync.RWMutex
	state     State
	err       error
	projects  []*project.Project
	selection Selection
}

func New(fetcher Fetcher) *Gallery {
	return &Gallery{
		fetcher:   fetcher,
		state:     StateLoading,
		selection: DefaultSelection(),
	}
}

// Load fetches the catalog. The selection survives reloads.
func (g *Gallery) Load(ctx context.Context) error {
	g.mu.Lock()
	g.state = StateLoading
	g.err = nil
	g.mu.Unlock()

	projects, err := panicerr.Call(func() ([]*project.Project, error) {
		return g.fetcher.ListProjects(ctx)
	})

	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		g.state = StateFailed
		g.err = err
		g.projects = nil
		return err
	}
	if projects == nil {
		projects = []*project.Project{}
	}
	g.state = StateReady
	g.projects = projects
	return nil
}

// Retry issues a new fetch, independent of any earlier one.
func (g *Gallery) Retry(ctx context.Context) error {
	return g.Load(ctx)
}

// Select replaces the selection. Empty values mean All.
func (g *Gallery) Select(category, status string) {
	if category == "" {
		category = All
	}
	if status == "" {
		status = All
	}
	g.mu.Lock()
	g.selection = Selection{Category: category, Status: status}
	g.mu.Unlock()
}

// Visible returns the filtered view of the catalog. It is empty unless the
// state is Ready.
func (g *Gallery) Visible() []*project.Project {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.state != StateReady {
		return []*project.Project{}
	}
	return Filter(g.projects, g.selection)
}

func (g *Gallery) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Err is the reason for the Failed state, or nil.
func (g *Gallery) Err() error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.state != StateFailed {
		return nil
	}
	return g.err
}

func (g *Gallery) Selection() Selection {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.selection
}

// Projects returns the whole fetched catalog, ignoring the selection.
func (g *Gallery) Projects() []*project.Project {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*project.Project, len(g.projects))
	copy(out, g.projects)
	return out
}
