package gallery

import (
	"github.com/fortytwo-ai/horizon/internal/project"
)

// All is the selection value that disables a filter.
const All = "All"

// Selection is the pair of filters applied to the catalog. The zero value is
// not valid; use DefaultSelection.
type Selection struct {
	Category string
	Status   string
}

func DefaultSelection() Selection {
	return Selection{Category: All, Status: All}
}

// Filter narrows projects by category, then by status. Matches are exact and
// both filters must hold. The input is not modified and catalog order is
// kept.
func Filter(projects []*project.Project, sel Selection) []*project.Project {
	out := make([]*project.Project, 0, len(projects))
	for _, p := range projects {
		if matches(sel.Category, p.Category) {
			out = append(out, p)
		}
	}
	narrowed := out[:0]
	for _, p := range out {
		if matches(sel.Status, p.Status) {
			narrowed = append(narrowed, p)
		}
	}
	return narrowed
}

func matches(want, got string) bool {
	return want == All || want == got
}

// Categories lists the filter options for category: All first, then every
// distinct category in catalog order.
func Categories(projects []*project.Project) []string {
	return options(projects, func(p *project.Project) string { return p.Category })
}

// Statuses is Categories for status.
func Statuses(projects []*project.Project) []string {
	return options(projects, func(p *project.Project) string { return p.Status })
}

func options(projects []*project.Project, key func(*project.Project) string) []string {
	out := []string{All}
	seen := map[string]bool{All: true}
	for _, p := range projects {
		v := key(p)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
