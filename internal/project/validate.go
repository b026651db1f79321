package project

import (
	"errors"
	"fmt"
)

// Validate checks the catalog-wide invariants: every project has an id and
// no id repeats. Field values are not checked against a closed set.
func Validate(projects []*Project) error {
	var errs []error
	seen := make(map[string]int, len(projects))
	for i, p := range projects {
		if p.ID == "" {
			errs = append(errs, fmt.Errorf("project #%d (%q) has no id", i+1, p.Title))
			continue
		}
		if first, ok := seen[p.ID]; ok {
			errs = append(errs, fmt.Errorf("project #%d reuses id %q of project #%d", i+1, p.ID, first+1))
			continue
		}
		seen[p.ID] = i
	}
	return errors.Join(errs...)
}
