package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"

	"github.com/fortytwo-ai/horizon/internal/project"
	"github.com/fortytwo-ai/horizon/internal/project/repositoryimpl"
)

// debounceInterval lets an editor's write+rename settle before the file is
// read again.
const debounceInterval = 100 * time.Millisecond

type lintReport struct {
	Projects int
	Warnings []string
	Err      error
}

func (r *lintReport) OK() bool {
	return r.Err == nil
}

// lintCatalog checks a catalog file the way the server would load it, plus
// warnings for keys the normalizer would silently drop.
func lintCatalog(data []byte) *lintReport {
	records, err := repositoryimpl.ParseCatalog(data)
	if err != nil {
		return &lintReport{Err: err}
	}

	report := &lintReport{Projects: len(records)}
	projects := make([]*project.Project, 0, len(records))
	for i, rec := range records {
		keys := make([]string, 0, len(rec.Fields))
		for k := range rec.Fields {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			if !project.KnownKey(k) {
				report.Warnings = append(report.Warnings, fmt.Sprintf("project #%d: unknown key %q is ignored", i+1, k))
			}
		}
		projects = append(projects, project.Normalize(rec))
	}

	featured := 0
	for _, p := range projects {
		if p.Featured {
			featured++
		}
	}
	if featured > project.FeaturedLimit {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("%d projects are featured, only the first %d are shown", featured, project.FeaturedLimit))
	}

	report.Err = project.Validate(projects)
	return report
}

func runLint(path string, w io.Writer) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		errorColor.Fprintf(w, "%s: %v\n", path, err)
		return false
	}
	report := lintCatalog(data)
	for _, warning := range report.Warnings {
		color.New(color.FgYellow).Fprintf(w, "%s: warning: %s\n", path, warning)
	}
	if !report.OK() {
		errorColor.Fprintf(w, "%s: %v\n", path, report.Err)
		return false
	}
	color.New(color.FgGreen).Fprintf(w, "%s: %d projects OK\n", path, report.Projects)
	return true
}

func watchCatalog(ctx context.Context, path string, w io.Writer) error {
	runLint(path, w)
	return watchFile(ctx, path, func() {
		fmt.Fprintln(w)
		runLint(path, w)
	})
}

// watchFile calls onChange after each burst of writes to path until ctx is
// done. The parent directory is watched so atomic replaces are seen too.
func watchFile(ctx context.Context, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	name := filepath.Base(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	// onChange runs on this goroutine, so runs never overlap.
	debounce := time.NewTimer(debounceInterval)
	debounce.Stop()
	defer debounce.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-debounce.C:
			onChange()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			debounce.Reset(debounceInterval)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", path, err)
		}
	}
}
