package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/fortytwo-ai/horizon/internal/client"
	"github.com/fortytwo-ai/horizon/internal/gallery"
	"github.com/fortytwo-ai/horizon/internal/project"
)

type projectsOptions struct {
	selection  gallery.Selection
	retries    int
	retryDelay time.Duration
}

var (
	titleColor   = color.New(color.Bold)
	faintColor   = color.New(color.Faint)
	errorColor   = color.New(color.FgRed, color.Bold)
	currentColor = color.New(color.FgCyan, color.Bold)
)

func runProjects(ctx context.Context, c gallery.Fetcher, w io.Writer, opts projectsOptions) error {
	g := gallery.New(c)
	g.Select(opts.selection.Category, opts.selection.Status)

	err := g.Load(ctx)
	for attempt := 1; err != nil && attempt <= opts.retries; attempt++ {
		errorColor.Fprintf(w, "Failed to load projects: %v\n", err)
		fmt.Fprintf(w, "Retrying (%d/%d)...\n", attempt, opts.retries)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(opts.retryDelay):
		}
		err = g.Retry(ctx)
	}
	if err != nil {
		errorColor.Fprintf(w, "Failed to load projects: %v\n", err)
		fmt.Fprintln(w, "Run again with --retry to try more than once.")
		return fmt.Errorf("gallery %s", g.State())
	}

	all := g.Projects()
	sel := g.Selection()
	writeOptions(w, "Category", gallery.Categories(all), sel.Category)
	writeOptions(w, "Status", gallery.Statuses(all), sel.Status)
	fmt.Fprintln(w)

	visible := g.Visible()
	if len(visible) == 0 {
		faintColor.Fprintln(w, "No projects match the selected filters.")
		return nil
	}
	for _, p := range visible {
		writeProject(w, p)
	}
	faintColor.Fprintf(w, "%d of %d projects\n", len(visible), len(all))
	return nil
}

func runFeatured(ctx context.Context, c *client.ProjectClient, w io.Writer) error {
	projects, err := c.ListFeaturedProjects(ctx)
	if err != nil {
		return err
	}
	for _, p := range projects {
		writeProject(w, p)
	}
	return nil
}

func runShow(ctx context.Context, c *client.ProjectClient, w io.Writer, id string) error {
	p, err := c.GetProject(ctx, id)
	if err != nil {
		return err
	}
	writeProject(w, p)
	if p.Description != "" {
		fmt.Fprintf(w, "  %s\n", p.Description)
	}
	for _, link := range []struct{ label, url string }{
		{"Client", p.ClientName},
		{"Live", p.ProjectURL},
		{"Source", p.GitHubURL},
	} {
		if link.url != "" {
			fmt.Fprintf(w, "  %-7s %s\n", link.label+":", link.url)
		}
	}
	return nil
}

func writeOptions(w io.Writer, label string, options []string, current string) {
	fmt.Fprintf(w, "%-9s", label+":")
	for _, o := range options {
		if o == current {
			currentColor.Fprintf(w, " [%s]", o)
			continue
		}
		fmt.Fprintf(w, " %s", o)
	}
	fmt.Fprintln(w)
}

func writeProject(w io.Writer, p *project.Project) {
	titleColor.Fprint(w, p.Title)
	if p.Featured {
		fmt.Fprint(w, " *")
	}
	fmt.Fprintf(w, "  (%s)\n", p.ID)
	fmt.Fprintf(w, "  %s · %s · %s\n", p.Category, statusColor(p.Status).Sprint(p.Status), dateRange(p))
	if p.ShortDescription != "" {
		fmt.Fprintf(w, "  %s\n", p.ShortDescription)
	}
	if len(p.Technologies) > 0 {
		faintColor.Fprintf(w, "  %s\n", strings.Join(p.Technologies, ", "))
	}
	fmt.Fprintln(w)
}

func statusColor(status string) *color.Color {
	switch status {
	case project.DefaultStatus:
		return color.New(color.FgGreen)
	case "In Progress":
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgWhite)
	}
}

func dateRange(p *project.Project) string {
	start := "?"
	if p.StartDate != nil {
		start = *p.StartDate
	}
	if p.Ongoing() {
		return start + " - present"
	}
	return start + " - " + *p.EndDate
}
