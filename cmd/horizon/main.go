package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"

	"github.com/fortytwo-ai/horizon/internal/client"
	"github.com/fortytwo-ai/horizon/internal/gallery"
)

var (
	app       = kingpin.New("horizon", "Browse and maintain the studio project catalog")
	serverURL = app.Flag("server", "Base URL of the horizon server").Default("http://localhost:3001").Envar("HORIZON_SERVER_URL").String()
	noColor   = app.Flag("no-color", "Disable colored output").Bool()

	projectsCmd      = app.Command("projects", "List projects, narrowed by category and status")
	projectsCategory = projectsCmd.Flag("category", "Category to show").Default(gallery.All).String()
	projectsStatus   = projectsCmd.Flag("status", "Status to show").Default(gallery.All).String()
	projectsFeatured = projectsCmd.Flag("featured", "Only the featured projects").Bool()
	projectsRetry    = projectsCmd.Flag("retry", "Retries after a failed load").Default("0").Int()

	showCmd = app.Command("show", "Show one project")
	showID  = showCmd.Arg("id", "Project ID").Required().String()

	catalogCmd = app.Command("catalog", "Catalog file tools")

	lintCmd   = catalogCmd.Command("lint", "Check a catalog YAML file")
	lintFile  = lintCmd.Arg("file", "Catalog file").Required().ExistingFile()
	lintWatch = lintCmd.Flag("watch", "Check again whenever the file changes").Bool()
)

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))
	if *noColor {
		color.NoColor = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch command {
	case projectsCmd.FullCommand():
		c := client.NewProjectClient(*serverURL, nil)
		if *projectsFeatured {
			err = runFeatured(ctx, c, os.Stdout)
			break
		}
		err = runProjects(ctx, c, os.Stdout, projectsOptions{
			selection:  gallery.Selection{Category: *projectsCategory, Status: *projectsStatus},
			retries:    *projectsRetry,
			retryDelay: time.Second,
		})
	case showCmd.FullCommand():
		err = runShow(ctx, client.NewProjectClient(*serverURL, nil), os.Stdout, *showID)
	case lintCmd.FullCommand():
		if *lintWatch {
			err = watchCatalog(ctx, *lintFile, os.Stdout)
			break
		}
		if !runLint(*lintFile, os.Stdout) {
			os.Exit(1)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
