package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fortytwo-ai/horizon/internal/config"
	"github.com/fortytwo-ai/horizon/internal/eventbus"
	"github.com/fortytwo-ai/horizon/internal/inquiry"
	inquiryrepo "github.com/fortytwo-ai/horizon/internal/inquiry/repositoryimpl"
	"github.com/fortytwo-ai/horizon/internal/mailer"
	"github.com/fortytwo-ai/horizon/internal/offering"
	"github.com/fortytwo-ai/horizon/internal/project"
	projectrepo "github.com/fortytwo-ai/horizon/internal/project/repositoryimpl"
	"github.com/fortytwo-ai/horizon/internal/pushnotification"
	pushsubrepo "github.com/fortytwo-ai/horizon/internal/pushsubscription/repositoryimpl"
	"github.com/fortytwo-ai/horizon/pkg/clog"
	"github.com/fortytwo-ai/horizon/pkg/storage"

	server "github.com/fortytwo-ai/horizon/internal"
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		slog.Error("failed to load env", "error", err)
		os.Exit(1)
	}

	// Setup logger
	level := env.SlogLevel()
	var handler slog.Handler
	if env.Env == "local" {
		handler = clog.NewHTTPTextHandler(os.Stderr, clog.WithLevel(level))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(clog.NewAttributesHandler(handler)))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// Setup storage
	var store storage.Storage
	switch env.StorageEnv.Type {
	case "s3":
		store, err = storage.NewS3Storage(ctx, env.S3Bucket, env.S3Prefix, env.S3Region, env.S3Endpoint)
		if err != nil {
			slog.Error("failed to create S3 storage", "error", err)
			os.Exit(1)
		}
	default:
		store, err = storage.NewLocalStorage(env.StorageEnv.BaseDir)
		if err != nil {
			slog.Error("failed to create local storage", "error", err)
			os.Exit(1)
		}
	}

	// Setup project sources
	catalog, err := newProjectCatalog(ctx, env, store)
	if err != nil {
		slog.Error("failed to set up project catalog", "error", err)
		os.Exit(1)
	}
	services, err := offering.NewCatalog()
	if err != nil {
		slog.Error("failed to load services", "error", err)
		os.Exit(1)
	}

	bus := eventbus.New()

	// Setup inquiry relay
	if !env.MailEnv.Configured() {
		slog.Warn("EMAIL_USER/EMAIL_PASS not set, inquiry mail will fail")
	}
	relay := inquiry.NewRelay(&env.MailEnv, mailer.NewSMTPMailer(&env.MailEnv), inquiryrepo.NewYAMLRepository(store), bus)

	// Setup push notification
	pushSubRepo := pushsubrepo.NewYAMLRepository(store)
	pushSender := pushnotification.NewSender(&env.VAPIDEnv, pushSubRepo)
	pushDispatcher := pushnotification.NewDispatcher(bus, pushSender)

	srv := server.NewServer(
		env,
		project.NewServer(catalog),
		offering.NewServer(services),
		inquiry.NewServer(relay),
		pushnotification.NewServer(&env.VAPIDEnv, pushSubRepo, pushSender),
	)

	go pushDispatcher.Start(ctx)

	go func() {
		if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// newProjectCatalog picks the project sources. Airtable is primary only when
// both credentials are set; the static catalog then serves as its fallback.
func newProjectCatalog(ctx context.Context, env *config.Env, store storage.Storage) (*project.Catalog, error) {
	var (
		static *projectrepo.StaticRepository
		err    error
	)
	if env.CatalogPath != "" {
		static, err = projectrepo.LoadStaticRepository(ctx, store, env.CatalogPath)
	} else {
		static, err = projectrepo.NewStaticRepository()
	}
	if err != nil {
		return nil, err
	}

	if !env.AirtableConfigured() {
		slog.Info("Airtable not configured, serving static projects", "source", static.Name())
		return project.NewCatalog(static, nil), nil
	}

	airtable, err := projectrepo.NewAirtableRepository(
		env.AirtableAPIKey,
		env.AirtableBaseID,
		env.AirtableTableName,
		env.AirtableView,
		env.AirtableBaseURL,
	)
	if err != nil {
		return nil, err
	}
	slog.Info("serving projects from Airtable", "table", env.AirtableTableName, "fallback", static.Name())
	return project.NewCatalog(airtable, static), nil
}
