// Package main is the entry point for the demo content seeder. It loads
// configuration, connects to the document store and optional services,
// imports demo media, and seeds pages, snippets and homepages.
package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"demoseed/internal/cache"
	"demoseed/internal/config"
	"demoseed/internal/database"
	"demoseed/internal/document"
	"demoseed/internal/fixture"
	"demoseed/internal/media"
	"demoseed/internal/memstore"
	"demoseed/internal/models"
	"demoseed/internal/storage"
	"demoseed/internal/store"
)

func main() {
	// Load configuration from the environment (and .env) first so the log
	// level can follow APP_ENV.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.IsDev() {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"webspace", cfg.Webspace,
		"default_locale", cfg.DefaultLocale,
		"dry_run", cfg.DryRun,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("seeding failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	set, err := loadFixtures(cfg)
	if err != nil {
		return err
	}

	opts := fixture.Options{
		DefaultLocale: cfg.DefaultLocale,
		Webspace:      cfg.Webspace,
		ContentsPath:  cfg.ContentsPath(),
		SnippetsPath:  cfg.SnippetsPath(),
	}

	if cfg.DryRun {
		return dryRun(ctx, cfg, set, opts)
	}

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		return err
	}

	authorID, err := database.SeedAuthor(db, cfg.AuthorEmail)
	if err != nil {
		return err
	}
	opts.AuthorID = &authorID

	mediaStore := store.NewMediaStore(db)
	if err := importMedia(ctx, cfg, mediaStore); err != nil {
		return err
	}
	versions, err := mediaStore.ListVersions(ctx)
	if err != nil {
		return err
	}
	slog.Info("media catalog ready", "files", len(versions))

	// Page cache invalidation is optional.
	var pages fixture.PageInvalidator
	if cfg.HasCache() {
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Warn("page cache unavailable, skipping invalidation", "error", err)
		} else {
			defer valkeyClient.Close()
			pages = cache.NewPageCache(valkeyClient)
		}
	}

	documentStore := store.NewDocumentStore(db)
	manager := document.NewManager(documentStore)
	snippets := store.NewDefaultSnippetStore(store.NewSiteSettingStore(db))

	seeder := fixture.NewSeeder(manager, mediaStore, snippets, pages, opts)
	res, err := seeder.Run(ctx, set)
	if err != nil {
		return err
	}

	for snippetType := range res.Snippets {
		id, err := snippets.Get(ctx, cfg.Webspace, snippetType, cfg.DefaultLocale)
		if err != nil {
			slog.Warn("failed to read default snippet", "type", snippetType, "error", err)
			continue
		}
		if id != uuid.Nil {
			slog.Info("default snippet", "type", snippetType, "locale", cfg.DefaultLocale, "id", id)
		}
	}

	total, err := documentStore.Count(ctx, models.DocumentKindPage)
	if err != nil {
		slog.Warn("failed to count pages", "error", err)
	}
	logResult(res, total)
	return nil
}

// dryRun seeds into memory. Media names are taken from MEDIA_DIR when set so
// that references resolve as they would after an import.
func dryRun(ctx context.Context, cfg *config.Config, set *fixture.Set, opts fixture.Options) error {
	catalog := memstore.NewMedia()
	if cfg.MediaDir != "" {
		entries, err := os.ReadDir(cfg.MediaDir)
		if err != nil {
			return fmt.Errorf("read media dir: %w", err)
		}
		for _, e := range entries {
			if e.Type().IsRegular() {
				catalog.Add(e.Name())
			}
		}
	}

	seeder := fixture.NewSeeder(document.NewManager(memstore.NewDocuments()), catalog, memstore.NewSnippets(), nil, opts)
	res, err := seeder.Run(ctx, set)
	if err != nil {
		return err
	}
	logResult(res, len(res.Pages))
	return nil
}

// importMedia uploads the demo images when both a media directory and
// object storage are configured.
func importMedia(ctx context.Context, cfg *config.Config, catalog media.Catalog) error {
	if cfg.MediaDir == "" {
		return nil
	}
	if !cfg.HasStorage() {
		slog.Warn("s3 storage not configured, media import skipped", "dir", cfg.MediaDir)
		return nil
	}

	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3BucketPublic, cfg.S3PublicURL,
	)
	if err != nil {
		return fmt.Errorf("init s3 storage: %w", err)
	}
	slog.Info("s3 storage connected",
		"endpoint", cfg.S3Endpoint,
		"public_bucket", cfg.S3BucketPublic,
	)

	importer := media.NewImporter(storageClient, catalog, cfg.Webspace)
	res, err := importer.Import(ctx, os.DirFS(cfg.MediaDir))
	if err != nil {
		return err
	}
	slog.Info("media import finished", "imported", res.Imported, "skipped", res.Skipped, "rejected", res.Rejected)
	return nil
}

func loadFixtures(cfg *config.Config) (*fixture.Set, error) {
	if cfg.FixtureDir == "" {
		return fixture.Default()
	}
	var fsys fs.FS = os.DirFS(cfg.FixtureDir)
	set, err := fixture.Load(fsys)
	if err != nil {
		return nil, fmt.Errorf("load fixtures from %s: %w", cfg.FixtureDir, err)
	}
	slog.Info("fixtures loaded", "dir", cfg.FixtureDir)
	return set, nil
}

func logResult(res *fixture.Result, pageCount int) {
	slog.Info("seeding complete",
		"pages", len(res.Pages),
		"snippets", len(res.Snippets),
		"homepage", res.Homepage,
		"published", res.Published,
		"pages_total", pageCount,
	)
}
