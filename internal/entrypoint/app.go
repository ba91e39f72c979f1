package entrypoint

import (
	"fmt"
	"log"

	"github.com/mrlokans/shelfgraph/internal/audit"
	"github.com/mrlokans/shelfgraph/internal/config"
	"github.com/mrlokans/shelfgraph/internal/database"
	auditRepo "github.com/mrlokans/shelfgraph/internal/database/audit"
	"github.com/mrlokans/shelfgraph/internal/database/nodes"
	settingsRepo "github.com/mrlokans/shelfgraph/internal/database/settings"
	syncRepo "github.com/mrlokans/shelfgraph/internal/database/sync"
	"github.com/mrlokans/shelfgraph/internal/entities"
	"github.com/mrlokans/shelfgraph/internal/goodreads"
	"github.com/mrlokans/shelfgraph/internal/importers"
	"github.com/mrlokans/shelfgraph/internal/scheduler"
	"github.com/mrlokans/shelfgraph/internal/settingsstore"
)

// App holds the services shared by the HTTP server and the CLI commands.
type App struct {
	Config     *config.Config
	DB         *database.Database
	Nodes      *nodes.Repository
	Progress   *syncRepo.Repository
	Settings   *settingsstore.SettingsStore
	Audit      *audit.Service
	Client     *goodreads.Client
	Reconciler *importers.Reconciler
	Catalog    *importers.Catalog
	Scheduler  *scheduler.GoodreadsSyncScheduler
}

// AppOptions customizes NewApp.
type AppOptions struct {
	// Quiet disables gorm logging.
	Quiet bool
	// Fetcher replaces the Goodreads HTTP client used by the scheduler.
	Fetcher scheduler.FeedFetcher
	// Settings wraps the settings store the scheduler reads.
	Settings func(*settingsstore.SettingsStore) scheduler.SyncSettings
}

// NewApp opens the database and wires the sync services. The scheduler is
// created stopped.
func NewApp(cfg *config.Config, opts AppOptions) (*App, error) {
	open := database.NewDatabase
	if opts.Quiet {
		open = database.NewQuietDatabase
	}
	db, err := open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app := &App{
		Config:   cfg,
		DB:       db,
		Nodes:    nodes.NewRepository(db.DB),
		Progress: syncRepo.NewRepository(db.DB, entities.SyncTypeGoodreads),
		Settings: settingsstore.New(settingsRepo.NewRepository(db.DB)),
		Audit:    audit.NewService(auditRepo.NewRepository(db.DB)),
		Client:   goodreads.NewClient(cfg.Goodreads.FetchTimeout, cfg.Goodreads.AllowedHosts),
	}
	app.Reconciler = importers.NewReconciler(app.Nodes, app.Progress)
	app.Catalog = importers.NewCatalog(app.Nodes)

	var fetcher scheduler.FeedFetcher = app.Client
	if opts.Fetcher != nil {
		fetcher = opts.Fetcher
	}
	var settings scheduler.SyncSettings = app.Settings
	if opts.Settings != nil {
		settings = opts.Settings(app.Settings)
	}

	app.Scheduler = scheduler.NewGoodreadsSyncScheduler(settings, fetcher, app.Reconciler, app.Audit)
	if cfg.Audit.Dir != "" {
		log.Printf("Archiving decoded feeds to %s", cfg.Audit.Dir)
		app.Scheduler.SetArchive(audit.NewFeedArchive(cfg.Audit.Dir))
	}

	return app, nil
}

// Close stops the scheduler, flushes pending audit writes and closes the
// database.
func (a *App) Close() error {
	a.Scheduler.Stop()
	a.Audit.Wait()
	return a.DB.Close()
}
