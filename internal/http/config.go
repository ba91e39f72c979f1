package http

import (
	"context"
	"net/url"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/shelfgraph/internal/audit"
	"github.com/mrlokans/shelfgraph/internal/database"
	"github.com/mrlokans/shelfgraph/internal/importers"
	"github.com/mrlokans/shelfgraph/internal/scheduler"
	"github.com/mrlokans/shelfgraph/internal/settingsstore"
)

// SyncService runs and reports on Goodreads syncs.
// Implemented by scheduler.GoodreadsSyncScheduler.
type SyncService interface {
	RunNow(ctx context.Context) (importers.SyncResult, error)
	Status() scheduler.SyncStatus
	Reschedule() error
}

// SyncSettingsStore reads and updates the effective sync settings.
// Implemented by settingsstore.SettingsStore.
type SyncSettingsStore interface {
	GetGoodreadsSyncConfigInfo() settingsstore.GoodreadsSyncConfigInfo
	SetGoodreadsFeedURL(feedURL string) error
	SetGoodreadsCleanupTitles(cleanup bool) error
	SetGoodreadsSyncIntervalMinutes(minutes int) error
	ClearGoodreadsSyncSettings() error
}

// FeedURLValidator checks a feed URL before it is stored.
// Implemented by goodreads.Client.
type FeedURLValidator interface {
	ValidateFeedURL(feedURL string) (*url.URL, error)
}

// BookCatalog lists imported books. Implemented by importers.Catalog.
type BookCatalog interface {
	Books(ctx context.Context) ([]importers.CatalogBook, error)
}

// TaskQueue enqueues background tasks. Implemented by tasks.Client.
type TaskQueue interface {
	Enqueue(task backlite.Task) (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database     *database.Database
	Sync         SyncService
	Settings     SyncSettingsStore
	Validator    FeedURLValidator
	Catalog      BookCatalog
	AuditService *audit.Service

	// Task queue (optional)
	TaskQueue          TaskQueue
	AuditRetentionDays int

	// RunLimiter throttles manual sync and task triggers (optional)
	RunLimiter *RunLimiter

	// Application info
	Version string
}
