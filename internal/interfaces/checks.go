package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/shelfgraph/internal/audit"
	auditRepo "github.com/mrlokans/shelfgraph/internal/database/audit"
	"github.com/mrlokans/shelfgraph/internal/database/nodes"
	settingsRepo "github.com/mrlokans/shelfgraph/internal/database/settings"
	"github.com/mrlokans/shelfgraph/internal/database/sync"
	"github.com/mrlokans/shelfgraph/internal/goodreads"
	"github.com/mrlokans/shelfgraph/internal/graph"
	"github.com/mrlokans/shelfgraph/internal/http"
	"github.com/mrlokans/shelfgraph/internal/importers"
	"github.com/mrlokans/shelfgraph/internal/scheduler"
	"github.com/mrlokans/shelfgraph/internal/settingsstore"
	"github.com/mrlokans/shelfgraph/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// Graph store implementations
var _ graph.Store = (*nodes.Repository)(nil)
var _ graph.Store = (*graph.MemoryStore)(nil)
var _ importers.CatalogReader = (*nodes.Repository)(nil)

// Settings and audit repositories
var _ settingsstore.SettingsRepository = (*settingsRepo.Repository)(nil)
var _ audit.EventRepository = (*auditRepo.Repository)(nil)

// =============================================================================
// External Services
// =============================================================================

// Feed client implementations
var _ scheduler.FeedFetcher = (*goodreads.Client)(nil)
var _ http.FeedURLValidator = (*goodreads.Client)(nil)

// =============================================================================
// Progress Tracking
// =============================================================================

// ProgressReporter implementations
var _ importers.ProgressReporter = (*sync.Repository)(nil)

// =============================================================================
// Sync Pipeline
// =============================================================================

var _ scheduler.SyncSettings = (*settingsstore.SettingsStore)(nil)
var _ scheduler.BookReconciler = (*importers.Reconciler)(nil)
var _ scheduler.FeedArchiver = (*audit.FeedArchive)(nil)

var _ http.SyncService = (*scheduler.GoodreadsSyncScheduler)(nil)
var _ http.SyncSettingsStore = (*settingsstore.SettingsStore)(nil)
var _ http.BookCatalog = (*importers.Catalog)(nil)
var _ http.TaskQueue = (*tasks.Client)(nil)

// Task processors
var _ tasks.GoodreadsSyncer = (*scheduler.GoodreadsSyncScheduler)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
