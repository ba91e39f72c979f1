// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - graph.Store: Node graph operations used by the reconciler (internal/graph/store.go)
//   - importers.CatalogReader: Read side of the graph for book listings (internal/importers/catalog.go)
//   - settingsstore.SettingsRepository: Key/value settings (internal/settingsstore/settingsstore.go)
//   - audit.EventRepository: Audit event persistence (internal/audit/service.go)
//
// ## External Service Interfaces
//
//   - scheduler.FeedFetcher: Shelf feed retrieval (internal/scheduler/goodreads_sync.go)
//   - http.FeedURLValidator: Feed URL checks before settings are stored (internal/http/config.go)
//
// ## Progress Tracking Interfaces
//
//   - importers.ProgressReporter: Reconciliation progress (internal/importers/goodreads.go)
//
// ## Sync Pipeline Interfaces
//
//   - scheduler.SyncSettings, scheduler.BookReconciler, scheduler.FeedArchiver
//   - http.SyncService, http.TaskQueue, http.BookCatalog
//   - tasks.GoodreadsSyncer, tasks.AuditEventCleaner
//
// # Adding a New Graph Backend
//
// To store the graph somewhere other than sqlite:
//
//  1. Implement graph.Store in a new package
//
//     type Repository struct { client *api.Client }
//
//     func (r *Repository) FindByName(ctx context.Context, name string, parentID graph.NodeID) (*graph.Node, error)
//     // ... remaining Store methods
//
//  2. Return graph.ErrNotFound from FindByName on a miss; the reconciler
//     relies on it to tell "absent" from "failed".
//
//  3. Pass it to importers.NewReconciler and importers.NewCatalog in
//     internal/entrypoint/app.go
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the checks covering this module.
package interfaces
