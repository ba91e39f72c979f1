// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── nodes/           # Node graph storage (implements graph.Store)
//	├── sync/            # Sync progress tracking
//	├── settings/        # Key/value application settings
//	└── audit/           # Audit event log
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./shelfgraph.db")
//
//	nodeRepo := nodes.NewRepository(db.DB)
//	settingsRepo := settings.NewRepository(db.DB)
//	progress := sync.NewRepository(db.DB, entities.SyncTypeGoodreads)
//
// # Interface Implementations
//
//   - nodes.Repository: implements graph.Store
//   - sync.Repository: implements importers.ProgressReporter
//   - settings.Repository: implements settingsstore.SettingsRepository
//   - audit.Repository: implements audit.EventRepository
package database
