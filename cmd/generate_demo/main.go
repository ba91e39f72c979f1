// Command generate_demo creates a demo database with a shelf of public domain books.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/mrlokans/shelfgraph/internal/database"
	"github.com/mrlokans/shelfgraph/internal/database/nodes"
	settingsRepo "github.com/mrlokans/shelfgraph/internal/database/settings"
	syncRepo "github.com/mrlokans/shelfgraph/internal/database/sync"
	"github.com/mrlokans/shelfgraph/internal/entities"
	"github.com/mrlokans/shelfgraph/internal/goodreads"
	"github.com/mrlokans/shelfgraph/internal/importers"
	"github.com/mrlokans/shelfgraph/internal/settingsstore"
)

const defaultDemoDatabasePath = "./demo/demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	reconciler := importers.NewReconciler(
		nodes.NewRepository(db.DB),
		syncRepo.NewRepository(db.DB, entities.SyncTypeGoodreads),
	)

	result, err := reconciler.Reconcile(context.Background(), demoBooks())
	if err != nil {
		log.Fatalf("Failed to import demo books: %v", err)
	}

	settings := settingsstore.New(settingsRepo.NewRepository(db.DB))
	if err := settings.SetGoodreadsSyncIntervalMinutes(0); err != nil {
		log.Fatalf("Failed to disable periodic sync: %v", err)
	}
	if err := settings.SetGoodreadsLastSyncAt(time.Now()); err != nil {
		log.Fatalf("Failed to store last sync time: %v", err)
	}

	log.Printf("Demo database generated: %s", result.Message())
}

func demoBooks() []goodreads.BookRecord {
	read := []string{"read"}
	return []goodreads.BookRecord{
		{Title: "Pride and Prejudice", Author: "Jane Austen", Shelves: read, YearPublished: intPtr(1813), UserRating: intPtr(5)},
		{Title: "Moby-Dick", Author: "Herman Melville", Shelves: read, YearPublished: intPtr(1851), UserRating: intPtr(4)},
		{Title: "Frankenstein", Author: "Mary Shelley", Shelves: read, YearPublished: intPtr(1818)},
		{Title: "Meditations", Author: "Marcus Aurelius", Shelves: []string{"philosophy", "read"}},
		{Title: "The Art of War", Author: "Sun Tzu", Shelves: []string{"to-read"}},
		{Title: "Persuasion", Author: "Jane Austen", Shelves: []string{"currently-reading"}, YearPublished: intPtr(1817)},
	}
}

func intPtr(v int) *int {
	return &v
}
