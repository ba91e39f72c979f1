package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/shelfgraph/internal/importers"
)

// GoodreadsSyncer runs one Goodreads sync. Implemented by scheduler.GoodreadsSyncScheduler.
type GoodreadsSyncer interface {
	RunNow(ctx context.Context) (importers.SyncResult, error)
}

// SyncGoodreadsTask runs a Goodreads sync outside the request that asked for it.
type SyncGoodreadsTask struct {
	RequestedBy string    `json:"requested_by"`
	RequestedAt time.Time `json:"requested_at"`
}

// Config returns the queue configuration for sync tasks.
// A failed sync is not retried; the next manual or periodic trigger runs again.
func (t SyncGoodreadsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "sync_goodreads",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     15 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   7 * 24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// SyncGoodreadsProcessor creates a processor function for SyncGoodreadsTask.
func SyncGoodreadsProcessor(syncer GoodreadsSyncer) backlite.QueueProcessor[SyncGoodreadsTask] {
	return func(ctx context.Context, task SyncGoodreadsTask) error {
		if syncer == nil {
			return fmt.Errorf("goodreads syncer not configured")
		}

		log.Printf("[TASK] Goodreads sync requested by %q at %s", task.RequestedBy, task.RequestedAt.Format(time.RFC3339))

		result, err := syncer.RunNow(ctx)
		if err != nil {
			return fmt.Errorf("sync goodreads: %w", err)
		}

		log.Printf("[TASK] %s", result.Message())
		return nil
	}
}

// NewSyncGoodreadsQueue creates a backlite queue for sync tasks.
func NewSyncGoodreadsQueue(syncer GoodreadsSyncer) backlite.Queue {
	return backlite.NewQueue(SyncGoodreadsProcessor(syncer))
}
