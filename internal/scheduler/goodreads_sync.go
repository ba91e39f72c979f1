package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"

	"github.com/mrlokans/shelfgraph/internal/audit"
	"github.com/mrlokans/shelfgraph/internal/goodreads"
	"github.com/mrlokans/shelfgraph/internal/importers"
	"github.com/mrlokans/shelfgraph/internal/metrics"
	"github.com/mrlokans/shelfgraph/internal/settingsstore"
)

const (
	syncFlightKey   = "goodreads"
	auditSyncAction = "goodreads_sync"
)

// ErrFeedNotConfigured is returned by RunNow when no feed URL is set.
var ErrFeedNotConfigured = errors.New("Goodreads feed URL is not configured")

// SyncState is the session status shown to users.
type SyncState string

const (
	StateIdle    SyncState = "idle"
	StateSyncing SyncState = "syncing"
	StateError   SyncState = "error"
)

// SyncSettings is the subset of the settings store the scheduler reads and writes.
type SyncSettings interface {
	GetGoodreadsSyncConfig() settingsstore.GoodreadsSyncConfig
	GetGoodreadsLastSyncAt() *time.Time
	SetGoodreadsLastSyncAt(at time.Time) error
}

// FeedFetcher retrieves a parsed shelf feed. Implemented by goodreads.Client.
type FeedFetcher interface {
	Fetch(ctx context.Context, feedURL string) (*gofeed.Feed, error)
}

// BookReconciler writes decoded records into the graph.
// Implemented by importers.Reconciler.
type BookReconciler interface {
	Reconcile(ctx context.Context, books []goodreads.BookRecord) (importers.SyncResult, error)
}

// FeedArchiver stores the decoded records of a run. Implemented by audit.FeedArchive.
type FeedArchiver interface {
	Save(feedURL string, records any) (string, error)
}

// SyncStatus is a snapshot of the session for presentation.
type SyncStatus struct {
	Status           SyncState             `json:"status"`
	Message          string                `json:"message"`
	LastSyncAt       *time.Time            `json:"last_sync_at,omitempty"`
	NextRunAt        *time.Time            `json:"next_run_at,omitempty"`
	SchedulerRunning bool                  `json:"scheduler_running"`
	IntervalMinutes  int                   `json:"interval_minutes"`
	LastResult       *importers.SyncResult `json:"last_result,omitempty"`
}

// GoodreadsSyncScheduler owns the Goodreads sync session: it runs one sync
// at a time, tracks its status and triggers runs periodically.
type GoodreadsSyncScheduler struct {
	settings     SyncSettings
	fetcher      FeedFetcher
	reconciler   BookReconciler
	auditService *audit.Service
	archive      FeedArchiver

	flight singleflight.Group

	mu         sync.Mutex
	cron       *cron.Cron
	entryID    cron.EntryID
	isRunning  bool
	interval   time.Duration
	baseCtx    context.Context
	cancelFunc context.CancelFunc
	generation uint64

	statusMu   sync.RWMutex
	status     SyncState
	message    string
	lastResult *importers.SyncResult
}

// NewGoodreadsSyncScheduler creates a scheduler. auditService may be nil.
func NewGoodreadsSyncScheduler(settings SyncSettings, fetcher FeedFetcher, reconciler BookReconciler, auditService *audit.Service) *GoodreadsSyncScheduler {
	return &GoodreadsSyncScheduler{
		settings:     settings,
		fetcher:      fetcher,
		reconciler:   reconciler,
		auditService: auditService,
		status:       StateIdle,
	}
}

// SetArchive enables saving a snapshot of every decoded feed.
func (s *GoodreadsSyncScheduler) SetArchive(archive FeedArchiver) {
	s.archive = archive
}

// Start schedules periodic syncs using the configured interval.
// An interval of 0 or a missing feed URL leaves the scheduler stopped.
func (s *GoodreadsSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	s.baseCtx = ctx

	config := s.settings.GetGoodreadsSyncConfig()

	if config.IntervalMinutes <= 0 {
		log.Printf("Goodreads sync scheduler: disabled (interval is 0)")
		return nil
	}

	if strings.TrimSpace(config.FeedURL) == "" {
		log.Printf("Goodreads sync scheduler: feed URL not configured, skipping")
		return nil
	}

	interval := time.Duration(config.IntervalMinutes) * time.Minute
	c := cron.New()
	s.entryID = c.Schedule(cron.Every(interval), cron.FuncJob(s.runScheduled))
	c.Start()

	s.cron = c
	s.interval = interval
	s.isRunning = true
	s.generation++
	generation := s.generation

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	log.Printf("Goodreads sync scheduler: started, every %v. Next run: %v", interval, c.Entry(s.entryID).Next)

	// Monitor for context cancellation
	go func() {
		<-cancelCtx.Done()
		s.stopGeneration(generation)
	}()

	return nil
}

// Stop halts periodic syncs and waits for a scheduled run in progress.
// It is safe to call more than once.
func (s *GoodreadsSyncScheduler) Stop() {
	s.mu.Lock()
	stopped := s.stopLocked()
	s.mu.Unlock()
	waitStopped(stopped)
}

func (s *GoodreadsSyncScheduler) stopGeneration(generation uint64) {
	s.mu.Lock()
	if s.generation != generation {
		s.mu.Unlock()
		return
	}
	stopped := s.stopLocked()
	s.mu.Unlock()
	waitStopped(stopped)
}

// stopLocked detaches the cron and stops it from starting new jobs. The
// returned context is done once jobs already running have returned; callers
// wait on it after releasing s.mu.
func (s *GoodreadsSyncScheduler) stopLocked() context.Context {
	if !s.isRunning {
		return nil
	}

	s.cancelFunc()
	s.cancelFunc = nil

	stopped := s.cron.Stop()
	s.cron = nil
	s.isRunning = false
	return stopped
}

func waitStopped(stopped context.Context) {
	if stopped == nil {
		return
	}
	<-stopped.Done()
	log.Printf("Goodreads sync scheduler: stopped")
}

// Reschedule applies changed settings by restarting the scheduler.
func (s *GoodreadsSyncScheduler) Reschedule() error {
	s.mu.Lock()
	stopped := s.stopLocked()
	ctx := s.baseCtx
	s.mu.Unlock()
	waitStopped(stopped)

	if ctx == nil {
		ctx = context.Background()
	}
	return s.Start(ctx)
}

// IsRunning returns whether periodic syncs are scheduled
func (s *GoodreadsSyncScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// IsSyncing returns whether a sync is currently in progress
func (s *GoodreadsSyncScheduler) IsSyncing() bool {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status == StateSyncing
}

// GetNextRunTime returns when the next periodic sync will occur
func (s *GoodreadsSyncScheduler) GetNextRunTime() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	entry := s.cron.Entry(s.entryID)
	if !entry.Valid() || entry.Next.IsZero() {
		return nil
	}
	next := entry.Next
	return &next
}

// Status returns a snapshot of the session.
func (s *GoodreadsSyncScheduler) Status() SyncStatus {
	s.statusMu.RLock()
	status := SyncStatus{
		Status:     s.status,
		Message:    s.message,
		LastResult: s.lastResult,
	}
	s.statusMu.RUnlock()

	status.LastSyncAt = s.settings.GetGoodreadsLastSyncAt()
	status.NextRunAt = s.GetNextRunTime()
	status.SchedulerRunning = s.IsRunning()
	status.IntervalMinutes = s.settings.GetGoodreadsSyncConfig().IntervalMinutes
	return status
}

// RunNow performs one sync and returns its result. A call made while a sync
// is in progress waits for that sync and shares its result instead of
// starting another. Cancelling ctx stops the wait, not the sync.
func (s *GoodreadsSyncScheduler) RunNow(ctx context.Context) (importers.SyncResult, error) {
	runCtx := context.WithoutCancel(ctx)
	ch := s.flight.DoChan(syncFlightKey, func() (any, error) {
		return s.runSync(runCtx)
	})

	select {
	case res := <-ch:
		if res.Shared {
			log.Printf("Goodreads sync: joined a sync already in progress")
		}
		result, _ := res.Val.(importers.SyncResult)
		return result, res.Err
	case <-ctx.Done():
		return importers.SyncResult{}, ctx.Err()
	}
}

func (s *GoodreadsSyncScheduler) runScheduled() {
	log.Printf("Goodreads sync: scheduled run")
	_, _ = s.RunNow(context.Background())
}

// runSync performs the actual sync operation
func (s *GoodreadsSyncScheduler) runSync(ctx context.Context) (importers.SyncResult, error) {
	startTime := time.Now()
	s.setStatus(StateSyncing, "", nil)

	config := s.settings.GetGoodreadsSyncConfig()
	if strings.TrimSpace(config.FeedURL) == "" {
		return s.fail(startTime, ErrFeedNotConfigured)
	}

	log.Printf("Goodreads sync: starting import from shelf feed")

	feed, err := s.fetcher.Fetch(ctx, config.FeedURL)
	if err != nil {
		return s.fail(startTime, fmt.Errorf("failed to fetch feed: %w", err))
	}

	books := goodreads.ParseBooks(feed, goodreads.ParseOptions{CleanupTitle: config.CleanupTitles})

	if s.archive != nil {
		if _, err := s.archive.Save(config.FeedURL, books); err != nil {
			log.Printf("Goodreads sync: warning - failed to archive feed: %v", err)
		}
	}

	result, err := s.reconciler.Reconcile(ctx, books)
	if err != nil {
		return s.fail(startTime, err)
	}

	if err := s.settings.SetGoodreadsLastSyncAt(time.Now()); err != nil {
		log.Printf("Goodreads sync: warning - failed to store last sync time: %v", err)
	}

	duration := time.Since(startTime)
	successMsg := result.Message()
	log.Printf("Goodreads sync: %s (%d failed, took %v)", successMsg, result.Failed, duration.Round(time.Millisecond))

	s.setStatus(StateIdle, successMsg, &result)
	s.logAudit(successMsg, map[string]any{
		"imported":    result.Imported,
		"existing":    result.Existing,
		"total":       result.Total,
		"failed":      result.Failed,
		"duration_ms": duration.Milliseconds(),
	}, nil)
	metrics.ObserveSync(startTime, metrics.BookCounts{
		Imported: result.Imported,
		Existing: result.Existing,
		Failed:   result.Failed,
	}, nil)

	return result, nil
}

func (s *GoodreadsSyncScheduler) fail(startTime time.Time, err error) (importers.SyncResult, error) {
	errMsg := fmt.Sprintf("Sync failed: %v", err)
	log.Printf("Goodreads sync: %s", errMsg)

	s.setStatus(StateError, errMsg, nil)
	s.logAudit(errMsg, nil, err)
	metrics.ObserveSync(startTime, metrics.BookCounts{}, err)

	return importers.SyncResult{}, err
}

func (s *GoodreadsSyncScheduler) setStatus(status SyncState, message string, result *importers.SyncResult) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status = status
	s.message = message
	if result != nil {
		s.lastResult = result
	}
}

func (s *GoodreadsSyncScheduler) logAudit(description string, metadata map[string]any, err error) {
	if s.auditService == nil {
		return
	}
	s.auditService.LogSync(auditSyncAction, description, metadata, err)
}
