package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shelfgraph/internal/audit"
	"github.com/mrlokans/shelfgraph/internal/goodreads"
	"github.com/mrlokans/shelfgraph/internal/scheduler"
	"github.com/mrlokans/shelfgraph/internal/settingsstore"
	"github.com/mrlokans/shelfgraph/internal/tasks"
)

// GoodreadsSyncController handles Goodreads sync settings and operations
type GoodreadsSyncController struct {
	sync         SyncService
	settings     SyncSettingsStore
	validator    FeedURLValidator
	queue        TaskQueue
	auditService *audit.Service
}

// NewGoodreadsSyncController creates a new controller. queue and auditService may be nil.
func NewGoodreadsSyncController(sync SyncService, settings SyncSettingsStore, validator FeedURLValidator, queue TaskQueue, auditService *audit.Service) *GoodreadsSyncController {
	return &GoodreadsSyncController{
		sync:         sync,
		settings:     settings,
		validator:    validator,
		queue:        queue,
		auditService: auditService,
	}
}

// SyncSettingsResponse is the response for GET /api/sync/settings
type SyncSettingsResponse struct {
	Config    settingsstore.GoodreadsSyncConfigInfo `json:"config"`
	NextRun   *time.Time                            `json:"next_run,omitempty"`
	IsRunning bool                                  `json:"is_running"`
}

// UpdateSyncSettingsRequest is the body of PUT /api/sync/settings.
// Omitted fields keep their current value.
type UpdateSyncSettingsRequest struct {
	FeedURL         *string `json:"feed_url"`
	CleanupTitles   *bool   `json:"cleanup_titles"`
	IntervalMinutes *int    `json:"interval_minutes" binding:"omitempty,min=0"`
}

// GetStatus handles GET /api/sync/status
func (sc *GoodreadsSyncController) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, sc.sync.Status())
}

// RunSync handles POST /api/sync/run
// Runs a sync and waits for its result, or enqueues one with ?async=1.
func (sc *GoodreadsSyncController) RunSync(c *gin.Context) {
	if queryBool(c, "async") {
		sc.enqueueSync(c)
		return
	}

	result, err := sc.sync.RunNow(c.Request.Context())
	if err != nil {
		c.JSON(syncErrorStatus(err), ErrorResponse{
			Error:   err.Error(),
			Details: sc.sync.Status(),
		})
		return
	}

	respondSuccess(c, result.Message(), result)
}

func (sc *GoodreadsSyncController) enqueueSync(c *gin.Context) {
	if sc.queue == nil {
		respondError(c, http.StatusServiceUnavailable, "task queue is not enabled")
		return
	}

	taskID, err := sc.queue.Enqueue(tasks.SyncGoodreadsTask{
		RequestedBy: "api",
		RequestedAt: time.Now().UTC(),
	})
	if err != nil {
		respondInternalError(c, err, "enqueue sync task")
		return
	}

	respondAccepted(c, "sync task enqueued", gin.H{"task_id": taskID})
}

// syncErrorStatus maps a failed run to an HTTP status.
func syncErrorStatus(err error) int {
	var statusErr *goodreads.StatusError
	switch {
	case errors.Is(err, scheduler.ErrFeedNotConfigured),
		errors.Is(err, goodreads.ErrInvalidFeedURL),
		errors.Is(err, goodreads.ErrUnsupportedScheme),
		errors.Is(err, goodreads.ErrForeignOrigin):
		return http.StatusBadRequest
	case errors.As(err, &statusErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// GetSettings handles GET /api/sync/settings
func (sc *GoodreadsSyncController) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, sc.settingsResponse())
}

// UpdateSettings handles PUT /api/sync/settings
// Persists the given fields and reschedules the periodic sync.
func (sc *GoodreadsSyncController) UpdateSettings(c *gin.Context) {
	var req UpdateSyncSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}

	var changes []string

	if req.FeedURL != nil {
		feedURL := strings.TrimSpace(*req.FeedURL)
		if feedURL != "" && sc.validator != nil {
			if _, err := sc.validator.ValidateFeedURL(feedURL); err != nil {
				respondBadRequest(c, err.Error())
				return
			}
		}
		if err := sc.settings.SetGoodreadsFeedURL(feedURL); err != nil {
			respondInternalError(c, err, "save feed URL")
			return
		}
		changes = append(changes, "feed URL updated")
	}

	if req.CleanupTitles != nil {
		if err := sc.settings.SetGoodreadsCleanupTitles(*req.CleanupTitles); err != nil {
			respondInternalError(c, err, "save cleanup titles")
			return
		}
		changes = append(changes, fmt.Sprintf("cleanup titles set to %t", *req.CleanupTitles))
	}

	if req.IntervalMinutes != nil {
		if err := sc.settings.SetGoodreadsSyncIntervalMinutes(*req.IntervalMinutes); err != nil {
			if errors.Is(err, settingsstore.ErrInvalidInterval) {
				respondBadRequest(c, err.Error())
				return
			}
			respondInternalError(c, err, "save sync interval")
			return
		}
		changes = append(changes, fmt.Sprintf("sync interval set to %d minutes", *req.IntervalMinutes))
	}

	if len(changes) == 0 {
		respondBadRequest(c, "no settings provided")
		return
	}

	if err := sc.sync.Reschedule(); err != nil {
		respondInternalError(c, err, "reschedule sync")
		return
	}

	sc.logSettings("goodreads_settings_update", strings.Join(changes, ", "))
	c.JSON(http.StatusOK, sc.settingsResponse())
}

// ResetSettings handles DELETE /api/sync/settings
// Removes stored overrides so environment values and defaults apply again.
func (sc *GoodreadsSyncController) ResetSettings(c *gin.Context) {
	if err := sc.settings.ClearGoodreadsSyncSettings(); err != nil {
		respondInternalError(c, err, "clear sync settings")
		return
	}

	if err := sc.sync.Reschedule(); err != nil {
		respondInternalError(c, err, "reschedule sync")
		return
	}

	sc.logSettings("goodreads_settings_reset", "Sync settings reverted to environment defaults")
	c.JSON(http.StatusOK, sc.settingsResponse())
}

func (sc *GoodreadsSyncController) settingsResponse() SyncSettingsResponse {
	status := sc.sync.Status()
	return SyncSettingsResponse{
		Config:    sc.settings.GetGoodreadsSyncConfigInfo(),
		NextRun:   status.NextRunAt,
		IsRunning: status.SchedulerRunning,
	}
}

func (sc *GoodreadsSyncController) logSettings(action, description string) {
	if sc.auditService == nil {
		return
	}
	sc.auditService.LogSettings(action, description)
}
