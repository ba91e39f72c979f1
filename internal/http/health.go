package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shelfgraph/internal/database"
	"github.com/mrlokans/shelfgraph/internal/scheduler"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	db      *database.Database
	sync    SyncService
	version string
}

func NewHealthController(db *database.Database, sync SyncService, version string) *HealthController {
	return &HealthController{
		db:      db,
		sync:    sync,
		version: version,
	}
}

// Status reports database connectivity and the sync session state.
// A failed last sync is reported but does not make the service unhealthy.
func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	// Check database connectivity
	if h.db != nil {
		sqlDB, err := h.db.DB.DB()
		if err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else if err := sqlDB.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	if h.sync != nil {
		syncStatus := h.sync.Status()
		checks["sync"] = string(syncStatus.Status)
		if syncStatus.SchedulerRunning {
			checks["scheduler"] = "running"
		} else {
			checks["scheduler"] = "stopped"
		}
		if syncStatus.Status == scheduler.StateError {
			checks["sync"] = string(syncStatus.Status) + ": " + syncStatus.Message
		}
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
