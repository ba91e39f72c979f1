package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(SecurityHeadersMiddleware())

	// Manual triggers share one limiter when configured
	throttle := func(c *gin.Context) { c.Next() }
	if cfg.RunLimiter != nil {
		throttle = cfg.RunLimiter.Middleware()
	}

	health := NewHealthController(cfg.Database, cfg.Sync, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.Sync != nil && cfg.Settings != nil {
		syncController := NewGoodreadsSyncController(cfg.Sync, cfg.Settings, cfg.Validator, cfg.TaskQueue, cfg.AuditService)
		router.GET("/api/sync/status", syncController.GetStatus)
		router.POST("/api/sync/run", throttle, syncController.RunSync)
		router.GET("/api/sync/settings", syncController.GetSettings)
		router.PUT("/api/sync/settings", syncController.UpdateSettings)
		router.DELETE("/api/sync/settings", syncController.ResetSettings)
	}

	if cfg.Catalog != nil {
		booksController := NewBooksController(cfg.Catalog)
		router.GET("/api/books", booksController.GetAllBooks)
	}

	if cfg.AuditService != nil {
		auditController := NewAuditController(cfg.AuditService)
		router.GET("/api/audit", auditController.GetAuditEvents)
	}

	// Task queue routes are only available when the queue is enabled
	if cfg.TaskQueue != nil {
		tasksController := NewTasksController(cfg.TaskQueue, cfg.AuditRetentionDays)
		router.GET("/api/tasks/types", tasksController.ListTaskTypes)
		router.GET("/api/tasks/:id", tasksController.GetTaskStatus)
		router.POST("/api/tasks/:type/run", throttle, tasksController.RunTask)
	}

	return router
}
