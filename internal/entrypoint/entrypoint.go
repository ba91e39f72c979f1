package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/mrlokans/shelfgraph/internal/config"
	http_controllers "github.com/mrlokans/shelfgraph/internal/http"
	"github.com/mrlokans/shelfgraph/internal/tasks"
)

// auditCleanupSchedule enqueues the audit cleanup task once a day.
const auditCleanupSchedule = "@daily"

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill -2 is syscall.SIGINT, kill (no param) sends syscall.SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	// Stop background work after the server stops accepting requests
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) error {
	log.Printf("Starting shelfgraph v%s", version)

	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.Goodreads.FeedURL == "" {
		log.Printf("WARNING: Goodreads feed URL is not set. Set 'GOODREADS_FEED_URL' or configure it via PUT /api/sync/settings.")
	}

	app, err := NewApp(cfg, AppOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	defer schedulerCancel()
	if err := app.Scheduler.Start(schedulerCtx); err != nil {
		log.Printf("WARNING: Failed to start Goodreads sync scheduler: %v", err)
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var maintenance *cron.Cron
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			return fmt.Errorf("failed to initialize task queue: %w", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewSyncGoodreadsQueue(app.Scheduler),
			tasks.NewCleanupAuditEventsQueue(app.Audit),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		maintenance, err = scheduleAuditCleanup(taskClient, cfg.Audit.RetentionDays)
		if err != nil {
			return err
		}
	}

	runLimiter := http_controllers.NewRunLimiter(http_controllers.DefaultRunLimitConfig())

	routerCfg := http_controllers.RouterConfig{
		Database:           app.DB,
		Sync:               app.Scheduler,
		Settings:           app.Settings,
		Validator:          app.Client,
		Catalog:            app.Catalog,
		AuditService:       app.Audit,
		AuditRetentionDays: cfg.Audit.RetentionDays,
		RunLimiter:         runLimiter,
		Version:            version,
	}
	// A nil *tasks.Client must not end up in the interface
	if taskClient != nil {
		routerCfg.TaskQueue = taskClient
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if maintenance != nil {
			<-maintenance.Stop().Done()
		}
		runLimiter.Stop()
		schedulerCancel()
		app.Scheduler.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
	return nil
}

// scheduleAuditCleanup starts a cron that enqueues CleanupAuditEventsTask.
func scheduleAuditCleanup(queue *tasks.Client, retentionDays int) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(auditCleanupSchedule, func() {
		id, err := queue.Enqueue(tasks.CleanupAuditEventsTask{RetentionDays: retentionDays})
		if err != nil {
			log.Printf("[TASK] Failed to enqueue audit cleanup: %v", err)
			return
		}
		log.Printf("[TASK] Enqueued audit cleanup %s", id)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule audit cleanup: %w", err)
	}
	c.Start()
	return c, nil
}
