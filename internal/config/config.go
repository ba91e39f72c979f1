package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Goodreads
		Audit
		Global
		Database
		Tasks
	}

	HTTP struct {
		Port int32  `validate:"min=1,max=65535"`
		Host string `validate:"required"`
	}
	// Goodreads holds environment defaults for the sync. Values stored in the
	// database through the settings API take precedence over FeedURL,
	// CleanupTitles and SyncIntervalMinutes.
	Goodreads struct {
		FeedURL             string        `validate:"omitempty,url"`
		CleanupTitles       bool
		SyncIntervalMinutes int           `validate:"min=0"` // 0 disables periodic sync
		AllowedHosts        []string      `validate:"min=1,dive,hostname_rfc1123"`
		FetchTimeout        time.Duration `validate:"gt=0"`
	}
	Audit struct {
		Dir           string // Feed snapshots are archived here when set
		RetentionDays int    `validate:"min=1"`
	}
	Global struct {
		ShutdownTimeoutInSeconds int `validate:"min=0"`
	}
	Database struct {
		Path string `validate:"required"`
	}
	Tasks struct {
		Enabled         bool
		Workers         int           `validate:"min=1"`
		ReleaseAfter    time.Duration `validate:"gt=0"`
		CleanupInterval time.Duration `validate:"gt=0"`
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8189)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("audit_dir", "")
	v.SetDefault("audit_retention_days", 30)

	// Goodreads defaults
	v.SetDefault("goodreads_feed_url", "")
	v.SetDefault("goodreads_cleanup_titles", true)
	v.SetDefault("goodreads_sync_interval_minutes", 30)
	v.SetDefault("goodreads_allowed_hosts", DefaultAllowedHosts)
	v.SetDefault("goodreads_fetch_timeout", "30s")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "20m")
	v.SetDefault("task_cleanup_interval", "1h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Goodreads: Goodreads{
			FeedURL:             strings.TrimSpace(v.GetString("GOODREADS_FEED_URL")),
			CleanupTitles:       v.GetBool("GOODREADS_CLEANUP_TITLES"),
			SyncIntervalMinutes: v.GetInt("GOODREADS_SYNC_INTERVAL_MINUTES"),
			AllowedHosts:        splitList(v.GetString("GOODREADS_ALLOWED_HOSTS")),
			FetchTimeout:        v.GetDuration("GOODREADS_FETCH_TIMEOUT"),
		},
		Audit: Audit{
			Dir:           v.GetString("AUDIT_DIR"),
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
	}
}

// Validate checks the configuration and reports every invalid field.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	problems := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		problems = append(problems, fmt.Sprintf("%s %s", e.Namespace(), friendlyMessage(e)))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "hostname_rfc1123":
		return "must be a valid host name"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must not exceed " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	default:
		return "is invalid"
	}
}

// splitList parses a comma separated list, dropping empty items.
func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
