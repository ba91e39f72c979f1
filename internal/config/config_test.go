package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(8189), cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, 2, cfg.Global.ShutdownTimeoutInSeconds)

	assert.Empty(t, cfg.Goodreads.FeedURL)
	assert.True(t, cfg.Goodreads.CleanupTitles)
	assert.Equal(t, 30, cfg.Goodreads.SyncIntervalMinutes)
	assert.Equal(t, []string{"goodreads.com", "www.goodreads.com"}, cfg.Goodreads.AllowedHosts)
	assert.Equal(t, 30*time.Second, cfg.Goodreads.FetchTimeout)

	assert.Empty(t, cfg.Audit.Dir)
	assert.Equal(t, 30, cfg.Audit.RetentionDays)

	assert.True(t, cfg.Tasks.Enabled)
	assert.Equal(t, 1, cfg.Tasks.Workers)
	assert.Equal(t, 20*time.Minute, cfg.Tasks.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.Tasks.CleanupInterval)

	assert.NoError(t, cfg.Validate())
}

func TestNewConfig_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("GOODREADS_FEED_URL", " https://www.goodreads.com/review/list_rss/1?shelf=read ")
	t.Setenv("GOODREADS_CLEANUP_TITLES", "false")
	t.Setenv("GOODREADS_SYNC_INTERVAL_MINUTES", "0")
	t.Setenv("GOODREADS_ALLOWED_HOSTS", "www.goodreads.com, , 127.0.0.1")
	t.Setenv("GOODREADS_FETCH_TIMEOUT", "5s")
	t.Setenv("TASKS_ENABLED", "false")

	cfg := NewConfig()

	assert.Equal(t, int32(9000), cfg.HTTP.Port)
	assert.Equal(t, "https://www.goodreads.com/review/list_rss/1?shelf=read", cfg.Goodreads.FeedURL)
	assert.False(t, cfg.Goodreads.CleanupTitles)
	assert.Equal(t, 0, cfg.Goodreads.SyncIntervalMinutes)
	assert.Equal(t, []string{"www.goodreads.com", "127.0.0.1"}, cfg.Goodreads.AllowedHosts)
	assert.Equal(t, 5*time.Second, cfg.Goodreads.FetchTimeout)
	assert.False(t, cfg.Tasks.Enabled)

	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "negative interval",
			mutate:  func(c *Config) { c.Goodreads.SyncIntervalMinutes = -5 },
			wantErr: "SyncIntervalMinutes must be at least 0",
		},
		{
			name:    "malformed feed URL",
			mutate:  func(c *Config) { c.Goodreads.FeedURL = "not a url" },
			wantErr: "FeedURL must be a valid URL",
		},
		{
			name:    "no allowed hosts",
			mutate:  func(c *Config) { c.Goodreads.AllowedHosts = nil },
			wantErr: "AllowedHosts must be at least 1",
		},
		{
			name:    "invalid allowed host",
			mutate:  func(c *Config) { c.Goodreads.AllowedHosts = []string{"not a host"} },
			wantErr: "must be a valid host name",
		},
		{
			name:    "empty database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: "Path is required",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.HTTP.Port = 70000 },
			wantErr: "Port must not exceed 65535",
		},
		{
			name:    "zero fetch timeout",
			mutate:  func(c *Config) { c.Goodreads.FetchTimeout = 0 },
			wantErr: "FetchTimeout must be greater than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a ,b,,"))
	assert.Nil(t, splitList(""))
}
