package settingsstore

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/mrlokans/shelfgraph/internal/entities"
)

const (
	EnvGoodreadsFeedURL             = "GOODREADS_FEED_URL"
	EnvGoodreadsCleanupTitles       = "GOODREADS_CLEANUP_TITLES"
	EnvGoodreadsSyncIntervalMinutes = "GOODREADS_SYNC_INTERVAL_MINUTES"

	DefaultCleanupTitles       = true
	DefaultSyncIntervalMinutes = 30
)

// ErrInvalidInterval is returned for a negative sync interval.
var ErrInvalidInterval = errors.New("sync interval must be zero or a positive number of minutes")

// GoodreadsSyncConfig is the effective configuration of the Goodreads sync
type GoodreadsSyncConfig struct {
	FeedURL         string `json:"feed_url"`
	CleanupTitles   bool   `json:"cleanup_titles"`
	IntervalMinutes int    `json:"interval_minutes"` // 0 disables periodic sync
}

// GoodreadsSyncConfigInfo includes source information for each field
type GoodreadsSyncConfigInfo struct {
	FeedURL       string `json:"feed_url"`
	FeedURLSource string `json:"feed_url_source"` // "database", "environment", "default"

	CleanupTitles       bool   `json:"cleanup_titles"`
	CleanupTitlesSource string `json:"cleanup_titles_source"`

	IntervalMinutes       int    `json:"interval_minutes"`
	IntervalMinutesSource string `json:"interval_minutes_source"`
}

// GetGoodreadsFeedURL returns the shelf feed URL (database > env > "")
func (s *SettingsStore) GetGoodreadsFeedURL() string {
	v, _, _ := s.resolve(entities.SettingKeyGoodreadsFeedURL, EnvGoodreadsFeedURL, anyValue)
	return strings.TrimSpace(v)
}

func (s *SettingsStore) GetGoodreadsFeedURLSource() string {
	_, source, _ := s.resolve(entities.SettingKeyGoodreadsFeedURL, EnvGoodreadsFeedURL, anyValue)
	return source
}

func (s *SettingsStore) SetGoodreadsFeedURL(feedURL string) error {
	return s.repo.SetSetting(entities.SettingKeyGoodreadsFeedURL, strings.TrimSpace(feedURL))
}

// GetGoodreadsCleanupTitles returns whether titles are shortened (database > env > true)
func (s *SettingsStore) GetGoodreadsCleanupTitles() bool {
	v, _, ok := s.resolve(entities.SettingKeyGoodreadsCleanupTitles, EnvGoodreadsCleanupTitles, isBool)
	if !ok {
		return DefaultCleanupTitles
	}
	b, _ := strconv.ParseBool(v)
	return b
}

func (s *SettingsStore) GetGoodreadsCleanupTitlesSource() string {
	_, source, _ := s.resolve(entities.SettingKeyGoodreadsCleanupTitles, EnvGoodreadsCleanupTitles, isBool)
	return source
}

func (s *SettingsStore) SetGoodreadsCleanupTitles(cleanup bool) error {
	return s.repo.SetSetting(entities.SettingKeyGoodreadsCleanupTitles, strconv.FormatBool(cleanup))
}

// GetGoodreadsSyncIntervalMinutes returns the periodic sync interval (database > env > 30)
func (s *SettingsStore) GetGoodreadsSyncIntervalMinutes() int {
	v, _, ok := s.resolve(entities.SettingKeyGoodreadsSyncIntervalMinutes, EnvGoodreadsSyncIntervalMinutes, isInterval)
	if !ok {
		return DefaultSyncIntervalMinutes
	}
	n, _ := strconv.Atoi(v)
	return n
}

func (s *SettingsStore) GetGoodreadsSyncIntervalMinutesSource() string {
	_, source, _ := s.resolve(entities.SettingKeyGoodreadsSyncIntervalMinutes, EnvGoodreadsSyncIntervalMinutes, isInterval)
	return source
}

func (s *SettingsStore) SetGoodreadsSyncIntervalMinutes(minutes int) error {
	if minutes < 0 {
		return ErrInvalidInterval
	}
	return s.repo.SetSetting(entities.SettingKeyGoodreadsSyncIntervalMinutes, strconv.Itoa(minutes))
}

// GetGoodreadsSyncConfig returns the effective configuration
func (s *SettingsStore) GetGoodreadsSyncConfig() GoodreadsSyncConfig {
	return GoodreadsSyncConfig{
		FeedURL:         s.GetGoodreadsFeedURL(),
		CleanupTitles:   s.GetGoodreadsCleanupTitles(),
		IntervalMinutes: s.GetGoodreadsSyncIntervalMinutes(),
	}
}

// GetGoodreadsSyncConfigInfo returns the configuration with source information
func (s *SettingsStore) GetGoodreadsSyncConfigInfo() GoodreadsSyncConfigInfo {
	return GoodreadsSyncConfigInfo{
		FeedURL:               s.GetGoodreadsFeedURL(),
		FeedURLSource:         s.GetGoodreadsFeedURLSource(),
		CleanupTitles:         s.GetGoodreadsCleanupTitles(),
		CleanupTitlesSource:   s.GetGoodreadsCleanupTitlesSource(),
		IntervalMinutes:       s.GetGoodreadsSyncIntervalMinutes(),
		IntervalMinutesSource: s.GetGoodreadsSyncIntervalMinutesSource(),
	}
}

// ClearGoodreadsSyncSettings removes database overrides, reverting to env/default.
// The last sync timestamp is kept.
func (s *SettingsStore) ClearGoodreadsSyncSettings() error {
	return s.clear(
		entities.SettingKeyGoodreadsFeedURL,
		entities.SettingKeyGoodreadsCleanupTitles,
		entities.SettingKeyGoodreadsSyncIntervalMinutes,
	)
}

// GetGoodreadsLastSyncAt returns when the last completed sync finished, or nil.
func (s *SettingsStore) GetGoodreadsLastSyncAt() *time.Time {
	setting, err := s.repo.GetSetting(entities.SettingKeyGoodreadsSyncLastAt)
	if err != nil || setting.Value == "" {
		return nil
	}
	ts, err := time.Parse(time.RFC3339, setting.Value)
	if err != nil {
		return nil
	}
	return &ts
}

// SetGoodreadsLastSyncAt stores the completion time of a sync as RFC3339 UTC.
func (s *SettingsStore) SetGoodreadsLastSyncAt(at time.Time) error {
	return s.repo.SetSetting(entities.SettingKeyGoodreadsSyncLastAt, at.UTC().Format(time.RFC3339))
}

func isBool(v string) bool {
	_, err := strconv.ParseBool(v)
	return err == nil
}

func isInterval(v string) bool {
	n, err := strconv.Atoi(v)
	return err == nil && n >= 0
}
