package entities

import (
	"time"
)

type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Known setting keys
const (
	// Goodreads sync settings
	SettingKeyGoodreadsFeedURL             = "goodreads_feed_url"
	SettingKeyGoodreadsCleanupTitles       = "goodreads_cleanup_titles"
	SettingKeyGoodreadsSyncIntervalMinutes = "goodreads_sync_interval_minutes"
	SettingKeyGoodreadsSyncLastAt          = "goodreads_sync_last_at"
)
