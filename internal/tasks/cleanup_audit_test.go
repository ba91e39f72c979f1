package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCleaner struct {
	retention time.Duration
	deleted   int64
	err       error
}

func (c *stubCleaner) DeleteOldEvents(retention time.Duration) (int64, error) {
	c.retention = retention
	return c.deleted, c.err
}

func TestCleanupAuditEventsTask_Retention(t *testing.T) {
	assert.Equal(t, 7*24*time.Hour, CleanupAuditEventsTask{RetentionDays: 7}.Retention())
	assert.Equal(t, 30*24*time.Hour, CleanupAuditEventsTask{}.Retention())
	assert.Equal(t, 30*24*time.Hour, CleanupAuditEventsTask{RetentionDays: -1}.Retention())
}

func TestCleanupAuditEventsTaskConfig(t *testing.T) {
	cfg := CleanupAuditEventsTask{}.Config()

	assert.Equal(t, "cleanup_audit_events", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
}

func TestCleanupAuditEventsProcessor(t *testing.T) {
	t.Run("deletes with task retention", func(t *testing.T) {
		cleaner := &stubCleaner{deleted: 4}

		err := CleanupAuditEventsProcessor(cleaner)(context.Background(), CleanupAuditEventsTask{RetentionDays: 10})
		require.NoError(t, err)
		assert.Equal(t, 10*24*time.Hour, cleaner.retention)
	})

	t.Run("propagates cleaner error", func(t *testing.T) {
		cleaner := &stubCleaner{err: errors.New("database is locked")}

		err := CleanupAuditEventsProcessor(cleaner)(context.Background(), CleanupAuditEventsTask{})
		assert.ErrorContains(t, err, "database is locked")
	})

	t.Run("nil cleaner", func(t *testing.T) {
		err := CleanupAuditEventsProcessor(nil)(context.Background(), CleanupAuditEventsTask{})
		assert.Error(t, err)
	})
}
