package sync

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/shelfgraph/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_sync_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.SyncProgress{})
	require.NoError(t, err)

	repo := NewRepository(db, entities.SyncTypeGoodreads)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_StartSync(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.StartSync(12))

	progress, err := repo.GetSyncProgress()
	require.NoError(t, err)
	assert.Equal(t, entities.SyncTypeGoodreads, progress.SyncType)
	assert.Equal(t, entities.SyncStatusRunning, progress.Status)
	assert.Equal(t, 12, progress.TotalItems)
	assert.Equal(t, 0, progress.Processed)
}

func TestRepository_StartSync_ResetsPreviousRun(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.StartSync(5))
	require.NoError(t, repo.UpdateProgress(3, 2, 0, 1, "Dune"))
	require.NoError(t, repo.CompleteSync(false, "boom"))

	require.NoError(t, repo.StartSync(7))

	progress, err := repo.GetSyncProgress()
	require.NoError(t, err)
	assert.Equal(t, entities.SyncStatusRunning, progress.Status)
	assert.Equal(t, 7, progress.TotalItems)
	assert.Equal(t, 0, progress.Processed)
	assert.Equal(t, 0, progress.Succeeded)
	assert.Equal(t, "", progress.CurrentItem)
	assert.Equal(t, "", progress.Error)
	assert.Nil(t, progress.CompletedAt)

	var count int64
	repo.db.Model(&entities.SyncProgress{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRepository_UpdateProgress(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.StartSync(10))
	require.NoError(t, repo.UpdateProgress(4, 3, 0, 1, "The Hobbit"))

	progress, err := repo.GetSyncProgress()
	require.NoError(t, err)
	assert.Equal(t, 4, progress.Processed)
	assert.Equal(t, 3, progress.Succeeded)
	assert.Equal(t, 0, progress.Failed)
	assert.Equal(t, 1, progress.Skipped)
	assert.Equal(t, "The Hobbit", progress.CurrentItem)
}

func TestRepository_CompleteSync(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo, cleanup := setupTestDB(t)
		defer cleanup()

		require.NoError(t, repo.StartSync(1))
		require.NoError(t, repo.CompleteSync(true, ""))

		progress, err := repo.GetSyncProgress()
		require.NoError(t, err)
		assert.Equal(t, entities.SyncStatusCompleted, progress.Status)
		assert.NotNil(t, progress.CompletedAt)
	})

	t.Run("failure keeps message", func(t *testing.T) {
		repo, cleanup := setupTestDB(t)
		defer cleanup()

		require.NoError(t, repo.StartSync(1))
		require.NoError(t, repo.CompleteSync(false, "feed unavailable"))

		progress, err := repo.GetSyncProgress()
		require.NoError(t, err)
		assert.Equal(t, entities.SyncStatusFailed, progress.Status)
		assert.Equal(t, "feed unavailable", progress.Error)
	})
}

func TestRepository_IsSyncRunning(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	running, err := repo.IsSyncRunning()
	require.NoError(t, err)
	assert.False(t, running)

	require.NoError(t, repo.StartSync(1))
	running, err = repo.IsSyncRunning()
	require.NoError(t, err)
	assert.True(t, running)

	require.NoError(t, repo.CompleteSync(true, ""))
	running, err = repo.IsSyncRunning()
	require.NoError(t, err)
	assert.False(t, running)
}

func TestRepository_IsSyncRunning_StaleSync(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.StartSync(10))

	repo.db.Model(&entities.SyncProgress{}).
		Where("sync_type = ?", entities.SyncTypeGoodreads).
		Update("updated_at", time.Now().Add(-15*time.Minute))

	running, err := repo.IsSyncRunning()
	require.NoError(t, err)
	assert.False(t, running)

	progress, err := repo.GetSyncProgress()
	require.NoError(t, err)
	assert.Equal(t, entities.SyncStatusFailed, progress.Status)
	assert.Equal(t, "sync was interrupted", progress.Error)
}
