package settings

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/shelfgraph/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_settings_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Setting{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_SetSetting_New(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.SetSetting(entities.SettingKeyGoodreadsFeedURL, "https://www.goodreads.com/review/list_rss/1")
	require.NoError(t, err)

	setting, err := repo.GetSetting(entities.SettingKeyGoodreadsFeedURL)
	require.NoError(t, err)
	assert.Equal(t, entities.SettingKeyGoodreadsFeedURL, setting.Key)
	assert.Equal(t, "https://www.goodreads.com/review/list_rss/1", setting.Value)
}

func TestRepository_SetSetting_Update(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.SetSetting(entities.SettingKeyGoodreadsSyncIntervalMinutes, "30"))
	require.NoError(t, repo.SetSetting(entities.SettingKeyGoodreadsSyncIntervalMinutes, "60"))

	setting, err := repo.GetSetting(entities.SettingKeyGoodreadsSyncIntervalMinutes)
	require.NoError(t, err)
	assert.Equal(t, "60", setting.Value)

	all, err := repo.ListSettings()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRepository_GetSetting_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetSetting("nonexistent")

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_DeleteSetting(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.SetSetting("to-delete", "value"))
	require.NoError(t, repo.DeleteSetting("to-delete"))

	_, err := repo.GetSetting("to-delete")
	assert.Error(t, err)

	// Deleting a missing key is not an error
	assert.NoError(t, repo.DeleteSetting("to-delete"))
}

func TestRepository_ListSettings_OrderedByKey(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.SetSetting("b", "2"))
	require.NoError(t, repo.SetSetting("a", "1"))

	all, err := repo.ListSettings()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].Key)
	assert.Equal(t, "b", all[1].Key)
}
