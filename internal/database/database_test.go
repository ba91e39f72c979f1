package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/shelfgraph/internal/entities"
)

func TestNewDatabase_MigratesAllTables(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "shelfgraph.db")

	db, err := NewQuietDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	migrator := db.DB.Migrator()
	for _, model := range []any{
		&entities.Node{},
		&entities.NodeTag{},
		&entities.NodePropertyValue{},
		&entities.Setting{},
		&entities.SyncProgress{},
		&entities.AuditEvent{},
	} {
		assert.True(t, migrator.HasTable(model), "missing table for %T", model)
	}

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestNewDatabase_ReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "shelfgraph.db")

	db, err := NewQuietDatabase(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.DB.Create(&entities.Setting{Key: "k", Value: "v"}).Error)
	require.NoError(t, db.Close())

	db, err = NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	var setting entities.Setting
	require.NoError(t, db.DB.Where("key = ?", "k").First(&setting).Error)
	assert.Equal(t, "v", setting.Value)
}
