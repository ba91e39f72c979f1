package entrypoint

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/shelfgraph/internal/config"
	"github.com/mrlokans/shelfgraph/internal/scheduler"
	"github.com/mrlokans/shelfgraph/internal/settingsstore"
)

const testFeedURL = "https://www.goodreads.com/review/list_rss/1?shelf=read"

type fixtureFetcher struct {
	calls int
}

func (f *fixtureFetcher) Fetch(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	f.calls++
	file, err := os.Open(filepath.Join("..", "goodreads", "testdata", "feed.xml"))
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return gofeed.NewParser().Parse(file)
}

type feedOverride struct {
	scheduler.SyncSettings
}

func (o feedOverride) GetGoodreadsSyncConfig() settingsstore.GoodreadsSyncConfig {
	cfg := o.SyncSettings.GetGoodreadsSyncConfig()
	cfg.FeedURL = testFeedURL
	return cfg
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("GOODREADS_FEED_URL", "")
	cfg := config.NewConfig()
	cfg.Database.Path = filepath.Join(t.TempDir(), "shelfgraph.db")
	return cfg
}

func TestNewApp_SyncsIntoDatabase(t *testing.T) {
	cfg := testConfig(t)
	fetcher := &fixtureFetcher{}

	app, err := NewApp(cfg, AppOptions{
		Quiet:   true,
		Fetcher: fetcher,
		Settings: func(s *settingsstore.SettingsStore) scheduler.SyncSettings {
			return feedOverride{s}
		},
	})
	require.NoError(t, err)
	defer app.Close()

	result, err := app.Scheduler.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, 1, fetcher.calls)

	books, err := app.Catalog.Books(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, "Dune", books[1].Title)
	assert.Equal(t, []string{"Frank Herbert"}, books[1].Authors)

	assert.NotNil(t, app.Settings.GetGoodreadsLastSyncAt())

	progress, err := app.Progress.GetSyncProgress()
	require.NoError(t, err)
	assert.Equal(t, 3, progress.TotalItems)

	again, err := app.Scheduler.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, again.Imported)
	assert.Equal(t, 3, again.Existing)
}

func TestNewApp_WithoutFeedURL(t *testing.T) {
	app, err := NewApp(testConfig(t), AppOptions{Quiet: true, Fetcher: &fixtureFetcher{}})
	require.NoError(t, err)
	defer app.Close()

	_, err = app.Scheduler.RunNow(context.Background())
	assert.ErrorIs(t, err, scheduler.ErrFeedNotConfigured)
	assert.Nil(t, app.Settings.GetGoodreadsLastSyncAt())
}

func TestNewApp_ArchivesWhenAuditDirSet(t *testing.T) {
	cfg := testConfig(t)
	cfg.Audit.Dir = filepath.Join(t.TempDir(), "archive")

	app, err := NewApp(cfg, AppOptions{
		Quiet:   true,
		Fetcher: &fixtureFetcher{},
		Settings: func(s *settingsstore.SettingsStore) scheduler.SyncSettings {
			return feedOverride{s}
		},
	})
	require.NoError(t, err)
	defer app.Close()

	_, err = app.Scheduler.RunNow(context.Background())
	require.NoError(t, err)

	entries, err := os.ReadDir(cfg.Audit.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestNewApp_BadDatabasePath(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Path = filepath.Join(t.TempDir(), "missing", "dir", "shelfgraph.db")

	_, err := NewApp(cfg, AppOptions{Quiet: true})
	assert.Error(t, err)
}
