package goodreads

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/mmcdole/gofeed"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixtureFeed(t *testing.T) *gofeed.Feed {
	t.Helper()

	f, err := os.Open("testdata/feed.xml")
	require.NoError(t, err)
	defer f.Close()

	feed, err := gofeed.NewParser().Parse(f)
	require.NoError(t, err)
	return feed
}

func TestParseBooks_Golden(t *testing.T) {
	books := ParseBooks(loadFixtureFeed(t), ParseOptions{CleanupTitle: true})

	out, err := json.MarshalIndent(books, "", "  ")
	require.NoError(t, err)

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "feed", append(out, '\n'))
}

func TestParseBooks_DropsTitlelessEntries(t *testing.T) {
	feed := loadFixtureFeed(t)
	require.Len(t, feed.Items, 4)

	books := ParseBooks(feed, ParseOptions{})
	require.Len(t, books, 3)

	assert.Equal(t, "The Hobbit, or There and Back Again", books[0].Title)
	assert.Equal(t, "Dune: A Novel (Dune, #1)", books[1].Title)
	assert.Equal(t, "Foundation 2nd Edition", books[2].Title)
}

func TestParseBooks_EmptyFeed(t *testing.T) {
	assert.Empty(t, ParseBooks(&gofeed.Feed{}, ParseOptions{}))
	assert.Nil(t, ParseBooks(nil, ParseOptions{}))
}
