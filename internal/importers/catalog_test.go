package importers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/shelfgraph/internal/goodreads"
	"github.com/mrlokans/shelfgraph/internal/graph"
)

func TestCatalog_Books_EmptyGraph(t *testing.T) {
	books, err := NewCatalog(graph.NewMemoryStore()).Books(context.Background())
	require.NoError(t, err)
	assert.Empty(t, books)
	assert.NotNil(t, books)
}

func TestCatalog_Books_AfterReconcile(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()

	_, err := NewReconciler(store, nil).Reconcile(ctx, []goodreads.BookRecord{
		{Title: "The Hobbit", Author: "J.R.R. Tolkien"},
		{Title: "The Silmarillion", Author: "J.R.R. Tolkien"},
		{Title: "Anonymous Diary"},
	})
	require.NoError(t, err)

	books, err := NewCatalog(store).Books(ctx)
	require.NoError(t, err)
	require.Len(t, books, 3)

	assert.Equal(t, "The Hobbit", books[0].Title)
	assert.Equal(t, []string{"J.R.R. Tolkien"}, books[0].Authors)
	assert.Equal(t, "The Silmarillion", books[1].Title)
	assert.Equal(t, []string{"J.R.R. Tolkien"}, books[1].Authors)
	assert.Equal(t, "Anonymous Diary", books[2].Title)
	assert.Empty(t, books[2].Authors)
}

func TestCatalog_Books_IgnoresUntaggedChildren(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()

	r := NewReconciler(store, nil)
	tax, err := r.Bootstrap(ctx)
	require.NoError(t, err)

	note, err := store.CreateNode(ctx)
	require.NoError(t, err)
	require.NoError(t, store.SetText(ctx, note.ID, "Reading goals"))
	require.NoError(t, store.SetParent(ctx, note.ID, tax.Container))

	books, err := NewCatalog(store).Books(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)
}
