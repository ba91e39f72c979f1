package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createNamed(t *testing.T, s *MemoryStore, name string, parent NodeID) *Node {
	t.Helper()
	ctx := context.Background()
	n, err := s.CreateNode(ctx)
	require.NoError(t, err)
	require.NoError(t, s.SetText(ctx, n.ID, name))
	require.NoError(t, s.SetParent(ctx, n.ID, parent))
	return n
}

func TestMemoryStore_FindByName_ScopedToParent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	container := createNamed(t, s, "Goodreads Import", Root)
	child := createNamed(t, s, "Dune", container.ID)
	createNamed(t, s, "Dune", Root)

	found, err := s.FindByName(ctx, "Dune", container.ID)
	require.NoError(t, err)
	assert.Equal(t, child.ID, found.ID)

	found, err = s.FindByName(ctx, "Goodreads Import", Root)
	require.NoError(t, err)
	assert.Equal(t, container.ID, found.ID)

	_, err = s.FindByName(ctx, "Goodreads Import", container.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_FindByName_EarliestWins(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first := createNamed(t, s, "Dune", Root)
	createNamed(t, s, "Dune", Root)

	found, err := s.FindByName(ctx, "Dune", Root)
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}

func TestMemoryStore_NewNodeIsRootLevelAndUnnamed(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	n, err := s.CreateNode(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, Root, n.ParentID)
	assert.Empty(t, n.Text)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_TagsAndFlags(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	tag := createNamed(t, s, "Book", Root)
	book := createNamed(t, s, "Dune", Root)

	require.NoError(t, s.SetIsDocument(ctx, book.ID, true))
	require.NoError(t, s.AddTag(ctx, book.ID, tag.ID))
	require.NoError(t, s.AddTag(ctx, book.ID, tag.ID))

	got, err := s.GetNode(ctx, book.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDocument)
	assert.False(t, got.IsProperty)
	assert.Equal(t, []NodeID{tag.ID}, got.Tags)
	assert.True(t, got.HasTag(tag.ID))

	err = s.AddTag(ctx, book.ID, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_PropertyValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	prop := createNamed(t, s, "Author(s)", Root)
	author := createNamed(t, s, "Frank Herbert", Root)
	book := createNamed(t, s, "Dune", Root)

	empty, err := s.PropertyValue(ctx, book.ID, prop.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)

	ref, err := s.ReferenceTo(ctx, author.ID)
	require.NoError(t, err)
	require.NoError(t, s.SetPropertyValue(ctx, book.ID, prop.ID, []Reference{ref}))

	value, err := s.PropertyValue(ctx, book.ID, prop.ID)
	require.NoError(t, err)
	assert.Equal(t, []Reference{{NodeID: author.ID}}, value)

	_, err = s.ReferenceTo(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ChildrenInCreationOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	parent := createNamed(t, s, "Goodreads Import", Root)
	a := createNamed(t, s, "The Hobbit", parent.ID)
	b := createNamed(t, s, "Dune", parent.ID)
	createNamed(t, s, "Elsewhere", Root)

	children, err := s.Children(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, a.ID, children[0].ID)
	assert.Equal(t, b.ID, children[1].ID)
}

func TestMemoryStore_SetParentRejectsUnknownParent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	n, err := s.CreateNode(ctx)
	require.NoError(t, err)

	err = s.SetParent(ctx, n.ID, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
