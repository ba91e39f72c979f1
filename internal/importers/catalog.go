package importers

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrlokans/shelfgraph/internal/graph"
)

// CatalogReader is the read side of graph.Store used to list imported books.
type CatalogReader interface {
	graph.Finder
	PropertyValue(ctx context.Context, id, propertyID graph.NodeID) ([]graph.Reference, error)
	GetNode(ctx context.Context, id graph.NodeID) (*graph.Node, error)
	Children(ctx context.Context, parentID graph.NodeID) ([]graph.Node, error)
}

// CatalogBook is one imported book as found in the graph.
type CatalogBook struct {
	ID      graph.NodeID `json:"id"`
	Title   string       `json:"title"`
	Authors []string     `json:"authors"`
}

// Catalog lists the books held under the import container.
type Catalog struct {
	store CatalogReader
}

func NewCatalog(store CatalogReader) *Catalog {
	return &Catalog{store: store}
}

// Books returns the book nodes under the container in creation order.
// A graph that was never synced has no books.
func (c *Catalog) Books(ctx context.Context) ([]CatalogBook, error) {
	container, err := c.store.FindByName(ctx, ContainerName, graph.Root)
	if errors.Is(err, graph.ErrNotFound) {
		return []CatalogBook{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find %q: %w", ContainerName, err)
	}

	bookTag, err := c.store.FindByName(ctx, BookTagName, container.ID)
	if errors.Is(err, graph.ErrNotFound) {
		return []CatalogBook{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find tag %q: %w", BookTagName, err)
	}

	var authorsProperty graph.NodeID
	if prop, err := c.store.FindByName(ctx, AuthorsPropertyName, bookTag.ID); err == nil {
		authorsProperty = prop.ID
	} else if !errors.Is(err, graph.ErrNotFound) {
		return nil, fmt.Errorf("failed to find property %q: %w", AuthorsPropertyName, err)
	}

	children, err := c.store.Children(ctx, container.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %q: %w", ContainerName, err)
	}

	books := []CatalogBook{}
	for _, node := range children {
		if !node.HasTag(bookTag.ID) {
			continue
		}

		book := CatalogBook{ID: node.ID, Title: node.Text, Authors: []string{}}
		if authorsProperty != "" {
			authors, err := c.authorNames(ctx, node.ID, authorsProperty)
			if err != nil {
				return nil, err
			}
			book.Authors = authors
		}
		books = append(books, book)
	}

	return books, nil
}

func (c *Catalog) authorNames(ctx context.Context, bookID, propertyID graph.NodeID) ([]string, error) {
	refs, err := c.store.PropertyValue(ctx, bookID, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to read authors of %s: %w", bookID, err)
	}

	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		author, err := c.store.GetNode(ctx, ref.NodeID)
		if errors.Is(err, graph.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read author %s: %w", ref.NodeID, err)
		}
		names = append(names, author.Text)
	}
	return names, nil
}
