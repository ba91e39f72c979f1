package importers

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/mrlokans/shelfgraph/internal/goodreads"
	"github.com/mrlokans/shelfgraph/internal/graph"
)

// Names of the taxonomy nodes books and authors are organized under.
const (
	ContainerName       = "Goodreads Import"
	BookTagName         = "Book"
	AuthorTagName       = "Author"
	AuthorsPropertyName = "Author(s)"
)

// SyncResult summarizes one reconciliation. Existing is Total minus Imported,
// so records whose node could not be created are counted there as well and
// additionally reported in Failed.
type SyncResult struct {
	Imported int `json:"imported"`
	Existing int `json:"existing"`
	Total    int `json:"total"`
	Failed   int `json:"failed"`
}

// Message is the user facing summary of a successful run.
func (r SyncResult) Message() string {
	return fmt.Sprintf("Imported %d new book(s) (%d already existed).", r.Imported, r.Existing)
}

// ProgressReporter receives progress of a reconciliation run.
// Implemented by database/sync.Repository.
type ProgressReporter interface {
	StartSync(totalItems int) error
	UpdateProgress(processed, succeeded, failed, skipped int, currentItem string) error
	CompleteSync(succeeded bool, errorMsg string) error
}

// Taxonomy holds the nodes every book and author hangs off.
type Taxonomy struct {
	Container       graph.NodeID
	BookTag         graph.NodeID
	AuthorTag       graph.NodeID
	AuthorsProperty graph.NodeID
}

// Reconciler upserts book records into a node graph. Reconcile is not safe
// to run concurrently against the same store; callers serialize runs.
type Reconciler struct {
	store    graph.Store
	progress ProgressReporter
}

// NewReconciler creates a reconciler writing into store. progress may be nil.
func NewReconciler(store graph.Store, progress ProgressReporter) *Reconciler {
	return &Reconciler{store: store, progress: progress}
}

// Reconcile makes sure every record has a book node under the container.
// Records whose title already has a node are left untouched. Only a failure
// to set up the taxonomy is returned as an error; per-record failures are
// logged and skipped.
func (r *Reconciler) Reconcile(ctx context.Context, books []goodreads.BookRecord) (SyncResult, error) {
	r.reportStart(len(books))

	tax, err := r.Bootstrap(ctx)
	if err != nil {
		r.reportComplete(false, err.Error())
		return SyncResult{}, err
	}

	result := SyncResult{Total: len(books)}
	skipped := 0
	for i, book := range books {
		switch r.upsertBook(ctx, tax, book) {
		case outcomeCreated:
			result.Imported++
		case outcomeExisting:
			skipped++
		case outcomeFailed:
			result.Failed++
		}
		r.reportProgress(i+1, result.Imported, result.Failed, skipped, book.Title)
	}
	result.Existing = result.Total - result.Imported

	log.Printf("Goodreads sync: %d imported, %d existing, %d failed, %d total",
		result.Imported, result.Existing, result.Failed, result.Total)
	r.reportComplete(true, "")

	return result, nil
}

// Bootstrap finds or creates the container, the Book and Author tags and the
// Author(s) property, in that order.
func (r *Reconciler) Bootstrap(ctx context.Context) (Taxonomy, error) {
	container, err := r.findOrCreate(ctx, ContainerName, graph.Root, func(id graph.NodeID) error {
		return r.store.SetIsDocument(ctx, id, true)
	})
	if err != nil {
		return Taxonomy{}, fmt.Errorf("failed to set up %q: %w", ContainerName, err)
	}

	bookTag, err := r.findOrCreate(ctx, BookTagName, container, nil)
	if err != nil {
		return Taxonomy{}, fmt.Errorf("failed to set up tag %q: %w", BookTagName, err)
	}

	authorTag, err := r.findOrCreate(ctx, AuthorTagName, container, nil)
	if err != nil {
		return Taxonomy{}, fmt.Errorf("failed to set up tag %q: %w", AuthorTagName, err)
	}

	authorsProperty, err := r.findOrCreate(ctx, AuthorsPropertyName, bookTag, func(id graph.NodeID) error {
		return r.store.SetIsProperty(ctx, id, true)
	})
	if err != nil {
		return Taxonomy{}, fmt.Errorf("failed to set up property %q: %w", AuthorsPropertyName, err)
	}

	return Taxonomy{
		Container:       container,
		BookTag:         bookTag,
		AuthorTag:       authorTag,
		AuthorsProperty: authorsProperty,
	}, nil
}

type upsertOutcome int

const (
	outcomeCreated upsertOutcome = iota
	outcomeExisting
	outcomeFailed
)

func (r *Reconciler) upsertBook(ctx context.Context, tax Taxonomy, book goodreads.BookRecord) upsertOutcome {
	existing, err := r.store.FindByName(ctx, book.Title, tax.Container)
	if err == nil {
		log.Printf("Goodreads sync: node for %q exists (%s), skipping", book.Title, existing.ID)
		return outcomeExisting
	}
	if !errors.Is(err, graph.ErrNotFound) {
		log.Printf("Goodreads sync: failed to look up %q: %v", book.Title, err)
		return outcomeFailed
	}

	bookID, err := r.create(ctx, book.Title, tax.Container, func(id graph.NodeID) error {
		if err := r.store.SetIsDocument(ctx, id, true); err != nil {
			return err
		}
		return r.store.AddTag(ctx, id, tax.BookTag)
	})
	if err != nil {
		log.Printf("Goodreads sync: failed to create node for %q: %v", book.Title, err)
		return outcomeFailed
	}
	log.Printf("Goodreads sync: created node for %q (%s)", book.Title, bookID)

	if book.Author != "" {
		if err := r.linkAuthor(ctx, tax, bookID, book.Author); err != nil {
			log.Printf("Goodreads sync: failed to link author %q to %q: %v", book.Author, book.Title, err)
		} else {
			log.Printf("Goodreads sync: author %q linked to %q", book.Author, book.Title)
		}
	}

	return outcomeCreated
}

func (r *Reconciler) linkAuthor(ctx context.Context, tax Taxonomy, bookID graph.NodeID, author string) error {
	authorID, err := r.findOrCreate(ctx, author, tax.Container, func(id graph.NodeID) error {
		if err := r.store.SetIsDocument(ctx, id, true); err != nil {
			return err
		}
		return r.store.AddTag(ctx, id, tax.AuthorTag)
	})
	if err != nil {
		return err
	}

	ref, err := r.store.ReferenceTo(ctx, authorID)
	if err != nil {
		return err
	}
	return r.store.SetPropertyValue(ctx, bookID, tax.AuthorsProperty, []graph.Reference{ref})
}

// findOrCreate returns the node named name under parent, creating it when
// missing. setup runs only for freshly created nodes.
func (r *Reconciler) findOrCreate(ctx context.Context, name string, parent graph.NodeID, setup func(graph.NodeID) error) (graph.NodeID, error) {
	node, err := r.store.FindByName(ctx, name, parent)
	if err == nil {
		log.Printf("Goodreads sync: %q found (%s)", name, node.ID)
		return node.ID, nil
	}
	if !errors.Is(err, graph.ErrNotFound) {
		return "", err
	}

	id, err := r.create(ctx, name, parent, setup)
	if err != nil {
		return "", err
	}
	log.Printf("Goodreads sync: %q created (%s)", name, id)
	return id, nil
}

// create builds a node and attaches it to parent only once its role and tags
// are in place. A node left behind by a failed step is renamed to the empty
// string so no scoped lookup matches it.
func (r *Reconciler) create(ctx context.Context, name string, parent graph.NodeID, setup func(graph.NodeID) error) (graph.NodeID, error) {
	node, err := r.store.CreateNode(ctx)
	if err != nil {
		return "", err
	}
	if err := r.store.SetText(ctx, node.ID, name); err != nil {
		return "", err
	}
	if setup != nil {
		if err := setup(node.ID); err != nil {
			r.discard(ctx, node.ID, name)
			return "", err
		}
	}
	if parent != graph.Root {
		if err := r.store.SetParent(ctx, node.ID, parent); err != nil {
			r.discard(ctx, node.ID, name)
			return "", err
		}
	}
	return node.ID, nil
}

func (r *Reconciler) discard(ctx context.Context, id graph.NodeID, name string) {
	if err := r.store.SetText(ctx, id, ""); err != nil {
		log.Printf("Goodreads sync: failed to discard partial node %s for %q: %v", id, name, err)
	}
}

func (r *Reconciler) reportStart(total int) {
	if r.progress == nil {
		return
	}
	if err := r.progress.StartSync(total); err != nil {
		log.Printf("Goodreads sync: failed to record progress: %v", err)
	}
}

func (r *Reconciler) reportProgress(processed, imported, failed, skipped int, current string) {
	if r.progress == nil {
		return
	}
	if err := r.progress.UpdateProgress(processed, imported, failed, skipped, current); err != nil {
		log.Printf("Goodreads sync: failed to record progress: %v", err)
	}
}

func (r *Reconciler) reportComplete(succeeded bool, msg string) {
	if r.progress == nil {
		return
	}
	if err := r.progress.CompleteSync(succeeded, msg); err != nil {
		log.Printf("Goodreads sync: failed to record progress: %v", err)
	}
}
