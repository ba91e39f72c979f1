// Package importers writes Goodreads shelf records into the node graph.
//
// # Flow
//
//	goodreads.Client.Fetch → goodreads.ParseBooks → Reconciler.Reconcile → graph.Store
//
// A run first bootstraps the taxonomy:
//
//	Goodreads Import        (root, document)
//	├── Book                (tag)
//	│   └── Author(s)       (property)
//	└── Author              (tag)
//
// then upserts one book node per record under "Goodreads Import". Lookups
// are by exact title within the container, so a title that already has a
// node is skipped and that node is never modified. Authors are found or
// created next to the books and referenced from the book's Author(s)
// property.
//
// # Example Usage
//
//	r := importers.NewReconciler(nodes.NewRepository(db.DB), progressRepo)
//	result, err := r.Reconcile(ctx, books)
//	log.Print(result.Message())
package importers
