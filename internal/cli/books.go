package cli

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrlokans/shelfgraph/internal/entrypoint"
	"github.com/mrlokans/shelfgraph/internal/importers"
)

// NewBooksCommand creates the books command.
func NewBooksCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "books",
		Short: "List the books imported into the graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(rootOpts, entrypoint.AppOptions{})
			if err != nil {
				return err
			}
			defer func() {
				if err := app.Close(); err != nil {
					log.Printf("Error closing database: %v", err)
				}
			}()

			books, err := app.Catalog.Books(cmd.Context())
			if err != nil {
				return err
			}

			out := printer{format: rootOpts.Format, w: cmd.OutOrStdout()}
			return out.print(books, func(w io.Writer) {
				printBooks(w, books)
			})
		},
	}
}

func printBooks(w io.Writer, books []importers.CatalogBook) {
	if len(books) == 0 {
		fmt.Fprintln(w, "No books imported yet.")
		return
	}
	for _, book := range books {
		if len(book.Authors) == 0 {
			fmt.Fprintf(w, "%s\n", book.Title)
			continue
		}
		fmt.Fprintf(w, "%s by %s\n", book.Title, strings.Join(book.Authors, ", "))
	}
	fmt.Fprintf(w, "\n%d book(s)\n", len(books))
}
