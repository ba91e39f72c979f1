package cli

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrlokans/shelfgraph/internal/entrypoint"
	"github.com/mrlokans/shelfgraph/internal/goodreads"
	"github.com/mrlokans/shelfgraph/internal/graph"
	"github.com/mrlokans/shelfgraph/internal/importers"
	"github.com/mrlokans/shelfgraph/internal/scheduler"
	"github.com/mrlokans/shelfgraph/internal/settingsstore"
)

// SyncOptions holds flags for the sync command.
type SyncOptions struct {
	FeedURL   string
	DryRun    bool
	NoCleanup bool
}

// SyncOutput is the JSON result of the sync command.
type SyncOutput struct {
	DryRun  bool                   `json:"dry_run"`
	Message string                 `json:"message"`
	Result  importers.SyncResult   `json:"result"`
	Books   []goodreads.BookRecord `json:"books,omitempty"`
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SyncOptions{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one Goodreads sync",
		Long: `Fetch the Goodreads shelf feed and import books that are not yet in the graph.

With --dry-run the feed is decoded and reconciled into an empty in-memory
graph; the database is not opened.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := printer{format: rootOpts.Format, w: cmd.OutOrStdout()}
			if opts.DryRun {
				return runDrySync(cmd, rootOpts, opts, out)
			}
			return runSync(cmd, rootOpts, opts, out)
		},
	}

	cmd.Flags().StringVar(&opts.FeedURL, "feed", "", "feed URL (overrides stored and environment settings)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "decode the feed without writing to the database")
	cmd.Flags().BoolVar(&opts.NoCleanup, "no-cleanup", false, "keep titles exactly as in the feed")

	return cmd
}

// syncOverrides applies command line flags on top of the stored settings.
type syncOverrides struct {
	scheduler.SyncSettings
	feedURL   string
	noCleanup bool
}

func (o syncOverrides) GetGoodreadsSyncConfig() settingsstore.GoodreadsSyncConfig {
	cfg := o.SyncSettings.GetGoodreadsSyncConfig()
	if o.feedURL != "" {
		cfg.FeedURL = o.feedURL
	}
	if o.noCleanup {
		cfg.CleanupTitles = false
	}
	return cfg
}

func runSync(cmd *cobra.Command, rootOpts *RootOptions, opts *SyncOptions, out printer) error {
	app, err := openApp(rootOpts, entrypoint.AppOptions{
		Settings: func(s *settingsstore.SettingsStore) scheduler.SyncSettings {
			return syncOverrides{SyncSettings: s, feedURL: strings.TrimSpace(opts.FeedURL), noCleanup: opts.NoCleanup}
		},
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	result, err := app.Scheduler.RunNow(cmd.Context())
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	return out.print(SyncOutput{Message: result.Message(), Result: result}, func(w io.Writer) {
		fmt.Fprintln(w, result.Message())
		if result.Failed > 0 {
			fmt.Fprintf(w, "%d book(s) could not be created, see the log for details.\n", result.Failed)
		}
	})
}

func runDrySync(cmd *cobra.Command, rootOpts *RootOptions, opts *SyncOptions, out printer) error {
	cfg := rootOpts.Config
	feedURL := strings.TrimSpace(opts.FeedURL)
	if feedURL == "" {
		feedURL = cfg.Goodreads.FeedURL
	}
	if feedURL == "" {
		return scheduler.ErrFeedNotConfigured
	}

	var fetcher scheduler.FeedFetcher = goodreads.NewClient(cfg.Goodreads.FetchTimeout, cfg.Goodreads.AllowedHosts)
	if rootOpts.fetcher != nil {
		fetcher = rootOpts.fetcher
	}

	feed, err := fetcher.Fetch(cmd.Context(), feedURL)
	if err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}

	books := goodreads.ParseBooks(feed, goodreads.ParseOptions{
		CleanupTitle: cfg.Goodreads.CleanupTitles && !opts.NoCleanup,
	})

	result, err := importers.NewReconciler(graph.NewMemoryStore(), nil).Reconcile(cmd.Context(), books)
	if err != nil {
		return err
	}

	return out.print(SyncOutput{DryRun: true, Message: result.Message(), Result: result, Books: books}, func(w io.Writer) {
		for _, book := range books {
			fmt.Fprintf(w, "  %s\n", book)
		}
		fmt.Fprintf(w, "Dry run: %d book(s) decoded, %d would be created in an empty graph.\n", len(books), result.Imported)
	})
}
