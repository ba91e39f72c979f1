package cli

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/mrlokans/shelfgraph/internal/entities"
	"github.com/mrlokans/shelfgraph/internal/entrypoint"
	"github.com/mrlokans/shelfgraph/internal/settingsstore"
)

// StatusOutput is the JSON result of the status command.
type StatusOutput struct {
	Config     settingsstore.GoodreadsSyncConfigInfo `json:"config"`
	LastSyncAt *time.Time                            `json:"last_sync_at,omitempty"`
	LastRun    *entities.SyncProgress                `json:"last_run,omitempty"`
	Books      int                                   `json:"books"`
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the effective sync settings and the last run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, rootOpts)
		},
	}
}

func runStatus(cmd *cobra.Command, rootOpts *RootOptions) error {
	app, err := openApp(rootOpts, entrypoint.AppOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	status := StatusOutput{
		Config:     app.Settings.GetGoodreadsSyncConfigInfo(),
		LastSyncAt: app.Settings.GetGoodreadsLastSyncAt(),
	}

	progress, err := app.Progress.GetSyncProgress()
	switch {
	case err == nil:
		status.LastRun = progress
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("failed to load sync progress: %w", err)
	}

	books, err := app.Catalog.Books(cmd.Context())
	if err != nil {
		return err
	}
	status.Books = len(books)

	out := printer{format: rootOpts.Format, w: cmd.OutOrStdout()}
	return out.print(status, func(w io.Writer) {
		feedURL := status.Config.FeedURL
		if feedURL == "" {
			feedURL = "(not configured)"
		}
		fmt.Fprintf(w, "Feed URL:       %s [%s]\n", feedURL, status.Config.FeedURLSource)
		fmt.Fprintf(w, "Clean titles:   %t [%s]\n", status.Config.CleanupTitles, status.Config.CleanupTitlesSource)
		fmt.Fprintf(w, "Interval:       %d min [%s]\n", status.Config.IntervalMinutes, status.Config.IntervalMinutesSource)

		if status.LastSyncAt != nil {
			fmt.Fprintf(w, "Last sync:      %s\n", status.LastSyncAt.Format(time.RFC3339))
		} else {
			fmt.Fprintln(w, "Last sync:      never")
		}
		if status.LastRun != nil {
			fmt.Fprintf(w, "Last run:       %s, %d/%d processed, %d created, %d existing, %d failed\n",
				status.LastRun.Status, status.LastRun.Processed, status.LastRun.TotalItems,
				status.LastRun.Succeeded, status.LastRun.Skipped, status.LastRun.Failed)
			if status.LastRun.Error != "" {
				fmt.Fprintf(w, "Last error:     %s\n", status.LastRun.Error)
			}
		}
		fmt.Fprintf(w, "Books:          %d\n", status.Books)
	})
}
