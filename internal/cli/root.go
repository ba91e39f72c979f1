package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/mrlokans/shelfgraph/internal/config"
	"github.com/mrlokans/shelfgraph/internal/entrypoint"
	"github.com/mrlokans/shelfgraph/internal/scheduler"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// RootOptions holds global flags and shared dependencies for all commands.
type RootOptions struct {
	Config  *config.Config
	Version string
	Format  string

	// fetcher replaces the Goodreads HTTP client in tests.
	fetcher scheduler.FeedFetcher
}

// NewRootCommand creates the root command. Running it without a subcommand
// starts the HTTP server.
func NewRootCommand(cfg *config.Config, version string) *cobra.Command {
	return newRootCommand(&RootOptions{Config: cfg, Version: version})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "shelfgraph",
		Short:   "Sync a Goodreads shelf into a node graph",
		Version: opts.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(opts.Config, opts.Version)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Config.Database.Path, "db", opts.Config.Database.Path, "path to the sqlite database")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewBooksCommand(opts))

	return cmd
}

// NewServeCommand creates the serve command.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server and the periodic sync",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(opts.Config, opts.Version)
		},
	}
}

func openApp(opts *RootOptions, appOpts entrypoint.AppOptions) (*entrypoint.App, error) {
	appOpts.Quiet = true
	if opts.fetcher != nil {
		appOpts.Fetcher = opts.fetcher
	}
	return entrypoint.NewApp(opts.Config, appOpts)
}
