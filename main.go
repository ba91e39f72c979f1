package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/shelfgraph/internal/cli"
	"github.com/mrlokans/shelfgraph/internal/config"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	cfg := config.NewConfig()
	cmd := cli.NewRootCommand(cfg, fmt.Sprintf("%s (%s)", Version, Commit))
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
