// Command railplanner is the CLI front end over the routeservice package:
// load a dataset once, then answer route, routes, search and stats
// queries against it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ukrail/railplanner/config"
	"github.com/ukrail/railplanner/internal/obs"
	"github.com/ukrail/railplanner/repository"
	"github.com/ukrail/railplanner/routeservice"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	flagConfigPath  string
	flagDatasetRoot string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "railplanner",
		Short: "Plan multi-modal UK rail journeys from a static dataset",
	}
	root.PersistentFlags().StringVar(&flagConfigPath, "config", "", "path to a config file")
	root.PersistentFlags().StringVar(&flagDatasetRoot, "dataset", "", "dataset root directory (overrides config)")

	root.AddCommand(newRouteCmd(), newRoutesCmd(), newSearchCmd(), newStatsCmd())
	return root
}

// newService loads config, builds the repository and route service, ready
// for a single command invocation.
func newService() (*routeservice.Service, error) {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagDatasetRoot != "" {
		cfg.DatasetRoot = flagDatasetRoot
	}

	log, err := obs.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	repo := repository.New(log)
	if err := repo.Load(cfg.DatasetRoot); err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}

	return routeservice.New(log, repo)
}
