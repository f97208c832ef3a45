package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ukrail/railplanner/config"
	"github.com/ukrail/railplanner/internal/obs"
	"github.com/ukrail/railplanner/repository"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print summary statistics for the loaded dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfigPath)
			if err != nil {
				return err
			}
			if flagDatasetRoot != "" {
				cfg.DatasetRoot = flagDatasetRoot
			}
			log, err := obs.NewLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			repo := repository.New(log)
			if err := repo.Load(cfg.DatasetRoot); err != nil {
				return err
			}

			stats := repo.NetworkStats()
			fmt.Fprintf(cmd.OutOrStdout(), "stations: %d\ninterchanges: %d\nlines: %d\nconnections: %d\n",
				stats.StationCount, stats.InterchangeCount, stats.LineCount, stats.ConnectionCount)
			return nil
		},
	}
}
