package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ukrail/railplanner/config"
	"github.com/ukrail/railplanner/internal/obs"
	"github.com/ukrail/railplanner/repository"
)

func newSearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search for stations by name",
		Args:  cobra.ExactArgs(1),
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

			for _, m := range repo.Search(args[0], limit) {
				fmt.Fprintln(cmd.OutOrStdout(), m.Name)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of matches")
	return cmd
}
