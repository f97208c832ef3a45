package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ukrail/railplanner/model"
)

func newRoutesCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "routes <from> <to>",
		Short: "Calculate several alternative routes between two stations",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			defer svc.Close()

			routes, err := svc.CalculateMultipleRoutes(args[0], args[1], model.Preferences{}, count)
			if err != nil {
				return err
			}
			for i, route := range routes {
				fmt.Fprintf(cmd.OutOrStdout(), "option %d:\n", i+1)
				printRoute(cmd, route)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 3, "maximum number of alternatives to return")
	return cmd
}
