package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ukrail/railplanner/model"
	"github.com/ukrail/railplanner/pathfind"
)

func newRouteCmd() *cobra.Command {
	var (
		avoidWalking bool
		preferDirect bool
		avoidLondon  bool
		weightMode   string
		maxChanges   int
	)

	cmd := &cobra.Command{
		Use:   "route <from> <to>",
		Short: "Calculate a single route between two stations",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			defer svc.Close()

			mode, err := parseWeightMode(weightMode)
			if err != nil {
				return err
			}

			route, err := svc.CalculateRoute(args[0], args[1], maxChanges, model.Preferences{
				AvoidWalking: avoidWalking,
				PreferDirect: preferDirect,
				AvoidLondon:  avoidLondon,
			}, mode)
			if err != nil {
				return err
			}

			printRoute(cmd, route)
			return nil
		},
	}

	cmd.Flags().BoolVar(&avoidWalking, "avoid-walking", false, "exclude walking transfers")
	cmd.Flags().BoolVar(&preferDirect, "prefer-direct", false, "favour direct services")
	cmd.Flags().BoolVar(&avoidLondon, "avoid-london", false, "avoid non-terminal London stations")
	cmd.Flags().StringVar(&weightMode, "weight", "time", "weighting: time, distance, or changes")
	cmd.Flags().IntVar(&maxChanges, "max-changes", 0, "reject routes with more than this many changes (0 = unlimited)")

	return cmd
}

func parseWeightMode(s string) (pathfind.WeightMode, error) {
	switch s {
	case "", "time":
		return pathfind.WeightTime, nil
	case "distance":
		return pathfind.WeightDistance, nil
	case "changes":
		return pathfind.WeightChanges, nil
	default:
		return 0, fmt.Errorf("unknown weight mode %q", s)
	}
}

func printRoute(cmd *cobra.Command, route model.Route) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s)\n", route.FromStation, route.ToStation, route.Type)
	for _, seg := range route.Segments {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s -> %s via %s\n", seg.FromStation, seg.ToStation, seg.LineName)
	}
	if route.HasMinutes {
		fmt.Fprintf(cmd.OutOrStdout(), "total: %d min, %d change(s)\n", route.TotalMinutes, route.ChangesRequired())
	}
}
