package main

import (
	"github.com/spf13/cobra"

	"github.com/samuelfneumann/gotrace/tracker"
)

func PlotCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plot <returns-file> <png>",
		Short: "Plot saved episodic returns as a PNG",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			returns := tracker.LoadData(args[0])
			return tracker.PlotReturns(returns, args[1])
		},
	}
}
