package main

import "github.com/spf13/cobra"

var (
	tracesDir   string
	catalogPath string
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:   "tracectl",
		Short: "Record and inspect driving trajectory traces",
	}
	rootCommand.PersistentFlags().StringVarP(&tracesDir, "traces", "t",
		"data/traces", "Directory trace archives are written to")
	rootCommand.PersistentFlags().StringVar(&catalogPath, "catalog",
		"", "SQLite trace catalog path (empty disables the catalog)")

	rootCommand.AddCommand(RecordCommand())
	rootCommand.AddCommand(InspectCommand())
	rootCommand.AddCommand(PlotCommand())
	rootCommand.AddCommand(CatalogCommand())
	return rootCommand
}
