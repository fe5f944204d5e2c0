package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samuelfneumann/gotrace/catalog"
)

func CatalogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the trace archives recorded in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if catalogPath == "" {
				return fmt.Errorf("catalog: no --catalog path given")
			}

			store := catalog.NewSQLiteStore(catalogPath)
			ctx := context.Background()
			if err := store.Init(ctx); err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(ctx)
			if err != nil {
				return err
			}

			for _, record := range records {
				fmt.Printf("%v  %v  episodes=%d steps=%d "+
					"mean_reward=%.3f\n",
					record.CreatedAt.Format("2006-01-02 15:04:05"),
					record.Filename, record.Episodes, record.Steps,
					record.MeanReward)
			}
			return nil
		},
	}
}
