package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/samuelfneumann/gotrace/trace"
)

func InspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <archive>",
		Short: "List the arrays inside a trace archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arrays, err := trace.ReadTrace(args[0])
			if err != nil {
				return err
			}

			names := make([]string, 0, len(arrays))
			for name := range arrays {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				dense := arrays[name]
				fmt.Printf("%-12v %v %v\n", name, dense.Dtype(),
					dense.Shape())
			}
			return nil
		},
	}
}
