// Command tracectl records demo trajectories and inspects the trace
// archives a recorder produces
package main

import (
	"fmt"
	"os"
)

func main() {
	rootCommand := GetRootCommand()
	if err := rootCommand.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
