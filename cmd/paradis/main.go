package main

import (
	"os"

	"github.com/openfga/paradis/cmd"
	"github.com/openfga/paradis/cmd/bench"
)

func main() {
	rootCmd := cmd.NewRootCommand()

	benchCmd := bench.NewBenchCommand()
	rootCmd.AddCommand(benchCmd)

	versionCmd := cmd.NewVersionCommand()
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
