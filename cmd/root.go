// Package cmd contains all the commands included in the binary file.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCommand enables all children commands to read flags from CLI flags, environment variables prefixed with PARADIS, or config.yaml (in that order).
func NewRootCommand() *cobra.Command {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("PARADIS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	configPaths := []string{"/etc/paradis", "$HOME/.paradis", "."}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	return &cobra.Command{
		Use:   "paradis",
		Short: "Parallel mutation of disjoint records",
		Long: `Parallel mutation of disjoint records.

paradis splits a collection into halves whose records are provably distinct and mutates them on a
bounded fork-join pool. The bench command drives the engine through reference workloads.`,
		SilenceUsage: true,
	}
}
