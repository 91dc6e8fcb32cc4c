package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openfga/paradis/internal/build"
)

// NewVersionCommand returns the command to get the paradis version.
func NewVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Return the paradis version",
		Long:  "Return the paradis version.",
		RunE:  version,
		Args:  cobra.NoArgs,
	}

	return cmd
}

// print out the built version
func version(cmd *cobra.Command, _ []string) error {
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "paradis version %s date %s commit %s\n", build.Version, build.Date, build.Commit)
	return err
}
