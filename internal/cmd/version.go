package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apptemplate/apptemplate/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show apptemplate version information.

Displays:
  - apptemplate version, commit, and build date
  - CUE SDK version (embedded in CLI)
  - Versions of the external tools the built-in recipes run`,
		Args: cobra.NoArgs,
		RunE: runVersion,
	}
}

func runVersion(cmd *cobra.Command, _ []string) error {
	info := version.Get()
	tools := version.DetectTools(version.DefaultTools)

	fmt.Fprintln(cmd.OutOrStdout(), version.FullVersionString(info, tools))
	return nil
}
