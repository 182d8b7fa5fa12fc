package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wexinc/workmarks/internal/version"
)

func newVersionCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show detailed version information for workmarks.

Displays the current version, commit hash, build date,
and Go/platform information.

Examples:
  workmarks version          # Show detailed version info
  workmarks version --json   # Machine-readable output`,
		Args: cobra.NoArgs,
		RunE: runVersion,
	}
	c.Flags().Bool("json", false, "Print version information as JSON")
	return c
}

// runVersion handles the version command.
func runVersion(cmd *cobra.Command, args []string) error {
	info := version.NewInfo(Version, Commit, Date)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		data, err := info.JSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), info.FullString())
	return nil
}
