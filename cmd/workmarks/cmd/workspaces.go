package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wexinc/workmarks/internal/convert"
	"github.com/wexinc/workmarks/internal/tui/styles"
)

func newWorkspacesCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "workspaces <export-file>",
		Short: "List the workspaces in an export",
		Long: `List the workspaces in an export with their group and tab counts.

Names are printed exactly as they must be passed to -w, in the order the
bookmarks file would use.

Examples:
  workmarks workspaces export.json
  workmarks workspaces export.txt --names-only`,
		Args: cobra.ExactArgs(1),
		RunE: runWorkspaces,
	}
	c.Flags().String("format", "", "Export format: auto, json or text (default auto)")
	c.Flags().String("order", "", "Ordering: name or input")
	c.Flags().Bool("repair-quotes", false, "Quote unquoted titles in text exports before parsing")
	c.Flags().Bool("names-only", false, "Print only workspace names, one per line")
	return c
}

// runWorkspaces handles the workspaces command.
func runWorkspaces(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer initLogging(cmd, cfg)()

	raw, err := readInput(cmd, inputPath)
	if err != nil {
		return err
	}
	opts, err := convertOptions(cmd, cfg, inputPath)
	if err != nil {
		return err
	}

	m, err := convert.Inspect(raw, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if namesOnly, _ := cmd.Flags().GetBool("names-only"); namesOnly {
		for _, name := range m.Names() {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	if len(m.Workspaces) == 0 {
		fmt.Fprintln(out, styles.MutedTextStyle.Render("No workspaces in export."))
		return nil
	}
	for _, ws := range m.Workspaces {
		fmt.Fprintf(out, "%s  %s\n",
			styles.NameStyle.Render(ws.Name),
			styles.MutedTextStyle.Render(fmt.Sprintf("%d groups, %d tabs", len(ws.Groups), ws.TabCount())))
	}
	c := m.Counts()
	fmt.Fprintf(out, "\n%d workspaces, %d groups, %d tabs\n", c.Workspaces, c.Groups, c.Tabs)
	return nil
}
