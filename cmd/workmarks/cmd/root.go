// Package cmd provides the CLI commands for workmarks.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	wmerrors "github.com/wexinc/workmarks/internal/errors"
	"github.com/wexinc/workmarks/internal/tui/styles"
)

// Version information - set via ldflags at build time in main.go.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "workmarks <export-file>",
		Short: "Convert Workona exports into browser bookmarks",
		Long: `workmarks converts a Workona export (JSON or the YAML-like text export)
into a Netscape bookmarks file that Chrome, Firefox and other browsers
can import.

Each workspace becomes a folder, each tab group a sub-folder and each tab
a bookmark. Use -w to keep only some workspaces, or --pick to choose them
interactively.

Examples:
  workmarks export.json                      # write bookmarks.html
  workmarks export.txt -w Work -w Reading    # only two workspaces
  workmarks export.json -o - > bookmarks.html
  workmarks export.json --pick --root-folder "Workona Export"`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runConvert,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := root.Flags()
	f.StringArrayP("workspace", "w", nil, "Keep only this workspace (exact name, repeatable)")
	f.StringP("output", "o", "", `Output file, or "-" for stdout (default "bookmarks.html")`)
	f.String("format", "", "Export format: auto, json or text (default auto)")
	f.String("order", "", "Ordering: name (case-insensitive sort) or input (export order)")
	f.String("root-folder", "", "Wrap all workspaces in a folder with this name")
	f.String("placeholder", "", `Folder name for unnamed tab groups (default "Untitled")`)
	f.Bool("folded", false, "Mark folders as collapsed")
	f.Bool("repair-quotes", false, "Quote unquoted titles in text exports before parsing")
	f.Bool("pick", false, "Choose workspaces interactively")

	addCommonFlags(root)

	root.AddCommand(newWorkspacesCmd(), newVersionCmd())
	return root
}

// addCommonFlags registers flags shared by every command.
func addCommonFlags(root *cobra.Command) {
	pf := root.PersistentFlags()
	pf.String("config", "", `Config file (default ".workmarks.yaml" when present)`)
	pf.BoolP("verbose", "v", false, "Enable debug logging")
	pf.Bool("log-json", false, "Write log records as JSON")
}

// Execute runs the root command and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
	rootCmd.SetVersionTemplate("workmarks {{.Version}}\n")

	if err := rootCmd.Execute(); err != nil {
		printError(rootCmd, err)
		os.Exit(1)
	}
}

// Root returns the root command for testing purposes.
func Root() *cobra.Command {
	return rootCmd
}

// printError writes err to stderr in the error style.
func printError(cmd *cobra.Command, err error) {
	msg := strings.TrimRight(wmerrors.FormatError(err), "\n")
	fmt.Fprintln(cmd.ErrOrStderr(), styles.ErrorTextStyle.Render(msg))
}

// printWarning writes a non-fatal finding to stderr in the warning style.
func printWarning(cmd *cobra.Command, err error) {
	msg := strings.TrimRight(wmerrors.FormatError(err), "\n")
	fmt.Fprintln(cmd.ErrOrStderr(), styles.WarningTextStyle.Render(msg))
}
