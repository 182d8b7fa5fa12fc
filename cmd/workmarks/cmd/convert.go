package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wexinc/workmarks/internal/config"
	"github.com/wexinc/workmarks/internal/convert"
	wmerrors "github.com/wexinc/workmarks/internal/errors"
	"github.com/wexinc/workmarks/internal/logging"
	"github.com/wexinc/workmarks/internal/model"
	"github.com/wexinc/workmarks/internal/tui"
	"github.com/wexinc/workmarks/internal/tui/styles"
)

// pickWorkspaces runs the interactive picker. Tests replace it.
var pickWorkspaces = tui.Run

// runConvert handles the root command: export file in, bookmarks out.
func runConvert(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
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

	if usePicker, _ := cmd.Flags().GetBool("pick"); usePicker {
		names, err := pick(raw, inputPath, opts)
		if errors.Is(err, tui.ErrCanceled) {
			fmt.Fprintln(cmd.ErrOrStderr(), styles.MutedTextStyle.Render("Selection canceled; nothing written."))
			return nil
		}
		if err != nil {
			return err
		}
		opts.Filter = names
	}

	res, err := convert.Convert(raw, opts)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		printWarning(cmd, w)
	}

	if err := writeOutput(cfg.Output.Path, res.HTML, cmd.OutOrStdout()); err != nil {
		return err
	}

	c := res.Model.Counts()
	logging.Info("conversion complete",
		"input", inputPath,
		"output", cfg.Output.Path,
		"workspaces", c.Workspaces,
		"tabs", c.Tabs)
	if cfg.Output.Path != stdoutPath {
		fmt.Fprintln(cmd.ErrOrStderr(), styles.SuccessTextStyle.Render(fmt.Sprintf(
			"✓ Wrote %d bookmarks in %d workspaces to %s", c.Tabs, c.Workspaces, cfg.Output.Path)))
	}
	return nil
}

func convertOptions(cmd *cobra.Command, cfg *config.Config, inputPath string) (convert.Options, error) {
	kind, err := kindFor(cfg.Input.Format)
	if err != nil {
		return convert.Options{}, err
	}
	filter, _ := cmd.Flags().GetStringArray("workspace")

	return convert.Options{
		Kind:         kind,
		Path:         inputPath,
		Filter:       filter,
		Order:        cfg.Order,
		RepairQuotes: cfg.Input.RepairQuotes,
		Emit:         cfg.EmitOptions(),
		Logger:       logging.With("input", inputPath),
	}, nil
}

// pick shows the workspaces of the export in the picker and returns the
// confirmed names.
func pick(raw []byte, inputPath string, opts convert.Options) ([]string, error) {
	if inputPath == stdinPath {
		return nil, wmerrors.WithSuggestion(wmerrors.ErrConfig,
			"--pick cannot be used when the export is read from stdin",
			"Pass the export file path, or use -w to name workspaces.")
	}

	m, err := convert.Inspect(raw, opts)
	if err != nil {
		return nil, err
	}
	return pickWorkspaces(pickerItems(m))
}

func pickerItems(m *model.Model) []tui.Item {
	items := make([]tui.Item, len(m.Workspaces))
	for i, ws := range m.Workspaces {
		items[i] = tui.Item{Name: ws.Name, Groups: len(ws.Groups), Tabs: ws.TabCount()}
	}
	return items
}
