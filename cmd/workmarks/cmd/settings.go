package cmd

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wexinc/workmarks/internal/config"
	"github.com/wexinc/workmarks/internal/decode"
	wmerrors "github.com/wexinc/workmarks/internal/errors"
	"github.com/wexinc/workmarks/internal/logging"
	"github.com/wexinc/workmarks/internal/model"
)

// validOptions lists the accepted values of enumerated settings.
var validOptions = map[string][]string{
	"input.format": {string(config.FormatAuto), string(config.FormatJSON), string(config.FormatText)},
	"order":        model.ValidOrders,
	"log.level":    {"debug", "info", "warn", "error"},
}

// loadSettings loads the config file and environment, then applies any
// flags the user set explicitly. Flags win over both.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Read(path)
	if err != nil {
		return nil, configError(path, err)
	}

	applyFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, configError(path, err)
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}

	if changed("format") {
		v, _ := flags.GetString("format")
		cfg.Input.Format = config.Format(strings.ToLower(strings.TrimSpace(v)))
	}
	if changed("repair-quotes") {
		cfg.Input.RepairQuotes, _ = flags.GetBool("repair-quotes")
	}
	if changed("order") {
		v, _ := flags.GetString("order")
		cfg.Order = model.Order(strings.ToLower(strings.TrimSpace(v)))
	}
	if changed("output") {
		cfg.Output.Path, _ = flags.GetString("output")
	}
	if changed("root-folder") {
		cfg.Output.RootFolder, _ = flags.GetString("root-folder")
	}
	if changed("placeholder") {
		cfg.Output.Placeholder, _ = flags.GetString("placeholder")
	}
	if changed("folded") {
		cfg.Output.Folded, _ = flags.GetBool("folded")
	}
	if changed("verbose") {
		if verbose, _ := flags.GetBool("verbose"); verbose {
			cfg.Log.Level = "debug"
		}
	}
	if changed("log-json") {
		cfg.Log.JSON, _ = flags.GetBool("log-json")
	}

	cfg.ApplyDefaults()
}

// configError turns a config load or validation failure into a user-facing error.
func configError(path string, err error) error {
	var verrs config.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		msg := verrs.Error()
		if len(verrs) == 1 {
			msg = first.Message
		}
		return wmerrors.ConfigValidationError(first.Field, msg, validOptions[first.Field])
	}

	var loadErr *config.LoadError
	if errors.As(err, &loadErr) {
		if errors.Is(loadErr.Err, os.ErrNotExist) {
			return wmerrors.ConfigNotFound(loadErr.Path)
		}
		return wmerrors.ConfigParseError(loadErr.Path, loadErr.Err)
	}
	return wmerrors.ConfigParseError(path, err)
}

// initLogging installs the global logger described by cfg. Records go to
// the command's stderr so stdout stays free for the document. The
// returned func closes the logger.
func initLogging(cmd *cobra.Command, cfg *config.Config) func() {
	lc := cfg.LoggingConfig()
	lc.Output = cmd.ErrOrStderr()

	if err := logging.InitGlobal(lc); err != nil {
		// Non-fatal: continue without file logging
		file := lc.File
		lc.File = ""
		_ = logging.InitGlobal(lc)
		logging.Warn("log file disabled", "file", file, "error", err)
	}
	return func() { _ = logging.CloseGlobal() }
}

// kindFor maps the configured input format to a decoder kind. Auto
// returns the empty kind so the pipeline detects it.
func kindFor(f config.Format) (decode.Kind, error) {
	if f == config.FormatAuto || f == "" {
		return "", nil
	}
	return decode.ParseKind(string(f))
}

// readInput reads the export at path, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, wmerrors.InputNotReadable(path, err)
	}
	logging.Debug("read export", "path", path, "bytes", len(raw))
	return raw, nil
}
