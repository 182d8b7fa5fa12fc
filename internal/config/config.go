// Package config provides configuration data structures for workmarks.
package config

import (
	"github.com/wexinc/workmarks/internal/emit"
	"github.com/wexinc/workmarks/internal/logging"
	"github.com/wexinc/workmarks/internal/model"
)

// Config represents the complete workmarks configuration loaded from
// .workmarks.yaml, environment variables and flags.
type Config struct {
	Input  InputConfig  `yaml:"input"  mapstructure:"input"`
	Order  model.Order  `yaml:"order"  mapstructure:"order"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Log    LogConfig    `yaml:"log"    mapstructure:"log"`
}

// Format selects how the export file is decoded.
type Format string

const (
	// FormatAuto picks the encoding from the file extension, then content.
	FormatAuto Format = "auto"
	// FormatJSON forces the JSON decoder.
	FormatJSON Format = "json"
	// FormatText forces the text (YAML-like) decoder.
	FormatText Format = "text"
)

// InputConfig configures how exports are read.
type InputConfig struct {
	// Format is the export encoding (default: auto).
	Format Format `yaml:"format" mapstructure:"format"`
	// RepairQuotes quotes unquoted free-text values in text exports (default: false).
	RepairQuotes bool `yaml:"repair_quotes" mapstructure:"repair_quotes"`
}

// OutputConfig configures the bookmarks document.
type OutputConfig struct {
	// Path is where the document is written; "-" means stdout (default: bookmarks.html).
	Path string `yaml:"path" mapstructure:"path"`
	// RootFolder wraps all workspaces in one folder when set.
	RootFolder string `yaml:"root_folder" mapstructure:"root_folder"`
	// Placeholder titles unnamed groups (default: Untitled).
	Placeholder string `yaml:"placeholder" mapstructure:"placeholder"`
	// Folded marks folders as collapsed.
	Folded bool `yaml:"folded" mapstructure:"folded"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn or error (default: warn).
	Level string `yaml:"level" mapstructure:"level"`
	// JSON switches log records to JSON.
	JSON bool `yaml:"json" mapstructure:"json"`
	// File also appends log records to this path.
	File string `yaml:"file" mapstructure:"file"`
}

// Default values.
const (
	DefaultOutputPath = "bookmarks.html"
	DefaultLogLevel   = "warn"
)

// NewConfig returns a new Config with default values applied.
func NewConfig() *Config {
	return &Config{
		Input: InputConfig{
			Format:       FormatAuto,
			RepairQuotes: false,
		},
		Order: model.DefaultOrder,
		Output: OutputConfig{
			Path:        DefaultOutputPath,
			Placeholder: emit.DefaultPlaceholder,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// ApplyDefaults applies default values to any unset fields.
func (c *Config) ApplyDefaults() {
	defaults := NewConfig()

	if c.Input.Format == "" {
		c.Input.Format = defaults.Input.Format
	}
	if c.Order == "" {
		c.Order = defaults.Order
	}
	if c.Output.Path == "" {
		c.Output.Path = defaults.Output.Path
	}
	if c.Output.Placeholder == "" {
		c.Output.Placeholder = defaults.Output.Placeholder
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
}

// EmitOptions returns the emitter options described by the config.
func (c *Config) EmitOptions() emit.Options {
	return emit.Options{
		RootFolder:  c.Output.RootFolder,
		Placeholder: c.Output.Placeholder,
		Folded:      c.Output.Folded,
	}
}

// LoggingConfig returns the logger configuration described by the config.
// An invalid level falls back to warn; Validate reports it.
func (c *Config) LoggingConfig() *logging.Config {
	lc := logging.DefaultConfig()
	if level, err := logging.ParseLevel(c.Log.Level); err == nil {
		lc.Level = level
	}
	lc.JSONFormat = c.Log.JSON
	lc.File = c.Log.File
	return lc
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	msg := "multiple validation errors:"
	for _, err := range e {
		msg += "\n  - " + err.Error()
	}
	return msg
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidationErrors

	switch c.Input.Format {
	case FormatAuto, FormatJSON, FormatText:
		// valid
	default:
		errs = append(errs, &ValidationError{
			Field:   "input.format",
			Message: "must be 'auto', 'json', or 'text'",
		})
	}

	switch c.Order {
	case model.OrderName, model.OrderInput:
		// valid
	default:
		errs = append(errs, &ValidationError{
			Field:   "order",
			Message: "must be 'name' or 'input'",
		})
	}

	if c.Output.Path == "" {
		errs = append(errs, &ValidationError{Field: "output.path", Message: "must not be empty"})
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, &ValidationError{
			Field:   "log.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
