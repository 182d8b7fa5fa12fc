// Package config provides configuration loading and management for workmarks.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/wexinc/workmarks/internal/model"
)

const (
	// DefaultConfigPath is the config file looked up in the working directory.
	DefaultConfigPath = ".workmarks.yaml"

	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "WORKMARKS"
)

// Loader handles loading configuration from files and environment.
type Loader struct {
	v      *viper.Viper
	getenv func(string) string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v, getenv: os.Getenv}
}

// LoadConfig reads configuration like ReadConfig and validates the result.
func (l *Loader) LoadConfig(path string) (*Config, error) {
	cfg, err := l.ReadConfig(path)
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = DefaultConfigPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, &LoadError{
			Path:    path,
			Message: "configuration validation failed",
			Err:     err,
		}
	}
	return cfg, nil
}

// ReadConfig loads configuration from path, merges environment variables
// and applies defaults without validating, so callers can layer further
// overrides first.
// If path is empty, DefaultConfigPath is used when it exists; a missing
// default file just means defaults.
func (l *Loader) ReadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	cfg := NewConfig()

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) || explicit {
			return nil, &LoadError{
				Path:    path,
				Message: "config file not found",
				Err:     err,
			}
		}
	} else {
		l.v.SetConfigFile(path)

		if err := l.v.ReadInConfig(); err != nil {
			return nil, &LoadError{
				Path:    path,
				Message: "failed to read config file",
				Err:     err,
			}
		}

		if err := l.v.Unmarshal(cfg, viperDecodeHook); err != nil {
			return nil, &LoadError{
				Path:    path,
				Message: "failed to parse config file",
				Err:     err,
			}
		}
	}

	l.applyEnvOverrides(cfg)

	cfg.ApplyDefaults()

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func (l *Loader) applyEnvOverrides(cfg *Config) {
	env := func(key string) string {
		return l.getenv(EnvPrefix + "_" + key)
	}

	// Input settings
	if v := env("INPUT_FORMAT"); v != "" {
		cfg.Input.Format = Format(strings.ToLower(v))
	}
	if v := env("INPUT_REPAIR_QUOTES"); v != "" {
		cfg.Input.RepairQuotes = parseBool(v)
	}

	if v := env("ORDER"); v != "" {
		cfg.Order = model.Order(strings.ToLower(v))
	}

	// Output settings
	if v := env("OUTPUT_PATH"); v != "" {
		cfg.Output.Path = v
	}
	if v := env("OUTPUT_ROOT_FOLDER"); v != "" {
		cfg.Output.RootFolder = v
	}
	if v := env("OUTPUT_PLACEHOLDER"); v != "" {
		cfg.Output.Placeholder = v
	}
	if v := env("OUTPUT_FOLDED"); v != "" {
		cfg.Output.Folded = parseBool(v)
	}

	// Log settings
	if v := env("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := env("LOG_JSON"); v != "" {
		cfg.Log.JSON = parseBool(v)
	}
	if v := env("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

// parseBool parses a string as a boolean value.
// Returns true for "true", "1", "yes" (case-insensitive).
// Returns false for anything else.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes"
}

// viperDecodeHook provides custom decoding for viper unmarshaling.
func viperDecodeHook(dc *mapstructure.DecoderConfig) {
	dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		stringToCustomTypeHookFunc(),
	)
}

// stringToCustomTypeHookFunc creates a decode hook for our custom types.
// Values are lower-cased so "JSON" and "json" are the same setting.
func stringToCustomTypeHookFunc() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String {
			return data, nil
		}

		switch to {
		case reflect.TypeOf(Format("")):
			return Format(strings.ToLower(data.(string))), nil
		case reflect.TypeOf(model.Order("")):
			return model.Order(strings.ToLower(data.(string))), nil
		}

		return data, nil
	}
}

// LoadError represents an error that occurred while loading configuration.
type LoadError struct {
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load is a convenience function that creates a new Loader and loads configuration.
// If path is empty, DefaultConfigPath is used when present.
func Load(path string) (*Config, error) {
	return NewLoader().LoadConfig(path)
}

// Read is like Load but leaves validation to the caller.
func Read(path string) (*Config, error) {
	return NewLoader().ReadConfig(path)
}
