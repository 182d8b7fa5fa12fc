// Package errors provides comprehensive error types for workmarks.
// This file contains configuration and file-related errors.
package errors

import (
	"fmt"
	"strings"
)

// ConfigNotFound creates an error for a configuration file that was named
// explicitly but does not exist.
func ConfigNotFound(configPath string) *AppError {
	return &AppError{
		Kind:    ErrConfig,
		Message: fmt.Sprintf("configuration file not found: %s", configPath),
		Details: map[string]string{
			"path": configPath,
		},
		Suggestion: `Check the --config path, or drop the flag to use defaults.
  workmarks reads .workmarks.yaml from the working directory when present.`,
	}
}

// ConfigParseError creates an error for YAML parsing failures in the config file.
func ConfigParseError(configPath string, parseErr error) *AppError {
	return &AppError{
		Kind:    ErrConfig,
		Message: fmt.Sprintf("failed to parse configuration: %s", configPath),
		Cause:   parseErr,
		Details: map[string]string{
			"path": configPath,
		},
		Suggestion: `Check your config file for syntax errors:
  1. Ensure proper YAML indentation (use spaces, not tabs)
  2. Quote string values that contain ':' or '#'`,
	}
}

// ConfigValidationError creates an error for invalid configuration values.
func ConfigValidationError(field, message string, validOptions []string) *AppError {
	suggestion := fmt.Sprintf("Fix the %q setting (config file, WORKMARKS_ environment variable or flag)", field)
	if len(validOptions) > 0 {
		suggestion += fmt.Sprintf("\n  Valid options: %s", strings.Join(validOptions, ", "))
	}

	return &AppError{
		Kind:    ErrConfig,
		Message: fmt.Sprintf("invalid configuration: %s", message),
		Details: map[string]string{
			"field": field,
		},
		Suggestion: suggestion,
	}
}

// InputNotReadable creates an error for an export file that cannot be read.
func InputNotReadable(path string, cause error) *AppError {
	return &AppError{
		Kind:    ErrIO,
		Message: fmt.Sprintf("cannot read export file: %s", path),
		Cause:   cause,
		Details: map[string]string{
			"path": path,
		},
		Suggestion: "Check that the file exists and is readable.",
	}
}

// OutputNotWritable creates an error for a bookmarks file that cannot be written.
func OutputNotWritable(path string, cause error) *AppError {
	return &AppError{
		Kind:    ErrIO,
		Message: fmt.Sprintf("cannot write bookmarks file: %s", path),
		Cause:   cause,
		Details: map[string]string{
			"path": path,
		},
		Suggestion: `Check that the output directory exists and is writable,
  or use -o - to write the document to stdout.`,
	}
}

// UnknownFormat creates an error for an export encoding that is not supported.
func UnknownFormat(name string) *AppError {
	return &AppError{
		Kind:    ErrConfig,
		Message: fmt.Sprintf("unknown input format: %q", name),
		Details: map[string]string{
			"format": name,
		},
		Suggestion: "Use --format json for JSON exports or --format text for the text (YAML-like) export.",
	}
}
