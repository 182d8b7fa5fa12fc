// Package errors provides the error types used by workmarks. Errors carry
// enough context (file position, model path, suggestion) for a user to fix
// the export or the command line without reading the source.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common sentinel errors for use with errors.Is().
var (
	// ErrMalformedInput indicates the export could not be parsed in its declared encoding.
	ErrMalformedInput = errors.New("malformed input")
	// ErrSchema indicates the export parsed but does not have the expected shape.
	ErrSchema = errors.New("schema error")
	// ErrEmptyResult indicates a workspace filter matched nothing.
	ErrEmptyResult = errors.New("empty result")
	// ErrConfig indicates a configuration error.
	ErrConfig = errors.New("configuration error")
	// ErrIO indicates a file could not be read or written.
	ErrIO = errors.New("i/o error")
)

// AppError is the general-purpose error type for workmarks.
// It wraps an underlying error and provides additional context.
type AppError struct {
	// Kind is the category of error (e.g., ErrIO, ErrConfig).
	Kind error
	// Message is the human-readable error message.
	Message string
	// Suggestion provides actionable advice for resolving the error.
	Suggestion string
	// Cause is the underlying error that caused this error.
	Cause error
	// Details provides additional context (e.g., file path).
	Details map[string]string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *AppError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return e.Kind
}

// Is reports whether the error's kind matches the target.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// Format returns a formatted error message with details and suggestion.
func (e *AppError) Format() string {
	return formatReport("Error", e.Error(), e.Details, e.Suggestion)
}

// WithDetails adds details to the error.
func (e *AppError) WithDetails(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying cause of the error.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// New creates a new AppError with the given kind and message.
func New(kind error, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(err error, kind error, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
		Cause:   err,
	}
}

// WithSuggestion creates a new error with a suggestion.
func WithSuggestion(kind error, message, suggestion string) *AppError {
	return &AppError{
		Kind:       kind,
		Message:    message,
		Suggestion: suggestion,
	}
}

// formatter is implemented by every error type in this package.
type formatter interface {
	Format() string
}

// FormatError renders err for the terminal. Errors from this package are
// rendered with their details and suggestion; anything else gets a plain
// "Error:" line.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	var f formatter
	if errors.As(err, &f) {
		return f.Format()
	}
	return "Error: " + err.Error() + "\n"
}

// formatReport builds the multi-line report shared by all error types.
// label is "Error" or "Warning".
// Details are printed in key order so the output is stable.
func formatReport(label, msg string, details map[string]string, suggestion string) string {
	var sb strings.Builder

	sb.WriteString(label + ": ")
	sb.WriteString(msg)
	sb.WriteString("\n")

	if len(details) > 0 {
		keys := make([]string, 0, len(details))
		for k := range details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString("\nDetails:\n")
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", k, details[k]))
		}
	}

	if suggestion != "" {
		sb.WriteString("\nSuggestion: ")
		sb.WriteString(suggestion)
		sb.WriteString("\n")
	}

	return sb.String()
}
