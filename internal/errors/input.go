// Package errors provides comprehensive error types for workmarks.
// This file contains the conversion error taxonomy.
package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// MalformedInputError reports an export that cannot be parsed in its
// declared encoding. Position fields are zero when unknown.
type MalformedInputError struct {
	// Encoding is the encoding being parsed ("json" or "text").
	Encoding string
	// Line and Column are 1-based.
	Line   int
	Column int
	// Offset is the byte offset into the input.
	Offset int64
	// Reason describes what is wrong.
	Reason string
	// Err is the parser error, if any.
	Err error
}

func (e *MalformedInputError) Error() string {
	var sb strings.Builder
	sb.WriteString("malformed ")
	sb.WriteString(e.Encoding)
	sb.WriteString(" input")
	if e.Line > 0 {
		sb.WriteString(" at line ")
		sb.WriteString(strconv.Itoa(e.Line))
		if e.Column > 0 {
			sb.WriteString(", column ")
			sb.WriteString(strconv.Itoa(e.Column))
		}
	} else if e.Offset > 0 {
		sb.WriteString(fmt.Sprintf(" at byte %d", e.Offset))
	}
	sb.WriteString(": ")
	sb.WriteString(e.Reason)
	return sb.String()
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// Is makes the error match ErrMalformedInput.
func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

// Format returns a formatted error message with a suggestion.
func (e *MalformedInputError) Format() string {
	details := map[string]string{"format": e.Encoding}
	if e.Line > 0 {
		details["line"] = strconv.Itoa(e.Line)
	}
	if e.Offset > 0 {
		details["offset"] = strconv.FormatInt(e.Offset, 10)
	}

	suggestion := "Check that the file is a complete, unmodified export."
	if e.Encoding == "text" {
		suggestion = `The text export does not quote titles containing ':' or '#'.
  Re-run with --repair-quotes to quote free-text values, or use the JSON export.`
	}
	return formatReport("Error", e.Error(), details, suggestion)
}

// SchemaError reports a decoded export whose shape does not match the
// Workspace -> Group -> Tab schema.
type SchemaError struct {
	// Path locates the offending value, e.g. Workspaces[0]("Work").groups[1].tabs[2].url.
	Path string
	// Reason describes what is wrong.
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid export at %s: %s", e.Path, e.Reason)
}

// Is makes the error match ErrSchema.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// Format returns a formatted error message with a suggestion.
func (e *SchemaError) Format() string {
	return formatReport("Error", e.Error(), map[string]string{"path": e.Path},
		"Every workspace needs a name and every tab needs a url; collections must be lists.")
}

// EmptyResultWarning is returned alongside a valid document when workspace
// filters matched nothing (or only partly matched). It is informational.
type EmptyResultWarning struct {
	// Filter is the full filter set that was applied.
	Filter []string
	// Unmatched lists filter entries that matched no workspace.
	Unmatched []string
	// Matched is the number of workspaces kept.
	Matched int
}

func (e *EmptyResultWarning) Error() string {
	if e.Matched == 0 {
		return fmt.Sprintf("no workspace matched %s", quoteList(e.Filter))
	}
	return fmt.Sprintf("no workspace matched %s", quoteList(e.Unmatched))
}

// Is makes the warning match ErrEmptyResult.
func (e *EmptyResultWarning) Is(target error) bool {
	return target == ErrEmptyResult
}

// Empty reports whether the filter removed every workspace.
func (e *EmptyResultWarning) Empty() bool {
	return e.Matched == 0
}

// Format returns a formatted warning with a suggestion.
func (e *EmptyResultWarning) Format() string {
	return formatReport("Warning", e.Error(), nil,
		"Workspace names match exactly and are case-sensitive. List them with: workmarks workspaces <file>")
}

func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = strconv.Quote(n)
	}
	return strings.Join(quoted, ", ")
}
