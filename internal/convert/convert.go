// Package convert runs the export → bookmarks pipeline: decode the raw
// export, build the ordered model, and emit the Netscape document.
package convert

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/wexinc/workmarks/internal/decode"
	"github.com/wexinc/workmarks/internal/emit"
	wmerrors "github.com/wexinc/workmarks/internal/errors"
	"github.com/wexinc/workmarks/internal/logging"
	"github.com/wexinc/workmarks/internal/model"
)

// Options configures a conversion.
type Options struct {
	// Kind is the export encoding. Empty means DetectKind on Path.
	Kind decode.Kind
	// Path is the export's file name, used only for kind detection.
	Path string
	// Filter keeps only the named workspaces. Empty keeps all.
	Filter []string
	// Order is the ordering policy. Empty means model.DefaultOrder.
	Order model.Order
	// RepairQuotes enables quote repair in the text decoder.
	RepairQuotes bool
	// Emit configures the output document.
	Emit emit.Options
	// Logger receives debug records. Nil uses the global logger.
	Logger *logging.Logger
}

// Result is the outcome of a successful conversion.
type Result struct {
	// HTML is the complete bookmarks document.
	HTML []byte
	// Model is the filtered, ordered model the document was emitted from.
	Model *model.Model
	// Warnings are non-fatal findings, such as filters that matched nothing.
	Warnings []error
}

// Convert decodes raw, builds the model and emits the bookmarks document.
// Decoding and schema failures abort with no document. A filter that
// matches nothing still yields a valid, empty document plus a warning.
func Convert(raw []byte, opts Options) (*Result, error) {
	log := opts.logger()

	full, err := Inspect(raw, opts)
	if err != nil {
		return nil, err
	}

	m := full
	var warnings []error
	if len(opts.Filter) > 0 {
		m = full.Select(opts.Filter)
		log.Debug("filter applied", "filter", opts.Filter, "matched", len(m.Workspaces))
		if len(m.Unmatched) > 0 {
			warnings = append(warnings, &wmerrors.EmptyResultWarning{
				Filter:    opts.Filter,
				Unmatched: m.Unmatched,
				Matched:   len(m.Workspaces),
			})
		}
	}

	html := emit.Emit(m, opts.Emit)
	c := m.Counts()
	log.Debug("emitted document",
		"workspaces", c.Workspaces,
		"groups", c.Groups,
		"tabs", c.Tabs,
		"bytes", len(html))

	return &Result{HTML: html, Model: m, Warnings: warnings}, nil
}

// Inspect decodes and builds the full ordered model, ignoring opts.Filter.
func Inspect(raw []byte, opts Options) (*model.Model, error) {
	log := opts.logger()

	kind := opts.Kind
	if kind == "" {
		kind = DetectKind(opts.Path, raw)
	}
	log.Debug("decoding export", "kind", kind, "bytes", len(raw), "repair_quotes", opts.RepairQuotes)

	root, err := decode.Decode(raw, kind, decode.Options{RepairQuotes: opts.RepairQuotes})
	if err != nil {
		return nil, err
	}

	m, err := model.Build(root, model.BuildOptions{Order: opts.Order})
	if err != nil {
		return nil, err
	}
	log.Debug("built model", "workspaces", len(m.Workspaces), "order", orderName(opts.Order))
	return m, nil
}

// DetectKind guesses the export encoding from the file extension, falling
// back to the first non-space byte of the content.
func DetectKind(path string, raw []byte) decode.Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return decode.KindJSON
	case ".txt", ".yaml", ".yml":
		return decode.KindText
	}

	trimmed := bytes.TrimLeft(bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF}), " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return decode.KindJSON
	}
	return decode.KindText
}

func (o Options) logger() *logging.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logging.Global()
}

func orderName(o model.Order) model.Order {
	if o == "" {
		return model.DefaultOrder
	}
	return o
}
