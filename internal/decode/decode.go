// Package decode parses tab-manager exports into an untyped record tree.
//
// Two encodings are supported: the JSON export and the YAML-like text
// export. Both produce the same Node shape for the same content, so
// everything downstream is encoding-agnostic.
package decode

import (
	"bytes"
	"strings"

	wmerrors "github.com/wexinc/workmarks/internal/errors"
)

// Kind is the declared encoding of an export.
type Kind string

const (
	// KindJSON is the structured-markup (JSON) export.
	KindJSON Kind = "json"
	// KindText is the block-text (YAML-like) export.
	KindText Kind = "text"
)

// ParseKind maps a user-supplied format name to a Kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return KindJSON, nil
	case "text", "txt", "yaml", "yml":
		return KindText, nil
	default:
		return "", wmerrors.UnknownFormat(name)
	}
}

// Options tunes decoding.
type Options struct {
	// RepairQuotes quotes the plain values of free-text keys in the text
	// export before parsing. Without it, such values fail to decode.
	RepairQuotes bool
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode parses raw according to kind. It fails with a
// *errors.MalformedInputError on any syntax problem.
func Decode(raw []byte, kind Kind, opts Options) (*Node, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)

	var (
		root *Node
		err  error
	)
	switch kind {
	case KindJSON:
		root, err = decodeJSON(raw)
	case KindText:
		root, err = decodeText(raw, opts)
	default:
		return nil, wmerrors.UnknownFormat(string(kind))
	}
	if err != nil {
		return nil, err
	}

	if err := normalize(root, string(kind)); err != nil {
		return nil, err
	}
	return root, nil
}
