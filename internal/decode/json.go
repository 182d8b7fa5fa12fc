package decode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	wmerrors "github.com/wexinc/workmarks/internal/errors"
)

// jsonParser walks the token stream of encoding/json so that object key
// order survives, which Unmarshal into a map would lose.
type jsonParser struct {
	raw []byte
	dec *json.Decoder
}

func decodeJSON(raw []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	p := &jsonParser{raw: raw, dec: dec}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, &wmerrors.MalformedInputError{Encoding: string(KindJSON), Reason: "empty document"}
	}

	root, err := p.value()
	if err != nil {
		return nil, err
	}

	// Anything after the top-level value is an error.
	if _, err := dec.Token(); err != io.EOF {
		off := p.start()
		return nil, p.malformed(off, "unexpected data after top-level value", err)
	}
	return root, nil
}

// start returns the offset of the next token: the decoder's offset skipped
// past whitespace and separators.
func (p *jsonParser) start() int64 {
	off := p.dec.InputOffset()
	for off < int64(len(p.raw)) {
		switch p.raw[off] {
		case ' ', '\t', '\r', '\n', ',', ':':
			off++
			continue
		}
		break
	}
	return off
}

func (p *jsonParser) pos(off int64) Position {
	line, col := lineCol(p.raw, off)
	return Position{Line: line, Column: col, Offset: off}
}

func (p *jsonParser) value() (*Node, error) {
	off := p.start()
	tok, err := p.dec.Token()
	if err != nil {
		return nil, p.tokenError(err)
	}

	pos := p.pos(off)
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return p.object(pos)
		case '[':
			return p.array(pos)
		default:
			return nil, p.malformed(off, fmt.Sprintf("unexpected %q", rune(t)), nil)
		}
	case string:
		return &Node{Kind: NodeScalar, Value: t, Pos: pos}, nil
	case json.Number:
		return &Node{Kind: NodeScalar, Value: t.String(), Pos: pos}, nil
	case bool:
		v := "false"
		if t {
			v = "true"
		}
		return &Node{Kind: NodeScalar, Value: v, Pos: pos}, nil
	case nil:
		return &Node{Kind: NodeScalar, Null: true, Pos: pos}, nil
	}
	return nil, p.malformed(off, fmt.Sprintf("unexpected token %v", tok), nil)
}

func (p *jsonParser) object(pos Position) (*Node, error) {
	n := &Node{Kind: NodeMapping, Pos: pos}
	for p.dec.More() {
		keyOff := p.start()
		tok, err := p.dec.Token()
		if err != nil {
			return nil, p.tokenError(err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, p.malformed(keyOff, "object key must be a string", nil)
		}
		val, err := p.value()
		if err != nil {
			return nil, err
		}
		n.Fields = append(n.Fields, Field{Key: key, Value: val, Pos: p.pos(keyOff)})
	}
	if err := p.closing(); err != nil {
		return nil, err
	}
	return n, nil
}

func (p *jsonParser) array(pos Position) (*Node, error) {
	n := &Node{Kind: NodeSequence, Pos: pos}
	for p.dec.More() {
		item, err := p.value()
		if err != nil {
			return nil, err
		}
		n.Items = append(n.Items, item)
	}
	if err := p.closing(); err != nil {
		return nil, err
	}
	return n, nil
}

// closing consumes the '}' or ']' that ends the current structure.
func (p *jsonParser) closing() error {
	if _, err := p.dec.Token(); err != nil {
		return p.tokenError(err)
	}
	return nil
}

// tokenError reports a failed Token call at the start of the token that
// could not be read.
func (p *jsonParser) tokenError(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return p.malformed(int64(len(p.raw)), "unexpected end of input (unterminated object, array or string)", err)
	}
	return p.malformed(p.start(), err.Error(), err)
}

func (p *jsonParser) malformed(off int64, reason string, err error) error {
	line, col := lineCol(p.raw, off)
	return &wmerrors.MalformedInputError{
		Encoding: string(KindJSON),
		Line:     line,
		Column:   col,
		Offset:   off,
		Reason:   reason,
		Err:      err,
	}
}

// lineCol converts a byte offset into a 1-based line and column.
func lineCol(raw []byte, off int64) (int, int) {
	if off > int64(len(raw)) {
		off = int64(len(raw))
	}
	if off < 0 {
		off = 0
	}
	prefix := raw[:off]
	line := bytes.Count(prefix, []byte{'\n'}) + 1
	col := int(off) - bytes.LastIndexByte(prefix, '\n')
	return line, col
}
