package decode

import (
	"fmt"
	"sort"
	"strconv"

	wmerrors "github.com/wexinc/workmarks/internal/errors"
)

// NodeKind tags the variant held by a Node.
type NodeKind int

const (
	// NodeScalar is a leaf value. Its text is in Value.
	NodeScalar NodeKind = iota
	// NodeMapping is an ordered set of key/value Fields.
	NodeMapping
	// NodeSequence is an ordered list of Items.
	NodeSequence
)

// String returns the string representation of the kind.
func (k NodeKind) String() string {
	switch k {
	case NodeScalar:
		return "scalar"
	case NodeMapping:
		return "mapping"
	case NodeSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Position locates a node in the source. Zero fields are unknown.
type Position struct {
	Line   int
	Column int
	Offset int64
}

// Field is one key/value pair of a mapping.
type Field struct {
	Key   string
	Value *Node
	Pos   Position
}

// Node is the encoding-agnostic record tree produced by Decode.
type Node struct {
	Kind NodeKind

	// Value is the scalar text. Numbers and booleans keep their source text.
	Value string
	// Null is set for explicit or implied null scalars.
	Null bool

	Fields []Field
	Items  []*Node

	Pos Position
}

// Get returns the value for key in a mapping node.
func (n *Node) Get(key string) (*Node, bool) {
	if n == nil || n.Kind != NodeMapping {
		return nil, false
	}
	for _, f := range n.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Lookup returns the value of the first key present in a mapping node,
// along with the key that matched.
func (n *Node) Lookup(keys ...string) (*Node, string, bool) {
	for _, k := range keys {
		if v, ok := n.Get(k); ok {
			return v, k, true
		}
	}
	return nil, "", false
}

// IsNull reports whether n is absent or a null scalar.
func (n *Node) IsNull() bool {
	return n == nil || (n.Kind == NodeScalar && n.Null)
}

// Equal reports whether two trees hold the same content, ignoring positions.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Kind != o.Kind {
		return false
	}
	switch n.Kind {
	case NodeScalar:
		return n.Null == o.Null && n.Value == o.Value
	case NodeMapping:
		if len(n.Fields) != len(o.Fields) {
			return false
		}
		for i := range n.Fields {
			if n.Fields[i].Key != o.Fields[i].Key || !n.Fields[i].Value.Equal(o.Fields[i].Value) {
				return false
			}
		}
		return true
	case NodeSequence:
		if len(n.Items) != len(o.Items) {
			return false
		}
		for i := range n.Items {
			if !n.Items[i].Equal(o.Items[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// normalize rejects duplicate keys and turns index-keyed mappings
// (keys exactly 0..n-1) into sequences ordered by index.
func normalize(n *Node, format string) error {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case NodeSequence:
		for _, item := range n.Items {
			if err := normalize(item, format); err != nil {
				return err
			}
		}
	case NodeMapping:
		seen := make(map[string]bool, len(n.Fields))
		for _, f := range n.Fields {
			if seen[f.Key] {
				return &wmerrors.MalformedInputError{
					Encoding: format,
					Line:     f.Pos.Line,
					Column:   f.Pos.Column,
					Offset:   f.Pos.Offset,
					Reason:   fmt.Sprintf("duplicate key %q", f.Key),
				}
			}
			seen[f.Key] = true
			if err := normalize(f.Value, format); err != nil {
				return err
			}
		}
		if items, ok := indexedItems(n.Fields); ok {
			n.Kind = NodeSequence
			n.Items = items
			n.Fields = nil
		}
	}
	return nil
}

// indexedItems returns the field values ordered by index when every key is
// a canonical non-negative integer and together they cover 0..len-1.
func indexedItems(fields []Field) ([]*Node, bool) {
	if len(fields) == 0 {
		return nil, false
	}
	type indexed struct {
		idx  int
		node *Node
	}
	entries := make([]indexed, 0, len(fields))
	for _, f := range fields {
		idx, err := strconv.Atoi(f.Key)
		if err != nil || idx < 0 || strconv.Itoa(idx) != f.Key {
			return nil, false
		}
		entries = append(entries, indexed{idx: idx, node: f.Value})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].idx < entries[j].idx })

	items := make([]*Node, len(entries))
	for i, e := range entries {
		// duplicates were rejected, so a gap means the keys are not 0..n-1
		if e.idx != i {
			return nil, false
		}
		items[i] = e.node
	}
	return items, true
}
