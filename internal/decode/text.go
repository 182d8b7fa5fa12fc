package decode

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	wmerrors "github.com/wexinc/workmarks/internal/errors"
)

// yamlLinePattern pulls the line number out of yaml.v3 error messages,
// e.g. "yaml: line 7: mapping values are not allowed in this context".
var yamlLinePattern = regexp.MustCompile(`line (\d+): (.*)$`)

func decodeText(raw []byte, opts Options) (*Node, error) {
	src := raw
	if opts.RepairQuotes {
		src = RepairQuotes(src)
	}

	if err := scanReserved(src); err != nil {
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, yamlError(err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, &wmerrors.MalformedInputError{Encoding: string(KindText), Reason: "empty document"}
	}

	return fromYAML(&doc)
}

func yamlError(err error) error {
	malformed := &wmerrors.MalformedInputError{
		Encoding: string(KindText),
		Reason:   strings.TrimPrefix(err.Error(), "yaml: "),
		Err:      err,
	}
	if m := yamlLinePattern.FindStringSubmatch(err.Error()); m != nil {
		malformed.Line, _ = strconv.Atoi(m[1])
		malformed.Reason = m[2]
	}
	return malformed
}

func fromYAML(n *yaml.Node) (*Node, error) {
	pos := Position{Line: n.Line, Column: n.Column}
	if n.Anchor != "" {
		return nil, textError(n, "anchors and aliases are not supported")
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, &wmerrors.MalformedInputError{Encoding: string(KindText), Reason: "empty document"}
		}
		return fromYAML(n.Content[0])

	case yaml.MappingNode:
		out := &Node{Kind: NodeMapping, Pos: pos}
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, textError(k, "mapping keys must be plain scalars")
			}
			if k.Tag == "!!merge" {
				return nil, textError(k, "merge keys are not supported")
			}
			val, err := fromYAML(v)
			if err != nil {
				return nil, err
			}
			out.Fields = append(out.Fields, Field{
				Key:   k.Value,
				Value: val,
				Pos:   Position{Line: k.Line, Column: k.Column},
			})
		}
		return out, nil

	case yaml.SequenceNode:
		out := &Node{Kind: NodeSequence, Pos: pos}
		for _, item := range n.Content {
			val, err := fromYAML(item)
			if err != nil {
				return nil, err
			}
			out.Items = append(out.Items, val)
		}
		return out, nil

	case yaml.ScalarNode:
		// Only an empty plain value is null; "~" and "null" are titles.
		if n.Style == 0 && n.Value == "" {
			return &Node{Kind: NodeScalar, Null: true, Pos: pos}, nil
		}
		return &Node{Kind: NodeScalar, Value: n.Value, Pos: pos}, nil

	case yaml.AliasNode:
		return nil, textError(n, "anchors and aliases are not supported")
	}

	return nil, textError(n, fmt.Sprintf("unexpected node kind %d", n.Kind))
}

func textError(n *yaml.Node, reason string) error {
	return &wmerrors.MalformedInputError{
		Encoding: string(KindText),
		Line:     n.Line,
		Column:   n.Column,
		Reason:   reason,
	}
}
