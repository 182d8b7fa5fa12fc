package model

import (
	"fmt"
	"strings"

	"github.com/wexinc/workmarks/internal/decode"
	wmerrors "github.com/wexinc/workmarks/internal/errors"
)

// Key names used by the export, first match wins.
var (
	workspacesKeys = []string{"Workspaces", "workspaces"}
	nameKeys       = []string{"name", "title"}
	groupsKeys     = []string{"groups"}
	tabsKeys       = []string{"tabs"}
	tabTitleKeys   = []string{"title", "name"}
	urlKeys        = []string{"url"}
)

// BuildOptions controls Build.
type BuildOptions struct {
	// Filter keeps only workspaces whose name exactly matches an entry.
	// Empty keeps all workspaces.
	Filter []string
	// Order is the ordering policy. Empty means DefaultOrder.
	Order Order
}

// Build derives the canonical model from a decoded export. It fails with
// *errors.SchemaError when a required field is missing or a collection is
// not a list, and with a config validation error for an unknown Order.
// A filter that matches nothing is not an error.
func Build(root *decode.Node, opts BuildOptions) (*Model, error) {
	order, err := ParseOrder(string(opts.Order))
	if err != nil {
		return nil, err
	}
	if root == nil || root.Kind != decode.NodeMapping {
		return nil, schemaErr("(root)", "export must be a mapping with a Workspaces collection")
	}

	wsNode, key, ok := root.Lookup(workspacesKeys...)
	if !ok {
		return nil, schemaErr("(root)", fmt.Sprintf("missing %q collection", workspacesKeys[0]))
	}
	items, err := listItems(wsNode, key)
	if err != nil {
		return nil, err
	}

	m := &Model{}
	for i, item := range items {
		ws, err := buildWorkspace(item, fmt.Sprintf("%s[%d]", key, i))
		if err != nil {
			return nil, err
		}
		m.Workspaces = append(m.Workspaces, ws)
	}

	order.apply(m)

	if len(opts.Filter) > 0 {
		m = m.Select(opts.Filter)
	}
	return m, nil
}

func buildWorkspace(n *decode.Node, path string) (*Workspace, error) {
	if n.Kind != decode.NodeMapping {
		return nil, schemaErr(path, "workspace must be a mapping, got "+describe(n))
	}

	name, err := requiredText(n, path, nameKeys...)
	if err != nil {
		return nil, err
	}
	path = fmt.Sprintf("%s(%q)", path, name)
	ws := &Workspace{Name: name}

	groupsNode, key, ok := n.Lookup(groupsKeys...)
	if ok {
		groups, err := listItems(groupsNode, path+"."+key)
		if err != nil {
			return nil, err
		}
		for i, gn := range groups {
			g, err := buildGroup(gn, fmt.Sprintf("%s.%s[%d]", path, key, i))
			if err != nil {
				return nil, err
			}
			ws.Groups = append(ws.Groups, g)
		}
	}

	// Tabs directly on a workspace (no groups) become one unnamed group.
	tabsNode, key, ok := n.Lookup(tabsKeys...)
	if ok {
		tabs, err := buildTabs(tabsNode, path+"."+key)
		if err != nil {
			return nil, err
		}
		if len(tabs) > 0 {
			ws.Groups = append(ws.Groups, &Group{Tabs: tabs})
		}
	}

	return ws, nil
}

func buildGroup(n *decode.Node, path string) (*Group, error) {
	if n.Kind != decode.NodeMapping {
		return nil, schemaErr(path, "group must be a mapping, got "+describe(n))
	}

	name, err := optionalText(n, path, nameKeys...)
	if err != nil {
		return nil, err
	}
	if name != "" {
		path = fmt.Sprintf("%s(%q)", path, name)
	}
	g := &Group{Name: name}

	tabsNode, key, ok := n.Lookup(tabsKeys...)
	if ok {
		tabs, err := buildTabs(tabsNode, path+"."+key)
		if err != nil {
			return nil, err
		}
		g.Tabs = tabs
	}
	return g, nil
}

func buildTabs(n *decode.Node, path string) ([]*Tab, error) {
	items, err := listItems(n, path)
	if err != nil {
		return nil, err
	}

	tabs := make([]*Tab, 0, len(items))
	for i, tn := range items {
		tabPath := fmt.Sprintf("%s[%d]", path, i)
		if tn.Kind != decode.NodeMapping {
			return nil, schemaErr(tabPath, "tab must be a mapping, got "+describe(tn))
		}
		title, err := optionalText(tn, tabPath, tabTitleKeys...)
		if err != nil {
			return nil, err
		}
		url, err := requiredText(tn, tabPath, urlKeys...)
		if err != nil {
			return nil, err
		}
		tabs = append(tabs, &Tab{Title: title, URL: strings.TrimSpace(url)})
	}
	return tabs, nil
}

// listItems returns the elements of a collection. Null and empty mappings
// count as empty lists.
func listItems(n *decode.Node, path string) ([]*decode.Node, error) {
	switch {
	case n.IsNull():
		return nil, nil
	case n.Kind == decode.NodeSequence:
		return n.Items, nil
	case n.Kind == decode.NodeMapping && len(n.Fields) == 0:
		return nil, nil
	}
	return nil, schemaErr(path, "collection must be a list, got "+describe(n))
}

func optionalText(n *decode.Node, path string, keys ...string) (string, error) {
	v, key, ok := n.Lookup(keys...)
	if !ok || v.IsNull() {
		return "", nil
	}
	if v.Kind != decode.NodeScalar {
		return "", schemaErr(path+"."+key, "must be a text value, got "+describe(v))
	}
	return v.Value, nil
}

func requiredText(n *decode.Node, path string, keys ...string) (string, error) {
	s, err := optionalText(n, path, keys...)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(s) == "" {
		return "", schemaErr(path+"."+keys[0], "required field is missing or empty")
	}
	return s, nil
}

func describe(n *decode.Node) string {
	if n.IsNull() {
		return "null"
	}
	return n.Kind.String()
}

func schemaErr(path, reason string) error {
	return &wmerrors.SchemaError{Path: path, Reason: reason}
}
