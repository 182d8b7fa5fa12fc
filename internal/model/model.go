// Package model holds the canonical Workspace -> Group -> Tab tree and the
// builder that derives it from a decoded export.
package model

// Tab is a single bookmark.
type Tab struct {
	Title string
	URL   string
}

// DisplayTitle returns the title, or the URL when the title is empty.
func (t *Tab) DisplayTitle() string {
	if t.Title == "" {
		return t.URL
	}
	return t.Title
}

// Group is a named cluster of tabs inside a workspace. Name may be empty.
type Group struct {
	Name string
	Tabs []*Tab
}

// Workspace is a top-level collection of groups.
type Workspace struct {
	Name   string
	Groups []*Group
}

// Model is the canonical, ordered export tree.
type Model struct {
	Workspaces []*Workspace

	// Filter is the workspace filter that was applied, if any.
	Filter []string
	// Unmatched lists filter entries that matched no workspace.
	Unmatched []string
}

// Counts summarizes the size of a model.
type Counts struct {
	Workspaces int
	Groups     int
	Tabs       int
}

// Counts returns the number of workspaces, groups and tabs in the model.
func (m *Model) Counts() Counts {
	c := Counts{Workspaces: len(m.Workspaces)}
	for _, ws := range m.Workspaces {
		c.Groups += len(ws.Groups)
		for _, g := range ws.Groups {
			c.Tabs += len(g.Tabs)
		}
	}
	return c
}

// TabCount returns the number of tabs in the workspace.
func (ws *Workspace) TabCount() int {
	n := 0
	for _, g := range ws.Groups {
		n += len(g.Tabs)
	}
	return n
}

// Names returns workspace names in model order.
func (m *Model) Names() []string {
	names := make([]string, len(m.Workspaces))
	for i, ws := range m.Workspaces {
		names[i] = ws.Name
	}
	return names
}

// Select returns a model holding only the workspaces whose name is in
// names. Workspaces are shared with m, not copied. An empty names keeps
// everything.
func (m *Model) Select(names []string) *Model {
	if len(names) == 0 {
		return &Model{Workspaces: m.Workspaces}
	}

	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	out := &Model{Filter: names}
	found := make(map[string]bool, len(names))
	for _, ws := range m.Workspaces {
		if want[ws.Name] {
			out.Workspaces = append(out.Workspaces, ws)
			found[ws.Name] = true
		}
	}
	for _, n := range names {
		if !found[n] {
			out.Unmatched = append(out.Unmatched, n)
			found[n] = true
		}
	}
	return out
}
