// Package emit renders a model as a Netscape Bookmark File, the HTML
// format every mainstream browser can import.
package emit

import (
	"bytes"
	"io"
	"strings"

	"github.com/wexinc/workmarks/internal/model"
)

// DefaultPlaceholder titles groups that have no name.
const DefaultPlaceholder = "Untitled"

const preamble = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<!-- This is an automatically generated file.
     It will be read and overwritten.
     DO NOT EDIT! -->
<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
`

const indentUnit = "    "

// escaper covers the characters that are unsafe in both element content
// and double-quoted attribute values.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// Escape returns s with &, <, > and " replaced by entities.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Options controls document layout.
type Options struct {
	// RootFolder, when set, wraps all workspaces in one top-level folder.
	RootFolder string
	// Placeholder titles unnamed groups. Empty means DefaultPlaceholder.
	Placeholder string
	// Folded marks every folder as collapsed.
	Folded bool
}

// Emit renders m. Output depends only on m and opts.
func Emit(m *model.Model, opts Options) []byte {
	var buf bytes.Buffer
	// bytes.Buffer writes cannot fail
	_ = Write(&buf, m, opts)
	return buf.Bytes()
}

// Write renders m to w.
func Write(w io.Writer, m *model.Model, opts Options) error {
	if opts.Placeholder == "" {
		opts.Placeholder = DefaultPlaceholder
	}
	e := &emitter{w: w, opts: opts}

	e.raw(preamble)
	e.line(0, "<DL><p>")
	depth := 1
	if opts.RootFolder != "" {
		e.openFolder(depth, opts.RootFolder)
		depth++
	}
	for _, ws := range m.Workspaces {
		e.workspace(depth, ws)
	}
	if opts.RootFolder != "" {
		e.closeFolder(depth - 1)
	}
	e.line(0, "</DL><p>")

	return e.err
}

type emitter struct {
	w    io.Writer
	opts Options
	err  error
}

func (e *emitter) workspace(depth int, ws *model.Workspace) {
	e.openFolder(depth, ws.Name)
	for _, g := range ws.Groups {
		name := g.Name
		if strings.TrimSpace(name) == "" {
			name = e.opts.Placeholder
		}
		e.openFolder(depth+1, name)
		for _, t := range g.Tabs {
			e.line(depth+2, `<DT><A HREF="`+Escape(t.URL)+`">`+Escape(t.DisplayTitle())+`</A>`)
		}
		e.closeFolder(depth + 1)
	}
	e.closeFolder(depth)
}

func (e *emitter) openFolder(depth int, title string) {
	h3 := "<H3>"
	if e.opts.Folded {
		h3 = "<H3 FOLDED>"
	}
	e.line(depth, "<DT>"+h3+Escape(title)+"</H3>")
	e.line(depth, "<DL><p>")
}

func (e *emitter) closeFolder(depth int) {
	e.line(depth, "</DL><p>")
}

func (e *emitter) line(depth int, s string) {
	e.raw(strings.Repeat(indentUnit, depth) + s + "\n")
}

func (e *emitter) raw(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}
