// Package tui provides the interactive workspace picker.
package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/cases"

	"github.com/wexinc/workmarks/internal/tui/styles"
)

// ErrCanceled is returned by Run when the user leaves without confirming.
var ErrCanceled = errors.New("workspace selection canceled")

// Item is one workspace row in the picker.
type Item struct {
	Name   string
	Groups int
	Tabs   int
}

// Picker is a checklist of workspaces with a type-to-filter input.
type Picker struct {
	items   []Item
	checked []bool

	// shown holds indices into items that match the filter.
	shown       []int
	cursor      int
	scrollStart int

	filter    textinput.Model
	filtering bool
	fold      cases.Caser

	hint     string
	done     bool
	canceled bool
	width    int
	height   int
}

// NewPicker creates a picker over items, all unchecked.
func NewPicker(items []Item) *Picker {
	ti := textinput.New()
	ti.Placeholder = "type to filter workspaces"
	ti.Prompt = "/ "
	ti.CharLimit = 128
	ti.Width = 40

	p := &Picker{
		items:   items,
		checked: make([]bool, len(items)),
		filter:  ti,
		fold:    cases.Fold(),
		width:   60,
		height:  20,
	}
	p.refilter()
	return p
}

// Init implements tea.Model.
func (p *Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.filter.Width = max(msg.Width-8, 10)
		p.ensureVisible()
		return p, nil

	case tea.KeyMsg:
		if p.filtering {
			return p, p.updateFilter(msg)
		}
		p.hint = ""

		switch msg.String() {
		case "ctrl+c", "esc", "q":
			p.canceled = true
			return p, tea.Quit
		case "up", "k":
			if p.cursor > 0 {
				p.cursor--
				p.ensureVisible()
			}
		case "down", "j":
			if p.cursor < len(p.shown)-1 {
				p.cursor++
				p.ensureVisible()
			}
		case " ", "space", "x":
			if len(p.shown) > 0 {
				i := p.shown[p.cursor]
				p.checked[i] = !p.checked[i]
			}
		case "a":
			p.toggleShown()
		case "/":
			p.filtering = true
			return p, p.filter.Focus()
		case "enter":
			if len(p.Selected()) == 0 {
				p.hint = "select at least one workspace"
				return p, nil
			}
			p.done = true
			return p, tea.Quit
		}
	}
	return p, nil
}

func (p *Picker) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		p.canceled = true
		return tea.Quit
	case "esc":
		p.filter.SetValue("")
		p.refilter()
		fallthrough
	case "enter":
		p.filtering = false
		p.filter.Blur()
		return nil
	}

	var cmd tea.Cmd
	p.filter, cmd = p.filter.Update(msg)
	p.refilter()
	return cmd
}

// toggleShown checks every shown row, or unchecks them all if they
// already are.
func (p *Picker) toggleShown() {
	all := len(p.shown) > 0
	for _, i := range p.shown {
		if !p.checked[i] {
			all = false
			break
		}
	}
	for _, i := range p.shown {
		p.checked[i] = !all
	}
}

func (p *Picker) refilter() {
	q := p.fold.String(strings.TrimSpace(p.filter.Value()))
	p.shown = p.shown[:0]
	for i, it := range p.items {
		if q == "" || strings.Contains(p.fold.String(it.Name), q) {
			p.shown = append(p.shown, i)
		}
	}
	if p.cursor >= len(p.shown) {
		p.cursor = max(len(p.shown)-1, 0)
	}
	p.scrollStart = 0
	p.ensureVisible()
}

func (p *Picker) rows() int {
	// title, filter, blank, hint and help lines plus the border
	return max(p.height-9, 3)
}

func (p *Picker) ensureVisible() {
	rows := p.rows()
	if p.cursor < p.scrollStart {
		p.scrollStart = p.cursor
	} else if p.cursor >= p.scrollStart+rows {
		p.scrollStart = p.cursor - rows + 1
	}
}

// Selected returns the checked workspace names in list order.
func (p *Picker) Selected() []string {
	var names []string
	for i, it := range p.items {
		if p.checked[i] {
			names = append(names, it.Name)
		}
	}
	return names
}

// Done reports whether the user confirmed a selection.
func (p *Picker) Done() bool {
	return p.done
}

// Canceled reports whether the user left without confirming.
func (p *Picker) Canceled() bool {
	return p.canceled
}

// View implements tea.Model.
func (p *Picker) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(fmt.Sprintf("Select workspaces (%d/%d)", len(p.Selected()), len(p.items))))
	b.WriteString("\n")
	if p.filtering || p.filter.Value() != "" {
		b.WriteString(p.filter.View())
	}
	b.WriteString("\n\n")

	if len(p.shown) == 0 {
		b.WriteString(styles.MutedTextStyle.Render("  No matching workspaces"))
		b.WriteString("\n")
	} else {
		end := min(p.scrollStart+p.rows(), len(p.shown))
		if p.scrollStart > 0 {
			b.WriteString(styles.MutedTextStyle.Render("  ↑ more above"))
			b.WriteString("\n")
		}
		for row := p.scrollStart; row < end; row++ {
			b.WriteString(p.renderItem(p.shown[row], row == p.cursor))
			b.WriteString("\n")
		}
		if end < len(p.shown) {
			b.WriteString(styles.MutedTextStyle.Render("  ↓ more below"))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if p.hint != "" {
		b.WriteString(styles.WarningTextStyle.Render(p.hint))
		b.WriteString("\n")
	}
	b.WriteString(p.help())

	return styles.FocusedBoxStyle.Width(max(p.width-2, 20)).Render(b.String())
}

func (p *Picker) renderItem(i int, current bool) string {
	cursor := "  "
	if current {
		cursor = styles.CursorStyle.Render("▶ ")
	}

	box := styles.CheckboxUncheckedStyle.Render("[ ]")
	if p.checked[i] {
		box = styles.CheckboxCheckedStyle.Render("[x]")
	}

	it := p.items[i]
	counts := styles.MutedTextStyle.Render(fmt.Sprintf(" %d groups, %d tabs", it.Groups, it.Tabs))
	return cursor + box + " " + it.Name + counts
}

func (p *Picker) help() string {
	key := styles.KeyStyle.Render
	if p.filtering {
		return key("enter") + styles.HelpStyle.Render(" apply  ") +
			key("esc") + styles.HelpStyle.Render(" clear")
	}
	return key("j/k") + styles.HelpStyle.Render(" move  ") +
		key("space") + styles.HelpStyle.Render(" toggle  ") +
		key("a") + styles.HelpStyle.Render(" all  ") +
		key("/") + styles.HelpStyle.Render(" filter  ") +
		key("enter") + styles.HelpStyle.Render(" confirm  ") +
		key("q") + styles.HelpStyle.Render(" cancel")
}

// Run shows the picker on the terminal and returns the confirmed names.
// The UI draws on stderr so stdout stays usable for the document.
func Run(items []Item) ([]string, error) {
	program := tea.NewProgram(NewPicker(items), tea.WithAltScreen(), tea.WithOutput(os.Stderr))
	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("workspace picker: %w", err)
	}

	p, ok := final.(*Picker)
	if !ok || !p.Done() {
		return nil, ErrCanceled
	}
	return p.Selected(), nil
}
