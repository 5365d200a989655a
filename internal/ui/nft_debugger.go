package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"mintdeck/internal/diagnostics"
)

// NFTDebuggerView shows the diagnostic module results (development builds).
// r reloads every module.
type NFTDebuggerView struct {
	Modules  []string // expected modules, in load order
	Results  map[string]diagnostics.Result
	width    int
	rendered string
	dirty    bool
}

var _ Panel = (*NFTDebuggerView)(nil)

// NewNFTDebuggerView creates the debugger for the given module names.
func NewNFTDebuggerView(modules []string) *NFTDebuggerView {
	return &NFTDebuggerView{
		Modules: modules,
		Results: make(map[string]diagnostics.Result),
		width:   80,
		dirty:   true,
	}
}

// Heading implements Panel.
func (d *NFTDebuggerView) Heading() string { return HeadingDebug }

// CapturesInput implements Panel.
func (d *NFTDebuggerView) CapturesInput() bool { return false }

// SetSize implements Panel.
func (d *NFTDebuggerView) SetSize(width, _ int) {
	if width > 0 && width != d.width {
		d.width = width
		d.dirty = true
	}
}

// Reset clears results before a reload.
func (d *NFTDebuggerView) Reset() {
	d.Results = make(map[string]diagnostics.Result)
	d.dirty = true
}

// Init implements View.
func (d *NFTDebuggerView) Init() tea.Cmd { return nil }

// Update implements View.
func (d *NFTDebuggerView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case DiagnosticLoadedMsg:
		d.Results[msg.Result.Module] = msg.Result
		d.dirty = true
	case tea.KeyMsg:
		if msg.String() == "r" {
			return d, func() tea.Msg { return RerunDiagnosticsMsg{} }
		}
	}
	return d, nil
}

// Markdown renders the results as a markdown report.
func (d *NFTDebuggerView) Markdown() string {
	var b strings.Builder
	for _, name := range d.Modules {
		res, ok := d.Results[name]
		if !ok {
			fmt.Fprintf(&b, "## %s\n\n*loading…*\n\n", name)
			continue
		}
		b.WriteString(res.Markdown() + "\n")
	}
	return b.String()
}

func (d *NFTDebuggerView) render() string {
	if !d.dirty {
		return d.rendered
	}
	md := d.Markdown()
	d.rendered = md
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(max(d.width-4, 20)),
	)
	if err == nil {
		if out, err := r.Render(md); err == nil {
			d.rendered = strings.Trim(out, "\n")
		}
	}
	d.dirty = false
	return d.rendered
}

// View implements View.
func (d *NFTDebuggerView) View() string {
	var b strings.Builder
	b.WriteString(renderHeading(HeadingDebug) + "\n\n")
	if len(d.Modules) == 0 {
		b.WriteString(Styles.Empty.Render("No diagnostic modules registered."))
	} else {
		b.WriteString(d.render())
	}
	b.WriteString("\n" + Styles.Hint.Render("r: reload diagnostics"))
	return b.String()
}
