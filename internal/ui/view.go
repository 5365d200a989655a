package ui

import tea "github.com/charmbracelet/bubbletea"

// View is the unit of composition: Bubble Tea's Init/Update/View with
// Update returning the concrete View so the owner can keep typed pointers.
type View interface {
	Init() tea.Cmd
	Update(tea.Msg) (View, tea.Cmd)
	View() string
}
