package ui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// AppLayout draws the tab bar and the content box and owns tab switching keys.
// tab/shift+tab always switch; digits 1-n select a tab unless the panel
// captures input.
type AppLayout struct {
	Nav    *TabNavigator
	width  int
	height int
}

// NewAppLayout creates a layout over nav.
func NewAppLayout(nav *TabNavigator) *AppLayout {
	return &AppLayout{Nav: nav}
}

// SetSize sets the space available to the tab bar and content box.
func (l *AppLayout) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// ContentSize is the inner size of the content box.
func (l *AppLayout) ContentSize() (int, int) {
	frameW, frameH := Styles.Content.GetFrameSize()
	w := l.width - frameW
	h := l.height - frameH - 1 // tab bar
	if w < 20 {
		w = 20
	}
	if h < 6 {
		h = 6
	}
	return w, h
}

// HandleKey switches tabs for navigation keys. Returns true if consumed.
func (l *AppLayout) HandleKey(msg tea.KeyMsg, capturing bool) bool {
	switch s := msg.String(); s {
	case "tab":
		l.Nav.Next()
		return true
	case "shift+tab":
		l.Nav.Prev()
		return true
	default:
		if capturing {
			return false
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > len(l.Nav.Order) {
			return false
		}
		l.Nav.Set(l.Nav.Order[n-1])
		return true
	}
}

// RenderTabBar draws the visible tabs with the active one highlighted.
func (l *AppLayout) RenderTabBar() string {
	parts := make([]string, len(l.Nav.Order))
	for i, t := range l.Nav.Order {
		label := strconv.Itoa(i+1) + " " + t.Label()
		if t == l.Nav.Current {
			parts[i] = Styles.TabActive.Render(label)
		} else {
			parts[i] = Styles.TabInactive.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// Render places content under the tab bar inside the content box.
func (l *AppLayout) Render(content string) string {
	box := Styles.Content
	if l.width > 0 {
		box = box.Width(l.width - box.GetHorizontalFrameSize() + box.GetHorizontalPadding())
	}
	var b strings.Builder
	b.WriteString(l.RenderTabBar())
	b.WriteString("\n")
	b.WriteString(box.Render(content))
	return b.String()
}
