package ui

import tea "github.com/charmbracelet/bubbletea"

// Overlay is a modal shown in place of the active panel.
type Overlay struct {
	View    View
	Dismiss string // key that closes it without acting, usually "esc"
}

// IsDismissKey reports whether key closes o.
func (o *Overlay) IsDismissKey(key string) bool {
	return o.Dismiss != "" && key == o.Dismiss
}

// OverlayStack holds open modals. The top one receives keys and is rendered.
type OverlayStack struct {
	Stack []Overlay
}

// Push opens o above any existing overlay.
func (s *OverlayStack) Push(o Overlay) {
	s.Stack = append(s.Stack, o)
}

// Pop closes the top overlay.
func (s *OverlayStack) Pop() (Overlay, bool) {
	top, ok := s.Peek()
	if ok {
		s.Stack = s.Stack[:len(s.Stack)-1]
	}
	return top, ok
}

// Peek returns the top overlay.
func (s *OverlayStack) Peek() (Overlay, bool) {
	if len(s.Stack) == 0 {
		return Overlay{}, false
	}
	return s.Stack[len(s.Stack)-1], true
}

// Len returns the number of open overlays.
func (s *OverlayStack) Len() int {
	return len(s.Stack)
}

// UpdateTop sends msg to the top overlay and stores the returned View.
// The caller runs the returned cmd. ok is false when nothing is open.
func (s *OverlayStack) UpdateTop(msg tea.Msg) (cmd tea.Cmd, ok bool) {
	if len(s.Stack) == 0 {
		return nil, false
	}
	top := &s.Stack[len(s.Stack)-1]
	top.View, cmd = top.View.Update(msg)
	return cmd, true
}
