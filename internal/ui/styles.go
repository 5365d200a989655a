package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

// Theme colors: purple night sky, orange and gold highlights.
const (
	ColorAccent    = "220" // Gold - titles, active tab
	ColorHighlight = "208" // Orange - selected items, borders
	ColorPurple    = "99"  // Purple - chrome, inactive tabs
	ColorDanger    = "196" // Red - errors, burn
	ColorSuccess   = "78"  // Green - confirmations
	ColorMuted     = "241" // Gray - hints
	ColorText      = "252" // Light gray - normal text
	ColorWarning   = "214" // Amber - warning details
)

// Styles contains shared style definitions used across panels and modals.
var Styles = struct {
	Title        lipgloss.Style // Bold accent color - panel headings
	TitleWarning lipgloss.Style // Bold danger color - warning titles

	Box        lipgloss.Style // Standard box with rounded border
	BoxDanger  lipgloss.Style // Warning/error box
	BoxCompact lipgloss.Style // Compact box with less padding

	Selected lipgloss.Style
	Muted    lipgloss.Style
	Normal   lipgloss.Style
	Hint     lipgloss.Style
	Status   lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Empty    lipgloss.Style
	Label    lipgloss.Style
	Details  lipgloss.Style

	// Page chrome
	Header      lipgloss.Style
	HeroTitle   lipgloss.Style
	HeroTagline lipgloss.Style
	Footer      lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	Content     lipgloss.Style
	StatValue   lipgloss.Style
	StatLabel   lipgloss.Style
	StatCard    lipgloss.Style
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	TitleWarning: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorDanger)),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(1, 2).
		Margin(1),
	BoxDanger: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorDanger)).
		Padding(1, 2).
		Margin(1),
	BoxCompact: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(0, 1).
		Margin(1),
	Selected: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	Hint: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccent)),
	Success: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSuccess)),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDanger)),
	Empty: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Italic(true),
	Label: lipgloss.NewStyle(),
	Details: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWarning)),

	Header: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(lipgloss.Color(ColorPurple)).
		Padding(0, 1),
	HeroTitle: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	HeroTagline: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)),
	Footer: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(lipgloss.Color(ColorAccent)).
		Padding(0, 1),
	TabActive: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color(ColorAccent)).
		Padding(0, 1),
	TabInactive: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPurple)).
		Padding(0, 1),
	Content: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorPurple)).
		Padding(0, 1),
	StatValue: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	StatLabel: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	StatCard: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorPurple)).
		Padding(0, 1),
}

// ModalStyles are the subset of Styles used by modals.
var ModalStyles = struct {
	BoxDefault   lipgloss.Style
	BoxWarning   lipgloss.Style
	Title        lipgloss.Style
	TitleWarning lipgloss.Style
	Label        lipgloss.Style
	Help         lipgloss.Style
	Details      lipgloss.Style
}{
	BoxDefault:   Styles.Box,
	BoxWarning:   Styles.BoxDanger,
	Title:        Styles.Title,
	TitleWarning: Styles.TitleWarning,
	Label:        Styles.Label,
	Help:         Styles.Hint,
	Details:      Styles.Details,
}

// NewCompactListDelegate returns a delegate with zero spacing and shared styles.
func NewCompactListDelegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.SetSpacing(0)
	d.Styles.SelectedTitle = Styles.Selected
	d.Styles.SelectedDesc = Styles.Selected
	d.Styles.NormalTitle = Styles.Normal
	d.Styles.NormalDesc = Styles.Muted
	return d
}
