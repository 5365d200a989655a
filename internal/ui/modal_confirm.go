package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mintdeck/internal/ledger"
)

// ConfirmModal is a generic confirmation modal.
// Enter or y confirms; Esc cancels.
type ConfirmModal struct {
	Title       string
	Label       string
	Details     string // Optional warning details (e.g., "This cannot be undone")
	OnConfirm   func() tea.Msg
	boxStyle    lipgloss.Style
	titleStyle  lipgloss.Style
	detailStyle lipgloss.Style
	// Token is set for burn confirmations.
	Token ledger.Token
}

// Ensure ConfirmModal implements View.
var _ View = (*ConfirmModal)(nil)

// NewConfirmModal creates a generic confirmation modal.
func NewConfirmModal(title, label string, onConfirm func() tea.Msg) *ConfirmModal {
	return &ConfirmModal{
		Title:       title,
		Label:       label,
		OnConfirm:   onConfirm,
		boxStyle:    ModalStyles.BoxWarning,
		titleStyle:  ModalStyles.TitleWarning,
		detailStyle: ModalStyles.Details,
	}
}

// WithDetails adds warning details to the modal.
func (m *ConfirmModal) WithDetails(details string) *ConfirmModal {
	m.Details = details
	return m
}

// NewBurnConfirmModal asks before burning tok.
func NewBurnConfirmModal(tok ledger.Token) *ConfirmModal {
	id := tok.ID
	modal := NewConfirmModal(
		"Burn NFT?",
		fmt.Sprintf("#%d %s", tok.ID, tok.Name),
		func() tea.Msg { return BurnRequestMsg{TokenID: id} },
	)
	modal.Token = tok
	return modal.WithDetails("The token is destroyed permanently.")
}

// Init implements View.
func (m *ConfirmModal) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (m *ConfirmModal) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "enter", "y":
			if m.OnConfirm != nil {
				return m, m.OnConfirm
			}
		}
	}
	return m, nil
}

// View implements View.
func (m *ConfirmModal) View() string {
	content := m.titleStyle.Render(m.Title) + "\n\n"
	content += ModalStyles.Label.Render(m.Label)
	if m.Details != "" {
		content += "\n" + m.detailStyle.Render(m.Details)
	}
	content += "\n\n" + ModalStyles.Help.Render("y/Enter: confirm  Esc: cancel")
	return m.boxStyle.Render(content)
}
