package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"mintdeck/internal/ledger"
	"mintdeck/internal/web3"
)

// TransferModal asks for the recipient address of a token transfer.
type TransferModal struct {
	Token ledger.Token
	input textinput.Model
	err   string
}

// Ensure TransferModal implements View.
var _ View = (*TransferModal)(nil)

// NewTransferModal creates a transfer modal for tok.
func NewTransferModal(tok ledger.Token) *TransferModal {
	ti := textinput.New()
	ti.Placeholder = "0x…"
	ti.CharLimit = 42
	ti.Width = 44
	ti.Focus()
	return &TransferModal{Token: tok, input: ti}
}

// Init implements View.
func (m *TransferModal) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements View.
func (m *TransferModal) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "enter":
			to := strings.TrimSpace(m.input.Value())
			if !web3.IsAddress(to) {
				m.err = "Enter a 0x-prefixed 40 hex digit address."
				return m, nil
			}
			id := m.Token.ID
			return m, func() tea.Msg { return TransferRequestMsg{TokenID: id, To: to} }
		}
	}
	m.err = ""
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements View.
func (m *TransferModal) View() string {
	content := ModalStyles.Title.Render(fmt.Sprintf("Transfer #%d %s", m.Token.ID, m.Token.Name)) + "\n\n"
	content += ModalStyles.Label.Render("Recipient") + "\n"
	content += m.input.View() + "\n"
	if m.err != "" {
		content += Styles.Error.Render(m.err) + "\n"
	}
	content += "\n" + ModalStyles.Help.Render("Enter: transfer  Esc: cancel")
	return ModalStyles.BoxDefault.Render(content)
}
