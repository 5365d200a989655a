package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"mintdeck/internal/ledger"
	"mintdeck/internal/web3"
)

// NFTManagerView lists the connected account's NFTs; t transfers, b burns.
type NFTManagerView struct {
	list    list.Model
	Tokens  []ledger.Token
	Gateway string
	loaded  bool
	err     error
	notice  string
	width   int
}

var _ Panel = (*NFTManagerView)(nil)

// NewNFTManagerView creates the manager panel.
func NewNFTManagerView(gateway string) *NFTManagerView {
	l := list.New(nil, NewCompactListDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return &NFTManagerView{list: l, Gateway: gateway}
}

// Heading implements Panel.
func (m *NFTManagerView) Heading() string { return HeadingManage }

// CapturesInput implements Panel.
func (m *NFTManagerView) CapturesInput() bool { return false }

// SetSize implements Panel.
func (m *NFTManagerView) SetSize(width, height int) {
	m.width = width
	m.list.SetWidth(width)
	m.list.SetHeight(max(height-4, 4))
	m.updateItems()
}

// SelectedToken returns the highlighted token, if any.
func (m *NFTManagerView) SelectedToken() (ledger.Token, bool) {
	idx := m.list.Index()
	if idx < 0 || idx >= len(m.Tokens) {
		return ledger.Token{}, false
	}
	return m.Tokens[idx], true
}

// Init implements View.
func (m *NFTManagerView) Init() tea.Cmd { return nil }

// Update implements View.
func (m *NFTManagerView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case MyTokensLoadedMsg:
		m.loaded = true
		m.err = msg.Err
		if msg.Err != nil {
			m.Tokens = nil
		} else {
			m.Tokens = msg.Tokens
		}
		m.updateItems()
		return m, nil
	case TransferredMsg:
		m.notice = receiptNotice("Transferred", msg.Receipt, msg.Err)
		return m, nil
	case BurnedMsg:
		m.notice = receiptNotice("Burned", msg.Receipt, msg.Err)
		return m, nil
	case ManageSelectedMsg:
		return m, m.actOnSelected(msg.Action)
	case tea.KeyMsg:
		switch msg.String() {
		case "t":
			return m, m.actOnSelected(ManageTransfer)
		case "b":
			return m, m.actOnSelected(ManageBurn)
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *NFTManagerView) actOnSelected(action ManageAction) tea.Cmd {
	tok, ok := m.SelectedToken()
	if !ok {
		return nil
	}
	switch action {
	case ManageTransfer:
		return func() tea.Msg { return ShowTransferMsg{Token: tok} }
	case ManageBurn:
		return func() tea.Msg { return ShowBurnMsg{Token: tok} }
	}
	return nil
}

func receiptNotice(verb string, rc web3.Receipt, err error) string {
	if err != nil {
		return "Error: " + err.Error()
	}
	return fmt.Sprintf("%s #%d (tx %s)", verb, rc.TokenID, web3.ShortAddress(rc.TxHash))
}

func (m *NFTManagerView) updateItems() {
	items := make([]list.Item, len(m.Tokens))
	for i, t := range m.Tokens {
		items[i] = tokenItem{token: t, gateway: m.Gateway, width: m.width}
	}
	m.list.SetItems(items)
}

// View implements View.
func (m *NFTManagerView) View() string {
	if m.list.Width() == 0 {
		m.list.SetWidth(80)
	}
	if m.list.Height() == 0 {
		m.list.SetHeight(10)
	}

	var b strings.Builder
	b.WriteString(renderHeading(HeadingManage) + "\n\n")
	switch {
	case errors.Is(m.err, web3.ErrNotConnected):
		b.WriteString(Styles.Empty.Render("Connect a wallet to manage NFTs (SPC w c)."))
	case m.err != nil:
		b.WriteString(Styles.Error.Render("Could not load your NFTs: " + m.err.Error()))
	case !m.loaded:
		b.WriteString(Styles.Empty.Render("Loading…"))
	case len(m.Tokens) == 0:
		b.WriteString(Styles.Empty.Render("You don't own any NFTs yet."))
	default:
		b.WriteString(m.list.View())
	}
	if m.notice != "" {
		style := Styles.Success
		if strings.HasPrefix(m.notice, "Error:") {
			style = Styles.Error
		}
		b.WriteString("\n" + style.Render(m.notice))
	}
	b.WriteString("\n" + Styles.Hint.Render("t: transfer  b: burn  j/k: move"))
	return b.String()
}
