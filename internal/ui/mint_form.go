package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"mintdeck/internal/web3"
)

const (
	fieldName = iota
	fieldDescription
	fieldImage
	fieldCount
)

// MintFormView collects name, description and image for a new NFT.
// up/down move between fields, enter submits.
type MintFormView struct {
	inputs     []textinput.Model
	focus      int
	submitting bool
	result     string
	err        error
	width      int
}

var _ Panel = (*MintFormView)(nil)

// NewMintFormView creates the mint form with the name field focused.
func NewMintFormView() *MintFormView {
	m := &MintFormView{inputs: make([]textinput.Model, fieldCount)}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Width = 48
		switch i {
		case fieldName:
			ti.Prompt = "Name        "
			ti.Placeholder = "Nebula Queen"
			ti.CharLimit = 80
		case fieldDescription:
			ti.Prompt = "Description "
			ti.Placeholder = "What the piece is about"
			ti.CharLimit = 280
		case fieldImage:
			ti.Prompt = "Image       "
			ti.Placeholder = "ipfs://… or CID or https://…"
		}
		m.inputs[i] = ti
	}
	m.inputs[fieldName].Focus()
	return m
}

// Heading implements Panel.
func (m *MintFormView) Heading() string { return HeadingMint }

// CapturesInput implements Panel. The form always has a focused field.
func (m *MintFormView) CapturesInput() bool { return true }

// SetSize implements Panel.
func (m *MintFormView) SetSize(width, _ int) {
	m.width = width
	for i := range m.inputs {
		w := width - len(m.inputs[i].Prompt) - 4
		if w > 10 {
			m.inputs[i].Width = w
		}
	}
}

// Init implements View.
func (m *MintFormView) Init() tea.Cmd {
	return textinput.Blink
}

// Request builds the mint request from the current field values.
func (m *MintFormView) Request() web3.MintRequest {
	return web3.MintRequest{
		Name:        strings.TrimSpace(m.inputs[fieldName].Value()),
		Description: strings.TrimSpace(m.inputs[fieldDescription].Value()),
		Image:       strings.TrimSpace(m.inputs[fieldImage].Value()),
	}
}

// Update implements View.
func (m *MintFormView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case MintedMsg:
		m.submitting = false
		if msg.Err != nil {
			m.err = msg.Err
			m.result = ""
			return m, nil
		}
		m.err = nil
		m.result = fmt.Sprintf("Minted #%d %q (tx %s)", msg.Token.ID, msg.Token.Name, web3.ShortAddress(msg.Receipt.TxHash))
		m.reset()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "up":
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, nil
		case "down":
			m.setFocus((m.focus + 1) % fieldCount)
			return m, nil
		case "enter":
			if m.submitting {
				return m, nil
			}
			req := m.Request()
			if req.Name == "" {
				m.err = web3.ErrNameRequired
				return m, nil
			}
			if req.Image == "" {
				m.err = fmt.Errorf("image is required")
				return m, nil
			}
			m.submitting = true
			m.err = nil
			return m, func() tea.Msg { return MintSubmitMsg{Request: req} }
		}
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *MintFormView) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

func (m *MintFormView) reset() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	m.setFocus(fieldName)
}

// View implements View.
func (m *MintFormView) View() string {
	var b strings.Builder
	b.WriteString(renderHeading(HeadingMint) + "\n\n")
	for i := range m.inputs {
		b.WriteString(m.inputs[i].View() + "\n")
	}
	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString(Styles.Status.Render("Minting…") + "\n")
	case m.err != nil:
		b.WriteString(Styles.Error.Render("Error: "+m.err.Error()) + "\n")
	case m.result != "":
		b.WriteString(Styles.Success.Render(m.result) + "\n")
	}
	b.WriteString(Styles.Hint.Render("↑/↓: field  Enter: mint  Tab: next tab"))
	return b.String()
}
