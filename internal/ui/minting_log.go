package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"mintdeck/internal/ledger"
	"mintdeck/internal/ui/textutil"
	"mintdeck/internal/web3"
)

// MintingLogView shows recent ledger activity, newest first, in a scrollable viewport.
type MintingLogView struct {
	Events   []ledger.Event
	viewport viewport.Model
	loaded   bool
	err      error
}

var _ Panel = (*MintingLogView)(nil)

// NewMintingLogView creates an empty activity log.
func NewMintingLogView() *MintingLogView {
	return &MintingLogView{viewport: viewport.New(80, 12)}
}

// Heading implements Panel.
func (l *MintingLogView) Heading() string { return HeadingActivity }

// CapturesInput implements Panel.
func (l *MintingLogView) CapturesInput() bool { return false }

// SetSize implements Panel.
func (l *MintingLogView) SetSize(width, height int) {
	l.viewport.Width = width
	l.viewport.Height = max(height-3, 4)
}

// Init implements View.
func (l *MintingLogView) Init() tea.Cmd { return nil }

// Update implements View.
func (l *MintingLogView) Update(msg tea.Msg) (View, tea.Cmd) {
	if msg, ok := msg.(ActivityLoadedMsg); ok {
		l.loaded = true
		l.err = msg.Err
		if msg.Err == nil {
			l.Events = msg.Events
			l.viewport.SetContent(l.renderEvents())
			l.viewport.GotoTop()
		}
		return l, nil
	}
	var cmd tea.Cmd
	l.viewport, cmd = l.viewport.Update(msg)
	return l, cmd
}

func (l *MintingLogView) renderEvents() string {
	lines := make([]string, 0, len(l.Events))
	for _, ev := range l.Events {
		lines = append(lines, formatEvent(ev))
	}
	return strings.Join(lines, "\n")
}

func formatEvent(ev ledger.Event) string {
	ts := Styles.Muted.Render(ev.At.Local().Format("2006-01-02 15:04:05"))
	var what string
	switch ev.Kind {
	case ledger.EventMint:
		what = fmt.Sprintf("minted #%d to %s", ev.TokenID, web3.ShortAddress(ev.To))
	case ledger.EventTransfer:
		what = fmt.Sprintf("transferred #%d %s → %s", ev.TokenID, web3.ShortAddress(ev.From), web3.ShortAddress(ev.To))
	case ledger.EventBurn:
		what = fmt.Sprintf("burned #%d", ev.TokenID)
	case ledger.EventURI:
		what = fmt.Sprintf("updated URI of #%d", ev.TokenID)
	default:
		what = fmt.Sprintf("%s #%d", ev.Kind, ev.TokenID)
	}
	tx := ""
	if ev.TxHash != "" {
		tx = Styles.Muted.Render(" tx " + web3.ShortAddress(ev.TxHash))
	}
	kind := Styles.Status.Render(textutil.PadRight(ev.Kind.String(), 8))
	return ts + "  " + kind + Styles.Normal.Render(what) + tx
}

// View implements View.
func (l *MintingLogView) View() string {
	var b strings.Builder
	b.WriteString(renderHeading(HeadingActivity) + "\n\n")
	switch {
	case l.err != nil:
		b.WriteString(Styles.Error.Render("Could not load activity: " + l.err.Error()))
	case !l.loaded:
		b.WriteString(Styles.Empty.Render("Loading…"))
	case len(l.Events) == 0:
		b.WriteString(Styles.Empty.Render("No activity yet."))
	default:
		b.WriteString(l.viewport.View())
	}
	return b.String()
}
