package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mintdeck/internal/ipfs"
	"mintdeck/internal/ledger"
	"mintdeck/internal/ui/textutil"
	"mintdeck/internal/web3"
)

// tokenItem implements list.Item for a ledger token.
type tokenItem struct {
	token   ledger.Token
	gateway string
	width   int
}

func (t tokenItem) FilterValue() string { return t.token.Name }
func (t tokenItem) Title() string {
	return fmt.Sprintf("#%d %s", t.token.ID, t.token.Name)
}
func (t tokenItem) Description() string {
	line := fmt.Sprintf("by %s · %s", web3.ShortAddress(t.token.Creator), ipfs.GatewayURL(t.token.URI, t.gateway))
	if t.width > 8 {
		line = textutil.Truncate(line, t.width-4)
	}
	return line
}

// GalleryView lists every live NFT on the chain.
type GalleryView struct {
	list    list.Model
	Tokens  []ledger.Token
	Gateway string
	spinner spinner.Model
	loading bool
	err     error
	width   int
}

var _ Panel = (*GalleryView)(nil)

// NewGalleryView creates a gallery. Tokens arrive via GalleryLoadedMsg.
func NewGalleryView(gateway string) *GalleryView {
	l := list.New(nil, NewCompactListDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccent))

	return &GalleryView{
		list:    l,
		Gateway: gateway,
		spinner: s,
		loading: true,
	}
}

// Heading implements Panel.
func (g *GalleryView) Heading() string { return HeadingGallery }

// CapturesInput implements Panel.
func (g *GalleryView) CapturesInput() bool { return false }

// SetSize implements Panel.
func (g *GalleryView) SetSize(width, height int) {
	g.width = width
	g.list.SetWidth(width)
	g.list.SetHeight(max(height-3, 4))
	g.updateItems()
}

// Selected returns the index of the highlighted token.
func (g *GalleryView) Selected() int {
	return g.list.Index()
}

// Init implements View.
func (g *GalleryView) Init() tea.Cmd {
	return g.spinner.Tick
}

// Update implements View.
func (g *GalleryView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case GalleryLoadedMsg:
		g.loading = false
		g.err = msg.Err
		if msg.Err == nil {
			g.Tokens = msg.Tokens
			g.updateItems()
		}
		return g, nil
	case spinner.TickMsg:
		if g.loading {
			var cmd tea.Cmd
			g.spinner, cmd = g.spinner.Update(msg)
			return g, cmd
		}
		return g, nil
	}

	var cmd tea.Cmd
	g.list, cmd = g.list.Update(msg)
	return g, cmd
}

func (g *GalleryView) updateItems() {
	items := make([]list.Item, len(g.Tokens))
	for i, t := range g.Tokens {
		items[i] = tokenItem{token: t, gateway: g.Gateway, width: g.width}
	}
	g.list.SetItems(items)
}

// View implements View.
func (g *GalleryView) View() string {
	if g.list.Width() == 0 {
		g.list.SetWidth(80)
	}
	if g.list.Height() == 0 {
		g.list.SetHeight(12)
	}

	var b strings.Builder
	title := renderHeading(HeadingGallery) + Styles.Muted.Render(fmt.Sprintf(" (%d)", len(g.Tokens)))
	if g.loading {
		title += " " + g.spinner.View()
	}
	b.WriteString(title + "\n\n")
	switch {
	case g.err != nil:
		b.WriteString(Styles.Error.Render("Could not load NFTs: " + g.err.Error()))
	case !g.loading && len(g.Tokens) == 0:
		b.WriteString(Styles.Empty.Render("No NFTs minted yet. Open the Mint tab to create the first one."))
	default:
		b.WriteString(g.list.View())
	}
	return b.String()
}
