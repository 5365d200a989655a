package ui

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mintdeck/internal/ledger"
)

// StatsOverview is the row of stat cards under the hero.
type StatsOverview struct {
	Stats  ledger.Stats
	loaded bool
	err    error
	width  int
}

var _ View = (*StatsOverview)(nil)

// NewStatsOverview creates an empty overview; numbers arrive via StatsLoadedMsg.
func NewStatsOverview() *StatsOverview {
	return &StatsOverview{}
}

// SetWidth sets the available width.
func (s *StatsOverview) SetWidth(w int) { s.width = w }

// Init implements View.
func (s *StatsOverview) Init() tea.Cmd { return nil }

// Update implements View.
func (s *StatsOverview) Update(msg tea.Msg) (View, tea.Cmd) {
	if msg, ok := msg.(StatsLoadedMsg); ok {
		s.err = msg.Err
		if msg.Err == nil {
			s.Stats = msg.Stats
			s.loaded = true
		}
	}
	return s, nil
}

type statCard struct {
	label string
	value int
}

func (s *StatsOverview) cards() []statCard {
	return []statCard{
		{"Total NFTs", s.Stats.TotalMinted},
		{"Creators", s.Stats.Creators},
		{"Creator Tokens", s.Stats.CreatorTokens},
		{"Your NFTs", s.Stats.Owned},
	}
}

// View implements View.
func (s *StatsOverview) View() string {
	cards := s.cards()
	cardWidth := 18
	if s.width > 0 {
		cardWidth = max(s.width/len(cards)-2, 14)
	}
	rendered := make([]string, len(cards))
	for i, c := range cards {
		value := "–"
		if s.loaded {
			value = strconv.Itoa(c.value)
		}
		body := Styles.StatValue.Render(value) + "\n" + Styles.StatLabel.Render(c.label)
		rendered[i] = Styles.StatCard.Width(cardWidth).Render(body)
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	if s.err != nil {
		row += "\n" + Styles.Error.Render("Stats unavailable: "+s.err.Error())
	}
	return row
}
