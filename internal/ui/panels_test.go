package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mintdeck/internal/diagnostics"
	"mintdeck/internal/ledger"
)

func TestNFTDebuggerView_Markdown(t *testing.T) {
	d := NewNFTDebuggerView([]string{"debug-nfts", "ipfs-fix", "check-nft"})
	d.Update(DiagnosticLoadedMsg{Result: diagnostics.Result{
		Module: "debug-nfts",
		Report: diagnostics.Report{Summary: "2 tokens", Findings: []string{"#1 ok", "#2 ok"}},
	}})
	d.Update(DiagnosticLoadedMsg{Result: diagnostics.Result{
		Module: "ipfs-fix",
		Err:    errors.New("gateway unreachable"),
	}})

	md := d.Markdown()
	assert.Contains(t, md, "## debug-nfts ✓\n\n2 tokens\n\n- #1 ok\n- #2 ok\n")
	assert.Contains(t, md, "## ipfs-fix ✗\n\nload failed: `gateway unreachable`")
	assert.Contains(t, md, "## check-nft\n\n*loading…*")
	// Modules render in load order, not arrival order.
	assert.Less(t, strings.Index(md, "debug-nfts"), strings.Index(md, "ipfs-fix"))

	view := d.View()
	assert.Contains(t, view, HeadingDebug)
	assert.Contains(t, view, "gateway unreachable")
}

func TestNFTDebuggerView_ReloadKey(t *testing.T) {
	d := NewNFTDebuggerView([]string{"debug-nfts"})
	_, cmd := d.Update(keyMsg("r"))
	require.NotNil(t, cmd)
	assert.Equal(t, RerunDiagnosticsMsg{}, cmd())
}

func TestStatsOverview(t *testing.T) {
	s := NewStatsOverview()
	assert.Contains(t, s.View(), "–", "placeholder until loaded")

	s.Update(StatsLoadedMsg{Stats: ledger.Stats{TotalMinted: 12, Creators: 3, CreatorTokens: 120, Owned: 4}})
	view := s.View()
	for _, want := range []string{"12", "3", "120", "4", "Total NFTs", "Creators", "Creator Tokens", "Your NFTs"} {
		assert.Contains(t, view, want)
	}

	s.Update(StatsLoadedMsg{Err: errors.New("db locked")})
	assert.Contains(t, s.View(), "Stats unavailable: db locked")
	assert.Contains(t, s.View(), "120", "last good numbers stay on screen")
}

func TestGalleryView_States(t *testing.T) {
	g := NewGalleryView("https://ipfs.io")
	g.Update(GalleryLoadedMsg{})
	assert.Contains(t, g.View(), "No NFTs minted yet")

	g.Update(GalleryLoadedMsg{Tokens: []ledger.Token{{
		ID:      3,
		Name:    "Nebula Queen",
		URI:     "ipfs://" + testCID,
		Creator: testOwner,
	}}})
	view := g.View()
	assert.Contains(t, view, "#3 Nebula Queen")
	assert.Contains(t, view, "(1)")

	g.Update(GalleryLoadedMsg{Err: errors.New("closed")})
	assert.Contains(t, g.View(), "Could not load NFTs: closed")
}

func TestFormatEvent(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		ev   ledger.Event
		want string
	}{
		{ledger.Event{Kind: ledger.EventMint, TokenID: 1, To: testOwner, At: at}, "minted #1 to 0x1111…1111"},
		{ledger.Event{Kind: ledger.EventTransfer, TokenID: 2, From: testOwner, To: testPeer, At: at}, "transferred #2 0x1111…1111 → 0x2222…2222"},
		{ledger.Event{Kind: ledger.EventBurn, TokenID: 3, At: at}, "burned #3"},
		{ledger.Event{Kind: ledger.EventURI, TokenID: 4, At: at}, "updated URI of #4"},
	}
	for _, tc := range cases {
		assert.Contains(t, formatEvent(tc.ev), tc.want)
	}
}

func TestTransferModal_Validates(t *testing.T) {
	m := NewTransferModal(ledger.Token{ID: 9, Name: "Drum Circuit"})
	_, cmd := m.Update(keyMsg("enter"))
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "0x-prefixed")

	m.input.SetValue(testPeer)
	_, cmd = m.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, TransferRequestMsg{TokenID: 9, To: testPeer}, cmd())

	_, cmd = m.Update(keyMsg("esc"))
	require.NotNil(t, cmd)
	assert.Equal(t, DismissModalMsg{}, cmd())
}

func TestBurnConfirmModal(t *testing.T) {
	m := NewBurnConfirmModal(ledger.Token{ID: 5, Name: "Sunset Mask"})
	assert.Contains(t, m.View(), "#5 Sunset Mask")
	_, cmd := m.Update(keyMsg("y"))
	require.NotNil(t, cmd)
	assert.Equal(t, BurnRequestMsg{TokenID: 5}, cmd())
}
