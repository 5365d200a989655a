package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"mintdeck/internal/config"
	"mintdeck/internal/diagnostics"
	"mintdeck/internal/ledger"
	"mintdeck/internal/web3"
)

const (
	testCID   = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"
	testOwner = "0x1111111111111111111111111111111111111111"
	testPeer  = "0x2222222222222222222222222222222222222222"
)

var allHeadings = []string{HeadingMint, HeadingGallery, HeadingActivity, HeadingManage, HeadingDebug}

type testApp struct {
	*appModelAdapter
	logs *observer.ObservedLogs
}

func newTestApp(t *testing.T, mode config.Mode, reg *diagnostics.Registry) *testApp {
	t.Helper()
	store, err := ledger.Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	w := web3.NewContext(web3.NewLocalChain(store), web3.Options{
		Network: web3.Network{Name: "Lisk Sepolia", ChainID: 4202},
		Wallet:  testOwner,
	})
	t.Cleanup(func() { w.Close() })
	require.NoError(t, w.Connect(context.Background()))

	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)
	m := NewAppModel(Options{
		Mode:        mode,
		Web3:        w,
		Diagnostics: reg,
		Loader:      diagnostics.NewLoader(logger, nil),
		Gateway:     "https://ipfs.io",
		Logger:      logger,
	})
	return &testApp{appModelAdapter: m.AsTeaModel().(*appModelAdapter), logs: logs}
}

// collect runs cmd and any batches it returns, one level of messages deep.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// send updates the app with msg and returns the messages its cmd produces.
func (a *testApp) send(msg tea.Msg) []tea.Msg {
	_, cmd := a.Update(msg)
	return collect(cmd)
}

// settle sends msg and keeps feeding the resulting messages back, a few
// rounds deep. Returns every message produced along the way.
func (a *testApp) settle(msg tea.Msg) []tea.Msg {
	var all []tea.Msg
	pending := []tea.Msg{msg}
	for round := 0; round < 4 && len(pending) > 0; round++ {
		var next []tea.Msg
		for _, m := range pending {
			next = append(next, a.send(m)...)
		}
		all = append(all, next...)
		pending = next
	}
	return all
}

// typeKeys delivers keys to the app, dropping cursor blink commands.
func (a *testApp) typeKeys(keys ...string) {
	for _, k := range keys {
		a.Update(keyMsg(k))
	}
}

// init runs Init's commands once and feeds their messages back.
func (a *testApp) init() []tea.Msg {
	msgs := collect(a.Init())
	for _, m := range msgs {
		a.Update(m)
	}
	return msgs
}

func hasMsg[T any](msgs []tea.Msg) bool {
	for _, m := range msgs {
		if _, ok := m.(T); ok {
			return true
		}
	}
	return false
}

func headingsIn(view string) []string {
	var out []string
	for _, h := range allHeadings {
		if strings.Contains(view, h) {
			out = append(out, h)
		}
	}
	return out
}

func countDiagnostics(msgs []tea.Msg) int {
	n := 0
	for _, m := range msgs {
		if _, ok := m.(DiagnosticLoadedMsg); ok {
			n++
		}
	}
	return n
}

func spyRegistry(t *testing.T, runs *atomic.Int32, names ...string) *diagnostics.Registry {
	t.Helper()
	reg := diagnostics.NewRegistry()
	for _, name := range names {
		require.NoError(t, reg.Register(diagnostics.Module{
			Name: name,
			Run: func(context.Context, diagnostics.Env) (diagnostics.Report, error) {
				runs.Add(1)
				return diagnostics.Report{Summary: name + " ok"}, nil
			},
		}))
	}
	return reg
}

func TestApp_InitialTabIsGallery(t *testing.T) {
	for _, mode := range []config.Mode{config.ModeProduction, config.ModeDevelopment} {
		t.Run(mode.String(), func(t *testing.T) {
			app := newTestApp(t, mode, diagnostics.NewRegistry())
			assert.Equal(t, TabGallery, app.ActiveTab())
			assert.Equal(t, []string{HeadingGallery}, headingsIn(app.View()))
		})
	}
}

func TestApp_EachTabRendersExactlyOnePanel(t *testing.T) {
	app := newTestApp(t, config.ModeDevelopment, diagnostics.NewRegistry())
	want := map[Tab]string{
		TabMint:     HeadingMint,
		TabGallery:  HeadingGallery,
		TabActivity: HeadingActivity,
		TabManage:   HeadingManage,
		TabDebug:    HeadingDebug,
	}
	for _, tab := range AllTabs {
		require.True(t, app.SetActiveTab(tab), "tab %s", tab)
		assert.Equal(t, []string{want[tab]}, headingsIn(app.View()), "tab %s", tab)
	}
}

func TestApp_TabSequence(t *testing.T) {
	app := newTestApp(t, config.ModeProduction, diagnostics.NewRegistry())
	for _, tab := range []Tab{TabMint, TabActivity, TabManage} {
		app.settle(SetTabMsg{Tab: tab})
		assert.Equal(t, tab, app.ActiveTab())
		assert.Equal(t, []string{panelHeading(t, tab)}, headingsIn(app.View()))
	}
}

func panelHeading(t *testing.T, tab Tab) string {
	t.Helper()
	switch tab {
	case TabMint:
		return HeadingMint
	case TabGallery:
		return HeadingGallery
	case TabActivity:
		return HeadingActivity
	case TabManage:
		return HeadingManage
	case TabDebug:
		return HeadingDebug
	default:
		t.Fatalf("no heading for %v", tab)
		return ""
	}
}

func TestApp_TabKeys(t *testing.T) {
	app := newTestApp(t, config.ModeProduction, diagnostics.NewRegistry())

	app.typeKeys("3")
	assert.Equal(t, TabActivity, app.ActiveTab())
	app.typeKeys("tab")
	assert.Equal(t, TabManage, app.ActiveTab())
	app.typeKeys("tab")
	assert.Equal(t, TabMint, app.ActiveTab(), "tab wraps past the last visible tab")

	// The mint form owns digits; tab still leaves it.
	app.typeKeys("4")
	assert.Equal(t, TabMint, app.ActiveTab())
	app.typeKeys("shift+tab")
	assert.Equal(t, TabManage, app.ActiveTab())
}

func TestApp_LeaderSwitchesTab(t *testing.T) {
	app := newTestApp(t, config.ModeDevelopment, diagnostics.NewRegistry())
	app.settle(keyMsg(" "))
	assert.True(t, app.KeyHandler.LeaderWaiting)
	assert.Contains(t, app.View(), "Wallet")
	app.settle(keyMsg("t"))
	app.settle(keyMsg("d"))
	assert.Equal(t, TabDebug, app.ActiveTab())
	assert.False(t, app.KeyHandler.LeaderWaiting)
}

func TestApp_ProductionNeverShowsDebug(t *testing.T) {
	var runs atomic.Int32
	reg := spyRegistry(t, &runs, diagnostics.ModuleDebugNFTs, diagnostics.ModuleCheckNFT)
	app := newTestApp(t, config.ModeProduction, reg)

	msgs := app.init()
	assert.Zero(t, countDiagnostics(msgs))
	assert.Zero(t, runs.Load(), "production must not load diagnostic modules")
	assert.Nil(t, app.Debugger)

	assert.False(t, app.SetActiveTab(TabDebug))
	app.settle(SetTabMsg{Tab: TabDebug})
	app.settle(RerunDiagnosticsMsg{})
	for _, k := range []string{"5", " ", "t", "d", " ", "x", "r"} {
		app.settle(keyMsg(k))
	}

	assert.Equal(t, TabGallery, app.ActiveTab())
	assert.Zero(t, runs.Load())
	view := app.View()
	assert.NotContains(t, view, HeadingDebug)
	assert.NotContains(t, app.Layout.RenderTabBar(), TabDebug.Label())
}

func TestApp_DevelopmentLoadsEveryDiagnostic(t *testing.T) {
	var runs atomic.Int32
	reg := spyRegistry(t, &runs, diagnostics.ModuleDebugNFTs, diagnostics.ModuleIPFSDebug,
		diagnostics.ModuleIPFSFix, diagnostics.ModuleCheckNFT)
	app := newTestApp(t, config.ModeDevelopment, reg)

	msgs := app.init()
	assert.Equal(t, 4, countDiagnostics(msgs))
	assert.Equal(t, int32(4), runs.Load())
	assert.Len(t, app.Debugger.Results, 4)
	// Loading diagnostics does not change the landing tab.
	assert.Equal(t, TabGallery, app.ActiveTab())

	app.SetActiveTab(TabDebug)
	view := app.View()
	assert.Equal(t, []string{HeadingDebug}, headingsIn(view))
	assert.Contains(t, view, diagnostics.ModuleIPFSFix)

	msgs = app.send(RerunDiagnosticsMsg{})
	assert.Equal(t, 4, countDiagnostics(msgs))
	assert.Empty(t, app.Debugger.Results, "results are cleared until the reload reports back")
	assert.Equal(t, int32(8), runs.Load())
}

func TestApp_FailingDiagnosticIsNonFatal(t *testing.T) {
	reg := diagnostics.NewRegistry()
	require.NoError(t, reg.Register(diagnostics.Module{
		Name: "ipfs-fix",
		Run: func(context.Context, diagnostics.Env) (diagnostics.Report, error) {
			return diagnostics.Report{}, errors.New("gateway unreachable")
		},
	}))
	require.NoError(t, reg.Register(diagnostics.Module{
		Name: "check-nft",
		Run: func(context.Context, diagnostics.Env) (diagnostics.Report, error) {
			panic("boom")
		},
	}))
	app := newTestApp(t, config.ModeDevelopment, reg)
	app.init()

	failed := app.logs.FilterMessage("diagnostic module failed to load")
	require.Equal(t, 2, failed.Len())
	assert.Equal(t, zapcore.ErrorLevel, failed.All()[0].Level)

	view := app.View()
	assert.Contains(t, view, AppName)
	assert.Contains(t, view, HeroTitle)
	assert.Contains(t, view, "Total NFTs")
	assert.Contains(t, view, FooterText)
	assert.Equal(t, []string{HeadingGallery}, headingsIn(view))

	// Keys still drive the page after the failed loads.
	app.typeKeys("3")
	assert.Equal(t, TabActivity, app.ActiveTab())
	app.typeKeys("tab")
	assert.Equal(t, TabManage, app.ActiveTab())
	app.typeKeys("tab")
	assert.Equal(t, TabDebug, app.ActiveTab())
	view = app.View()
	assert.Contains(t, view, "gateway unreachable")
	assert.Equal(t, []string{HeadingDebug}, headingsIn(view))
}

func TestApp_RepairedURIsReachThePanels(t *testing.T) {
	app := newTestApp(t, config.ModeDevelopment, diagnostics.Defaults())
	ctx := context.Background()
	tok, _, err := app.Web3.Mint(ctx, web3.MintRequest{Name: "Harbor Lights", Image: testCID})
	require.NoError(t, err)
	_, err = app.Web3.SetTokenURI(ctx, tok.ID, "https://ipfs.io/ipfs/"+testCID)
	require.NoError(t, err)

	// Panel loads settle before the diagnostics report back, so only the
	// repair's reload can bring the canonical URI on screen.
	var loaded []tea.Msg
	for _, m := range collect(app.Init()) {
		if _, ok := m.(DiagnosticLoadedMsg); ok {
			loaded = append(loaded, m)
			continue
		}
		app.Update(m)
	}
	require.Len(t, loaded, 4)
	require.Len(t, app.Gallery.Tokens, 1)

	var msgs []tea.Msg
	for _, m := range loaded {
		msgs = append(msgs, app.settle(m)...)
	}
	assert.True(t, hasMsg[LedgerChangedMsg](msgs), "the ipfs-fix repair reloads the page")
	require.Len(t, app.Gallery.Tokens, 1)
	assert.Equal(t, "ipfs://"+testCID, app.Gallery.Tokens[0].URI)
}

func TestApp_UnknownTabRendersNoPanel(t *testing.T) {
	app := newTestApp(t, config.ModeDevelopment, diagnostics.NewRegistry())
	assert.False(t, app.SetActiveTab(Tab(42)))
	assert.Equal(t, TabGallery, app.ActiveTab())

	app.Nav.Current = Tab(42)
	view := app.View()
	assert.Empty(t, headingsIn(view))
	assert.Contains(t, view, AppName)
	assert.Contains(t, view, FooterText)
	// Keys on a panel-less tab are dropped.
	assert.Empty(t, app.send(keyMsg("x")))
}

func TestApp_CtrlCQuits(t *testing.T) {
	app := newTestApp(t, config.ModeProduction, diagnostics.NewRegistry())
	app.SetActiveTab(TabMint)
	_, cmd := app.Update(keyMsg("ctrl+c"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_MintFlow(t *testing.T) {
	app := newTestApp(t, config.ModeProduction, diagnostics.NewRegistry())
	app.init()
	app.SetActiveTab(TabMint)

	app.typeKeys("Nebula Queen", "down", "down", testCID)

	msgs := app.send(keyMsg("enter"))
	require.Len(t, msgs, 1)
	submit, ok := msgs[0].(MintSubmitMsg)
	require.True(t, ok)
	assert.Equal(t, "Nebula Queen", submit.Request.Name)

	msgs = app.settle(submit)
	require.True(t, hasMsg[MintedMsg](msgs))
	require.True(t, hasMsg[LedgerChangedMsg](msgs), "a successful mint reloads the page")
	for _, m := range msgs {
		if minted, ok := m.(MintedMsg); ok {
			require.NoError(t, minted.Err)
		}
	}

	assert.Contains(t, app.View(), "Minted #1")
	assert.Equal(t, 1, app.Stats.Stats.TotalMinted)
	assert.Equal(t, 1, app.Stats.Stats.Owned)
	require.Len(t, app.Gallery.Tokens, 1)
	assert.Equal(t, "ipfs://"+testCID, app.Gallery.Tokens[0].URI)

	app.SetActiveTab(TabActivity)
	assert.Contains(t, app.View(), "minted #1")
}

func TestApp_MintWithoutNameShowsError(t *testing.T) {
	app := newTestApp(t, config.ModeProduction, diagnostics.NewRegistry())
	app.SetActiveTab(TabMint)
	msgs := app.send(keyMsg("enter"))
	assert.Empty(t, msgs)
	assert.Contains(t, app.View(), web3.ErrNameRequired.Error())
}

func mintOne(t *testing.T, app *testApp, name string) ledger.Token {
	t.Helper()
	tok, _, err := app.Web3.Mint(context.Background(), web3.MintRequest{Name: name, Image: testCID})
	require.NoError(t, err)
	app.settle(RefreshMsg{})
	return tok
}

func TestApp_BurnThroughConfirmModal(t *testing.T) {
	app := newTestApp(t, config.ModeProduction, diagnostics.NewRegistry())
	tok := mintOne(t, app, "Sunset Mask")
	app.SetActiveTab(TabManage)

	msgs := app.send(keyMsg("b"))
	require.Len(t, msgs, 1)
	show, ok := msgs[0].(ShowBurnMsg)
	require.True(t, ok)
	assert.Equal(t, tok.ID, show.Token.ID)

	app.send(show)
	require.Equal(t, 1, app.Overlays.Len())
	view := app.View()
	assert.Contains(t, view, "Burn NFT?")
	assert.Empty(t, headingsIn(view), "the modal replaces the panel")

	msgs = app.send(keyMsg("y"))
	require.Len(t, msgs, 1)
	assert.Equal(t, BurnRequestMsg{TokenID: tok.ID}, msgs[0])

	msgs = app.settle(msgs[0])
	assert.Equal(t, 0, app.Overlays.Len())
	require.True(t, hasMsg[BurnedMsg](msgs))
	require.True(t, hasMsg[LedgerChangedMsg](msgs))
	assert.Empty(t, app.Manager.Tokens)
	assert.Equal(t, 1, app.Stats.Stats.Burned)
	assert.Contains(t, app.View(), "Burned #1")
}

func TestApp_TransferThroughModal(t *testing.T) {
	app := newTestApp(t, config.ModeProduction, diagnostics.NewRegistry())
	tok := mintOne(t, app, "Drum Circuit")
	app.SetActiveTab(TabManage)

	app.typeKeys(" ", "n")
	app.settle(keyMsg("t"))
	require.Equal(t, 1, app.Overlays.Len(), "SPC n t opens the transfer modal")

	// Invalid address keeps the modal open.
	app.typeKeys("nope")
	assert.Empty(t, app.send(keyMsg("enter")))
	assert.Equal(t, 1, app.Overlays.Len())
	assert.Contains(t, app.View(), "0x-prefixed")

	top, _ := app.Overlays.Peek()
	modal, ok := top.View.(*TransferModal)
	require.True(t, ok)
	modal.input.SetValue(testPeer)
	msgs := app.send(keyMsg("enter"))
	require.Len(t, msgs, 1)
	assert.Equal(t, TransferRequestMsg{TokenID: tok.ID, To: testPeer}, msgs[0])

	msgs = app.settle(msgs[0])
	assert.Equal(t, 0, app.Overlays.Len())
	require.True(t, hasMsg[TransferredMsg](msgs))

	got, err := app.Web3.Token(context.Background(), tok.ID)
	require.NoError(t, err)
	assert.Equal(t, testPeer, got.Owner)
	assert.Empty(t, app.Manager.Tokens, "the token left the connected wallet")
}

func TestApp_EscClosesModal(t *testing.T) {
	app := newTestApp(t, config.ModeProduction, diagnostics.NewRegistry())
	app.send(ShowBurnMsg{Token: ledger.Token{ID: 7, Name: "x"}})
	require.Equal(t, 1, app.Overlays.Len())
	app.typeKeys("esc")
	assert.Equal(t, 0, app.Overlays.Len())
}

func TestApp_ManageNeedsWallet(t *testing.T) {
	app := newTestApp(t, config.ModeProduction, diagnostics.NewRegistry())
	app.settle(DisconnectWalletMsg{})
	app.SetActiveTab(TabManage)
	view := app.View()
	assert.Contains(t, view, "Connect a wallet")
	assert.Contains(t, view, "wallet: disconnected")

	app.settle(ConnectWalletMsg{})
	assert.Contains(t, app.View(), "wallet: 0x1111")
	assert.NotContains(t, app.View(), "Connect a wallet")
}
