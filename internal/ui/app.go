package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"mintdeck/internal/config"
	"mintdeck/internal/diagnostics"
	"mintdeck/internal/logging"
	"mintdeck/internal/web3"
)

// Options configures the root model.
type Options struct {
	Mode config.Mode
	Web3 *web3.Context
	// Diagnostics is loaded on start in development builds and ignored otherwise.
	Diagnostics *diagnostics.Registry
	Loader      *diagnostics.Loader
	Gateway     string
	Logger      *zap.Logger
}

// AppModel is the page shell: header, hero, stats, tab bar with one
// content panel, footer.
type AppModel struct {
	Mode       config.Mode
	Web3       *web3.Context
	Nav        *TabNavigator
	Layout     *AppLayout
	KeyHandler *KeyHandler
	Overlays   OverlayStack
	Stats      *StatsOverview

	Mint     *MintFormView
	Gallery  *GalleryView
	Activity *MintingLogView
	Manager  *NFTManagerView
	Debugger *NFTDebuggerView // nil in production

	Diagnostics *diagnostics.Registry
	Loader      *diagnostics.Loader
	Gateway     string
	Logger      *zap.Logger

	width  int
	height int
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// NewAppModel creates the root application model.
func NewAppModel(opts Options) *AppModel {
	logger := logging.OrNop(opts.Logger).Named("ui")
	nav := &TabNavigator{Current: DefaultTab, Order: VisibleTabs(opts.Mode)}
	nav.OnChange = func(from, to Tab) {
		logger.Debug("tab changed", zap.Stringer("from", from), zap.Stringer("to", to))
	}
	m := &AppModel{
		Mode:     opts.Mode,
		Web3:     opts.Web3,
		Nav:      nav,
		Layout:   NewAppLayout(nav),
		Stats:    NewStatsOverview(),
		Mint:     NewMintFormView(),
		Gallery:  NewGalleryView(opts.Gateway),
		Activity: NewMintingLogView(),
		Manager:  NewNFTManagerView(opts.Gateway),
		Gateway:  opts.Gateway,
		Logger:   logger,
	}
	if opts.Mode.IsDevelopment() {
		m.Diagnostics = opts.Diagnostics
		m.Loader = opts.Loader
		var names []string
		for _, mod := range m.Diagnostics.Modules() {
			names = append(names, mod.Name)
		}
		m.Debugger = NewNFTDebuggerView(names)
	}
	m.KeyHandler = NewKeyHandler(m.keybinds())
	m.KeyHandler.ActiveTab = m.ActiveTab
	return m
}

func (m *AppModel) keybinds() *KeybindRegistry {
	reg := NewKeybindRegistry()
	reg.BindWithDesc("q", tea.Quit, "Quit")
	reg.BindWithDesc("SPC q", tea.Quit, "Quit")
	setTab := func(t Tab) tea.Cmd {
		return func() tea.Msg { return SetTabMsg{Tab: t} }
	}
	reg.BindWithDesc("SPC t m", setTab(TabMint), "Mint")
	reg.BindWithDesc("SPC t g", setTab(TabGallery), "Gallery")
	reg.BindWithDesc("SPC t a", setTab(TabActivity), "Activity")
	reg.BindWithDesc("SPC t n", setTab(TabManage), "Manage")
	reg.BindWithDesc("SPC w c", func() tea.Msg { return ConnectWalletMsg{} }, "Connect wallet")
	reg.BindWithDesc("SPC w d", func() tea.Msg { return DisconnectWalletMsg{} }, "Disconnect wallet")
	reg.BindWithDesc("SPC r", func() tea.Msg { return RefreshMsg{} }, "Refresh")
	manage := []Tab{TabManage}
	reg.BindWithDescForTabs("SPC n t", func() tea.Msg { return ManageSelectedMsg{Action: ManageTransfer} }, "Transfer", manage)
	reg.BindWithDescForTabs("SPC n b", func() tea.Msg { return ManageSelectedMsg{Action: ManageBurn} }, "Burn", manage)
	if m.Mode.IsDevelopment() {
		reg.BindWithDesc("SPC t d", setTab(TabDebug), "Debug")
		reg.BindWithDesc("SPC x r", func() tea.Msg { return RerunDiagnosticsMsg{} }, "Reload diagnostics")
	}
	return reg
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}

// ActiveTab returns the selected tab.
func (m *AppModel) ActiveTab() Tab {
	return m.Nav.Current
}

// SetActiveTab selects t. Tabs not available in this build mode are rejected.
func (m *AppModel) SetActiveTab(t Tab) bool {
	return m.Nav.Set(t)
}

// activePanel returns the panel for the active tab, or nil when the tab has
// no panel (an unknown value, or debug outside development builds).
func (m *AppModel) activePanel() Panel {
	switch m.Nav.Current {
	case TabMint:
		return m.Mint
	case TabGallery:
		return m.Gallery
	case TabActivity:
		return m.Activity
	case TabManage:
		return m.Manager
	case TabDebug:
		if m.Debugger == nil {
			return nil
		}
		return m.Debugger
	default:
		return nil
	}
}

func (m *AppModel) panels() []Panel {
	ps := []Panel{m.Mint, m.Gallery, m.Activity, m.Manager}
	if m.Debugger != nil {
		ps = append(ps, m.Debugger)
	}
	return ps
}

func (m *AppModel) diagnosticsEnv() diagnostics.Env {
	env := diagnostics.Env{Gateway: m.Gateway}
	if m.Web3 != nil {
		env.Chain = m.Web3
	}
	return env
}

func (m *AppModel) reloadCmds() []tea.Cmd {
	if m.Web3 == nil {
		return nil
	}
	return []tea.Cmd{
		loadStatsCmd(m.Web3),
		loadGalleryCmd(m.Web3),
		loadMyTokensCmd(m.Web3),
		loadActivityCmd(m.Web3),
	}
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	cmds := []tea.Cmd{a.Stats.Init()}
	for _, p := range a.panels() {
		cmds = append(cmds, p.Init())
	}
	cmds = append(cmds, a.reloadCmds()...)
	cmds = append(cmds, diagnosticCmds(a.Mode, a.Diagnostics, a.Loader, a.diagnosticsEnv())...)
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a, a.handleKey(msg)
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil
	case SetTabMsg:
		if !a.SetActiveTab(msg.Tab) {
			a.Logger.Debug("tab not available", zap.Stringer("tab", msg.Tab), zap.Stringer("mode", a.Mode))
		}
		return a, nil
	case RefreshMsg, LedgerChangedMsg:
		return a, tea.Batch(a.reloadCmds()...)
	case ConnectWalletMsg:
		if a.Web3 != nil {
			return a, connectCmd(a.Web3)
		}
		return a, nil
	case DisconnectWalletMsg:
		if a.Web3 != nil {
			return a, disconnectCmd(a.Web3)
		}
		return a, nil
	case WalletChangedMsg:
		if msg.Err != nil {
			a.Logger.Warn("wallet change failed", zap.Error(msg.Err))
		}
		return a, tea.Batch(a.reloadCmds()...)
	case MintSubmitMsg:
		if a.Web3 != nil {
			return a, mintCmd(a.Web3, msg.Request)
		}
	case MintedMsg:
		if msg.Err != nil {
			a.Logger.Warn("mint failed", zap.Error(msg.Err))
		} else {
			a.Logger.Info("minted", zap.Int64("token_id", msg.Token.ID), zap.String("tx", msg.Receipt.TxHash))
			cmds = append(cmds, ledgerChanged)
		}
	case ShowTransferMsg:
		modal := NewTransferModal(msg.Token)
		a.Overlays.Push(Overlay{View: modal, Dismiss: "esc"})
		return a, modal.Init()
	case ShowBurnMsg:
		a.Overlays.Push(Overlay{View: NewBurnConfirmModal(msg.Token), Dismiss: "esc"})
		return a, nil
	case TransferRequestMsg:
		a.Overlays.Pop()
		if a.Web3 != nil {
			return a, transferCmd(a.Web3, msg.TokenID, msg.To)
		}
		return a, nil
	case BurnRequestMsg:
		a.Overlays.Pop()
		if a.Web3 != nil {
			return a, burnCmd(a.Web3, msg.TokenID)
		}
		return a, nil
	case TransferredMsg:
		cmds = append(cmds, a.afterWrite("transfer", msg.Receipt, msg.Err))
	case BurnedMsg:
		cmds = append(cmds, a.afterWrite("burn", msg.Receipt, msg.Err))
	case DismissModalMsg:
		a.Overlays.Pop()
		return a, nil
	case DiagnosticLoadedMsg:
		// The debugger picks the result up in the fan-out below.
		if msg.Result.Report.Changed {
			cmds = append(cmds, ledgerChanged)
		}
	case RerunDiagnosticsMsg:
		if a.Debugger == nil {
			return a, nil
		}
		a.Debugger.Reset()
		return a, tea.Batch(diagnosticCmds(a.Mode, a.Diagnostics, a.Loader, a.diagnosticsEnv())...)
	}

	// Everything else fans out: data messages update panels that are not
	// on screen, and each bubbles component ignores ticks it does not own.
	if cmd, ok := a.Overlays.UpdateTop(msg); ok {
		cmds = append(cmds, cmd)
	}
	if _, cmd := a.Stats.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	for _, p := range a.panels() {
		if _, cmd := p.Update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return a, tea.Batch(cmds...)
}

func (m *AppModel) afterWrite(op string, rc web3.Receipt, err error) tea.Cmd {
	if err != nil {
		m.Logger.Warn(op+" failed", zap.Error(err))
		return nil
	}
	m.Logger.Info(op, zap.Int64("token_id", rc.TokenID), zap.String("tx", rc.TxHash))
	return ledgerChanged
}

func (a *appModelAdapter) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}
	// Modals take every key while open.
	if top, ok := a.Overlays.Peek(); ok {
		if top.IsDismissKey(msg.String()) {
			a.Overlays.Pop()
			return nil
		}
		cmd, _ := a.Overlays.UpdateTop(msg)
		return cmd
	}

	panel := a.activePanel()
	capturing := panel != nil && panel.CapturesInput()
	if !capturing && a.KeyHandler != nil {
		if consumed, cmd := a.KeyHandler.Handle(msg); consumed {
			return cmd
		}
	}
	if a.Layout.HandleKey(msg, capturing) {
		return nil
	}
	if panel == nil {
		return nil
	}
	_, cmd := panel.Update(msg)
	return cmd
}

func (m *AppModel) resize(width, height int) {
	m.width, m.height = width, height
	m.Stats.SetWidth(width)
	// header 2, hero 2, stats 4, footer 2, spacing 4
	m.Layout.SetSize(width, height-14)
	w, h := m.Layout.ContentSize()
	for _, p := range m.panels() {
		p.SetSize(w, h)
	}
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	content := ""
	if top, ok := a.Overlays.Peek(); ok {
		content = top.View.View()
	} else if p := a.activePanel(); p != nil {
		content = p.View()
	}

	sections := []string{
		renderHeader(a.Web3, a.width),
		renderHero(),
		a.Stats.View(),
		a.Layout.Render(content),
		renderFooter(),
	}
	view := strings.Join(sections, "\n\n")
	if a.KeyHandler != nil && a.KeyHandler.LeaderWaiting {
		view += "\n" + RenderKeybindHelp(a.KeyHandler, a.ActiveTab())
	}
	return view
}
