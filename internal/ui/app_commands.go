package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"mintdeck/internal/config"
	"mintdeck/internal/diagnostics"
	"mintdeck/internal/web3"
)

// opTimeout bounds every chain call made from the UI.
const opTimeout = 10 * time.Second

// activityLimit is how many events the minting log shows.
const activityLimit = 50

func opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}

func loadStatsCmd(w *web3.Context) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opContext()
		defer cancel()
		st, err := w.Stats(ctx)
		return StatsLoadedMsg{Stats: st, Err: err}
	}
}

func loadGalleryCmd(w *web3.Context) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opContext()
		defer cancel()
		toks, err := w.Gallery(ctx)
		return GalleryLoadedMsg{Tokens: toks, Err: err}
	}
}

func loadMyTokensCmd(w *web3.Context) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opContext()
		defer cancel()
		toks, err := w.MyTokens(ctx)
		return MyTokensLoadedMsg{Tokens: toks, Err: err}
	}
}

func loadActivityCmd(w *web3.Context) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opContext()
		defer cancel()
		evs, err := w.Activity(ctx, activityLimit)
		return ActivityLoadedMsg{Events: evs, Err: err}
	}
}

func mintCmd(w *web3.Context, req web3.MintRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opContext()
		defer cancel()
		tok, rc, err := w.Mint(ctx, req)
		return MintedMsg{Token: tok, Receipt: rc, Err: err}
	}
}

func transferCmd(w *web3.Context, tokenID int64, to string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opContext()
		defer cancel()
		rc, err := w.Transfer(ctx, tokenID, to)
		return TransferredMsg{Receipt: rc, Err: err}
	}
}

func burnCmd(w *web3.Context, tokenID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opContext()
		defer cancel()
		rc, err := w.Burn(ctx, tokenID)
		return BurnedMsg{Receipt: rc, Err: err}
	}
}

func connectCmd(w *web3.Context) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opContext()
		defer cancel()
		return WalletChangedMsg{Err: w.Connect(ctx)}
	}
}

func disconnectCmd(w *web3.Context) tea.Cmd {
	return func() tea.Msg {
		w.Disconnect()
		return WalletChangedMsg{}
	}
}

func ledgerChanged() tea.Msg { return LedgerChangedMsg{} }

// diagnosticCmds returns one fire-and-forget load per registered module.
// Production builds get none.
func diagnosticCmds(mode config.Mode, reg *diagnostics.Registry, loader *diagnostics.Loader, env diagnostics.Env) []tea.Cmd {
	if !mode.IsDevelopment() || loader == nil || reg == nil {
		return nil
	}
	mods := reg.Modules()
	cmds := make([]tea.Cmd, 0, len(mods))
	for _, m := range mods {
		cmds = append(cmds, func() tea.Msg {
			ctx, cancel := opContext()
			defer cancel()
			return DiagnosticLoadedMsg{Result: loader.Load(ctx, m, env)}
		})
	}
	return cmds
}
