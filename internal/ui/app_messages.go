package ui

import (
	"mintdeck/internal/diagnostics"
	"mintdeck/internal/ledger"
	"mintdeck/internal/web3"
)

// SetTabMsg asks the shell to switch the active tab (SPC t …).
type SetTabMsg struct {
	Tab Tab
}

// RefreshMsg asks every panel and the stats overview to reload (SPC r).
type RefreshMsg struct{}

// LedgerChangedMsg is emitted after a write to the ledger: a mint, transfer
// or burn, or a diagnostic that repaired tokens.
type LedgerChangedMsg struct{}

// ConnectWalletMsg is sent by SPC w c.
type ConnectWalletMsg struct{}

// DisconnectWalletMsg is sent by SPC w d.
type DisconnectWalletMsg struct{}

// WalletChangedMsg reports the outcome of a connect or disconnect.
type WalletChangedMsg struct {
	Err error
}

// StatsLoadedMsg carries the stats overview numbers.
type StatsLoadedMsg struct {
	Stats ledger.Stats
	Err   error
}

// GalleryLoadedMsg carries every live token.
type GalleryLoadedMsg struct {
	Tokens []ledger.Token
	Err    error
}

// MyTokensLoadedMsg carries the connected account's tokens.
type MyTokensLoadedMsg struct {
	Tokens []ledger.Token
	Err    error
}

// ActivityLoadedMsg carries recent ledger events.
type ActivityLoadedMsg struct {
	Events []ledger.Event
	Err    error
}

// MintSubmitMsg is sent by the mint form on enter.
type MintSubmitMsg struct {
	Request web3.MintRequest
}

// MintedMsg reports the outcome of a mint.
type MintedMsg struct {
	Token   ledger.Token
	Receipt web3.Receipt
	Err     error
}

// ShowTransferMsg opens the transfer modal for a token.
type ShowTransferMsg struct {
	Token ledger.Token
}

// TransferRequestMsg is sent when the transfer modal is confirmed.
type TransferRequestMsg struct {
	TokenID int64
	To      string
}

// TransferredMsg reports the outcome of a transfer.
type TransferredMsg struct {
	Receipt web3.Receipt
	Err     error
}

// ShowBurnMsg opens the burn confirmation modal for a token.
type ShowBurnMsg struct {
	Token ledger.Token
}

// BurnRequestMsg is sent when the burn is confirmed.
type BurnRequestMsg struct {
	TokenID int64
}

// BurnedMsg reports the outcome of a burn.
type BurnedMsg struct {
	Receipt web3.Receipt
	Err     error
}

// ManageSelectedMsg is sent by SPC n t / SPC n b on the manage tab.
type ManageSelectedMsg struct {
	Action ManageAction
}

// ManageAction is what to do with the selected token.
type ManageAction int

const (
	ManageTransfer ManageAction = iota
	ManageBurn
)

// DiagnosticLoadedMsg carries the result of one diagnostic module load.
type DiagnosticLoadedMsg struct {
	Result diagnostics.Result
}

// RerunDiagnosticsMsg reloads every diagnostic module (development only).
type RerunDiagnosticsMsg struct{}

// DismissModalMsg is sent when user cancels a modal (Esc).
type DismissModalMsg struct{}
