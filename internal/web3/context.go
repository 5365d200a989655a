// Package web3 is the context boundary: a single wallet/chain connectivity
// context created at the root of the program and shared by every panel.
package web3

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"mintdeck/internal/config"
	"mintdeck/internal/ledger"
	"mintdeck/internal/logging"
	"mintdeck/internal/trace"
)

var (
	ErrNotConnected   = errors.New("wallet not connected")
	ErrClosed         = errors.New("context closed")
	ErrNameRequired   = errors.New("name is required")
	ErrInvalidAddress = errors.New("invalid address")
)

// Status is the wallet connection state.
type Status int

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusConnected
)

func (s Status) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// Network identifies the chain.
type Network struct {
	Name    string
	ChainID int64
}

// Options configures a Context.
type Options struct {
	Network Network
	// Wallet is the account used on Connect. Empty generates a fresh address.
	Wallet string
	Logger *zap.Logger
	Tracer oteltrace.Tracer
}

// Context holds the connected account and the chain client.
// It is safe for concurrent use by tea.Cmd goroutines.
type Context struct {
	mu      sync.RWMutex
	chain   Chain
	network Network
	wallet  string
	account string
	status  Status
	closed  bool

	logger *zap.Logger
	tracer oteltrace.Tracer
}

// NewContext creates a disconnected context around chain.
func NewContext(chain Chain, opts Options) *Context {
	return &Context{
		chain:   chain,
		network: opts.Network,
		wallet:  opts.Wallet,
		status:  StatusDisconnected,
		logger:  logging.OrNop(opts.Logger),
		tracer:  trace.OrNoop(opts.Tracer),
	}
}

// Provide opens the local chain described by cfg and returns the root
// context. It connects immediately when cfg.Wallet.AutoConnect is set.
// The caller owns the result and must Close it.
func Provide(ctx context.Context, cfg config.Config, logger *zap.Logger, tracer oteltrace.Tracer) (*Context, error) {
	store, err := ledger.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	c := NewContext(NewLocalChain(store), Options{
		Network: Network{Name: cfg.Network.Name, ChainID: cfg.Network.ChainID},
		Wallet:  cfg.Wallet.Address,
		Logger:  logger,
		Tracer:  tracer,
	})
	if cfg.Wallet.AutoConnect {
		if err := c.Connect(ctx); err != nil {
			c.Close()
			return nil, err
		}
	}
	return c, nil
}

// Connect attaches the configured wallet account.
func (c *Context) Connect(ctx context.Context) error {
	_, span := c.tracer.Start(ctx, "web3.connect")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.status == StatusConnected {
		return nil
	}
	c.status = StatusConnecting
	if c.wallet == "" {
		c.wallet = NewAddress()
	}
	if !IsAddress(c.wallet) {
		c.status = StatusDisconnected
		err := fmt.Errorf("connect: %w: %q", ErrInvalidAddress, c.wallet)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	c.account = c.wallet
	c.status = StatusConnected
	span.SetAttributes(attribute.String("mintdeck.account", c.account))
	c.logger.Info("wallet connected",
		zap.String("account", c.account),
		zap.String("network", c.network.Name),
		zap.Int64("chain_id", c.network.ChainID))
	return nil
}

// Disconnect detaches the account. The wallet address is remembered.
func (c *Context) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != StatusConnected {
		return
	}
	c.logger.Info("wallet disconnected", zap.String("account", c.account))
	c.account = ""
	c.status = StatusDisconnected
}

// Close disconnects and releases the chain client. Further calls fail with ErrClosed.
func (c *Context) Close() error {
	c.Disconnect()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.chain.Close()
}

// Status returns the connection state.
func (c *Context) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// Account returns the connected account.
func (c *Context) Account() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.account, c.status == StatusConnected
}

// Network returns the chain the context talks to.
func (c *Context) Network() Network {
	return c.network
}

// connected returns the account or ErrNotConnected / ErrClosed.
func (c *Context) connected() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return "", ErrClosed
	}
	if c.status != StatusConnected {
		return "", ErrNotConnected
	}
	return c.account, nil
}

func (c *Context) open() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	return nil
}

// span starts a traced operation and returns a finisher that records err.
func (c *Context) span(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := c.tracer.Start(ctx, name, oteltrace.WithAttributes(attrs...))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

// Mint mints a token owned by the connected account.
func (c *Context) Mint(ctx context.Context, req MintRequest) (ledger.Token, Receipt, error) {
	account, err := c.connected()
	if err != nil {
		return ledger.Token{}, Receipt{}, err
	}
	ctx, done := c.span(ctx, "web3.mint", attribute.String("mintdeck.token.name", req.Name))
	tok, rc, err := c.chain.Mint(ctx, account, req)
	done(err)
	if err != nil {
		c.logger.Warn("mint failed", zap.String("account", account), zap.Error(err))
		return ledger.Token{}, Receipt{}, err
	}
	c.logger.Info("minted", zap.Int64("token_id", tok.ID), zap.String("tx", rc.TxHash))
	return tok, rc, nil
}

// Transfer sends one of the account's tokens to another address.
func (c *Context) Transfer(ctx context.Context, tokenID int64, to string) (Receipt, error) {
	account, err := c.connected()
	if err != nil {
		return Receipt{}, err
	}
	ctx, done := c.span(ctx, "web3.transfer", attribute.Int64("mintdeck.token.id", tokenID))
	rc, err := c.chain.Transfer(ctx, account, to, tokenID)
	done(err)
	if err != nil {
		c.logger.Warn("transfer failed", zap.Int64("token_id", tokenID), zap.Error(err))
		return Receipt{}, err
	}
	c.logger.Info("transferred", zap.Int64("token_id", tokenID), zap.String("to", to), zap.String("tx", rc.TxHash))
	return rc, nil
}

// Burn destroys one of the account's tokens.
func (c *Context) Burn(ctx context.Context, tokenID int64) (Receipt, error) {
	account, err := c.connected()
	if err != nil {
		return Receipt{}, err
	}
	ctx, done := c.span(ctx, "web3.burn", attribute.Int64("mintdeck.token.id", tokenID))
	rc, err := c.chain.Burn(ctx, account, tokenID)
	done(err)
	if err != nil {
		c.logger.Warn("burn failed", zap.Int64("token_id", tokenID), zap.Error(err))
		return Receipt{}, err
	}
	c.logger.Info("burned", zap.Int64("token_id", tokenID), zap.String("tx", rc.TxHash))
	return rc, nil
}

// SetTokenURI rewrites a token's content URI.
func (c *Context) SetTokenURI(ctx context.Context, tokenID int64, uri string) (Receipt, error) {
	if err := c.open(); err != nil {
		return Receipt{}, err
	}
	ctx, done := c.span(ctx, "web3.set_token_uri", attribute.Int64("mintdeck.token.id", tokenID))
	rc, err := c.chain.SetTokenURI(ctx, tokenID, uri)
	done(err)
	return rc, err
}

// Token returns a single token.
func (c *Context) Token(ctx context.Context, tokenID int64) (ledger.Token, error) {
	if err := c.open(); err != nil {
		return ledger.Token{}, err
	}
	return c.chain.Token(ctx, tokenID)
}

// MyTokens returns the connected account's live tokens.
func (c *Context) MyTokens(ctx context.Context) ([]ledger.Token, error) {
	account, err := c.connected()
	if err != nil {
		return nil, err
	}
	ctx, done := c.span(ctx, "web3.my_tokens")
	toks, err := c.chain.Tokens(ctx, account)
	done(err)
	return toks, err
}

// Gallery returns every live token. It does not require a connected wallet.
func (c *Context) Gallery(ctx context.Context) ([]ledger.Token, error) {
	if err := c.open(); err != nil {
		return nil, err
	}
	ctx, done := c.span(ctx, "web3.gallery")
	toks, err := c.chain.Tokens(ctx, "")
	done(err)
	return toks, err
}

// Activity returns the most recent events.
func (c *Context) Activity(ctx context.Context, limit int) ([]ledger.Event, error) {
	if err := c.open(); err != nil {
		return nil, err
	}
	ctx, done := c.span(ctx, "web3.activity")
	evs, err := c.chain.Activity(ctx, limit)
	done(err)
	return evs, err
}

// Stats summarizes the chain; account-scoped fields are zero when disconnected.
func (c *Context) Stats(ctx context.Context) (ledger.Stats, error) {
	if err := c.open(); err != nil {
		return ledger.Stats{}, err
	}
	account, _ := c.Account()
	ctx, done := c.span(ctx, "web3.stats")
	st, err := c.chain.Stats(ctx, account)
	done(err)
	return st, err
}

// MintEvents returns how many mint events a token has.
func (c *Context) MintEvents(ctx context.Context, tokenID int64) (int, error) {
	if err := c.open(); err != nil {
		return 0, err
	}
	return c.chain.MintEvents(ctx, tokenID)
}
