package web3

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"mintdeck/internal/ipfs"
	"mintdeck/internal/ledger"
)

// Receipt confirms a state-changing chain call.
type Receipt struct {
	TxHash  string
	TokenID int64
	Event   ledger.Event
}

// MintRequest is what the mint form submits.
type MintRequest struct {
	Name        string
	Description string
	Image       string // ipfs:// URI, gateway URL, bare CID or https URL
	Attributes  map[string]string
}

// Chain is the on-chain client behind the context boundary.
type Chain interface {
	Mint(ctx context.Context, creator string, req MintRequest) (ledger.Token, Receipt, error)
	Transfer(ctx context.Context, from, to string, tokenID int64) (Receipt, error)
	Burn(ctx context.Context, owner string, tokenID int64) (Receipt, error)
	SetTokenURI(ctx context.Context, tokenID int64, uri string) (Receipt, error)
	Token(ctx context.Context, tokenID int64) (ledger.Token, error)
	Tokens(ctx context.Context, owner string) ([]ledger.Token, error)
	Activity(ctx context.Context, limit int) ([]ledger.Event, error)
	Stats(ctx context.Context, account string) (ledger.Stats, error)
	MintEvents(ctx context.Context, tokenID int64) (int, error)
	Close() error
}

// LocalChain implements Chain on top of the SQLite ledger.
type LocalChain struct {
	store *ledger.Store
}

var _ Chain = (*LocalChain)(nil)

// NewLocalChain wraps an open ledger. The chain owns the store from here on.
func NewLocalChain(store *ledger.Store) *LocalChain {
	return &LocalChain{store: store}
}

// Mint implements Chain.
func (c *LocalChain) Mint(ctx context.Context, creator string, req MintRequest) (ledger.Token, Receipt, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return ledger.Token{}, Receipt{}, fmt.Errorf("mint: %w", ErrNameRequired)
	}
	uri, err := ipfs.Normalize(req.Image)
	if err != nil {
		return ledger.Token{}, Receipt{}, fmt.Errorf("mint: image: %w", err)
	}
	hash := NewTxHash()
	tok, ev, err := c.store.Mint(ctx, ledger.MintParams{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		URI:         uri,
		Attributes:  req.Attributes,
		Creator:     creator,
		TxHash:      hash,
	})
	if err != nil {
		return ledger.Token{}, Receipt{}, fmt.Errorf("mint: %w", err)
	}
	return tok, Receipt{TxHash: hash, TokenID: tok.ID, Event: ev}, nil
}

// Transfer implements Chain.
func (c *LocalChain) Transfer(ctx context.Context, from, to string, tokenID int64) (Receipt, error) {
	if !IsAddress(to) {
		return Receipt{}, fmt.Errorf("transfer: %w: %q", ErrInvalidAddress, to)
	}
	hash := NewTxHash()
	ev, err := c.store.Transfer(ctx, tokenID, from, to, hash)
	if err != nil {
		return Receipt{}, fmt.Errorf("transfer: %w", err)
	}
	return Receipt{TxHash: hash, TokenID: tokenID, Event: ev}, nil
}

// Burn implements Chain.
func (c *LocalChain) Burn(ctx context.Context, owner string, tokenID int64) (Receipt, error) {
	hash := NewTxHash()
	ev, err := c.store.Burn(ctx, tokenID, owner, hash)
	if err != nil {
		return Receipt{}, fmt.Errorf("burn: %w", err)
	}
	return Receipt{TxHash: hash, TokenID: tokenID, Event: ev}, nil
}

// SetTokenURI implements Chain.
func (c *LocalChain) SetTokenURI(ctx context.Context, tokenID int64, uri string) (Receipt, error) {
	hash := NewTxHash()
	ev, err := c.store.SetURI(ctx, tokenID, uri, hash)
	if err != nil {
		return Receipt{}, fmt.Errorf("set token uri: %w", err)
	}
	return Receipt{TxHash: hash, TokenID: tokenID, Event: ev}, nil
}

// Token implements Chain.
func (c *LocalChain) Token(ctx context.Context, tokenID int64) (ledger.Token, error) {
	return c.store.Token(ctx, tokenID)
}

// Tokens implements Chain.
func (c *LocalChain) Tokens(ctx context.Context, owner string) ([]ledger.Token, error) {
	return c.store.Tokens(ctx, owner)
}

// Activity implements Chain.
func (c *LocalChain) Activity(ctx context.Context, limit int) ([]ledger.Event, error) {
	return c.store.Events(ctx, limit)
}

// Stats implements Chain.
func (c *LocalChain) Stats(ctx context.Context, account string) (ledger.Stats, error) {
	return c.store.Stats(ctx, account)
}

// MintEvents implements Chain.
func (c *LocalChain) MintEvents(ctx context.Context, tokenID int64) (int, error) {
	return c.store.MintEventCount(ctx, tokenID)
}

// Close implements Chain.
func (c *LocalChain) Close() error {
	return c.store.Close()
}

// NewTxHash returns a fresh 32-byte hex transaction hash.
func NewTxHash() string {
	id := uuid.New()
	sum := sha256.Sum256(id[:])
	return "0x" + hex.EncodeToString(sum[:])
}

// NewAddress returns a fresh 20-byte hex account address.
func NewAddress() string {
	id := uuid.New()
	sum := sha256.Sum256(id[:])
	return "0x" + hex.EncodeToString(sum[:20])
}

// IsAddress reports whether s is a 0x-prefixed 20-byte hex address.
func IsAddress(s string) bool {
	if len(s) != 42 || !strings.HasPrefix(s, "0x") {
		return false
	}
	_, err := hex.DecodeString(s[2:])
	return err == nil
}

// ShortAddress abbreviates an address for display (0x1234…abcd).
func ShortAddress(s string) string {
	if len(s) <= 12 {
		return s
	}
	return s[:6] + "…" + s[len(s)-4:]
}
