package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice = "0xa11ce00000000000000000000000000000000001"
	bob   = "0xb0b0000000000000000000000000000000000002"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var tick int64
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return s
}

func mint(t *testing.T, s *Store, name, creator string) Token {
	t.Helper()
	tok, _, err := s.Mint(context.Background(), MintParams{
		Name:    name,
		URI:     "ipfs://QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG",
		Creator: creator,
		TxHash:  "0xtx",
	})
	require.NoError(t, err)
	return tok
}

func TestMint_AssignsSequentialIDsAndRecordsEvent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	tok, ev, err := s.Mint(ctx, MintParams{
		Name:        "Nebula Queen",
		Description: "first drop",
		URI:         "ipfs://QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG",
		Attributes:  map[string]string{"artist": "Ama"},
		Creator:     alice,
		TxHash:      "0x01",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), tok.ID)
	assert.Equal(t, alice, tok.Owner)
	assert.Equal(t, alice, tok.Creator)
	assert.Equal(t, EventMint, ev.Kind)
	assert.Equal(t, tok.ID, ev.TokenID)
	assert.NotEmpty(t, ev.ID)

	second := mint(t, s, "Sahel Circuit", alice)
	assert.Equal(t, int64(2), second.ID)

	got, err := s.Token(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Nebula Queen", got.Name)
	assert.Equal(t, "first drop", got.Description)
	assert.Equal(t, map[string]string{"artist": "Ama"}, got.Attributes)
	assert.False(t, got.MintedAt.IsZero())
}

func TestMint_Validation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, _, err := s.Mint(ctx, MintParams{Name: "  ", Creator: alice})
	assert.Error(t, err)
	_, _, err = s.Mint(ctx, MintParams{Name: "x"})
	assert.Error(t, err)
}

func TestTokens_FiltersByOwnerNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	mint(t, s, "a", alice)
	mint(t, s, "b", bob)
	mint(t, s, "c", alice)

	all, err := s.Tokens(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].Name)

	mine, err := s.Tokens(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "c", mine[0].Name)
	assert.Equal(t, "a", mine[1].Name)
}

func TestTransfer(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	tok := mint(t, s, "a", alice)

	ev, err := s.Transfer(ctx, tok.ID, alice, bob, "0x02")
	require.NoError(t, err)
	assert.Equal(t, EventTransfer, ev.Kind)
	assert.Equal(t, alice, ev.From)
	assert.Equal(t, bob, ev.To)

	got, err := s.Token(ctx, tok.ID)
	require.NoError(t, err)
	assert.Equal(t, bob, got.Owner)
	assert.Equal(t, alice, got.Creator)

	_, err = s.Transfer(ctx, tok.ID, alice, bob, "0x03")
	assert.True(t, errors.Is(err, ErrNotOwner), "got %v", err)

	_, err = s.Transfer(ctx, 999, alice, bob, "0x04")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)

	_, err = s.Transfer(ctx, tok.ID, bob, "", "0x05")
	assert.Error(t, err)
}

func TestBurn(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	tok := mint(t, s, "a", alice)

	_, err := s.Burn(ctx, tok.ID, bob, "0x01")
	assert.True(t, errors.Is(err, ErrNotOwner), "got %v", err)

	ev, err := s.Burn(ctx, tok.ID, alice, "0x02")
	require.NoError(t, err)
	assert.Equal(t, EventBurn, ev.Kind)

	live, err := s.Tokens(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, live)

	got, err := s.Token(ctx, tok.ID)
	require.NoError(t, err)
	assert.True(t, got.Burned)

	_, err = s.Burn(ctx, tok.ID, alice, "0x03")
	assert.True(t, errors.Is(err, ErrBurned), "got %v", err)
}

func TestSetURI(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	tok := mint(t, s, "a", alice)

	_, err := s.SetURI(ctx, tok.ID, "ipfs://bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi", "0x09")
	require.NoError(t, err)
	got, err := s.Token(ctx, tok.ID)
	require.NoError(t, err)
	assert.Equal(t, "ipfs://bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi", got.URI)

	_, err = s.SetURI(ctx, 42, "ipfs://x", "0x10")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestEvents_NewestFirstWithLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	tok := mint(t, s, "a", alice)
	_, err := s.Transfer(ctx, tok.ID, alice, bob, "0x02")
	require.NoError(t, err)
	_, err = s.Burn(ctx, tok.ID, bob, "0x03")
	require.NoError(t, err)

	evs, err := s.Events(ctx, 0)
	require.NoError(t, err)
	require.Len(t, evs, 3)
	assert.Equal(t, EventBurn, evs[0].Kind)
	assert.Equal(t, EventTransfer, evs[1].Kind)
	assert.Equal(t, EventMint, evs[2].Kind)
	assert.True(t, evs[0].At.After(evs[2].At))

	limited, err := s.Events(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, EventBurn, limited[0].Kind)

	n, err := s.MintEventCount(ctx, tok.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStats(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	empty, err := s.Stats(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, empty)

	a := mint(t, s, "a", alice)
	mint(t, s, "b", alice)
	c := mint(t, s, "c", bob)
	_, err = s.Transfer(ctx, a.ID, alice, bob, "0x1")
	require.NoError(t, err)
	_, err = s.Burn(ctx, c.ID, bob, "0x2")
	require.NoError(t, err)

	st, err := s.Stats(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 3, st.TotalMinted)
	assert.Equal(t, 1, st.Burned)
	assert.Equal(t, 2, st.Creators)
	assert.Equal(t, 2, st.Holders)
	assert.Equal(t, 30, st.CreatorTokens)
	assert.Equal(t, 1, st.Owned)
	assert.Equal(t, 20, st.Earned)
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")
	s, err := Open(path)
	require.NoError(t, err)
	mint(t, s, "persisted", alice)
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()
	toks, err := s2.Tokens(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, "persisted", toks[0].Name)
	assert.Equal(t, path, s2.Path())
}

func TestOpen_PathWithURIDelimiters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drops?v=2#final", "ledger.db")
	s, err := Open(path)
	require.NoError(t, err)
	mint(t, s, "odd path", alice)
	require.NoError(t, s.Close())
	assert.FileExists(t, path)

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()
	toks, err := s2.Tokens(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, "odd path", toks[0].Name)
}

func TestDSN_EscapesPath(t *testing.T) {
	got := dsn("/data/drops?v=2#final/ledger.db")
	assert.Equal(t, "file:///data/drops%3Fv=2%23final/ledger.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", got)
}

func TestEventKind_RoundTrip(t *testing.T) {
	for _, k := range []EventKind{EventMint, EventTransfer, EventBurn, EventURI} {
		got, err := ParseEventKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseEventKind("airdrop")
	assert.Error(t, err)
	assert.Equal(t, "unknown", EventKind(42).String())
}
