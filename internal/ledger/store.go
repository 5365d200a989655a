// Package ledger persists the local chain state (tokens and their activity
// log) in SQLite.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"mintdeck/internal/jsonutil"
)

var (
	ErrNotFound = errors.New("token not found")
	ErrNotOwner = errors.New("account does not own token")
	ErrBurned   = errors.New("token is burned")
)

// Store is the SQLite-backed ledger.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open creates or opens the ledger database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path, now: time.Now}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// dsn builds a file: URI for path. The path is escaped so '?' and '#' in a
// directory name are not read as the query or fragment.
func dsn(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(path),
		RawQuery: "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
	}
	return u.String()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tokens (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		uri TEXT NOT NULL,
		attributes TEXT NOT NULL DEFAULT '',
		owner TEXT NOT NULL,
		creator TEXT NOT NULL,
		minted_at INTEGER NOT NULL,
		burned INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_tokens_owner ON tokens(owner);

	CREATE TABLE IF NOT EXISTS events (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		kind TEXT NOT NULL,
		token_id INTEGER NOT NULL,
		from_addr TEXT NOT NULL DEFAULT '',
		to_addr TEXT NOT NULL DEFAULT '',
		tx_hash TEXT NOT NULL DEFAULT '',
		at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_token ON events(token_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Mint stores a new token owned by its creator and records a mint event.
func (s *Store) Mint(ctx context.Context, p MintParams) (Token, Event, error) {
	if strings.TrimSpace(p.Name) == "" {
		return Token{}, Event{}, errors.New("token name is required")
	}
	if p.Creator == "" {
		return Token{}, Event{}, errors.New("creator is required")
	}
	attrs, err := jsonutil.MarshalString(p.Attributes, "encode attributes")
	if err != nil {
		return Token{}, Event{}, err
	}
	if len(p.Attributes) == 0 {
		attrs = ""
	}

	now := s.now().UTC()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Token{}, Event{}, fmt.Errorf("begin mint: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO tokens (name, description, uri, attributes, owner, creator, minted_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Description, p.URI, attrs, p.Creator, p.Creator, now.UnixNano())
	if err != nil {
		return Token{}, Event{}, fmt.Errorf("insert token: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Token{}, Event{}, fmt.Errorf("token id: %w", err)
	}

	ev := Event{ID: uuid.NewString(), Kind: EventMint, TokenID: id, To: p.Creator, TxHash: p.TxHash, At: now}
	if err := insertEvent(ctx, tx, ev); err != nil {
		return Token{}, Event{}, err
	}
	if err := tx.Commit(); err != nil {
		return Token{}, Event{}, fmt.Errorf("commit mint: %w", err)
	}

	tok := Token{
		ID:          id,
		Name:        p.Name,
		Description: p.Description,
		URI:         p.URI,
		Attributes:  p.Attributes,
		Owner:       p.Creator,
		Creator:     p.Creator,
		MintedAt:    now,
	}
	return tok, ev, nil
}

// Transfer moves a live token from one account to another.
func (s *Store) Transfer(ctx context.Context, id int64, from, to, txHash string) (Event, error) {
	if to == "" {
		return Event{}, errors.New("recipient is required")
	}
	return s.mutate(ctx, id, from, Event{Kind: EventTransfer, From: from, To: to, TxHash: txHash},
		`UPDATE tokens SET owner = ? WHERE id = ?`, to, id)
}

// Burn marks a live token as burned.
func (s *Store) Burn(ctx context.Context, id int64, owner, txHash string) (Event, error) {
	return s.mutate(ctx, id, owner, Event{Kind: EventBurn, From: owner, TxHash: txHash},
		`UPDATE tokens SET burned = 1 WHERE id = ?`, id)
}

// mutate checks ownership of a live token, applies stmt and records ev.
func (s *Store) mutate(ctx context.Context, id int64, owner string, ev Event, stmt string, args ...any) (Event, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Event{}, fmt.Errorf("begin %s: %w", ev.Kind, err)
	}
	defer tx.Rollback()

	var cur string
	var burned bool
	err = tx.QueryRowContext(ctx, `SELECT owner, burned FROM tokens WHERE id = ?`, id).Scan(&cur, &burned)
	if errors.Is(err, sql.ErrNoRows) {
		return Event{}, fmt.Errorf("token %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Event{}, fmt.Errorf("load token %d: %w", id, err)
	}
	if burned {
		return Event{}, fmt.Errorf("token %d: %w", id, ErrBurned)
	}
	if !strings.EqualFold(cur, owner) {
		return Event{}, fmt.Errorf("token %d: %w", id, ErrNotOwner)
	}

	if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
		return Event{}, fmt.Errorf("%s token %d: %w", ev.Kind, id, err)
	}
	ev.ID = uuid.NewString()
	ev.TokenID = id
	ev.At = s.now().UTC()
	if err := insertEvent(ctx, tx, ev); err != nil {
		return Event{}, err
	}
	if err := tx.Commit(); err != nil {
		return Event{}, fmt.Errorf("commit %s: %w", ev.Kind, err)
	}
	return ev, nil
}

// SetURI replaces a token's content URI and records a uri event.
func (s *Store) SetURI(ctx context.Context, id int64, uri, txHash string) (Event, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Event{}, fmt.Errorf("begin uri: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE tokens SET uri = ? WHERE id = ?`, uri, id)
	if err != nil {
		return Event{}, fmt.Errorf("update uri: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Event{}, fmt.Errorf("token %d: %w", id, ErrNotFound)
	}
	ev := Event{ID: uuid.NewString(), Kind: EventURI, TokenID: id, TxHash: txHash, At: s.now().UTC()}
	if err := insertEvent(ctx, tx, ev); err != nil {
		return Event{}, err
	}
	if err := tx.Commit(); err != nil {
		return Event{}, fmt.Errorf("commit uri: %w", err)
	}
	return ev, nil
}

func insertEvent(ctx context.Context, tx *sql.Tx, ev Event) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO events (id, kind, token_id, from_addr, to_addr, tx_hash, at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Kind.String(), ev.TokenID, ev.From, ev.To, ev.TxHash, ev.At.UnixNano())
	if err != nil {
		return fmt.Errorf("insert %s event: %w", ev.Kind, err)
	}
	return nil
}

const tokenColumns = `id, name, description, uri, attributes, owner, creator, minted_at, burned`

// Token returns a token by id, burned or not.
func (s *Store) Token(ctx context.Context, id int64) (Token, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+tokenColumns+` FROM tokens WHERE id = ?`, id)
	t, err := scanToken(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Token{}, fmt.Errorf("token %d: %w", id, ErrNotFound)
	}
	return t, err
}

// Tokens returns live tokens, newest first. An empty owner returns all of them.
func (s *Store) Tokens(ctx context.Context, owner string) ([]Token, error) {
	q := `SELECT ` + tokenColumns + ` FROM tokens WHERE burned = 0`
	var args []any
	if owner != "" {
		q += ` AND owner = ? COLLATE NOCASE`
		args = append(args, owner)
	}
	q += ` ORDER BY id DESC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query tokens: %w", err)
	}
	defer rows.Close()

	var out []Token
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanToken(sc scanner) (Token, error) {
	var (
		t      Token
		attrs  string
		minted int64
	)
	if err := sc.Scan(&t.ID, &t.Name, &t.Description, &t.URI, &attrs, &t.Owner, &t.Creator, &minted, &t.Burned); err != nil {
		return Token{}, err
	}
	m, err := jsonutil.StringMap(attrs, fmt.Sprintf("token %d attributes", t.ID))
	if err != nil {
		return Token{}, err
	}
	if len(m) > 0 {
		t.Attributes = m
	}
	t.MintedAt = time.Unix(0, minted).UTC()
	return t, nil
}

// Events returns the most recent events, newest first. limit <= 0 means all.
func (s *Store) Events(ctx context.Context, limit int) ([]Event, error) {
	q := `SELECT id, kind, token_id, from_addr, to_addr, tx_hash, at FROM events ORDER BY seq DESC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			ev   Event
			kind string
			at   int64
		)
		if err := rows.Scan(&ev.ID, &kind, &ev.TokenID, &ev.From, &ev.To, &ev.TxHash, &at); err != nil {
			return nil, err
		}
		if ev.Kind, err = ParseEventKind(kind); err != nil {
			return nil, err
		}
		ev.At = time.Unix(0, at).UTC()
		out = append(out, ev)
	}
	return out, rows.Err()
}

// Stats summarizes the ledger. account may be empty.
func (s *Store) Stats(ctx context.Context, account string) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(burned), 0),
			COUNT(DISTINCT creator),
			COUNT(DISTINCT CASE WHEN burned = 0 THEN owner END),
			COALESCE(SUM(CASE WHEN burned = 0 AND owner = ? COLLATE NOCASE THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN creator = ? COLLATE NOCASE THEN 1 ELSE 0 END), 0)
		FROM tokens`, account, account).
		Scan(&st.TotalMinted, &st.Burned, &st.Creators, &st.Holders, &st.Owned, &st.Earned)
	if err != nil {
		return Stats{}, fmt.Errorf("query stats: %w", err)
	}
	st.CreatorTokens = st.TotalMinted * CreatorTokenReward
	st.Earned *= CreatorTokenReward
	return st, nil
}

// MintEventCount returns how many mint events exist for a token.
func (s *Store) MintEventCount(ctx context.Context, id int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE token_id = ? AND kind = ?`, id, EventMint.String()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count mint events: %w", err)
	}
	return n, nil
}
