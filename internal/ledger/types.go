package ledger

import (
	"time"

	"mintdeck/internal/enumutil"
)

// CreatorTokenReward is the number of Creator Tokens credited per mint.
const CreatorTokenReward = 10

// Token is one NFT held in the ledger.
type Token struct {
	ID          int64
	Name        string
	Description string
	URI         string
	Attributes  map[string]string
	Owner       string
	Creator     string
	MintedAt    time.Time
	Burned      bool
}

// EventKind classifies ledger events.
type EventKind int

const (
	EventMint EventKind = iota
	EventTransfer
	EventBurn
	EventURI
)

func (k EventKind) String() string {
	switch k {
	case EventMint:
		return "mint"
	case EventTransfer:
		return "transfer"
	case EventBurn:
		return "burn"
	case EventURI:
		return "uri"
	default:
		return "unknown"
	}
}

// ParseEventKind is the inverse of EventKind.String.
func ParseEventKind(s string) (EventKind, error) {
	switch s {
	case "mint":
		return EventMint, nil
	case "transfer":
		return EventTransfer, nil
	case "burn":
		return EventBurn, nil
	case "uri":
		return EventURI, nil
	}
	return 0, enumutil.ParseEnumError("event kind", s)
}

// Event is an entry of the activity log.
type Event struct {
	ID      string
	Kind    EventKind
	TokenID int64
	From    string
	To      string
	TxHash  string
	At      time.Time
}

// MintParams describes a token to mint.
type MintParams struct {
	Name        string
	Description string
	URI         string
	Attributes  map[string]string
	Creator     string
	TxHash      string
}

// Stats summarizes the ledger for the stats overview.
type Stats struct {
	TotalMinted   int
	Burned        int
	Creators      int
	Holders       int
	CreatorTokens int // total Creator Tokens issued
	Owned         int // live tokens owned by the queried account
	Earned        int // Creator Tokens earned by the queried account
}
