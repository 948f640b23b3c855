package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TrackerType selects which market value a tracker alerts on.
type TrackerType string

const (
	TrackerTypeSuggestedPrice TrackerType = "Suggested Price"
	TrackerTypeFloorPrice     TrackerType = "Floor Price"
)

func ParseTrackerType(input string) (TrackerType, error) {
	switch TrackerType(input) {
	case TrackerTypeSuggestedPrice:
		return TrackerTypeSuggestedPrice, nil
	case TrackerTypeFloorPrice:
		return TrackerTypeFloorPrice, nil
	default:
		return "", fmt.Errorf("unknown tracker type %q", input)
	}
}

func (t TrackerType) String() string {
	return string(t)
}

type TokenAttribute struct {
	Name   string
	Value  string
	Rarity string
	Score  *decimal.Decimal
}

type Token struct {
	ID           string
	UpdatedAt    time.Time
	Title        string
	Image        string
	TokenAddress string
	TokenNumber  int
	Collection   string

	Rank           *int
	Price          *decimal.Decimal
	Rarity         string
	FloorPrice     *decimal.Decimal
	SuggestedPrice *decimal.Decimal
	LastCalcAt     *time.Time

	Attributes    []TokenAttribute
	TopAttributes []TokenAttribute
}

// TokenTracker is a user's price-alert subscription for one NFT in one wallet.
type TokenTracker struct {
	ID            string
	LastSync      time.Time
	TokenAddress  string
	WalletAddress string
	UserID        string

	Active      bool
	TrackerType *TrackerType
	LastAlertAt *time.Time
	Above       *decimal.Decimal
	Below       *decimal.Decimal

	Token *Token
}

// Collection returns the token's collection key, false when the tracker
// carries no token or the token has no collection.
func (t TokenTracker) Collection() (string, bool) {
	if t.Token == nil || t.Token.Collection == "" {
		return "", false
	}
	return t.Token.Collection, true
}

// CurrentValue resolves the market value the tracker's type alerts on.
// Missing values resolve to zero.
func (t TokenTracker) CurrentValue() decimal.Decimal {
	if t.TrackerType == nil || t.Token == nil {
		return decimal.Zero
	}
	switch *t.TrackerType {
	case TrackerTypeSuggestedPrice:
		if t.Token.SuggestedPrice != nil {
			return *t.Token.SuggestedPrice
		}
	case TrackerTypeFloorPrice:
		if t.Token.FloorPrice != nil {
			return *t.Token.FloorPrice
		}
	}
	return decimal.Zero
}

// TrackerUpdate is the mutable slice of a tracker sent to the backend on save.
type TrackerUpdate struct {
	ID          string
	Active      bool
	TrackerType *TrackerType
	Above       *decimal.Decimal
	Below       *decimal.Decimal
}

type Creator struct {
	Address  string
	Verified int
	Share    int
}

type BlockchainNetwork struct {
	ChainID   string
	ChainName string
}

type TokenData struct {
	UpdateAuthority     string
	PrimarySaleHappened int
	Mint                string
	IsMutable           int
	Creators            []Creator
}

// Nft is a discovered-but-unmanaged token in a synced wallet.
type Nft struct {
	ID                   string
	Name                 string
	SellerFeeBasisPoints int
	Symbol               string
	TokenID              string
	URI                  string
	WalletAddress        string
	UserID               string

	Creators []Creator
	Network  BlockchainNetwork
	Data     TokenData
}
