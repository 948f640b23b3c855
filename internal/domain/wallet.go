package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrSyncTimeout = errors.New("wallet sync timed out")
)

// WalletData is the full wallet payload returned by the backend.
type WalletData struct {
	Tracked       []TokenTracker
	Untracked     []Nft
	TrackingTypes []TrackerType
}

// SyncData is the payload of an explicit wallet re-sync.
type SyncData struct {
	Tracked   []TokenTracker
	Untracked []Nft
}

// PredictRequest asks the backend to recompute valuations for one
// collection's trackers.
type PredictRequest struct {
	Collection string
	IDs        []string
}

type ProfileUpdate struct {
	TrackedWallets *[]string
}

// MarketClient is the remote Degen Bible API surface the tracker consumes.
type MarketClient interface {
	GetWallet(ctx context.Context) (*WalletData, error)
	SyncWallet(ctx context.Context) (*SyncData, error)
	PredictTrackers(ctx context.Context, req PredictRequest) ([]TokenTracker, error)
	SaveTracker(ctx context.Context, update TrackerUpdate) (*TokenTracker, error)
	UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error)
	DeleteWallet(ctx context.Context, walletAddress string) (*User, error)
}

// PriceChange is one collection-level market move from the price stream.
type PriceChange struct {
	Collection     string
	FloorPrice     *decimal.Decimal
	SuggestedPrice *decimal.Decimal
}

type PriceChangeMessage struct {
	EventType string
	Changes   []PriceChange
}

type PriceWSClient interface {
	Subscribe(ctx context.Context, collections []string) error
	Receive(ctx context.Context) (*PriceChangeMessage, error)
	Close() error
}

type PriceWSFactory interface {
	Connect(ctx context.Context) (PriceWSClient, error)
}
