package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ValuationSnapshot is one wallet+collection aggregate at a point in time.
type ValuationSnapshot struct {
	ID             uint
	WalletAddress  string
	Collection     string
	FloorTotal     decimal.Decimal
	SuggestedTotal decimal.Decimal
	TotalTracked   int
	TakenAt        time.Time
}

type SnapshotRepository interface {
	Create(ctx context.Context, snapshots []ValuationSnapshot) error
	ListByWallet(ctx context.Context, walletAddress string, limit int) ([]ValuationSnapshot, error)
	LatestByWallet(ctx context.Context, walletAddress string) ([]ValuationSnapshot, error)
}
