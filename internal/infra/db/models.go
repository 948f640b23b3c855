package db

import (
	"time"

	"github.com/shopspring/decimal"
)

type snapshotModel struct {
	ID             uint            `gorm:"primaryKey"`
	WalletAddress  string          `gorm:"index:idx_snapshots_wallet_taken,priority:1;not null"`
	Collection     string          `gorm:"not null"`
	FloorTotal     decimal.Decimal `gorm:"type:numeric;not null"`
	SuggestedTotal decimal.Decimal `gorm:"type:numeric;not null"`
	TotalTracked   int             `gorm:"not null"`
	TakenAt        time.Time       `gorm:"index:idx_snapshots_wallet_taken,priority:2;not null"`
	CreatedAt      time.Time
}
