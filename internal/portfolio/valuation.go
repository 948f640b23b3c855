package portfolio

import (
	"github.com/shopspring/decimal"

	"github.com/tlskins/nft-tracker-app/internal/domain"
)

// Valuation is the aggregate view of a tracker set, always recomputed from
// the current in-memory list, never stored.
type Valuation struct {
	FloorTotal     decimal.Decimal
	SuggestedTotal decimal.Decimal
	MostValuable   *domain.TokenTracker
	TotalTracked   int
	TotalUntracked int
}

// Valuate computes aggregates over trackers. Missing prices count as zero.
// MostValuable keeps the earliest tracker on ties (strict greater-than)
// and is nil when the set is empty or no tracker has a suggested price.
func Valuate(trackers []domain.TokenTracker, untracked []domain.Nft) Valuation {
	valuation := Valuation{
		FloorTotal:     decimal.Zero,
		SuggestedTotal: decimal.Zero,
		TotalTracked:   len(trackers),
		TotalUntracked: len(untracked),
	}

	var best *decimal.Decimal
	for i, tracker := range trackers {
		if tracker.Token == nil {
			continue
		}
		if tracker.Token.FloorPrice != nil {
			valuation.FloorTotal = valuation.FloorTotal.Add(*tracker.Token.FloorPrice)
		}
		if tracker.Token.SuggestedPrice != nil {
			valuation.SuggestedTotal = valuation.SuggestedTotal.Add(*tracker.Token.SuggestedPrice)
			if best == nil || tracker.Token.SuggestedPrice.GreaterThan(*best) {
				best = tracker.Token.SuggestedPrice
				top := trackers[i]
				valuation.MostValuable = &top
			}
		}
	}

	return valuation
}

// FilterByWallet returns the trackers owned by walletAddress, in order.
func FilterByWallet(trackers []domain.TokenTracker, walletAddress string) []domain.TokenTracker {
	filtered := make([]domain.TokenTracker, 0, len(trackers))
	for _, tracker := range trackers {
		if tracker.WalletAddress == walletAddress {
			filtered = append(filtered, tracker)
		}
	}
	return filtered
}

// FilterByCollection returns the trackers whose token belongs to collection.
func FilterByCollection(trackers []domain.TokenTracker, collection string) []domain.TokenTracker {
	filtered := make([]domain.TokenTracker, 0, len(trackers))
	for _, tracker := range trackers {
		if coll, ok := tracker.Collection(); ok && coll == collection {
			filtered = append(filtered, tracker)
		}
	}
	return filtered
}

// FilterNftsByWallet returns the untracked NFTs discovered in walletAddress.
func FilterNftsByWallet(nfts []domain.Nft, walletAddress string) []domain.Nft {
	filtered := make([]domain.Nft, 0, len(nfts))
	for _, nft := range nfts {
		if nft.WalletAddress == walletAddress {
			filtered = append(filtered, nft)
		}
	}
	return filtered
}
