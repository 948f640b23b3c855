package portfolio

import "github.com/tlskins/nft-tracker-app/internal/domain"

// Merge replaces trackers in base with same-id entries from updates,
// in place by position. Updates whose id is absent from base are dropped,
// never appended, so a merge against a reloaded list is a safe no-op.
// Merging is idempotent and commutative across disjoint-id batches.
func Merge(base []domain.TokenTracker, updates []domain.TokenTracker) []domain.TokenTracker {
	if len(updates) == 0 {
		return base
	}

	byID := make(map[string]domain.TokenTracker, len(updates))
	for _, update := range updates {
		byID[update.ID] = update
	}

	merged := make([]domain.TokenTracker, len(base))
	copy(merged, base)
	for i, tracker := range merged {
		if update, ok := byID[tracker.ID]; ok {
			merged[i] = update
		}
	}
	return merged
}
