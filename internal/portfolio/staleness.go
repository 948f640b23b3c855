package portfolio

import (
	"time"

	"github.com/tlskins/nft-tracker-app/internal/domain"
)

// IsStale reports whether a tracker's valuation is older than the cutoff.
// A tracker with no recorded calculation is always stale.
func IsStale(tracker domain.TokenTracker, cutoff time.Duration, now time.Time) bool {
	if tracker.Token == nil || tracker.Token.LastCalcAt == nil {
		return true
	}
	return tracker.Token.LastCalcAt.Before(now.Add(-cutoff))
}

// PartitionByFreshness splits trackers into fresh and stale sets,
// preserving relative order within each.
func PartitionByFreshness(trackers []domain.TokenTracker, cutoff time.Duration, now time.Time) (fresh, stale []domain.TokenTracker) {
	for _, tracker := range trackers {
		if IsStale(tracker, cutoff, now) {
			stale = append(stale, tracker)
		} else {
			fresh = append(fresh, tracker)
		}
	}
	return fresh, stale
}

// StaleIDsByCollection maps each collection with at least one stale tracker
// to the ids needing recalculation, collections in first-seen order.
func StaleIDsByCollection(trackers []domain.TokenTracker, cutoff time.Duration, now time.Time) ([]string, map[string][]string) {
	grouping := Group(trackers)
	var collections []string
	staleIDs := make(map[string][]string)
	for _, coll := range grouping.Collections {
		_, stale := PartitionByFreshness(grouping.ByCollection[coll], cutoff, now)
		if len(stale) == 0 {
			continue
		}
		ids := make([]string, 0, len(stale))
		for _, tracker := range stale {
			ids = append(ids, tracker.ID)
		}
		collections = append(collections, coll)
		staleIDs[coll] = ids
	}
	return collections, staleIDs
}
