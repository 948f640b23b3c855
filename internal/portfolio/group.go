// Package portfolio holds the pure derived-state computations over a
// wallet's tracker list: collection grouping, aggregate valuation,
// staleness partitioning, and replace-by-id merging.
package portfolio

import "github.com/tlskins/nft-tracker-app/internal/domain"

// Grouping partitions trackers by collection. Collections preserves
// first-seen order; each sub-slice preserves relative input order.
type Grouping struct {
	Collections  []string
	ByCollection map[string][]domain.TokenTracker
}

// Group partitions trackers by their token's collection. Trackers without
// a collection are omitted from the grouping but remain in the caller's
// flat list.
func Group(trackers []domain.TokenTracker) Grouping {
	grouping := Grouping{ByCollection: make(map[string][]domain.TokenTracker)}
	for _, tracker := range trackers {
		coll, ok := tracker.Collection()
		if !ok {
			continue
		}
		if _, seen := grouping.ByCollection[coll]; !seen {
			grouping.Collections = append(grouping.Collections, coll)
		}
		grouping.ByCollection[coll] = append(grouping.ByCollection[coll], tracker)
	}
	return grouping
}

// Trackers returns the ordered trackers grouped under collection.
func (g Grouping) Trackers(collection string) []domain.TokenTracker {
	return g.ByCollection[collection]
}
