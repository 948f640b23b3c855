package portfolio

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tlskins/nft-tracker-app/internal/domain"
)

func dec(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

func newTracker(id, wallet, collection string, floor, suggested *decimal.Decimal) domain.TokenTracker {
	tracker := domain.TokenTracker{
		ID:            id,
		WalletAddress: wallet,
		UserID:        "user-1",
		TokenAddress:  "addr-" + id,
	}
	tracker.Token = &domain.Token{
		ID:             "token-" + id,
		Collection:     collection,
		FloorPrice:     floor,
		SuggestedPrice: suggested,
	}
	return tracker
}

func TestGroupFirstSeenOrder(t *testing.T) {
	trackers := []domain.TokenTracker{
		newTracker("t1", "w1", "degods", dec("1"), dec("2")),
		newTracker("t2", "w1", "okay-bears", dec("3"), dec("4")),
		newTracker("t3", "w1", "degods", dec("5"), dec("6")),
		newTracker("t4", "w1", "smb", nil, nil),
	}

	grouping := Group(trackers)

	assert.Equal(t, []string{"degods", "okay-bears", "smb"}, grouping.Collections)
	assert.Len(t, grouping.Trackers("degods"), 2)
	assert.Equal(t, "t1", grouping.Trackers("degods")[0].ID)
	assert.Equal(t, "t3", grouping.Trackers("degods")[1].ID)
	assert.Equal(t, "t2", grouping.Trackers("okay-bears")[0].ID)
}

func TestGroupEveryTrackerInExactlyOneGroup(t *testing.T) {
	trackers := []domain.TokenTracker{
		newTracker("t1", "w1", "a", nil, nil),
		newTracker("t2", "w1", "b", nil, nil),
		newTracker("t3", "w2", "a", nil, nil),
	}

	grouping := Group(trackers)

	seen := make(map[string]int)
	for _, coll := range grouping.Collections {
		for _, tracker := range grouping.Trackers(coll) {
			seen[tracker.ID]++
			got, ok := tracker.Collection()
			assert.True(t, ok)
			assert.Equal(t, coll, got)
		}
	}
	for _, tracker := range trackers {
		assert.Equal(t, 1, seen[tracker.ID], "tracker %s", tracker.ID)
	}
}

func TestGroupOmitsTrackersWithoutCollection(t *testing.T) {
	noCollection := newTracker("t2", "w1", "", nil, nil)
	noToken := domain.TokenTracker{ID: "t3", WalletAddress: "w1"}
	trackers := []domain.TokenTracker{
		newTracker("t1", "w1", "a", nil, nil),
		noCollection,
		noToken,
	}

	grouping := Group(trackers)

	assert.Equal(t, []string{"a"}, grouping.Collections)
	assert.Len(t, grouping.Trackers("a"), 1)
}

func TestGroupEmptyInput(t *testing.T) {
	grouping := Group(nil)
	assert.Empty(t, grouping.Collections)
	assert.Empty(t, grouping.ByCollection)
}
