package portfolio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tlskins/nft-tracker-app/internal/domain"
)

func withLastCalc(tracker domain.TokenTracker, at time.Time) domain.TokenTracker {
	tracker.Token.LastCalcAt = &at
	return tracker
}

func TestIsStale(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cutoff := 2 * time.Hour

	stale := withLastCalc(newTracker("t1", "w1", "a", nil, nil), now.Add(-3*time.Hour))
	fresh := withLastCalc(newTracker("t2", "w1", "a", nil, nil), now.Add(-time.Hour))
	never := newTracker("t3", "w1", "a", nil, nil)

	assert.True(t, IsStale(stale, cutoff, now))
	assert.False(t, IsStale(fresh, cutoff, now))
	assert.True(t, IsStale(never, cutoff, now))
}

func TestPartitionByFreshnessPreservesOrder(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cutoff := 2 * time.Hour
	trackers := []domain.TokenTracker{
		withLastCalc(newTracker("t1", "w1", "a", nil, nil), now.Add(-4*time.Hour)),
		withLastCalc(newTracker("t2", "w1", "a", nil, nil), now.Add(-time.Minute)),
		newTracker("t3", "w1", "a", nil, nil),
		withLastCalc(newTracker("t4", "w1", "a", nil, nil), now.Add(-90*time.Minute)),
	}

	fresh, stale := PartitionByFreshness(trackers, cutoff, now)

	require.Len(t, fresh, 2)
	require.Len(t, stale, 2)
	assert.Equal(t, "t2", fresh[0].ID)
	assert.Equal(t, "t4", fresh[1].ID)
	assert.Equal(t, "t1", stale[0].ID)
	assert.Equal(t, "t3", stale[1].ID)
}

func TestStaleIDsByCollection(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cutoff := 2 * time.Hour
	trackers := []domain.TokenTracker{
		newTracker("t1", "w1", "degods", nil, nil),
		withLastCalc(newTracker("t2", "w1", "okay-bears", nil, nil), now.Add(-time.Hour)),
		newTracker("t3", "w1", "degods", nil, nil),
		newTracker("t4", "w1", "smb", nil, nil),
	}

	collections, staleIDs := StaleIDsByCollection(trackers, cutoff, now)

	// okay-bears is fully fresh and gets no batch.
	assert.Equal(t, []string{"degods", "smb"}, collections)
	assert.Equal(t, []string{"t1", "t3"}, staleIDs["degods"])
	assert.Equal(t, []string{"t4"}, staleIDs["smb"])
	assert.NotContains(t, staleIDs, "okay-bears")
}
