package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tlskins/nft-tracker-app/internal/domain"
)

func ids(trackers []domain.TokenTracker) []string {
	out := make([]string, 0, len(trackers))
	for _, tracker := range trackers {
		out = append(out, tracker.ID)
	}
	return out
}

func TestMergeReplacesInPlace(t *testing.T) {
	base := []domain.TokenTracker{
		newTracker("t1", "w1", "a", dec("1"), dec("1")),
		newTracker("t2", "w1", "a", dec("2"), dec("2")),
		newTracker("t3", "w1", "b", dec("3"), dec("3")),
	}

	merged := Merge(base, []domain.TokenTracker{newTracker("t2", "w1", "a", dec("9"), dec("9"))})

	assert.Equal(t, []string{"t1", "t2", "t3"}, ids(merged))
	assert.Equal(t, "9", merged[1].Token.FloorPrice.String())
	// base untouched
	assert.Equal(t, "2", base[1].Token.FloorPrice.String())
}

func TestMergeUnknownIDIsNoOp(t *testing.T) {
	base := []domain.TokenTracker{newTracker("t1", "w1", "a", dec("1"), nil)}

	merged := Merge(base, []domain.TokenTracker{newTracker("t9", "w1", "a", dec("9"), nil)})

	require.Len(t, merged, 1)
	assert.Equal(t, "t1", merged[0].ID)
	assert.Equal(t, "1", merged[0].Token.FloorPrice.String())
}

func TestMergeCommutativeForDisjointBatches(t *testing.T) {
	base := []domain.TokenTracker{
		newTracker("t1", "w1", "a", dec("1"), dec("1")),
		newTracker("t2", "w1", "a", dec("2"), dec("2")),
		newTracker("t3", "w1", "b", dec("3"), dec("3")),
	}
	batchA := []domain.TokenTracker{newTracker("t1", "w1", "a", dec("10"), dec("10"))}
	batchB := []domain.TokenTracker{newTracker("t3", "w1", "b", dec("30"), dec("30"))}

	ab := Merge(Merge(base, batchA), batchB)
	ba := Merge(Merge(base, batchB), batchA)

	require.Equal(t, ids(ab), ids(ba))
	for i := range ab {
		assert.Equal(t, ab[i].Token.FloorPrice.String(), ba[i].Token.FloorPrice.String())
	}
}

func TestMergeIdempotent(t *testing.T) {
	base := []domain.TokenTracker{
		newTracker("t1", "w1", "a", dec("1"), nil),
		newTracker("t2", "w1", "a", dec("2"), nil),
	}
	batch := []domain.TokenTracker{newTracker("t2", "w1", "a", dec("7"), nil)}

	once := Merge(base, batch)
	twice := Merge(once, batch)

	require.Equal(t, ids(once), ids(twice))
	for i := range once {
		assert.Equal(t, once[i].Token.FloorPrice.String(), twice[i].Token.FloorPrice.String())
	}
}

func TestMergeEmptyBatch(t *testing.T) {
	base := []domain.TokenTracker{newTracker("t1", "w1", "a", nil, nil)}
	assert.Equal(t, base, Merge(base, nil))
}
