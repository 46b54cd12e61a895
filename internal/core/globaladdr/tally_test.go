package globaladdr

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dep2p/go-selfaddr/pkg/types"
)

func mustAddrs(ss ...string) []types.Address {
	out := make([]types.Address, 0, len(ss))
	for _, s := range ss {
		out = append(out, types.MustParseAddress(s))
	}
	return out
}

func TestTally_SameAddressVotes(t *testing.T) {
	tally := NewTally()
	a := types.MustParseAddress("203.0.113.5")

	for i := 1; i <= 5; i++ {
		assert.Equal(t, i, tally.Add(a))
	}

	assert.Equal(t, 5, tally.Count(a))
	assert.Equal(t, 1, tally.Len())
	assert.Equal(t, mustAddrs("203.0.113.5"), tally.Sorted())
}

func TestTally_SortByVotes(t *testing.T) {
	tally := NewTally()
	for _, s := range []string{"203.0.113.9", "203.0.113.5", "203.0.113.5", "198.51.100.1", "203.0.113.5", "198.51.100.1"} {
		tally.Add(types.MustParseAddress(s))
	}

	assert.Equal(t, mustAddrs("203.0.113.5", "198.51.100.1", "203.0.113.9"), tally.Sorted())
}

func TestTally_TieBreak(t *testing.T) {
	t.Run("票数相同按排名", func(t *testing.T) {
		tally := NewTally()
		tally.Add(types.MustParseAddress("192.168.1.10"))
		tally.Add(types.MustParseAddress("203.0.113.5"))

		assert.Equal(t, mustAddrs("203.0.113.5", "192.168.1.10"), tally.Sorted())
	})

	t.Run("排名也相同按首次出现", func(t *testing.T) {
		tally := NewTally()
		tally.Add(types.MustParseAddress("203.0.113.9"))
		tally.Add(types.MustParseAddress("198.51.100.1"))
		tally.Add(types.MustParseAddress("203.0.113.5"))

		assert.Equal(t, mustAddrs("203.0.113.9", "198.51.100.1", "203.0.113.5"), tally.Sorted())
	})
}

func TestTally_Empty(t *testing.T) {
	tally := NewTally()
	got := tally.Sorted()
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, tally.Count(types.MustParseAddress("203.0.113.5")))
}

func TestTally_SortedIsCopy(t *testing.T) {
	tally := NewTally()
	tally.Add(types.MustParseAddress("203.0.113.5"))

	got := tally.Sorted()
	got[0] = types.MustParseAddress("198.51.100.1")

	assert.Equal(t, mustAddrs("203.0.113.5"), tally.Sorted())
}
