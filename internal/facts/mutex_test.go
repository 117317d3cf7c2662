package facts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromGroupsMarksEveryPairMutex(t *testing.T) {
	groups := []MutexGroup{{Facts: IDSetOf(1, 2, 3)}}
	mp := FromGroups(groups)
	assert.True(t, mp.Are(1, 2))
	assert.True(t, mp.Are(2, 3))
	assert.True(t, mp.Are(1, 3))
}

func TestRemapGroupsDropsRemovedMembersAndShrunkGroups(t *testing.T) {
	groups := []MutexGroup{
		{Facts: IDSetOf(1, 2, 3), IsFamGroup: true},
		{Facts: IDSetOf(4, 5)},
	}
	// fact 2 removed (no entry), fact 5 removed, rest renumbered.
	remap := map[int]int{1: 0, 3: 1, 4: 2}

	out := RemapGroups(groups, remap)
	require.Len(t, out, 1, "expected the second group to be dropped (only 1 survivor left)")
	assert.Equal(t, []int{0, 1}, out[0].Facts.Slice())
	assert.True(t, out[0].IsFamGroup, "expected IsFamGroup to survive the remap")
}
