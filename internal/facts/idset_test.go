package facts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDSetSetOps(t *testing.T) {
	t.Run("union and intersect", func(t *testing.T) {
		a := IDSetOf(1, 2, 3)
		b := IDSetOf(2, 3, 4)

		assert.Equal(t, []int{1, 2, 3, 4}, a.Union(b).Slice())
		assert.Equal(t, []int{2, 3}, a.Intersect(b).Slice())
	})

	t.Run("difference", func(t *testing.T) {
		a := IDSetOf(1, 2, 3)
		b := IDSetOf(2)
		assert.Equal(t, []int{1, 3}, a.Difference(b).Slice())
	})

	t.Run("intersects and subset", func(t *testing.T) {
		a := IDSetOf(1, 2)
		b := IDSetOf(2, 3)
		assert.True(t, a.Intersects(b), "expected intersection")
		assert.True(t, IDSetOf(1).IsSubsetOf(a), "expected subset")
	})

	t.Run("remap drops unmapped ids", func(t *testing.T) {
		a := IDSetOf(0, 1, 2)
		remap := map[int]int{0: 0, 2: 1}
		assert.Equal(t, []int{0, 1}, a.Remap(remap).Slice())
	})

	t.Run("hash key is order independent of insertion", func(t *testing.T) {
		a := IDSetOf(3, 1, 2)
		b := IDSetOf(1, 2, 3)
		assert.Equal(t, a.HashKey(), b.HashKey())
	})
}
