// Package facts implements the fact and operator store described by the
// grounder's STRIPS core: interned fact names, operator records with
// pre/add/del and optional conditional effects, and the integer-set
// operations the rest of the pipeline builds on.
package facts

import (
	"fmt"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

// IDSet is an ordered set of non-negative integer ids (fact ids or operator
// ids, depending on context). It is backed by a compressed bitmap so that
// grounded tasks with hundreds of thousands of facts stay cheap to
// intersect, union, and iterate in ascending order.
type IDSet struct {
	bits *roaring.Bitmap
}

// NewIDSet returns an empty set.
func NewIDSet() *IDSet {
	return &IDSet{bits: roaring.New()}
}

// IDSetOf returns a set containing exactly the given ids.
func IDSetOf(ids ...int) *IDSet {
	s := NewIDSet()
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id into the set.
func (s *IDSet) Add(id int) {
	s.bits.Add(uint32(id))
}

// Remove deletes id from the set, if present.
func (s *IDSet) Remove(id int) {
	s.bits.Remove(uint32(id))
}

// Contains reports whether id is a member.
func (s *IDSet) Contains(id int) bool {
	return s.bits.Contains(uint32(id))
}

// Len returns the number of members.
func (s *IDSet) Len() int {
	return int(s.bits.GetCardinality())
}

// Empty reports whether the set has no members.
func (s *IDSet) Empty() bool {
	return s.bits.IsEmpty()
}

// Slice returns the members in ascending order.
func (s *IDSet) Slice() []int {
	out := make([]int, 0, s.Len())
	it := s.bits.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

// Clone returns an independent copy.
func (s *IDSet) Clone() *IDSet {
	return &IDSet{bits: s.bits.Clone()}
}

// Union returns a new set containing the members of s and other.
func (s *IDSet) Union(other *IDSet) *IDSet {
	return &IDSet{bits: roaring.Or(s.bits, other.bits)}
}

// Intersect returns a new set containing members present in both s and other.
func (s *IDSet) Intersect(other *IDSet) *IDSet {
	return &IDSet{bits: roaring.And(s.bits, other.bits)}
}

// Difference returns a new set containing members of s absent from other.
func (s *IDSet) Difference(other *IDSet) *IDSet {
	return &IDSet{bits: roaring.AndNot(s.bits, other.bits)}
}

// Intersects reports whether s and other share any member.
func (s *IDSet) Intersects(other *IDSet) bool {
	return s.bits.Intersects(other.bits)
}

// IsSubsetOf reports whether every member of s is also a member of other.
func (s *IDSet) IsSubsetOf(other *IDSet) bool {
	return s.bits.IsSubset(other.bits)
}

// Equals reports whether s and other contain the same members.
func (s *IDSet) Equals(other *IDSet) bool {
	return s.bits.Equals(other.bits)
}

// AddAll inserts every member of other into s.
func (s *IDSet) AddAll(other *IDSet) {
	s.bits.Or(other.bits)
}

// RemoveAll deletes every member of other from s.
func (s *IDSet) RemoveAll(other *IDSet) {
	s.bits.AndNot(other.bits)
}

// Remap returns a new set with every member id replaced by remap[id].
// Members with no entry in remap (removed ids) are dropped.
func (s *IDSet) Remap(remap map[int]int) *IDSet {
	out := NewIDSet()
	it := s.bits.Iterator()
	for it.HasNext() {
		old := int(it.Next())
		if nu, ok := remap[old]; ok {
			out.Add(nu)
		}
	}
	return out
}

// HashKey returns a stable, order-independent string suitable for use as a
// deduplication hash: the sorted element sequence of the set, comma
// separated. Concatenating several HashKeys with a delimiter block produces
// the operator dedup hash described in the fact/operator store spec.
func (s *IDSet) HashKey() string {
	elems := s.Slice()
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = fmt.Sprintf("%d", e)
	}
	return strings.Join(parts, ",")
}
