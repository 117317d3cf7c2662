package facts

// MutexGroup is a set of fact ids believed pairwise mutex, with the three
// derived flags spec §3 defines.
type MutexGroup struct {
	Facts        *IDSet
	IsFamGroup   bool // provably fact-alternating (count exactly preserved)
	IsExactlyOne bool // the initial state sets exactly one member true
	IsGoal       bool // intersects the task's goal
}

// RecomputeExactlyOne recomputes IsExactlyOne against init.
func (g *MutexGroup) RecomputeExactlyOne(init *IDSet) {
	g.IsExactlyOne = g.Facts.Intersect(init).Len() == 1
}

// RecomputeIsGoal recomputes IsGoal against goal.
func (g *MutexGroup) RecomputeIsGoal(goal *IDSet) {
	g.IsGoal = g.Facts.Intersects(goal)
}

// IsStatic reports whether no operator in ops has an add-effect intersecting
// the group — i.e. the group's truth assignment never changes.
func (g *MutexGroup) IsStatic(ops []*Operator) bool {
	for _, op := range ops {
		if op.Add.Intersects(g.Facts) {
			return false
		}
		for _, ce := range op.CondEffects {
			if ce.Add.Intersects(g.Facts) {
				return false
			}
		}
	}
	return true
}

// MutexPairs is a symmetric relation on fact ids, stored as adjacency sets
// keyed by fact id. It is derivable from a list of mutex groups by pairwise
// inclusion: every pair of distinct members of a group is mutex.
type MutexPairs struct {
	adj map[int]*IDSet
}

// NewMutexPairs returns an empty relation.
func NewMutexPairs() *MutexPairs {
	return &MutexPairs{adj: make(map[int]*IDSet)}
}

// Add records f and g as mutex (f != g). Adding (f,f) is a no-op unless f is
// unreachable, per the store invariant in spec §3; callers that want to mark
// an unreachable fact call AddUnreachableSelf explicitly.
func (m *MutexPairs) Add(f, g int) {
	if f == g {
		return
	}
	m.ensure(f).Add(g)
	m.ensure(g).Add(f)
}

// AddUnreachableSelf records f as mutex with itself, the encoding this
// package uses for "f can never be true in any reachable state."
func (m *MutexPairs) AddUnreachableSelf(f int) {
	m.ensure(f).Add(f)
}

func (m *MutexPairs) ensure(f int) *IDSet {
	if m.adj[f] == nil {
		m.adj[f] = NewIDSet()
	}
	return m.adj[f]
}

// Are reports whether f and g are recorded as mutex.
func (m *MutexPairs) Are(f, g int) bool {
	if m.adj[f] == nil {
		return false
	}
	return m.adj[f].Contains(g)
}

// Unreachable reports whether f is marked mutex with itself.
func (m *MutexPairs) Unreachable(f int) bool {
	return m.Are(f, f)
}

// Of returns the set of facts recorded as mutex with f.
func (m *MutexPairs) Of(f int) *IDSet {
	if m.adj[f] == nil {
		return NewIDSet()
	}
	return m.adj[f].Clone()
}

// Remap rewrites the relation through remap (old id -> new id), dropping
// any id not present in remap. Useful after a Task.Reduce pass so a mutex
// relation computed on the pre-reduction ids stays usable afterward.
func (m *MutexPairs) Remap(remap map[int]int) *MutexPairs {
	out := NewMutexPairs()
	for f, set := range m.adj {
		nf, ok := remap[f]
		if !ok {
			continue
		}
		for _, g := range set.Slice() {
			ng, ok := remap[g]
			if !ok {
				continue
			}
			if nf == ng {
				out.AddUnreachableSelf(nf)
				continue
			}
			out.Add(nf, ng)
		}
	}
	return out
}

// FromGroups derives a MutexPairs relation from a list of groups by pairwise
// inclusion: every two distinct members of the same group are mutex.
func FromGroups(groups []MutexGroup) *MutexPairs {
	mp := NewMutexPairs()
	for _, g := range groups {
		members := g.Facts.Slice()
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				mp.Add(members[i], members[j])
			}
		}
	}
	return mp
}

// HasMutexPair reports whether set contains two distinct members that are
// mutex according to mp.
func HasMutexPair(set *IDSet, mp *MutexPairs) bool {
	members := set.Slice()
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			if mp.Are(members[i], members[j]) {
				return true
			}
		}
	}
	return false
}

// RemapGroups rewrites every group's Facts through remap, dropping members
// a reduction pass removed, and drops any group left with fewer than two
// members (no longer a mutex relation once the id remap has collapsed it).
// Only Facts and IsFamGroup carry over; IsExactlyOne and IsGoal come back
// false until recomputed against the reduced task.
// Callers run this after facts.Task.Reduce (or prune.Run, which calls it)
// to keep pre-reduction mutex groups usable against the reduced task.
func RemapGroups(groups []MutexGroup, remap map[int]int) []MutexGroup {
	out := make([]MutexGroup, 0, len(groups))
	for _, g := range groups {
		facts := g.Facts.Remap(remap)
		if facts.Len() < 2 {
			continue
		}
		out = append(out, MutexGroup{Facts: facts, IsFamGroup: g.IsFamGroup})
	}
	return out
}
