package facts

import (
	"sort"

	"github.com/htnplan/htnplan/internal/perr"
)

// Store owns every Fact and Operator for one grounded task. Entities are
// addressed by integer id into the store's slices, never by pointer into
// each other, so that a reduction pass can renumber everything by replacing
// the slices and remapping every id reference in one pass.
type Store struct {
	facts []*Fact
	ops   []*Operator
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// AddFact interns a new fact and returns its id.
func (s *Store) AddFact(name string) int {
	id := len(s.facts)
	s.facts = append(s.facts, &Fact{ID: id, Name: name, NegOf: -1})
	return id
}

// AddNegationFact interns a fact that is the compiler-introduced negation of
// of, naming it "NOT-<of's name>" per the conditional-effect compilation
// convention, and cross-links the two facts.
func (s *Store) AddNegationFact(of int) int {
	id := s.AddFact("NOT-" + s.facts[of].Name)
	s.facts[id].NegOf = of
	return id
}

// AddOperator appends op, assigning it the next id, and normalizes it.
func (s *Store) AddOperator(op *Operator) int {
	id := len(s.ops)
	op.ID = id
	op.Normalize()
	s.ops = append(s.ops, op)
	return id
}

// Fact returns the fact with the given id.
func (s *Store) Fact(id int) *Fact { return s.facts[id] }

// Operator returns the operator with the given id.
func (s *Store) Operator(id int) *Operator { return s.ops[id] }

// NumFacts returns the number of interned facts.
func (s *Store) NumFacts() int { return len(s.facts) }

// NumOperators returns the number of stored operators.
func (s *Store) NumOperators() int { return len(s.ops) }

// Facts returns every fact in id order. The slice is owned by the store and
// must not be mutated by the caller.
func (s *Store) Facts() []*Fact { return s.facts }

// Operators returns every operator in id order. The slice is owned by the
// store and must not be mutated by the caller.
func (s *Store) Operators() []*Operator { return s.ops }

// AllFactIDs returns the set of every interned fact id.
func (s *Store) AllFactIDs() *IDSet {
	set := NewIDSet()
	for _, f := range s.facts {
		set.Add(f.ID)
	}
	return set
}

// ---------------------------------------------------------------------
// Dedup
// ---------------------------------------------------------------------

// operatorHash concatenates the sorted element sequences of pre, add, del,
// and every conditional effect's pre/add/del in order, with a delimiter
// between blocks, per the dedup hashing rule in spec §4.1.
func operatorHash(op *Operator) string {
	h := op.Name + "|" + op.Pre.HashKey() + "|" + op.Add.HashKey() + "|" + op.Del.HashKey()
	for _, ce := range op.CondEffects {
		h += "|" + ce.Pre.HashKey() + "|" + ce.Add.HashKey() + "|" + ce.Del.HashKey()
	}
	return h
}

// operatorsStructurallyEqual compares name, pre, add, del, and, in order,
// every conditional-effect triple.
func operatorsStructurallyEqual(a, b *Operator) bool {
	if a.Name != b.Name {
		return false
	}
	if !a.Pre.Equals(b.Pre) || !a.Add.Equals(b.Add) || !a.Del.Equals(b.Del) {
		return false
	}
	if len(a.CondEffects) != len(b.CondEffects) {
		return false
	}
	for i := range a.CondEffects {
		ca, cb := a.CondEffects[i], b.CondEffects[i]
		if !ca.Pre.Equals(cb.Pre) || !ca.Add.Equals(cb.Add) || !ca.Del.Equals(cb.Del) {
			return false
		}
	}
	return true
}

// Dedup groups operators by hash, then by structural equality within a
// hash bucket, and replaces the store's operator list with one cheapest
// representative per equality class. It returns the surviving operators in
// their new (compacted) id order.
func (s *Store) Dedup() []*Operator {
	buckets := make(map[string][]*Operator)
	order := make([]string, 0)
	for _, op := range s.ops {
		h := operatorHash(op)
		if _, ok := buckets[h]; !ok {
			order = append(order, h)
		}
		buckets[h] = append(buckets[h], op)
	}

	survivors := make([]*Operator, 0, len(s.ops))
	for _, h := range order {
		group := buckets[h]
		classes := make([][]*Operator, 0, 1)
		for _, op := range group {
			placed := false
			for ci, class := range classes {
				if operatorsStructurallyEqual(class[0], op) {
					classes[ci] = append(class, op)
					placed = true
					break
				}
			}
			if !placed {
				classes = append(classes, []*Operator{op})
			}
		}
		for _, class := range classes {
			sort.Slice(class, func(i, j int) bool { return class[i].Cost < class[j].Cost })
			survivors = append(survivors, class[0])
		}
	}

	s.ops = survivors
	for i, op := range s.ops {
		op.ID = i
	}
	return s.ops
}

// ---------------------------------------------------------------------
// Removal and remap
// ---------------------------------------------------------------------

// RemoveFactsFromOperators strips every member of removed from every
// operator's pre/add/del/conditional-effect sets and re-normalizes, without
// renumbering any id. This is useful on its own when facts are pruned but
// no full reduction (and its remap) is warranted yet.
func (s *Store) RemoveFactsFromOperators(removed *IDSet) {
	for _, op := range s.ops {
		op.Pre = op.Pre.Difference(removed)
		op.Add = op.Add.Difference(removed)
		op.Del = op.Del.Difference(removed)
		kept := op.CondEffects[:0]
		for _, ce := range op.CondEffects {
			ce.Pre = ce.Pre.Difference(removed)
			ce.Add = ce.Add.Difference(removed)
			ce.Del = ce.Del.Difference(removed)
			kept = append(kept, ce)
		}
		op.CondEffects = kept
		op.Normalize()
	}
}

// RemoveOperators deletes the operators whose ids are in removed and
// compacts the remaining ids monotonically (old order is preserved).
func (s *Store) RemoveOperators(removed *IDSet) {
	kept := make([]*Operator, 0, len(s.ops))
	for _, op := range s.ops {
		if removed.Contains(op.ID) {
			continue
		}
		kept = append(kept, op)
	}
	s.ops = kept
	for i, op := range s.ops {
		op.ID = i
	}
}

// RemoveNoOps deletes operators with empty add, empty del, and no
// conditional effects: they can never change the state they are applied in.
func (s *Store) RemoveNoOps() {
	noop := NewIDSet()
	for _, op := range s.ops {
		if op.Add.Empty() && op.Del.Empty() && len(op.CondEffects) == 0 {
			noop.Add(op.ID)
		}
	}
	s.RemoveOperators(noop)
}

// SortAndRemap computes a monotone id remap for the surviving facts (those
// not in removed), rewrites every operator's fact references through it,
// and returns the remap (old id -> new id) so callers can rewrite init/goal
// sets in the same way. Facts in removed are dropped from the store.
func (s *Store) SortAndRemap(removed *IDSet) map[int]int {
	remap := make(map[int]int, len(s.facts))
	survivors := make([]*Fact, 0, len(s.facts))
	for _, f := range s.facts {
		if removed.Contains(f.ID) {
			continue
		}
		remap[f.ID] = len(survivors)
		survivors = append(survivors, f)
	}

	for i, f := range survivors {
		f.ID = i
		if f.NegOf >= 0 {
			if nu, ok := remap[f.NegOf]; ok {
				f.NegOf = nu
			} else {
				f.NegOf = -1
			}
		}
	}
	s.facts = survivors

	for _, op := range s.ops {
		op.Pre = op.Pre.Remap(remap)
		op.Add = op.Add.Remap(remap)
		op.Del = op.Del.Remap(remap)
		for i, ce := range op.CondEffects {
			ce.Pre = ce.Pre.Remap(remap)
			ce.Add = ce.Add.Remap(remap)
			ce.Del = ce.Del.Remap(remap)
			op.CondEffects[i] = ce
		}
		op.Normalize()
	}

	return remap
}

// RemapSet applies a SortAndRemap result to an arbitrary id set (typically
// init or goal), dropping members that were removed.
func RemapSet(set *IDSet, remap map[int]int) *IDSet {
	return set.Remap(remap)
}

// ValidateRanges checks that every fact id an operator references is within
// range, returning an Internal-kind error naming the first violation found.
// Callers run this after grounding and after every reduction as a cheap
// sanity check against the invariant tested in spec §8.
func (s *Store) ValidateRanges() error {
	n := len(s.facts)
	inRange := func(set *IDSet) bool {
		for _, id := range set.Slice() {
			if id < 0 || id >= n {
				return false
			}
		}
		return true
	}
	for _, op := range s.ops {
		if !inRange(op.Pre) || !inRange(op.Add) || !inRange(op.Del) {
			return perr.InternalErr("facts", "ValidateRanges", errFactIDOutOfRange(op.Name))
		}
		for _, ce := range op.CondEffects {
			if !inRange(ce.Pre) || !inRange(ce.Add) || !inRange(ce.Del) {
				return perr.InternalErr("facts", "ValidateRanges", errFactIDOutOfRange(op.Name))
			}
		}
	}
	return nil
}
