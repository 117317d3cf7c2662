package prune

import "github.com/htnplan/htnplan/internal/facts"

// RemoveUselessDeletes drops, from every operator in the store, delete
// effects that can never matter: f is useless to delete from an operator
// whose precondition already contains a mutex partner of f (f can't be
// true when the operator fires, so deleting it is a no-op), or whose
// precondition already contains f's compiler-introduced negation (for the
// same reason, one fact implies the other's negation).
func RemoveUselessDeletes(store *facts.Store, mutex *facts.MutexPairs) {
	negation := negationIndex(store)
	for _, op := range store.Operators() {
		useless := facts.NewIDSet()
		for _, f := range op.Del.Slice() {
			if mutexWithAny(f, op.Pre, mutex) {
				useless.Add(f)
				continue
			}
			if neg, ok := negation[f]; ok && op.Pre.Contains(neg) {
				useless.Add(f)
			}
		}
		if !useless.Empty() {
			op.Del = op.Del.Difference(useless)
			op.Normalize()
		}
	}
}

func mutexWithAny(f int, pre *facts.IDSet, mutex *facts.MutexPairs) bool {
	for _, p := range pre.Slice() {
		if mutex.Are(p, f) {
			return true
		}
	}
	return false
}

// negationIndex maps a fact id to the id of the compiler-introduced fact
// that is its negation, the reverse of Fact.NegOf.
func negationIndex(store *facts.Store) map[int]int {
	idx := make(map[int]int)
	for _, f := range store.Facts() {
		if f.NegOf >= 0 {
			idx[f.NegOf] = f.ID
		}
	}
	return idx
}
