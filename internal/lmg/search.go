package lmg

import (
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/htnplan/htnplan/internal/lp"
)

// Config bounds the candidate search, mirroring the translator flags
// --lmg-max-candidates and --lmg-max-mgroups plus an internal time budget.
type Config struct {
	MaxCandidates int
	MaxMGroups    int
	MaxGroupSize  int // candidate atom count ceiling
	MaxGroupArity int // free-variable count ceiling
	TimeLimit     time.Duration
	Monotonicity  bool // run the monotonicity criterion instead of fam-group

	// Solver, if non-nil, lets verification settle a candidate against an
	// action with one MIP solve instead of enumerating every injective
	// binding; nil disables the optimization and always falls back to the
	// combinatorial check in verify.go.
	Solver lp.Solver
}

// DefaultConfig returns the bounds used when the CLI passes none.
func DefaultConfig() Config {
	return Config{
		MaxCandidates: 100000,
		MaxMGroups:    10000,
		MaxGroupSize:  4,
		MaxGroupArity: 3,
		TimeLimit:     30 * time.Second,
	}
}

// Result is what the search pass returns: the surviving groups plus
// whether it stopped early because of a bound.
type Result struct {
	Groups        []Group
	CandidatesTried int
	LimitHit      bool
}

// Infer runs fam-group (or, if cfg.Monotonicity, monotonicity) inference
// over dom, bounded by cfg. It always returns whatever it accumulated,
// even if a bound fired before the search exhausted the candidate space —
// per spec §5, neither bound is an error. Bound checks apply once per
// search layer (frontier) rather than once per candidate, since a whole
// layer's candidates are verified concurrently via evaluateBatch; the
// search itself is still a single strictly-sequential pass within the
// A->I pipeline (spec §5), only this pass's own internal candidate checks
// fan out.
func Infer(dom LiftedDomain, cfg Config) Result {
	deadline := time.Now().Add(cfg.TimeLimit)
	res := Result{}
	frontier := generateSingletons(dom)

	for len(frontier) > 0 {
		if cfg.TimeLimit > 0 && time.Now().After(deadline) {
			res.LimitHit = true
			return res
		}

		batch := frontier
		if remaining := cfg.MaxCandidates - res.CandidatesTried; len(batch) > remaining {
			batch = batch[:remaining]
		}

		results, _ := evaluateBatch(batch, dom, cfg)

		var next []Candidate
		for i, c := range batch {
			res.CandidatesTried++
			if results[i] {
				res.Groups = append(res.Groups, Group{
					Candidate:  c,
					IsFamGroup: !cfg.Monotonicity,
					IsMonotone: cfg.Monotonicity,
				})
				if len(res.Groups) >= cfg.MaxMGroups {
					res.LimitHit = true
					return res
				}
			}
			if len(c.Atoms) < cfg.MaxGroupSize {
				next = append(next, grow(c, dom, cfg.MaxGroupArity)...)
			}
		}

		if len(batch) < len(frontier) {
			res.LimitHit = true
			return res
		}
		frontier = next
	}

	return res
}

// evaluateBatch runs checkCandidate over batch concurrently, one worker per
// available core: each candidate's check is a pure function of its inputs
// with no shared mutable state besides its own results slot, so fanning it
// out doesn't introduce any data race. The returned error is always nil
// today (no candidate check can itself fail) but is threaded through in
// errgroup's idiom so a future fallible check composes without a signature
// change.
func evaluateBatch(batch []Candidate, dom LiftedDomain, cfg Config) ([]bool, error) {
	results := make([]bool, len(batch))
	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, c := range batch {
		i, c := i, c
		g.Go(func() error {
			results[i] = checkCandidate(c, dom, cfg)
			return nil
		})
	}
	return results, g.Wait()
}

// checkCandidate verifies c against dom, preferring cfg's MIP bound-check
// per action when a Solver is configured and falling back to the
// combinatorial enumeration in verify.go for any action it couldn't settle.
func checkCandidate(c Candidate, dom LiftedDomain, cfg Config) bool {
	if cfg.Solver == nil {
		return verify(c, dom, cfg.Monotonicity)
	}
	if decided, ok := verifyBounded(c, dom, cfg.Monotonicity, cfg.Solver); decided {
		return ok
	}
	return verify(c, dom, cfg.Monotonicity)
}

// verifyBounded is checkCandidate's MIP path: it decides every action with
// boundCheck and stops at the first one that's either undecided or
// violated, matching verify.go's all-actions-must-pass semantics.
func verifyBounded(c Candidate, dom LiftedDomain, monotonicity bool, solver lp.Solver) (decided bool, ok bool) {
	for _, act := range dom.Actions {
		d, actOK := boundCheck(c, act, monotonicity, solver)
		if !d {
			return false, false
		}
		if !actOK {
			return true, false
		}
	}
	return true, true
}

// generateSingletons builds one candidate per (predicate, counted-slot)
// pair: every other slot of the atom becomes a distinct free variable.
func generateSingletons(dom LiftedDomain) []Candidate {
	var out []Candidate
	for pred, arity := range dom.Predicates {
		for counted := 0; counted < arity; counted++ {
			slots := make([]Slot, arity)
			free := 0
			for i := 0; i < arity; i++ {
				if i == counted {
					slots[i] = Slot{Var: "#counted", Counted: true}
					continue
				}
				slots[i] = Slot{Var: freeVarName(free)}
				free++
			}
			out = append(out, Candidate{Atoms: []Atom{{Predicate: pred, Slots: slots}}})
		}
	}
	return out
}

func freeVarName(i int) string {
	names := []byte("abcdefghijklmnopqrstuvwxyz")
	return "?" + string(names[i%len(names)])
}

// grow extends c by appending one more singleton atom pattern whose free
// variables are aligned positionally with c's existing free variables
// (truncating or ignoring extra slots), bounded by maxArity.
func grow(c Candidate, dom LiftedDomain, maxArity int) []Candidate {
	if c.numFreeVars() > maxArity {
		return nil
	}
	freeNames := freeVarNamesOf(c)
	var out []Candidate
	for pred, arity := range dom.Predicates {
		for counted := 0; counted < arity; counted++ {
			slots := make([]Slot, arity)
			freeIdx := 0
			for i := 0; i < arity; i++ {
				if i == counted {
					slots[i] = Slot{Var: "#counted", Counted: true}
					continue
				}
				if freeIdx < len(freeNames) {
					slots[i] = Slot{Var: freeNames[freeIdx]}
				} else {
					slots[i] = Slot{Var: freeVarName(len(freeNames) + freeIdx)}
				}
				freeIdx++
			}
			atoms := append(append([]Atom{}, c.Atoms...), Atom{Predicate: pred, Slots: slots})
			out = append(out, Candidate{Atoms: atoms})
		}
	}
	return out
}

func freeVarNamesOf(c Candidate) []string {
	seen := map[string]bool{}
	var names []string
	for _, a := range c.Atoms {
		for _, s := range a.Slots {
			if !s.isObject() && !s.Counted && !seen[s.Var] {
				seen[s.Var] = true
				names = append(names, s.Var)
			}
		}
	}
	return names
}
