package symmetry

import (
	"strconv"

	"github.com/htnplan/htnplan/internal/facts"
	"github.com/htnplan/htnplan/internal/perr"
)

// Generate runs backend over task's graph encoding and returns every
// non-trivial automorphism found as a Generator. A capacity error from the
// backend (iteration cap reached) is not propagated: per spec Non-goals,
// the symmetry generator is an optional feature riding on an external
// collaborator, so a bounded/partial result degrades gracefully rather
// than failing the pipeline.
func Generate(task *facts.Task, backend Backend, opts Options) ([]Generator, error) {
	g := BuildGraph(task)

	var generators []Generator
	err := backend.FindAutomorphisms(g, opts, func(mapping map[string]string) bool {
		if gen, ok := toGenerator(mapping); ok {
			generators = append(generators, gen)
		}
		return true
	})
	if err != nil && !perr.IsKind(err, perr.Capacity) {
		return nil, err
	}
	return generators, nil
}

// toGenerator extracts the fact and operator-core permutations from a full
// node mapping, discarding the identity automorphism (it carries no useful
// symmetry) and the facet-node entries (implied by the core mapping, not
// independently meaningful).
func toGenerator(mapping map[string]string) (Generator, bool) {
	factPerm := map[int]int{}
	opPerm := map[int]int{}
	identity := true

	for from, to := range mapping {
		if from != to {
			identity = false
		}
		if id, ok := parseNode(from, "f"); ok {
			toID, _ := parseNode(to, "f")
			factPerm[id] = toID
			continue
		}
		if id, ok := parseNode(from, "o"); ok {
			if toID, ok := parseNode(to, "o"); ok {
				opPerm[id] = toID
			}
		}
	}
	if identity {
		return Generator{}, false
	}

	return Generator{
		FactPerm: factPerm,
		FactInv:  invert(factPerm),
		OpPerm:   opPerm,
		OpInv:    invert(opPerm),
		OpCycles: decomposeCycles(opPerm),
	}, true
}

// parseNode extracts the integer id from a bare core node name ("f3",
// "o12"); facet nodes ("o12-pre") and nodes with the wrong prefix don't
// match.
func parseNode(name, prefix string) (int, bool) {
	if len(name) < 2 || name[0] != prefix[0] {
		return 0, false
	}
	for i := 1; i < len(name); i++ {
		if name[i] < '0' || name[i] > '9' {
			return 0, false
		}
	}
	id, err := strconv.Atoi(name[1:])
	if err != nil {
		return 0, false
	}
	return id, true
}
