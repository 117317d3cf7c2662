// Package symmetry derives structural symmetries of a grounded task: fact
// and operator permutations that preserve every operator's pre/add/del
// structure, found by running a pluggable graph-automorphism backend over a
// labelled encoding of the task (spec §4 Component I; the backend itself is
// an external collaborator per spec Non-goals — its absence only disables
// the symmetry features, it is never a hard requirement of the pipeline).
package symmetry

import "sort"

// Graph is the small labelled-directed-graph shape the automorphism
// backend consumes: node ids, their outgoing edges, and an optional label
// per node used for structural-type preservation (a backend must never map
// a node onto one with a different, non-empty label).
type Graph struct {
	Nodes  []string
	Edges  map[string][]string
	Labels map[string]string
}

// AddEdge records a directed edge from -> to, creating from's adjacency
// entry if this is its first edge.
func (g *Graph) AddEdge(from, to string) {
	if g.Edges == nil {
		g.Edges = map[string][]string{}
	}
	g.Edges[from] = append(g.Edges[from], to)
}

// Backend enumerates the automorphisms of g (bijections of Nodes onto
// itself that preserve every edge and every non-empty label), calling hook
// once per automorphism found until hook returns false, opts.MaxGenerators
// automorphisms have been reported, or opts.MaxIterations search steps have
// elapsed. A capacity-limited backend returns a *perr.Error of kind
// Capacity; callers treat that as "stopped early", not fatal.
type Backend interface {
	FindAutomorphisms(g Graph, opts Options, hook func(mapping map[string]string) bool) error
}

// Options bounds an automorphism search, mirroring the max_candidates/
// time_limit shape internal/lmg already uses for its own bounded search.
type Options struct {
	MaxGenerators int
	MaxIterations int
}

// DefaultOptions returns conservative bounds suitable for most grounded
// tasks.
func DefaultOptions() Options {
	return Options{MaxGenerators: 100, MaxIterations: 100000}
}

// Generator is one structural symmetry: a permutation of fact ids (with its
// inverse), a permutation of operator ids (with its inverse), and the
// operator permutation's decomposition into disjoint cycles (spec §4: "A
// permutation of facts (with inverse), a permutation of operators (with
// inverse), and the decomposition of the operator permutation into disjoint
// cycles"). The field layout mirrors pddl_strips_sym_gen_t's fact/fact_inv/
// op/op_inv/op_cycle from the original grounder's sym.h field for field;
// OpCycles replaces its grow-only bor_iset_t array with a plain slice since
// Generate builds the whole decomposition in one pass rather than growing it
// incrementally.
type Generator struct {
	FactPerm map[int]int
	FactInv  map[int]int
	OpPerm   map[int]int
	OpInv    map[int]int
	OpCycles [][]int
}

// ApplyFacts maps every member of ids through the generator's fact
// permutation.
func (g Generator) ApplyFacts(ids []int) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = g.FactPerm[id]
	}
	return out
}

func invert(perm map[int]int) map[int]int {
	inv := make(map[int]int, len(perm))
	for k, v := range perm {
		inv[v] = k
	}
	return inv
}

// decomposeCycles decomposes perm (a bijection over its own key/value
// domain) into its disjoint cycles, including fixed points as length-1
// cycles, in ascending order of each cycle's smallest element.
func decomposeCycles(perm map[int]int) [][]int {
	seen := map[int]bool{}
	keys := make([]int, 0, len(perm))
	for k := range perm {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	var cycles [][]int
	for _, start := range keys {
		if seen[start] {
			continue
		}
		cycle := []int{start}
		seen[start] = true
		for next := perm[start]; next != start; next = perm[next] {
			cycle = append(cycle, next)
			seen[next] = true
		}
		cycles = append(cycles, cycle)
	}
	return cycles
}
