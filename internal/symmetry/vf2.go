package symmetry

import (
	"fmt"

	"github.com/htnplan/htnplan/internal/perr"
)

// VF2Backend is the default Backend: a full-graph self-automorphism search
// adapted from the teacher's subgraph-isomorphism engine
// (algorithms/graph/vf2.go) — here Pattern and Target are the same graph
// and a match only counts once every node is mapped (a genuine
// automorphism, not a partial subgraph embedding).
type VF2Backend struct{}

type vf2State struct {
	g          Graph
	inEdges    map[string][]string
	mapping    map[string]string
	reverseMap map[string]bool
	iterations int
	opts       Options
	found      int
	hook       func(map[string]string) bool
	stopped    bool
	capped     bool
}

// FindAutomorphisms implements Backend.
func (VF2Backend) FindAutomorphisms(g Graph, opts Options, hook func(map[string]string) bool) error {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultOptions().MaxIterations
	}
	state := &vf2State{
		g:          g,
		inEdges:    buildInEdges(g.Edges),
		mapping:    map[string]string{},
		reverseMap: map[string]bool{},
		opts:       opts,
		hook:       hook,
	}
	match(state)
	if state.capped {
		return perr.CapacityErr("symmetry", "FindAutomorphisms", fmt.Errorf("iteration cap %d reached before search completed", opts.MaxIterations))
	}
	return nil
}

func buildInEdges(outEdges map[string][]string) map[string][]string {
	in := map[string][]string{}
	for node, succs := range outEdges {
		for _, s := range succs {
			in[s] = append(in[s], node)
		}
	}
	return in
}

func match(state *vf2State) {
	if state.stopped || state.capped {
		return
	}
	state.iterations++
	if state.iterations > state.opts.MaxIterations {
		state.capped = true
		return
	}

	if len(state.mapping) == len(state.g.Nodes) {
		full := make(map[string]string, len(state.mapping))
		for k, v := range state.mapping {
			full[k] = v
		}
		state.found++
		if !state.hook(full) {
			state.stopped = true
		}
		if state.opts.MaxGenerators > 0 && state.found >= state.opts.MaxGenerators {
			state.stopped = true
		}
		return
	}

	patternNode := nextUnmapped(state)
	for _, targetNode := range candidates(state, patternNode) {
		if !feasible(state, patternNode, targetNode) {
			continue
		}
		state.mapping[patternNode] = targetNode
		state.reverseMap[targetNode] = true

		match(state)

		delete(state.mapping, patternNode)
		delete(state.reverseMap, targetNode)

		if state.stopped || state.capped {
			return
		}
	}
}

func nextUnmapped(state *vf2State) string {
	for _, n := range state.g.Nodes {
		if _, ok := state.mapping[n]; !ok {
			return n
		}
	}
	return ""
}

// candidates returns every still-unmapped node as a candidate target for
// patternNode; since pattern and target are the same node set, every node
// not yet used as a target is a structural candidate, feasibility is what
// actually does the pruning.
func candidates(state *vf2State, patternNode string) []string {
	var out []string
	for _, n := range state.g.Nodes {
		if !state.reverseMap[n] {
			out = append(out, n)
		}
	}
	return out
}

func feasible(state *vf2State, patternNode, targetNode string) bool {
	pLabel, tLabel := state.g.Labels[patternNode], state.g.Labels[targetNode]
	if pLabel != "" && tLabel != "" && pLabel != tLabel {
		return false
	}

	for pNode, tNode := range state.mapping {
		pHasEdge := containsEdge(state.g.Edges[pNode], patternNode)
		if pHasEdge && !containsEdge(state.g.Edges[tNode], targetNode) {
			return false
		}
		pHasReverseEdge := containsEdge(state.g.Edges[patternNode], pNode)
		if pHasReverseEdge && !containsEdge(state.g.Edges[targetNode], tNode) {
			return false
		}
	}
	return true
}

func containsEdge(succs []string, target string) bool {
	for _, s := range succs {
		if s == target {
			return true
		}
	}
	return false
}
