package symmetry

import (
	"fmt"

	"github.com/htnplan/htnplan/internal/facts"
)

// BuildGraph encodes task as a labelled graph whose automorphisms
// correspond exactly to the task's structural symmetries: one "fact" node
// per fact, and per operator a "op" core node plus up to three relation
// facet nodes ("op-pre"/"op-add"/"op-del") linking the core to the facts in
// that relation. Splitting pre/add/del into distinctly labelled facets
// (rather than one undifferentiated adjacency, which is all the teacher's
// VF2Graph natively models) is what stops an automorphism from, say,
// mapping one operator's precondition fact onto another's add fact — the
// standard STRIPS-to-coloured-graph encoding used by symmetry-detection
// literature, adapted onto the teacher's label-aware feasibility check.
func BuildGraph(task *facts.Task) Graph {
	g := Graph{Labels: map[string]string{}}

	for _, f := range task.Store.Facts() {
		n := factNode(f.ID)
		g.Nodes = append(g.Nodes, n)
		g.Labels[n] = "fact"
	}

	for _, op := range task.Store.Operators() {
		core := opCoreNode(op.ID)
		g.Nodes = append(g.Nodes, core)
		g.Labels[core] = "op"

		addFacet(&g, core, op.ID, "pre", op.Pre)
		addFacet(&g, core, op.ID, "add", op.Add)
		addFacet(&g, core, op.ID, "del", op.Del)
	}

	return g
}

func addFacet(g *Graph, core string, opID int, rel string, members *facts.IDSet) {
	if members.Empty() {
		return
	}
	facet := opFacetNode(opID, rel)
	g.Nodes = append(g.Nodes, facet)
	g.Labels[facet] = "op-" + rel
	g.AddEdge(core, facet)
	for _, f := range members.Slice() {
		g.AddEdge(facet, factNode(f))
	}
}

func factNode(id int) string                { return fmt.Sprintf("f%d", id) }
func opCoreNode(id int) string               { return fmt.Sprintf("o%d", id) }
func opFacetNode(id int, rel string) string { return fmt.Sprintf("o%d-%s", id, rel) }
