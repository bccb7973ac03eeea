package cfg

import (
	"fmt"
	"strings"

	L "github.com/cs-au-dk/cprop/analysis/lattice"
	"github.com/cs-au-dk/cprop/utils/dot"
)

// Visualize creates a Dot Graph of the given methods. Every method becomes a
// cluster, every reachable block a node labelled with its instructions, the
// constants known on exit, and the state after each assignment.
func (p *Program) Visualize(methods []MethodKey) (*dot.DotGraph, error) {
	G := &dot.DotGraph{
		Title:   "Constant propagation",
		Options: map[string]string{"rankdir": "TB"},
	}

	nodes := make(map[BlockID]*dot.DotNode)

	for _, m := range methods {
		blocks, err := p.Reachable(m)
		if err != nil {
			return nil, err
		}

		cluster := dot.NewDotCluster(m.String())
		cluster.Attrs["label"] = m.String()
		for _, b := range blocks {
			node := &dot.DotNode{
				ID: fmt.Sprintf("%s#%d", m, b.ID),
				Attrs: dot.DotAttrs{
					"label": blockLabel(b),
				},
			}
			if entry, _ := p.Entry(m); entry == b {
				node.Attrs["fillcolor"] = "lightblue"
			}
			nodes[b.ID] = node
			cluster.Nodes = append(cluster.Nodes, node)
		}
		G.Clusters = append(G.Clusters, cluster)

		for _, b := range blocks {
			for _, succ := range b.succs {
				G.Edges = append(G.Edges, &dot.DotEdge{
					From:  nodes[b.ID],
					To:    nodes[succ],
					Attrs: dot.DotAttrs{},
				})
			}
		}
	}

	return G, nil
}

// blockLabel lists the instructions of b, annotating assignments with the
// value they produced, followed by the OUT state.
func blockLabel(b *Block) string {
	var lines []string
	for _, i := range b.Instructions {
		line := i.String()
		if a, ok := i.Stmt.(*Assign); ok {
			if v := i.Out.Get(a.Lhs); !v.IsBot() {
				line += "  // " + v.Plain()
			}
		}
		lines = append(lines, line)
	}

	var out []string
	b.Out.ForEach(func(x string, v L.Value) {
		out = append(out, x+"="+v.Plain())
	})
	lines = append(lines, "OUT: {"+strings.Join(out, ", ")+"}")

	return strings.Join(lines, "\n")
}
