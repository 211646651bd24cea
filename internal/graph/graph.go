// Package graph renders a branch's commit chain as a Graphviz DOT graph.
// Grounded on cmd/gitgraph/gitgraph.go, which builds an equivalent
// per-commit dot.Node/dot.Edge graph from a git fast-export stream;
// here the source is a branch's own commit list instead.
package graph

import (
	"fmt"

	"github.com/emicklei/dot"

	"github.com/sthobeck/lit/internal/objstore"
)

// Build renders one branch as a straight chain of commit nodes, oldest
// first, labelled with each commit's short hash and message.
func Build(g *dot.Graph, b *objstore.Branch) {
	var prev dot.Node
	have := false
	for i, c := range b.Commits {
		label := fmt.Sprintf("%s\n%.7s", c.Message, c.Sha1.Hex())
		node := g.Node(label)
		if i <= b.Head {
			node.Attr("style", "filled")
		}
		if have {
			g.Edge(prev, node)
		}
		prev = node
		have = true
	}
}

// BuildAll renders every branch's commit chain into one graph, each
// branch's nodes grouped under a subgraph cluster named after it.
func BuildAll(g *dot.Graph, branches []*objstore.Branch) {
	for _, b := range branches {
		sub := g.Subgraph(b.Name, dot.ClusterOption{})
		Build(sub, b)
	}
}
