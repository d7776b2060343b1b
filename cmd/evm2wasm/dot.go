// Copyright 2022-2026 The N42 Authors
// This file is part of the N42 library.
//
// The N42 library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The N42 library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the N42 library. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/emicklei/dot"
	"github.com/n42blockchain/evm2wasm/internal/cfg"
	"github.com/n42blockchain/evm2wasm/internal/reduce"
	"github.com/n42blockchain/evm2wasm/internal/relooper"
)

func writeDot(dir, name string, g *dot.Graph) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("debug dir: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, name), []byte(g.String()), 0644)
}

// dumpCFG renders the raw, un-reduced control-flow graph: one node per
// basic block, edges tagged by shape (Static/Dynamic/Exit).
func dumpCFG(dir string, g *cfg.CFG) error {
	out := dot.NewGraph(dot.Directed)
	out.Attr("rankdir", "TB")

	nodes := make(map[uint32]dot.Node)
	for _, label := range g.SortedLabels() {
		b := g.Blocks[label]
		n := out.Node(fmt.Sprintf("b%d", label))
		n.Label(fmt.Sprintf("0x%x [%d,%d)", label, b.Start, b.End))
		nodes[label] = n
	}
	for _, label := range g.SortedLabels() {
		b := g.Blocks[label]
		from := nodes[label]
		for _, e := range b.Successors {
			switch e.Kind {
			case cfg.Static:
				if to, ok := nodes[e.Label]; ok {
					out.Edge(from, to)
				}
			case cfg.Dynamic:
				sink := out.Node(fmt.Sprintf("b%d_dynamic", label))
				sink.Attr("shape", "diamond").Label("dynamic jump")
				out.Edge(from, sink)
			case cfg.Exit:
				sink := out.Node(fmt.Sprintf("b%d_exit", label))
				sink.Attr("shape", "doublecircle").Label("exit")
				out.Edge(from, sink)
			}
		}
	}
	return writeDot(dir, "cfg.dot", out)
}

// dumpReduced renders the reducibility supergraph after node splitting:
// one node per extended label, so duplicates introduced to break
// irreducible loops are visible as distinct vertices.
func dumpReduced(dir string, r *reduce.Reduced) error {
	out := dot.NewGraph(dot.Directed)
	out.Attr("rankdir", "TB")

	nodes := make(map[reduce.ExtendedLabel]dot.Node)
	for label := range r.Nodes {
		n := out.Node(label.String())
		nodes[label] = n
	}
	for label, node := range r.Nodes {
		from := nodes[label]
		for _, e := range node.Edges {
			switch e.Kind {
			case reduce.EStatic:
				out.Edge(from, nodes[e.To])
			case reduce.EDynamic:
				sink := out.Node(label.String() + "_dynamic")
				sink.Attr("shape", "diamond").Label("dynamic jump")
				out.Edge(from, sink)
			case reduce.EExit:
				sink := out.Node(label.String() + "_exit")
				sink.Attr("shape", "doublecircle").Label("exit")
				out.Edge(from, sink)
			}
		}
	}
	return writeDot(dir, "supergraph.dot", out)
}

// dumpTree renders the final structured tree as a forest: each
// Block/Loop/If nests its children as a dot subgraph cluster.
func dumpTree(dir string, tree []*relooper.Node) error {
	out := dot.NewGraph(dot.Directed)
	out.Attr("rankdir", "TB")

	var counter int
	var walk func(g *dot.Graph, nodes []*relooper.Node) dot.Node
	walk = func(g *dot.Graph, nodes []*relooper.Node) dot.Node {
		id := fmt.Sprintf("n%d", counter)
		counter++
		root := g.Node(id)

		prev := root
		for _, n := range nodes {
			switch n.Kind {
			case relooper.KindBlock:
				sub := g.Subgraph(fmt.Sprintf("cluster_%d", counter), dot.ClusterOption{})
				sub.Attr("label", "block")
				child := walk(sub, n.Body)
				g.Edge(prev, child)
				prev = child
			case relooper.KindLoop:
				sub := g.Subgraph(fmt.Sprintf("cluster_%d", counter), dot.ClusterOption{})
				sub.Attr("label", "loop")
				child := walk(sub, n.Body)
				g.Edge(prev, child)
				prev = child
			case relooper.KindIf:
				cond := g.Node(fmt.Sprintf("n%d", counter))
				counter++
				cond.Label(fmt.Sprintf("if %s", n.Label))
				g.Edge(prev, cond)
				thenChild := walk(g, n.Then)
				elseChild := walk(g, n.Else)
				g.Edge(cond, thenChild).Label("then")
				g.Edge(cond, elseChild).Label("else")
				prev = cond
			case relooper.KindActions:
				act := g.Node(fmt.Sprintf("n%d", counter))
				counter++
				act.Label(fmt.Sprintf("actions %s", n.Label))
				g.Edge(prev, act)
				prev = act
			case relooper.KindBr:
				br := g.Node(fmt.Sprintf("n%d", counter))
				counter++
				br.Label(fmt.Sprintf("br %d", n.Depth))
				g.Edge(prev, br)
				prev = br
			case relooper.KindReturn:
				ret := g.Node(fmt.Sprintf("n%d", counter))
				counter++
				ret.Label("return")
				g.Edge(prev, ret)
				prev = ret
			case relooper.KindTableJump:
				tj := g.Node(fmt.Sprintf("n%d", counter))
				counter++
				tj.Label("table_jump")
				g.Edge(prev, tj)
				prev = tj
			}
		}
		return root
	}
	walk(out, tree)

	return writeDot(dir, "tree.dot", out)
}
