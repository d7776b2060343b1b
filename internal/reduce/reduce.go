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

package reduce

import (
	"github.com/n42blockchain/evm2wasm/internal/cfg"
	"github.com/n42blockchain/evm2wasm/internal/evmerr"
)

// Node is a reduced-CFG vertex: an extended label with its resolved
// outgoing edge set.
type Node struct {
	Label ExtendedLabel
	Edges []Edge
}

// Reduced is the reducer's output: an equivalent CFG in which every
// strongly-connected component has a unique header (spec.md §4.3).
type Reduced struct {
	Entry ExtendedLabel
	Nodes map[ExtendedLabel]*Node
}

// DefaultDuplicationBudgetFactor bounds the reducer's node-splitting
// work as a multiple of the input block count (spec.md §7
// IrreducibilityBudgetExceeded; SPEC_FULL.md §4.3).
const DefaultDuplicationBudgetFactor = 10

// Reduce transforms g into a reducible CFG by iterated merge/split
// (spec.md §4.3 steps 1-5). budget caps the total number of label
// duplications performed; pass 0 to use
// DefaultDuplicationBudgetFactor * len(g.Blocks).
func Reduce(g *cfg.CFG, budget int) (*Reduced, error) {
	g.StripUnreachable()

	if budget <= 0 {
		budget = DefaultDuplicationBudgetFactor * len(g.Blocks)
		if budget == 0 {
			budget = DefaultDuplicationBudgetFactor
		}
	}

	sg := newSupergraph(g, budget)

	for {
		order := sg.rpoSupernodes()
		if len(order) <= 1 {
			break
		}

		var mergeSrc, mergeDst *Supernode
		var splitSN *Supernode
		var splitPreds []*Supernode

		for _, sn := range order {
			preds := sg.externalPredecessors(sn)
			switch len(preds) {
			case 0:
				continue // entry or unreachable.
			case 1:
				mergeSrc, mergeDst = sn, preds[0]
			default:
				if splitSN == nil || len(preds) > len(splitPreds) {
					splitSN, splitPreds = sn, preds
				}
			}
			if mergeSrc != nil {
				break
			}
		}

		if mergeSrc != nil {
			sg.merge(mergeSrc, mergeDst)
			continue
		}

		if splitSN == nil {
			// No mergeable pair and nothing splittable: every remaining
			// supernode besides the entry has zero external
			// predecessors, i.e. the graph is already a single
			// component's worth of entry-reachable nodes.
			break
		}

		if sg.duplications+len(splitSN.Members) > sg.budget {
			return nil, evmerr.AtLabel(splitSN.Head.Origin, splitSN.Head.Version, evmerr.ErrIrreducibilityBudgetExceeded)
		}
		sg.split(splitSN, splitPreds)
	}

	return sg.toReduced(), nil
}

func (sg *supergraph) toReduced() *Reduced {
	r := &Reduced{Entry: sg.entry, Nodes: make(map[ExtendedLabel]*Node, len(sg.edges))}
	for label, edges := range sg.edges {
		r.Nodes[label] = &Node{Label: label, Edges: append([]Edge(nil), edges...)}
	}
	return r
}
