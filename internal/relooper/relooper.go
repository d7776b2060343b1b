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

package relooper

import (
	"sort"

	"github.com/n42blockchain/evm2wasm/internal/evmerr"
	"github.com/n42blockchain/evm2wasm/internal/reduce"
	"github.com/n42blockchain/evm2wasm/internal/relooper/dom"
)

// ctxFrame is one entry of the context stack threaded through do_tree
// / node_within / do_branch: an If frame (unlabelled) or a
// Block/Loop frame headed by a CFG label (spec.md §4.5).
type ctxFrame struct {
	label    reduce.ExtendedLabel
	hasLabel bool
}

func pushFrame(ctx []ctxFrame, f ctxFrame) []ctxFrame {
	out := make([]ctxFrame, len(ctx)+1)
	copy(out, ctx)
	out[len(ctx)] = f
	return out
}

type shapeKind int

const (
	shapeUncond shapeKind = iota
	shapeCond
	shapeTerminal
)

type shape struct {
	kind             shapeKind
	to               reduce.ExtendedLabel
	trueL, falseL    reduce.ExtendedLabel
}

// edgeShape classifies a node's outgoing edge set into the Uncond /
// Cond / Terminal cases handled by node_within. A true N-way Switch
// edge never arises in this pipeline: the only multi-successor CFG
// node is a JUMPI (exactly two Static successors) and the caterpillar
// stage lowers every dynamic jump into binary equality tests, so no
// node ever carries more than two Static edges.
func edgeShape(n *reduce.Node) shape {
	switch len(n.Edges) {
	case 0:
		return shape{kind: shapeTerminal}
	case 1:
		if n.Edges[0].Kind == reduce.EExit {
			return shape{kind: shapeTerminal}
		}
		return shape{kind: shapeUncond, to: n.Edges[0].To}
	default:
		return shape{kind: shapeCond, trueL: n.Edges[0].To, falseL: n.Edges[1].To}
	}
}

// reloop holds the fixed, precomputed facts about a reduced CFG that
// the recursive tree-building passes need at every call.
type reloop struct {
	r       *reduce.Reduced
	order   *ordering
	merge   map[reduce.ExtendedLabel]bool
	loopHdr map[reduce.ExtendedLabel]bool
	dtree   *dom.Tree
}

// Reloop recovers a structured-control-flow tree from a reduced,
// caterpillar-expanded CFG (spec.md §4.5). r must already be
// reducible — run reduce.Reduce and caterpillar.Expand first.
func Reloop(r *reduce.Reduced) ([]*Node, error) {
	o := newOrdering(r.Entry, r)
	merge, loopHdr := classify(r, o)

	succs := make(map[reduce.ExtendedLabel][]reduce.ExtendedLabel, len(r.Nodes))
	for label, n := range r.Nodes {
		for _, e := range n.Edges {
			if e.Kind == reduce.EStatic {
				succs[label] = append(succs[label], e.To)
			}
		}
	}
	dtree := dom.Build(r.Entry, succs)

	rl := &reloop{r: r, order: o, merge: merge, loopHdr: loopHdr, dtree: dtree}
	return rl.doTree(r.Entry, nil)
}

// doTree is the main recursive entry point: wraps loop headers in a
// Loop container, otherwise defers to genNode (spec.md §4.5 step 1).
func (rl *reloop) doTree(node reduce.ExtendedLabel, ctx []ctxFrame) ([]*Node, error) {
	if rl.loopHdr[node] {
		body, err := rl.genNode(node, pushFrame(ctx, ctxFrame{label: node, hasLabel: true}))
		if err != nil {
			return nil, err
		}
		return []*Node{loop(body)}, nil
	}
	return rl.genNode(node, ctx)
}

// genNode finds the merge nodes immediately dominated by node — those
// need an enclosing Block so every predecessor can reach them — and
// hands off to nodeWithin (spec.md §4.5 steps 2-3).
func (rl *reloop) genNode(node reduce.ExtendedLabel, ctx []ctxFrame) ([]*Node, error) {
	var mergeChildren []reduce.ExtendedLabel
	for _, c := range rl.dtree.ImmediatelyDominatedBy(node) {
		if rl.merge[c] {
			mergeChildren = append(mergeChildren, c)
		}
	}
	sort.Slice(mergeChildren, func(i, j int) bool {
		return rl.order.position(mergeChildren[i]) < rl.order.position(mergeChildren[j])
	})
	return rl.nodeWithin(node, mergeChildren, ctx)
}

// nodeWithin lays down the outer merge-node Blocks (innermost last)
// before emitting node itself and its outgoing control flow.
func (rl *reloop) nodeWithin(node reduce.ExtendedLabel, outer []reduce.ExtendedLabel, ctx []ctxFrame) ([]*Node, error) {
	if len(outer) == 0 {
		n, ok := rl.r.Nodes[node]
		if !ok {
			return nil, evmerr.AtLabel(node.Origin, node.Version, evmerr.ErrNoBranchTarget)
		}

		var tail []*Node
		switch shp := edgeShape(n); shp.kind {
		case shapeUncond:
			seq, err := rl.doBranch(node, shp.to, ctx)
			if err != nil {
				return nil, err
			}
			tail = seq
		case shapeCond:
			ifCtx := pushFrame(ctx, ctxFrame{})
			trueSeq, err := rl.doBranch(node, shp.trueL, ifCtx)
			if err != nil {
				return nil, err
			}
			falseSeq, err := rl.doBranch(node, shp.falseL, ifCtx)
			if err != nil {
				return nil, err
			}
			tail = []*Node{ifNode(node, trueSeq, falseSeq)}
		case shapeTerminal:
			tail = []*Node{ret()}
		}

		return append([]*Node{actions(node)}, tail...), nil
	}

	cur := outer[len(outer)-1]
	inner, err := rl.nodeWithin(node, outer[:len(outer)-1], pushFrame(ctx, ctxFrame{label: cur, hasLabel: true}))
	if err != nil {
		return nil, err
	}
	mergeBlock, err := rl.doTree(cur, ctx)
	if err != nil {
		return nil, err
	}
	return append([]*Node{block(inner)}, mergeBlock...), nil
}

// doBranch decides whether a from->to edge can fall through into an
// inline do_tree(to) or must become a Br to an enclosing frame
// (spec.md §4.5 step 4): it must when to is a backward edge target or
// a merge node reached from elsewhere too.
func (rl *reloop) doBranch(from, to reduce.ExtendedLabel, ctx []ctxFrame) ([]*Node, error) {
	if rl.order.isBackward(from, to) || rl.merge[to] {
		depth := -1
		for i, f := range ctx {
			if f.hasLabel && f.label == to {
				depth = len(ctx) - i - 1
			}
		}
		if depth < 0 {
			return nil, evmerr.AtLabel(to.Origin, to.Version, evmerr.ErrNoBranchTarget)
		}
		return []*Node{br(uint32(depth))}, nil
	}
	return rl.doTree(to, ctx)
}
