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

// Package dom computes the dominator tree of a reduced, caterpillar-
// expanded control-flow graph — every node labeled by a
// reduce.ExtendedLabel (spec.md §4.5's prerequisite for merge/loop
// classification).
package dom

import (
	"sort"

	"github.com/n42blockchain/evm2wasm/internal/reduce"
)

// Tree is the dominator tree: for every non-entry node, its immediate
// dominator, plus the reverse child mapping used to walk the tree
// top-down during relooping.
type Tree struct {
	entry    reduce.ExtendedLabel
	idom     map[reduce.ExtendedLabel]reduce.ExtendedLabel
	children map[reduce.ExtendedLabel][]reduce.ExtendedLabel
}

// Build computes the dominator tree of the graph rooted at entry with
// successor edges given by succs. It uses the direct definition of
// dominance (n dominates m iff every path from entry to m passes
// through n) rather than the Lengauer-Tarjan near-linear algorithm:
// every reachable node starts with entry as its immediate dominator;
// then for each candidate node, in reverse-postorder, it finds every node
// that becomes unreachable from entry when that candidate is removed,
// and tightens their immediate dominator to the candidate. Reverse
// postorder guarantees dominators are visited before their dominated
// descendants, so the final overwrite for each node is its immediate
// (nearest) dominator. Quadratic in graph size, which is acceptable
// for single-contract CFGs (spec.md §5).
func Build(entry reduce.ExtendedLabel, succs map[reduce.ExtendedLabel][]reduce.ExtendedLabel) *Tree {
	order := reversePostorder(entry, succs)

	idom := make(map[reduce.ExtendedLabel]reduce.ExtendedLabel)
	for _, n := range order {
		if n != entry {
			idom[n] = entry
		}
	}
	for _, candidate := range order {
		if candidate == entry {
			continue
		}
		reached := reachableAvoiding(entry, succs, candidate)
		for _, n := range order {
			if n == entry || n == candidate || reached[n] {
				continue
			}
			idom[n] = candidate
		}
	}

	children := make(map[reduce.ExtendedLabel][]reduce.ExtendedLabel)
	for n, d := range idom {
		children[d] = append(children[d], n)
	}
	for d := range children {
		sort.Slice(children[d], func(i, j int) bool {
			a, b := children[d][i], children[d][j]
			if a.Origin != b.Origin {
				return a.Origin < b.Origin
			}
			return a.Version < b.Version
		})
	}

	return &Tree{entry: entry, idom: idom, children: children}
}

// ImmediatelyDominatedBy returns the nodes whose immediate dominator
// is label, in a stable deterministic order.
func (t *Tree) ImmediatelyDominatedBy(label reduce.ExtendedLabel) []reduce.ExtendedLabel {
	return t.children[label]
}

func reversePostorder(entry reduce.ExtendedLabel, succs map[reduce.ExtendedLabel][]reduce.ExtendedLabel) []reduce.ExtendedLabel {
	visited := make(map[reduce.ExtendedLabel]bool)
	var post []reduce.ExtendedLabel

	var visit func(n reduce.ExtendedLabel)
	visit = func(n reduce.ExtendedLabel) {
		if visited[n] {
			return
		}
		visited[n] = true
		for _, s := range succs[n] {
			visit(s)
		}
		post = append(post, n)
	}
	visit(entry)

	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post
}

// reachableAvoiding returns the set of nodes reachable from entry
// without ever stepping into blocked.
func reachableAvoiding(entry reduce.ExtendedLabel, succs map[reduce.ExtendedLabel][]reduce.ExtendedLabel, blocked reduce.ExtendedLabel) map[reduce.ExtendedLabel]bool {
	reached := make(map[reduce.ExtendedLabel]bool)
	var visit func(n reduce.ExtendedLabel)
	visit = func(n reduce.ExtendedLabel) {
		if n == blocked || reached[n] {
			return
		}
		reached[n] = true
		for _, s := range succs[n] {
			visit(s)
		}
	}
	visit(entry)
	return reached
}
