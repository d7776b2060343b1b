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

// Package caterpillar lowers every Dynamic (computed-jump) edge left
// in a reduced CFG into a shared linear chain of JUMPDEST-equality
// tests (spec.md §4.4).
package caterpillar

import (
	"github.com/n42blockchain/evm2wasm/internal/evm"
	"github.com/n42blockchain/evm2wasm/internal/reduce"
)

// TestOriginBase marks the reserved extended-label origin range used
// for synthetic dispatch-chain nodes. EVM bytecode is bounded well
// below this value (spec.md §5: ~24KB contracts), so it never collides
// with a real program-counter-derived label.
const TestOriginBase = 0x7fff0000

// TestLabel returns the extended label naming the i-th dispatch test
// node.
func TestLabel(i int) reduce.ExtendedLabel {
	return reduce.ExtendedLabel{Origin: TestOriginBase + uint32(i), Version: 0}
}

// IsTestLabel reports whether label names a caterpillar dispatch node
// rather than an original bytecode block.
func IsTestLabel(label reduce.ExtendedLabel) bool {
	return label.Origin >= TestOriginBase
}

// Expand rewrites every Dynamic edge in r to target the head of a
// shared dispatch chain, one test node per JUMPDEST in prog, tried in
// ascending program-counter order (spec.md §4.4, §8 scenario 6's
// lower-offset-first tie-break). If r has no Dynamic edges at all, r
// is left untouched — no chain is built (spec.md §8 scenario 5).
func Expand(r *reduce.Reduced, prog *evm.Program) {
	if !hasDynamic(r) {
		return
	}

	dests := prog.JumpDests()
	chainHead := buildChain(r, dests)

	for _, n := range r.Nodes {
		for i, e := range n.Edges {
			if e.Kind == reduce.EDynamic {
				n.Edges[i] = reduce.Edge{Kind: reduce.EStatic, To: chainHead}
			}
		}
	}
}

func hasDynamic(r *reduce.Reduced) bool {
	for _, n := range r.Nodes {
		for _, e := range n.Edges {
			if e.Kind == reduce.EDynamic {
				return true
			}
		}
	}
	return false
}

// buildChain appends one test node per destination in dests and
// returns the label of the first (the chain's entry point). The last
// test's mismatch branch targets Exit — an unmatched dynamic jump is a
// runtime fault, consistent with real EVM semantics for a jump to a
// non-JUMPDEST byte.
func buildChain(r *reduce.Reduced, dests []uint32) reduce.ExtendedLabel {
	for i, pc := range dests {
		label := TestLabel(i)
		destLabel := reduce.ExtendedLabel{Origin: pc, Version: 0}

		var mismatch reduce.Edge
		if i == len(dests)-1 {
			mismatch = reduce.Edge{Kind: reduce.EExit}
		} else {
			mismatch = reduce.Edge{Kind: reduce.EStatic, To: TestLabel(i + 1)}
		}

		r.Nodes[label] = &reduce.Node{
			Label: label,
			Edges: []reduce.Edge{
				{Kind: reduce.EStatic, To: destLabel},
				mismatch,
			},
		}
	}
	return TestLabel(0)
}
