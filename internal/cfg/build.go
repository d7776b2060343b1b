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

package cfg

import "github.com/n42blockchain/evm2wasm/internal/evm"

// Build performs a single linear scan over prog's instructions,
// splitting it into basic blocks and recovering the edge set (spec.md
// §4.2).
func Build(prog *evm.Program) *CFG {
	g := newCFG()
	if len(prog.Instructions) == 0 {
		return g
	}

	openNewBlock := func(idx int) *Block {
		label := prog.Instructions[idx].PC
		b := &Block{Label: label, Start: idx, End: idx}
		g.Blocks[label] = b
		return b
	}

	cur := openNewBlock(0)
	cur.Predecessors = append(cur.Predecessors, EntryEdge)

	var prevOp evm.Instruction
	havePrev := false

	for i, in := range prog.Instructions {
		if in.Op == evm.JUMPDEST && i != 0 {
			// JUMPDEST always starts a new block. If the previous block
			// is still open (not closed by JUMP/JUMPI/halt) it falls
			// through into this one.
			fallsThrough := !cur.closed
			cur.End = i
			next := openNewBlock(i)
			if fallsThrough {
				cur.AddSuccessor(StaticEdge(next.Label))
			}
			cur = next
		} else if cur.closed {
			// A closed block (terminated by JUMP/JUMPI/halt) followed by
			// a non-JUMPDEST instruction starts a fresh block. After a
			// JUMPI this is the fall-through target, already recorded
			// as Static(nextPC); after a JUMP or a halt nothing adds an
			// edge into it.
			cur.End = i
			cur = openNewBlock(i)
		}

		switch in.Op {
		case evm.JUMP, evm.JUMPI:
			cur.End = i + 1
			if dest, ok := staticJumpTarget(havePrev, prevOp); ok {
				cur.AddSuccessor(StaticEdge(dest))
			} else {
				cur.AddSuccessor(DynamicEdge)
			}
			if in.Op == evm.JUMPI {
				var nextPC uint32
				if i+1 < len(prog.Instructions) {
					nextPC = prog.Instructions[i+1].PC
				} else {
					nextPC = in.PC + uint32(in.Size())
				}
				cur.AddSuccessor(StaticEdge(nextPC))
			}
			cur.closed = true

		default:
			cur.End = i + 1
			if in.Op.IsHalt() {
				cur.AddSuccessor(ExitEdge)
				cur.closed = true
			}
		}

		prevOp = in
		havePrev = true
	}

	if !cur.closed {
		cur.AddSuccessor(ExitEdge)
	}

	linkPredecessors(g)
	return g
}

// staticJumpTarget resolves a JUMP/JUMPI destination using the
// preceding instruction: if it is a PUSHn, the pushed value is a
// statically known label; otherwise the destination is Dynamic
// (spec.md §4.2).
func staticJumpTarget(havePrev bool, prev evm.Instruction) (uint32, bool) {
	if !havePrev || !prev.Op.IsPush() {
		return 0, false
	}
	var v uint64
	for _, b := range prev.Immediate {
		v = v<<8 | uint64(b)
	}
	if v > 0xffffffff {
		// A pushed value outside the 32-bit label space can never name
		// a real JUMPDEST; treat as dynamic so caterpillar handles it
		// (it will simply never match any test node).
		return 0, false
	}
	return uint32(v), true
}

// linkPredecessors adds the reverse Static(B.label) predecessor edge
// for every Static successor recorded in any block (spec.md §4.2, final
// paragraph).
func linkPredecessors(g *CFG) {
	for _, b := range g.Blocks {
		for _, s := range b.Successors {
			if s.Kind != Static {
				continue
			}
			if dst, ok := g.Blocks[s.Label]; ok {
				dst.AddPredecessor(StaticEdge(b.Label))
			}
		}
	}
}
