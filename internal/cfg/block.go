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

// Block is a basic block: a half-open range [Start, End) of instruction
// indices into the decoded program, labelled by the byte offset of its
// first instruction (spec.md §3).
type Block struct {
	Label uint32
	Start int
	End   int

	Predecessors []Edge
	Successors   []Edge

	closed bool
}

// Len returns the number of instructions the block spans.
func (b *Block) Len() int { return b.End - b.Start }

// AddSuccessor appends e to b's successor set if not already present.
func (b *Block) AddSuccessor(e Edge) {
	for _, s := range b.Successors {
		if s == e {
			return
		}
	}
	b.Successors = append(b.Successors, e)
}

// AddPredecessor appends e to b's predecessor set if not already present.
func (b *Block) AddPredecessor(e Edge) {
	for _, p := range b.Predecessors {
		if p == e {
			return
		}
	}
	b.Predecessors = append(b.Predecessors, e)
}

// HasDynamicSuccessor reports whether b ends in a computed jump.
func (b *Block) HasDynamicSuccessor() bool {
	for _, s := range b.Successors {
		if s.Kind == Dynamic {
			return true
		}
	}
	return false
}
