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

import "sort"

// CFG is a mapping from block label to block; the entry block always
// has label 0 (spec.md §3).
type CFG struct {
	Blocks map[uint32]*Block
}

func newCFG() *CFG {
	return &CFG{Blocks: make(map[uint32]*Block)}
}

// Entry returns the distinguished entry block at label 0.
func (g *CFG) Entry() *Block { return g.Blocks[0] }

// SortedLabels returns every block label in ascending order, for
// deterministic iteration (debug dumps, RPO computation).
func (g *CFG) SortedLabels() []uint32 {
	labels := make([]uint32, 0, len(g.Blocks))
	for l := range g.Blocks {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels
}

// StripUnreachable removes every block not reachable from the entry
// block by following Static successor edges. A Dynamic successor does
// not make any other block reachable, since its destination is unknown
// here, so a block entered only through a computed jump is removed
// (spec.md §4.3 edge cases).
func (g *CFG) StripUnreachable() {
	reachable := map[uint32]bool{0: true}
	queue := []uint32{0}
	for len(queue) > 0 {
		label := queue[0]
		queue = queue[1:]
		b, ok := g.Blocks[label]
		if !ok {
			continue
		}
		for _, s := range b.Successors {
			if s.Kind != Static {
				continue
			}
			if !reachable[s.Label] {
				reachable[s.Label] = true
				queue = append(queue, s.Label)
			}
		}
	}

	for label := range g.Blocks {
		if !reachable[label] {
			delete(g.Blocks, label)
		}
	}
	// Drop predecessor edges pointing at stripped blocks.
	for _, b := range g.Blocks {
		kept := b.Predecessors[:0]
		for _, p := range b.Predecessors {
			if p.Kind != Static || reachable[p.Label] {
				kept = append(kept, p)
			}
		}
		b.Predecessors = kept
	}
}
