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

import "github.com/n42blockchain/evm2wasm/internal/reduce"

// ordering assigns every node its position in a reverse postorder
// traversal from the entry, the linearization the relooper schedules
// nodes in (spec.md §3, §4.5).
type ordering struct {
	index map[reduce.ExtendedLabel]int
	seq   []reduce.ExtendedLabel
}

func newOrdering(entry reduce.ExtendedLabel, r *reduce.Reduced) *ordering {
	visited := make(map[reduce.ExtendedLabel]bool)
	var post []reduce.ExtendedLabel

	var visit func(n reduce.ExtendedLabel)
	visit = func(n reduce.ExtendedLabel) {
		if visited[n] {
			return
		}
		visited[n] = true
		if node, ok := r.Nodes[n]; ok {
			for _, e := range node.Edges {
				if e.Kind == reduce.EStatic {
					visit(e.To)
				}
			}
		}
		post = append(post, n)
	}
	visit(entry)

	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}

	idx := make(map[reduce.ExtendedLabel]int, len(post))
	for i, n := range post {
		idx[n] = i
	}
	return &ordering{index: idx, seq: post}
}

// isBackward reports whether a jump from 'from' to 'to' goes backward
// in RPO order — to's index is at or before from's (spec.md §4.5 step
// 4: "RPO index of to <= that of from").
func (o *ordering) isBackward(from, to reduce.ExtendedLabel) bool {
	return o.index[to] <= o.index[from]
}

func (o *ordering) position(n reduce.ExtendedLabel) int {
	return o.index[n]
}
