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

// classify labels every node as a merge node (two or more forward
// in-edges — it needs an enclosing Block so every predecessor can
// reach it) or a loop node (at least one backward in-edge on it — it
// becomes a Loop header), per the classic relooper definitions.
func classify(r *reduce.Reduced, o *ordering) (merge, loopHdr map[reduce.ExtendedLabel]bool) {
	forwardIn := make(map[reduce.ExtendedLabel]int)
	merge = make(map[reduce.ExtendedLabel]bool)
	loopHdr = make(map[reduce.ExtendedLabel]bool)

	for from, node := range r.Nodes {
		for _, e := range node.Edges {
			if e.Kind != reduce.EStatic {
				continue
			}
			to := e.To
			if o.isBackward(from, to) {
				loopHdr[to] = true
			} else {
				forwardIn[to]++
			}
		}
	}

	for label, count := range forwardIn {
		if count >= 2 {
			merge[label] = true
		}
	}
	return merge, loopHdr
}
