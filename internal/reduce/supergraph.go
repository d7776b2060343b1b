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
	"sort"

	"github.com/n42blockchain/evm2wasm/internal/cfg"
)

// Supernode groups extended labels that are currently treated as a
// single unit by the reducer (spec.md §3, §4.3).
type Supernode struct {
	Head    ExtendedLabel
	Members map[ExtendedLabel]bool
}

// supergraph is the reducer's working state: it owns the current
// edge set (which mutates as nodes are merged and split) and the
// version counter used to mint fresh duplicates.
type supergraph struct {
	edges map[ExtendedLabel][]Edge
	owner map[ExtendedLabel]*Supernode

	versionCounter map[uint32]int
	entry          ExtendedLabel

	duplications int
	budget       int
}

func newSupergraph(g *cfg.CFG, budget int) *supergraph {
	sg := &supergraph{
		edges:          make(map[ExtendedLabel][]Edge),
		owner:          make(map[ExtendedLabel]*Supernode),
		versionCounter: make(map[uint32]int),
		entry:          ExtendedLabel{Origin: 0, Version: 0},
		budget:         budget,
	}

	for _, label := range g.SortedLabels() {
		b := g.Blocks[label]
		el := ExtendedLabel{Origin: label, Version: 0}
		sg.versionCounter[label] = 1

		var edges []Edge
		for _, s := range b.Successors {
			switch s.Kind {
			case cfg.Static:
				edges = append(edges, Edge{Kind: EStatic, To: ExtendedLabel{Origin: s.Label, Version: 0}})
			case cfg.Dynamic:
				edges = append(edges, Edge{Kind: EDynamic})
			case cfg.Exit:
				edges = append(edges, Edge{Kind: EExit})
			}
		}
		sg.edges[el] = edges

		sn := &Supernode{Head: el, Members: map[ExtendedLabel]bool{el: true}}
		sg.owner[el] = sn
	}

	return sg
}

func (sg *supergraph) allocVersion(origin uint32) int {
	v := sg.versionCounter[origin]
	sg.versionCounter[origin] = v + 1
	return v
}

// rpoSupernodes returns the distinct supernodes reachable from the
// entry supernode, in reverse post order (spec.md §4.3 step 1).
func (sg *supergraph) rpoSupernodes() []*Supernode {
	visited := make(map[*Supernode]bool)
	var post []*Supernode

	var visit func(sn *Supernode)
	visit = func(sn *Supernode) {
		if visited[sn] {
			return
		}
		visited[sn] = true
		for member := range sn.Members {
			for _, e := range sg.edges[member] {
				if e.Kind != EStatic {
					continue
				}
				if next, ok := sg.owner[e.To]; ok {
					visit(next)
				}
			}
		}
		post = append(post, sn)
	}

	if entrySN, ok := sg.owner[sg.entry]; ok {
		visit(entrySN)
	}

	// Reverse postorder.
	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post
}

// externalPredecessors returns the distinct supernodes, other than sn,
// containing a label with a Static edge targeting sn.Head.
func (sg *supergraph) externalPredecessors(sn *Supernode) []*Supernode {
	seen := make(map[*Supernode]bool)
	var out []*Supernode
	for label, edges := range sg.edges {
		src := sg.owner[label]
		if src == sn {
			continue // self-loops contribute no external predecessor.
		}
		for _, e := range edges {
			if e.Kind == EStatic && e.To == sn.Head {
				if !seen[src] {
					seen[src] = true
					out = append(out, src)
				}
				break
			}
		}
	}
	// Deterministic order: by the source supernode's head.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Head.Origin != out[j].Head.Origin {
			return out[i].Head.Origin < out[j].Head.Origin
		}
		return out[i].Head.Version < out[j].Head.Version
	})
	return out
}

// merge absorbs sn's members into into, leaving edges untouched
// (spec.md §4.3 step 3).
func (sg *supergraph) merge(sn, into *Supernode) {
	for member := range sn.Members {
		into.Members[member] = true
		sg.owner[member] = into
	}
}

// split duplicates every label in sn for each external predecessor
// beyond the first, redirecting that predecessor's edges into sn's
// head to target the duplicate instead (spec.md §4.3 step 4).
func (sg *supergraph) split(sn *Supernode, preds []*Supernode) {
	for _, pred := range preds[1:] {
		dup := sg.duplicate(sn)
		sg.redirect(pred, sn.Head, dup.Head)
	}
}

// duplicate allocates a fresh version for every member of sn, copies
// their outgoing edges (remapping internal edges to the new pair), and
// registers a new owning supernode for the duplicate set.
func (sg *supergraph) duplicate(sn *Supernode) *Supernode {
	remap := make(map[ExtendedLabel]ExtendedLabel, len(sn.Members))
	for member := range sn.Members {
		remap[member] = ExtendedLabel{Origin: member.Origin, Version: sg.allocVersion(member.Origin)}
	}

	dup := &Supernode{Head: remap[sn.Head], Members: make(map[ExtendedLabel]bool, len(sn.Members))}
	for old, fresh := range remap {
		dup.Members[fresh] = true
		sg.owner[fresh] = dup

		oldEdges := sg.edges[old]
		newEdges := make([]Edge, len(oldEdges))
		for i, e := range oldEdges {
			if e.Kind == EStatic {
				if target, internal := remap[e.To]; internal {
					newEdges[i] = Edge{Kind: EStatic, To: target}
					continue
				}
			}
			newEdges[i] = e
		}
		sg.edges[fresh] = newEdges

		sg.duplications++
	}

	return dup
}

// redirect rewrites every edge from a member of pred targeting from to
// instead target to.
func (sg *supergraph) redirect(pred *Supernode, from, to ExtendedLabel) {
	for member := range pred.Members {
		edges := sg.edges[member]
		for i, e := range edges {
			if e.Kind == EStatic && e.To == from {
				edges[i] = Edge{Kind: EStatic, To: to}
			}
		}
	}
}
