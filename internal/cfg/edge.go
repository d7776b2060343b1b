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

// Package cfg recovers basic blocks and the control-flow graph from a
// decoded EVM program (spec.md §4.2).
package cfg

import "fmt"

// EdgeKind tags the four edge shapes spec.md §3 names: a synthetic
// source/sink, a statically known jump target, or a computed ("Dynamic")
// jump resolved later by the caterpillar expansion.
type EdgeKind int

const (
	Entry EdgeKind = iota
	Exit
	Static
	Dynamic
)

func (k EdgeKind) String() string {
	switch k {
	case Entry:
		return "Entry"
	case Exit:
		return "Exit"
	case Static:
		return "Static"
	case Dynamic:
		return "Dynamic"
	default:
		return "Unknown"
	}
}

// Edge is a tagged edge endpoint. Label is meaningful only for Static
// edges — it names the destination (as a successor) or source (as a
// predecessor) block's label.
type Edge struct {
	Kind  EdgeKind
	Label uint32
}

func StaticEdge(label uint32) Edge { return Edge{Kind: Static, Label: label} }

var (
	EntryEdge   = Edge{Kind: Entry}
	ExitEdge    = Edge{Kind: Exit}
	DynamicEdge = Edge{Kind: Dynamic}
)

func (e Edge) String() string {
	if e.Kind == Static {
		return fmt.Sprintf("Static(%d)", e.Label)
	}
	return e.Kind.String()
}
