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

// Package relooper recovers structured control flow — nested Block,
// Loop, If and branch actions equivalent to WebAssembly's control
// constructs — from a reduced, caterpillar-expanded CFG (spec.md §4.5).
package relooper

import "github.com/n42blockchain/evm2wasm/internal/reduce"

// Kind discriminates the variants of a structured-tree Node.
type Kind int

const (
	// KindBlock wraps Body in a wasm "block ... end" — its sole purpose
	// is to give Br targets inside Body a place to jump to (past the end).
	KindBlock Kind = iota
	// KindLoop wraps Body in a wasm "loop ... end" — Br targets inside
	// Body jump back to its start.
	KindLoop
	// KindIf holds a Then and an Else sequence; the preceding Actions
	// node supplies the condition.
	KindIf
	// KindActions emits the bytecode range of a single CFG block,
	// translated opcode by opcode.
	KindActions
	// KindBr is a branch to the k-th enclosing labelled container,
	// counting outward from 0 (spec.md §3).
	KindBr
	// KindReturn emits a wasm return.
	KindReturn
	// KindTableJump emits a multi-way dispatch from case value to
	// branch depth. Never produced by this implementation's caterpillar
	// lowering, which always turns a dynamic jump into a chain of binary
	// equality tests rather than a single N-way dispatch node — kept so
	// the structured-tree type matches spec.md §3 in full and so a
	// future dispatch strategy (e.g. a wasm br_table) has somewhere to
	// attach.
	KindTableJump
)

// Node is one element of a structured-tree sequence.
type Node struct {
	Kind Kind

	// KindBlock, KindLoop: the wrapped sequence.
	Body []*Node
	// KindIf: the two arms.
	Then []*Node
	Else []*Node
	// KindActions: the original CFG block this realizes. KindIf: the
	// node whose edge shape produced this If, so the Emitter can tell a
	// caterpillar dispatch test apart from a real JUMPI.
	Label reduce.ExtendedLabel
	// KindBr: depth of the enclosing container to branch to.
	Depth uint32
	// KindTableJump: case value to branch depth.
	Cases map[int]uint32
}

func actions(label reduce.ExtendedLabel) *Node  { return &Node{Kind: KindActions, Label: label} }
func br(depth uint32) *Node                     { return &Node{Kind: KindBr, Depth: depth} }
func ret() *Node                                { return &Node{Kind: KindReturn} }
func block(body []*Node) *Node                  { return &Node{Kind: KindBlock, Body: body} }
func loop(body []*Node) *Node                   { return &Node{Kind: KindLoop, Body: body} }
func ifNode(label reduce.ExtendedLabel, then, els []*Node) *Node {
	return &Node{Kind: KindIf, Label: label, Then: then, Else: els}
}
func tableJump(cases map[int]uint32) *Node      { return &Node{Kind: KindTableJump, Cases: cases} }
