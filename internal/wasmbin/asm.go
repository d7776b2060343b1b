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

package wasmbin

import "bytes"

// Opcode bytes for the instruction subset the Emitter synthesizes.
const (
	OpUnreachable = 0x00
	OpBlock       = 0x02
	OpLoop        = 0x03
	OpIf          = 0x04
	OpElse        = 0x05
	OpEnd         = 0x0b
	OpBr          = 0x0c
	OpBrIf        = 0x0d
	OpReturn      = 0x0f
	OpCall        = 0x10
	OpGlobalGet   = 0x23
	OpI32Const    = 0x41
	OpI64Const    = 0x42
	OpI32Eq       = 0x46
)

// BlockType encodes a structured instruction's type immediate: empty
// (the only shape this compiler emits — every synthesized control
// node has an empty signature, per spec.md §4.6).
const BlockTypeEmpty = 0x40

// Asm is an append-only WASM instruction-stream builder for function
// bodies (mirrors the bytecode-emission style of a stack-machine
// compiler, grounded on the instruction writer in
// other_examples/.../wagon exec/internal/compile).
type Asm struct {
	buf bytes.Buffer
}

func NewAsm() *Asm { return &Asm{} }

func (a *Asm) Unreachable() *Asm { a.buf.WriteByte(OpUnreachable); return a }

func (a *Asm) Block() *Asm { a.buf.WriteByte(OpBlock); a.buf.WriteByte(BlockTypeEmpty); return a }

func (a *Asm) Loop() *Asm { a.buf.WriteByte(OpLoop); a.buf.WriteByte(BlockTypeEmpty); return a }

func (a *Asm) If() *Asm { a.buf.WriteByte(OpIf); a.buf.WriteByte(BlockTypeEmpty); return a }

func (a *Asm) Else() *Asm { a.buf.WriteByte(OpElse); return a }

func (a *Asm) End() *Asm { a.buf.WriteByte(OpEnd); return a }

func (a *Asm) Br(depth uint32) *Asm {
	a.buf.WriteByte(OpBr)
	PutULEB128(&a.buf, uint64(depth))
	return a
}

func (a *Asm) BrIf(depth uint32) *Asm {
	a.buf.WriteByte(OpBrIf)
	PutULEB128(&a.buf, uint64(depth))
	return a
}

func (a *Asm) Return() *Asm { a.buf.WriteByte(OpReturn); return a }

func (a *Asm) Call(funcIdx uint32) *Asm {
	a.buf.WriteByte(OpCall)
	PutULEB128(&a.buf, uint64(funcIdx))
	return a
}

func (a *Asm) GlobalGet(idx uint32) *Asm {
	a.buf.WriteByte(OpGlobalGet)
	PutULEB128(&a.buf, uint64(idx))
	return a
}

func (a *Asm) I32Const(v int32) *Asm {
	a.buf.WriteByte(OpI32Const)
	PutSLEB128(&a.buf, int64(v))
	return a
}

func (a *Asm) I64Const(v int64) *Asm {
	a.buf.WriteByte(OpI64Const)
	PutSLEB128(&a.buf, v)
	return a
}

func (a *Asm) I32Eq() *Asm { a.buf.WriteByte(OpI32Eq); return a }

// Raw appends pre-encoded instruction bytes verbatim.
func (a *Asm) Raw(b []byte) *Asm { a.buf.Write(b); return a }

// Bytes returns the assembled instruction stream so far, WITHOUT a
// trailing end opcode — callers finish a function body with End()
// before calling Bytes, or append one themselves.
func (a *Asm) Bytes() []byte { return a.buf.Bytes() }
