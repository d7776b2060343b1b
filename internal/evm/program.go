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

package evm

import "fmt"

// Instruction is a decoded opcode together with its immediate payload
// (only non-empty for PUSH1..PUSH32) and the program counter (byte
// offset from the start of the bytecode) at which it occurs.
type Instruction struct {
	PC        uint32
	Op        OpCode
	Immediate []byte
}

// Size returns the instruction's width in bytes: 1 plus the length of
// its immediate.
func (in Instruction) Size() int { return 1 + len(in.Immediate) }

// Zeroed returns in with its immediate cleared (the PC is kept). The
// Emitter does not use it: it resolves the runtime-library function
// for an opcode by OpCode.LowerName, which likewise ignores the pushed
// value.
func (in Instruction) Zeroed() Instruction {
	return Instruction{PC: in.PC, Op: in.Op}
}

// Program is the ordered instruction sequence produced by Decode,
// together with the program-counter-to-index mapping needed to resolve
// jump targets.
type Program struct {
	Instructions []Instruction
	pcToIndex    map[uint32]int
}

// IndexAt returns the instruction index whose PC equals pc, and
// whether pc is a valid instruction boundary at all.
func (p *Program) IndexAt(pc uint32) (int, bool) {
	idx, ok := p.pcToIndex[pc]
	return idx, ok
}

// IsJumpDest reports whether pc names a JUMPDEST instruction boundary —
// the only valid target of a dynamic or static jump (spec.md §3).
func (p *Program) IsJumpDest(pc uint32) bool {
	idx, ok := p.pcToIndex[pc]
	if !ok {
		return false
	}
	return p.Instructions[idx].Op == JUMPDEST
}

// JumpDests returns the PCs of every JUMPDEST in the program, in
// ascending order. Used by the caterpillar expansion to build the
// dynamic-dispatch chain (spec.md §4.4).
func (p *Program) JumpDests() []uint32 {
	var out []uint32
	for _, in := range p.Instructions {
		if in.Op == JUMPDEST {
			out = append(out, in.PC)
		}
	}
	return out
}

// Disassemble renders the program as one line per instruction,
// "<pc>: <mnemonic> <immediate-hex>". Used only by the driver's -d
// debug output (disasm.txt).
func (p *Program) Disassemble() string {
	var out []byte
	for _, in := range p.Instructions {
		line := fmt.Sprintf("%5d: %s", in.PC, in.Op.String())
		if len(in.Immediate) > 0 {
			line += fmt.Sprintf(" 0x%x", in.Immediate)
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return string(out)
}
