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

package emit

import "github.com/n42blockchain/evm2wasm/internal/wasmbin"

// pushOperand emits the wasm constant(s) that carry a PUSHn
// instruction's immediate as arguments to the runtime's pushN
// function, per spec.md §4.6's band contract:
//   - n == 0 (PUSH0): no operand.
//   - n <= 4: one i32, the big-endian value zero-extended into 32 bits.
//   - n <= 8: one i64, the big-endian value zero-extended into 64 bits.
//   - n <= 32: 2-4 i64 words, least-significant word pushed first, so
//     the callee reads the stack top-down as the high word last. High
//     bits above 8*n are always zero, never sign-extended (SPEC_FULL.md
//     Open Question resolution #2).
func pushOperand(a *wasmbin.Asm, immediate []byte) {
	n := len(immediate)
	switch {
	case n == 0:
		return
	case n <= 4:
		a.I32Const(int32(beUint(immediate)))
	case n <= 8:
		a.I64Const(int64(beUint(immediate)))
	default:
		for _, w := range beWords(immediate) {
			a.I64Const(int64(w))
		}
	}
}

// beUint interprets b as a big-endian unsigned integer, zero-extended.
func beUint(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

// beWords splits a big-endian immediate of up to 32 bytes into 8-byte
// words, zero-padded on the left to a whole number of words, and
// returns them least-significant word first.
func beWords(immediate []byte) []uint64 {
	n := len(immediate)
	nWords := (n + 7) / 8
	padded := make([]byte, nWords*8)
	copy(padded[len(padded)-n:], immediate)

	words := make([]uint64, nWords)
	for i := 0; i < nWords; i++ {
		chunk := padded[i*8 : i*8+8]
		words[nWords-1-i] = beUint(chunk)
	}
	return words
}
