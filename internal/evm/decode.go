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

import (
	"encoding/hex"
	"strings"

	"github.com/n42blockchain/evm2wasm/internal/evmerr"
)

// metadataTrailer is the Solidity CBOR-metadata marker
// (`a164736f6c63` = 0xa1 0x64 "solc"), as it appears in the hex text
// itself. It is located and stripped before hex-decoding, not after,
// so a malformed or odd-length trailer never prevents decoding the
// well-formed program that precedes it (spec.md §4.1).
const metadataTrailer = "a164736f6c63"

// Decode turns a hex-encoded EVM bytecode string into an ordered
// Program. An optional "0x"/"0X" prefix is accepted and stripped. A
// trailing Solidity metadata section, if present, is truncated from
// the hex text before decoding.
func Decode(src string) (*Program, error) {
	src = strings.TrimPrefix(strings.TrimPrefix(src, "0x"), "0X")

	if idx := strings.Index(src, metadataTrailer); idx >= 0 {
		src = src[:idx]
	}

	raw, err := hex.DecodeString(src)
	if err != nil {
		return nil, evmerr.ErrInvalidBytecode
	}

	return decodeBytes(raw)
}

func decodeBytes(raw []byte) (*Program, error) {
	p := &Program{pcToIndex: make(map[uint32]int, len(raw))}

	for pc := 0; pc < len(raw); {
		b := raw[pc]
		op := OpCode(b)

		if !IsAssigned(b) {
			return nil, evmerr.AtOffset(pc, evmerr.ErrUnknownOpcode)
		}

		size := op.PushSize()
		var immediate []byte
		if size > 0 {
			if pc+1+size > len(raw) {
				return nil, evmerr.AtOffset(pc, evmerr.ErrTruncatedPush)
			}
			immediate = append(immediate, raw[pc+1:pc+1+size]...)
		}

		idx := len(p.Instructions)
		p.pcToIndex[uint32(pc)] = idx
		p.Instructions = append(p.Instructions, Instruction{
			PC:        uint32(pc),
			Op:        op,
			Immediate: immediate,
		})

		pc += 1 + size
	}

	return p, nil
}
