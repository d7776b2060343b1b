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

package abi

import (
	"strings"

	"golang.org/x/crypto/sha3"
)

// Signature renders the canonical Solidity signature string
// name(type1,type2,...) (spec.md §6.4) used both as the selector's
// preimage and as the descriptor's human-readable form.
func Signature(m Method) string {
	return m.Name + "(" + strings.Join(types(m.Inputs), ",") + ")"
}

// Selector computes the 4-byte function selector: the first four
// bytes of Keccak-256 of the method's signature string (spec.md §6.4),
// the same construction the teacher's common/ens package uses for
// namehash.
func Selector(m Method) [4]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(Signature(m)))
	sum := h.Sum(nil)
	var sel [4]byte
	copy(sel[:], sum[:4])
	return sel
}
