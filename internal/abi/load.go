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
	"encoding/json"
	"fmt"
	"io"

	"github.com/n42blockchain/evm2wasm/internal/evmerr"
)

// recognizedTypes covers the ABI type spellings §3's descriptor needs
// to round-trip; anything else is rejected with ErrInvalidAbi rather
// than silently passed through, since a typo'd type string would
// otherwise surface only as a runtime decode mismatch.
var recognizedTypes = map[string]bool{
	"bool": true, "address": true, "string": true, "bytes": true,
}

func init() {
	for _, n := range []int{8, 16, 24, 32, 40, 48, 56, 64, 72, 80, 88, 96,
		104, 112, 120, 128, 136, 144, 152, 160, 168, 176, 184, 192, 200,
		208, 216, 224, 232, 240, 248, 256} {
		recognizedTypes[fmt.Sprintf("uint%d", n)] = true
		recognizedTypes[fmt.Sprintf("int%d", n)] = true
	}
	for n := 1; n <= 32; n++ {
		recognizedTypes[fmt.Sprintf("bytes%d", n)] = true
	}
}

// LoadMethods parses the --abi JSON file: a flat array of method
// descriptors (name, inputs, outputs), restricted to what the
// descriptor buffer needs — not a general Solidity ABI JSON decoder
// (spec.md §1 names that an out-of-scope external collaborator).
func LoadMethods(r io.Reader) ([]Method, error) {
	var methods []Method
	if err := json.NewDecoder(r).Decode(&methods); err != nil {
		return nil, fmt.Errorf("%w: %v", evmerr.ErrInvalidAbi, err)
	}
	for _, m := range methods {
		if m.Name == "" {
			return nil, fmt.Errorf("%w: method with empty name", evmerr.ErrInvalidAbi)
		}
		for _, p := range append(append([]Param{}, m.Inputs...), m.Outputs...) {
			if !recognizedTypes[p.Type] {
				return nil, fmt.Errorf("%w: unrecognized type %q in method %q", evmerr.ErrInvalidAbi, p.Type, m.Name)
			}
		}
	}
	return methods, nil
}
