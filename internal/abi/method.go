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

// Package abi builds the in-module ABI descriptor buffer and method
// selectors the Emitter needs to wire per-method dispatch wrappers
// (spec.md §3, §4.6).
package abi

// Param is one named, typed ABI parameter or output slot.
type Param struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Method is a single contract method as the driver's --abi loader
// produces it: just enough of the Solidity ABI JSON shape for §3's
// descriptor (name, parameter names/types, output types). Nested
// tuples, user-defined types, and other full-ABI edge cases are out
// of scope (spec.md §1 — the ABI JSON loader is an external
// collaborator; this package only needs the flat descriptor fields).
type Method struct {
	Name    string  `json:"name"`
	Inputs  []Param `json:"inputs"`
	Outputs []Param `json:"outputs"`
}

func names(params []Param) []string {
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = p.Name
	}
	return out
}

func types(params []Param) []string {
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = p.Type
	}
	return out
}
