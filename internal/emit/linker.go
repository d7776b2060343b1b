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

// Package emit links the relooper's structured tree against a
// runtime-library module, synthesizing the entry-point functions and
// patching in the ABI descriptor buffer (spec.md §4.6).
package emit

import (
	"fmt"

	"github.com/n42blockchain/evm2wasm/internal/evm"
	"github.com/n42blockchain/evm2wasm/internal/evmerr"
	"github.com/n42blockchain/evm2wasm/internal/wasmbin"
)

// reservedNames are exports the opcode-to-function linking scan never
// records as an opcode implementation (spec.md §4.6).
var reservedNames = map[string]bool{
	"_evm_init": true, "_evm_call": true, "_evm_exec": true,
	"_evm_post_exec": true, "_evm_pop_u32": true, "_evm_set_pc": true,
	"execute": true, "_abi_buffer": true, "_evm_gas": true,
}

// linker holds the runtime module's opcode-to-function-index map and
// the special function indices the synthesized entry points call.
type linker struct {
	rt *wasmbin.Module

	opcodeFunc map[string]uint32

	evmInit     uint32
	evmCall     uint32
	evmPostExec uint32
	evmPopU32   uint32
	evmSetPC    uint32
	evmGas      uint32
	haveGas     bool

	abiBufferOffset int32
	voidTypeIdx     uint32
}

// newLinker scans rt's exports and builds the opcode-to-function map
// plus the special-name lookups every synthesized function needs.
func newLinker(rt *wasmbin.Module) (*linker, error) {
	exports, err := rt.Exports()
	if err != nil {
		return nil, err
	}

	l := &linker{rt: rt, opcodeFunc: make(map[string]uint32)}
	for _, e := range exports {
		if e.Kind != wasmbin.KindFunc || reservedNames[e.Name] {
			continue
		}
		l.opcodeFunc[e.Name] = e.Idx
	}

	required := map[string]*uint32{
		"_evm_init":      &l.evmInit,
		"_evm_call":      &l.evmCall,
		"_evm_post_exec": &l.evmPostExec,
		"_evm_pop_u32":   &l.evmPopU32,
		"_evm_set_pc":    &l.evmSetPC,
	}
	for name, slot := range required {
		idx, ok, err := rt.OpcodeFunctionIndex(name)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: runtime module missing required export %q", evmerr.ErrRuntimeLinking, name)
		}
		*slot = idx
	}

	if idx, ok, err := rt.OpcodeFunctionIndex("_evm_gas"); err != nil {
		return nil, err
	} else if ok {
		l.evmGas, l.haveGas = idx, true
	}

	offset, err := rt.GlobalExportI32("_abi_buffer")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", evmerr.ErrRuntimeLinking, err)
	}
	l.abiBufferOffset = offset

	voidType, err := rt.EnsureType(wasmbin.FuncType{})
	if err != nil {
		return nil, err
	}
	l.voidTypeIdx = voidType

	return l, nil
}

// funcIndex returns the runtime function index implementing op,
// keyed by its canonical lowercase mnemonic (spec.md §4.6).
func (l *linker) funcIndex(op evm.OpCode) (uint32, bool) {
	idx, ok := l.opcodeFunc[op.LowerName()]
	return idx, ok
}
