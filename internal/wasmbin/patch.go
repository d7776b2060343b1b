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

import "fmt"

// GrowTable resizes the module's first table's minimum and maximum to
// n entries (spec.md §4.6 table-growth step). Returns an error if the
// module defines no table.
func (m *Module) GrowTable(n uint32) error {
	tables, err := m.Tables()
	if err != nil {
		return err
	}
	if len(tables) == 0 {
		return fmt.Errorf("wasmbin: module defines no table to grow")
	}
	tables[0].Limits = Limits{Min: n, Max: n, HasMax: true}
	m.setTables(tables)
	return nil
}

// GlobalExportI32 reads the i32 constant initializer of the global
// exported under name (e.g. "_abi_buffer"). The global index space
// spans imported globals followed by module-defined globals; this
// compiler's runtime-library contract never imports a global, so the
// export index is used directly into Globals().
func (m *Module) GlobalExportI32(name string) (int32, error) {
	exp, ok, err := m.FindExport(name)
	if err != nil {
		return 0, err
	}
	if !ok || exp.Kind != KindGlobal {
		return 0, fmt.Errorf("wasmbin: no global export named %q", name)
	}
	globals, err := m.Globals()
	if err != nil {
		return 0, err
	}
	if int(exp.Idx) >= len(globals) {
		return 0, fmt.Errorf("wasmbin: global export %q index out of range", name)
	}
	v, ok := globals[exp.Idx].I32ConstValue()
	if !ok {
		return 0, fmt.Errorf("wasmbin: global export %q is not an i32.const initializer", name)
	}
	return v, nil
}

// PatchDataAt overwrites len(data) bytes starting at absolute linear-
// memory address addr within whichever data segment's active range
// contains it (spec.md §4.6 ABI data-segment patch). The segment is
// not resized — addr..addr+len(data) must fit entirely inside one
// existing segment's range.
func (m *Module) PatchDataAt(addr int32, data []byte) error {
	segs, err := m.DataSegments()
	if err != nil {
		return err
	}
	for i := range segs {
		off, ok := segs[i].OffsetValue()
		if !ok {
			continue
		}
		start, end := off, off+int32(len(segs[i].Bytes))
		if addr < start || addr+int32(len(data)) > end {
			continue
		}
		copy(segs[i].Bytes[addr-start:], data)
		m.setDataSegments(segs)
		return nil
	}
	return fmt.Errorf("wasmbin: no data segment covers address range [%d, %d)", addr, int(addr)+len(data))
}

// EnsureType returns the index of a type entry matching t, appending
// a new one if none matches — synthesized functions share a type
// rather than duplicating signatures (spec.md §4.6: "the Emitter
// reuses this type for all synthesized functions").
func (m *Module) EnsureType(t FuncType) (uint32, error) {
	types, err := m.Types()
	if err != nil {
		return 0, err
	}
	for i, existing := range types {
		if existing.Equal(t) {
			return uint32(i), nil
		}
	}
	types = append(types, t)
	m.setTypes(types)
	return uint32(len(types) - 1), nil
}

// AppendFunction appends a new function of the given type index and
// body, optionally exporting it under name, and returns its index in
// the module-wide function index space (imports counted first).
func (m *Module) AppendFunction(typeIdx uint32, body []byte, exportName string) (uint32, error) {
	importedFuncs, err := m.ImportedFuncCount()
	if err != nil {
		return 0, err
	}
	funcTypes, err := m.FuncTypeIndices()
	if err != nil {
		return 0, err
	}
	code, err := m.CodeEntries()
	if err != nil {
		return 0, err
	}

	funcIdx := uint32(importedFuncs + len(funcTypes))
	funcTypes = append(funcTypes, typeIdx)
	code = append(code, CodeEntry{Body: body})
	m.setFuncTypeIndices(funcTypes)
	m.setCodeEntries(code)

	if exportName != "" {
		exports, err := m.Exports()
		if err != nil {
			return 0, err
		}
		exports = append(exports, Export{Name: exportName, Kind: KindFunc, Idx: funcIdx})
		m.setExports(exports)
	}
	return funcIdx, nil
}

// OpcodeFunctionIndex returns the function index exported under the
// opcode's canonical lowercase mnemonic, per spec.md §4.6's linking
// table.
func (m *Module) OpcodeFunctionIndex(mnemonic string) (uint32, bool, error) {
	exp, ok, err := m.FindExport(mnemonic)
	if err != nil || !ok || exp.Kind != KindFunc {
		return 0, false, err
	}
	return exp.Idx, true, nil
}
