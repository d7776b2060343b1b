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

import (
	"bytes"
)

var magic = [4]byte{0x00, 0x61, 0x73, 0x6d}
var version = [4]byte{0x01, 0x00, 0x00, 0x00}

// rawSection is one top-level section exactly as it appears in the
// binary, kept around so sections this compiler never needs to touch
// (start, element, custom, datacount) round-trip byte for byte.
type rawSection struct {
	ID   byte
	Data []byte
}

// Module is a WASM binary module, decoded just enough to support the
// section surgery the Emitter performs (spec.md §4.6): reading
// exports/globals/data, growing the table, patching a data segment in
// place, and appending new functions with exports.
type Module struct {
	sections []rawSection
}

// Parse decodes a WASM binary module's section structure. It does not
// validate instruction bodies — the runtime-library module is trusted
// input, produced by this project's own build, not untrusted user data.
func Parse(raw []byte) (*Module, error) {
	if len(raw) < 8 {
		return nil, errInvalidModule("too short")
	}
	if !bytes.Equal(raw[0:4], magic[:]) {
		return nil, errInvalidModule("bad magic")
	}
	if !bytes.Equal(raw[4:8], version[:]) {
		return nil, errInvalidModule("unsupported version")
	}

	r := newReader(raw[8:])
	m := &Module{}
	for !r.atEnd() {
		id, err := r.byte()
		if err != nil {
			return nil, err
		}
		size, err := r.uleb128()
		if err != nil {
			return nil, err
		}
		data, err := r.bytes(int(size))
		if err != nil {
			return nil, err
		}
		m.sections = append(m.sections, rawSection{ID: id, Data: append([]byte(nil), data...)})
	}
	return m, nil
}

// Encode serializes the module back to a WASM binary.
func (m *Module) Encode() []byte {
	var buf bytes.Buffer
	buf.Write(magic[:])
	buf.Write(version[:])
	for _, s := range m.sections {
		buf.WriteByte(s.ID)
		PutULEB128(&buf, uint64(len(s.Data)))
		buf.Write(s.Data)
	}
	return buf.Bytes()
}

func (m *Module) section(id byte) ([]byte, int) {
	for i, s := range m.sections {
		if s.ID == id {
			return s.Data, i
		}
	}
	return nil, -1
}

func (m *Module) setSection(id byte, data []byte) {
	_, idx := m.section(id)
	if idx >= 0 {
		m.sections[idx].Data = data
		return
	}
	// Insert in ascending section-ID order (the canonical WASM order for
	// every section except data count, ID 12, which belongs before code).
	pos := len(m.sections)
	for i, s := range m.sections {
		if s.ID > id {
			pos = i
			break
		}
	}
	m.sections = append(m.sections, rawSection{})
	copy(m.sections[pos+1:], m.sections[pos:])
	m.sections[pos] = rawSection{ID: id, Data: data}
}

// Types decodes the type section.
func (m *Module) Types() ([]FuncType, error) {
	data, _ := m.section(SecType)
	if data == nil {
		return nil, nil
	}
	r := newReader(data)
	n, err := r.uleb128()
	if err != nil {
		return nil, err
	}
	out := make([]FuncType, n)
	for i := range out {
		out[i], err = decodeFuncType(r)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (m *Module) setTypes(types []FuncType) {
	var buf bytes.Buffer
	PutULEB128(&buf, uint64(len(types)))
	for _, t := range types {
		encodeFuncType(&buf, t)
	}
	m.setSection(SecType, buf.Bytes())
}

// Imports decodes the import section.
func (m *Module) Imports() ([]Import, error) {
	data, _ := m.section(SecImport)
	if data == nil {
		return nil, nil
	}
	r := newReader(data)
	n, err := r.uleb128()
	if err != nil {
		return nil, err
	}
	out := make([]Import, n)
	for i := range out {
		out[i], err = decodeImport(r)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// FuncTypeIndices decodes the function section: the type index of
// every function defined (not imported) by this module, in order.
func (m *Module) FuncTypeIndices() ([]uint32, error) {
	data, _ := m.section(SecFunction)
	if data == nil {
		return nil, nil
	}
	r := newReader(data)
	n, err := r.uleb128()
	if err != nil {
		return nil, err
	}
	out := make([]uint32, n)
	for i := range out {
		out[i], err = r.u32()
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (m *Module) setFuncTypeIndices(idxs []uint32) {
	var buf bytes.Buffer
	PutULEB128(&buf, uint64(len(idxs)))
	for _, i := range idxs {
		PutULEB128(&buf, uint64(i))
	}
	m.setSection(SecFunction, buf.Bytes())
}

// ImportedFuncCount returns how many function imports precede the
// module's own defined functions in the shared function index space.
func (m *Module) ImportedFuncCount() (int, error) {
	imps, err := m.Imports()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, imp := range imps {
		if imp.Kind == KindFunc {
			n++
		}
	}
	return n, nil
}

// Tables decodes the table section.
func (m *Module) Tables() ([]TableType, error) {
	data, _ := m.section(SecTable)
	if data == nil {
		return nil, nil
	}
	r := newReader(data)
	n, err := r.uleb128()
	if err != nil {
		return nil, err
	}
	out := make([]TableType, n)
	for i := range out {
		out[i], err = decodeTableType(r)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (m *Module) setTables(tables []TableType) {
	var buf bytes.Buffer
	PutULEB128(&buf, uint64(len(tables)))
	for _, t := range tables {
		encodeTableType(&buf, t)
	}
	m.setSection(SecTable, buf.Bytes())
}

// Globals decodes the global section.
func (m *Module) Globals() ([]Global, error) {
	data, _ := m.section(SecGlobal)
	if data == nil {
		return nil, nil
	}
	r := newReader(data)
	n, err := r.uleb128()
	if err != nil {
		return nil, err
	}
	out := make([]Global, n)
	for i := range out {
		out[i], err = decodeGlobal(r)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (m *Module) setGlobals(globals []Global) {
	var buf bytes.Buffer
	PutULEB128(&buf, uint64(len(globals)))
	for _, g := range globals {
		encodeGlobal(&buf, g)
	}
	m.setSection(SecGlobal, buf.Bytes())
}

// Exports decodes the export section.
func (m *Module) Exports() ([]Export, error) {
	data, _ := m.section(SecExport)
	if data == nil {
		return nil, nil
	}
	r := newReader(data)
	n, err := r.uleb128()
	if err != nil {
		return nil, err
	}
	out := make([]Export, n)
	for i := range out {
		out[i], err = decodeExport(r)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (m *Module) setExports(exports []Export) {
	var buf bytes.Buffer
	PutULEB128(&buf, uint64(len(exports)))
	for _, e := range exports {
		encodeExport(&buf, e)
	}
	m.setSection(SecExport, buf.Bytes())
}

// FindExport returns the export entry named name, if any.
func (m *Module) FindExport(name string) (Export, bool, error) {
	exports, err := m.Exports()
	if err != nil {
		return Export{}, false, err
	}
	for _, e := range exports {
		if e.Name == name {
			return e, true, nil
		}
	}
	return Export{}, false, nil
}

// DataSegments decodes the data section.
func (m *Module) DataSegments() ([]DataSegment, error) {
	data, _ := m.section(SecData)
	if data == nil {
		return nil, nil
	}
	r := newReader(data)
	n, err := r.uleb128()
	if err != nil {
		return nil, err
	}
	out := make([]DataSegment, n)
	for i := range out {
		out[i], err = decodeDataSegment(r)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (m *Module) setDataSegments(segs []DataSegment) {
	var buf bytes.Buffer
	PutULEB128(&buf, uint64(len(segs)))
	for _, d := range segs {
		encodeDataSegment(&buf, d)
	}
	m.setSection(SecData, buf.Bytes())
}

// CodeEntries decodes the code section.
func (m *Module) CodeEntries() ([]CodeEntry, error) {
	data, _ := m.section(SecCode)
	if data == nil {
		return nil, nil
	}
	r := newReader(data)
	n, err := r.uleb128()
	if err != nil {
		return nil, err
	}
	out := make([]CodeEntry, n)
	for i := range out {
		out[i], err = decodeCode(r)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (m *Module) setCodeEntries(entries []CodeEntry) {
	var buf bytes.Buffer
	PutULEB128(&buf, uint64(len(entries)))
	for _, c := range entries {
		encodeCode(&buf, c)
	}
	m.setSection(SecCode, buf.Bytes())
}
