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
	"fmt"
)

// Section IDs per the WASM core binary format.
const (
	SecCustom   = 0
	SecType     = 1
	SecImport   = 2
	SecFunction = 3
	SecTable    = 4
	SecMemory   = 5
	SecGlobal   = 6
	SecExport   = 7
	SecStart    = 8
	SecElement  = 9
	SecCode     = 10
	SecData     = 11
	SecDataCnt  = 12
)

// Import/export external-kind tags.
const (
	KindFunc   = 0x00
	KindTable  = 0x01
	KindMemory = 0x02
	KindGlobal = 0x03
)

func errInvalidModule(what string) error {
	return fmt.Errorf("wasmbin: malformed module: %s", what)
}

// Import describes one entry of the import section. Only the
// function-import shape is used by this compiler (the runtime library
// imports host functions), but the other kinds round-trip untouched.
type Import struct {
	Module, Name string
	Kind         byte
	// Func: type index. Table/Memory: limits. Global: value type + mutability.
	TypeIdx    uint32
	Limits     Limits
	GlobalType ValType
	Mutable    bool
}

// Limits is a WASM resizable-limits pair.
type Limits struct {
	Min uint32
	Max uint32
	HasMax bool
}

func decodeLimits(r *reader) (Limits, error) {
	flag, err := r.byte()
	if err != nil {
		return Limits{}, err
	}
	min, err := r.u32()
	if err != nil {
		return Limits{}, err
	}
	l := Limits{Min: min}
	if flag == 1 {
		max, err := r.u32()
		if err != nil {
			return Limits{}, err
		}
		l.Max = max
		l.HasMax = true
	}
	return l, nil
}

func encodeLimits(buf *bytes.Buffer, l Limits) {
	if l.HasMax {
		buf.WriteByte(1)
		PutULEB128(buf, uint64(l.Min))
		PutULEB128(buf, uint64(l.Max))
	} else {
		buf.WriteByte(0)
		PutULEB128(buf, uint64(l.Min))
	}
}

func decodeImport(r *reader) (Import, error) {
	mod, err := r.name()
	if err != nil {
		return Import{}, err
	}
	name, err := r.name()
	if err != nil {
		return Import{}, err
	}
	kind, err := r.byte()
	if err != nil {
		return Import{}, err
	}
	imp := Import{Module: mod, Name: name, Kind: kind}
	switch kind {
	case KindFunc:
		idx, err := r.u32()
		if err != nil {
			return Import{}, err
		}
		imp.TypeIdx = idx
	case KindTable:
		_, err := r.byte() // elem type (0x70 funcref)
		if err != nil {
			return Import{}, err
		}
		imp.Limits, err = decodeLimits(r)
		if err != nil {
			return Import{}, err
		}
	case KindMemory:
		imp.Limits, err = decodeLimits(r)
		if err != nil {
			return Import{}, err
		}
	case KindGlobal:
		vt, err := r.byte()
		if err != nil {
			return Import{}, err
		}
		mut, err := r.byte()
		if err != nil {
			return Import{}, err
		}
		imp.GlobalType = ValType(vt)
		imp.Mutable = mut != 0
	default:
		return Import{}, errInvalidModule("import kind")
	}
	return imp, nil
}

func encodeImport(buf *bytes.Buffer, imp Import) {
	putName(buf, imp.Module)
	putName(buf, imp.Name)
	buf.WriteByte(imp.Kind)
	switch imp.Kind {
	case KindFunc:
		PutULEB128(buf, uint64(imp.TypeIdx))
	case KindTable:
		buf.WriteByte(0x70)
		encodeLimits(buf, imp.Limits)
	case KindMemory:
		encodeLimits(buf, imp.Limits)
	case KindGlobal:
		buf.WriteByte(byte(imp.GlobalType))
		if imp.Mutable {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	}
}

// Export describes one entry of the export section.
type Export struct {
	Name string
	Kind byte
	Idx  uint32
}

func decodeExport(r *reader) (Export, error) {
	name, err := r.name()
	if err != nil {
		return Export{}, err
	}
	kind, err := r.byte()
	if err != nil {
		return Export{}, err
	}
	idx, err := r.u32()
	if err != nil {
		return Export{}, err
	}
	return Export{Name: name, Kind: kind, Idx: idx}, nil
}

func encodeExport(buf *bytes.Buffer, e Export) {
	putName(buf, e.Name)
	buf.WriteByte(e.Kind)
	PutULEB128(buf, uint64(e.Idx))
}

// Global is one entry of the global section: a type plus a constant
// initializer expression (this compiler only ever needs to read an
// i32.const initializer; other opcodes are preserved as raw bytes).
type Global struct {
	Type    ValType
	Mutable bool
	Init    []byte // the init expr, including the trailing 0x0b end opcode
}

// I32ConstValue returns the constant folded by an `i32.const N end`
// initializer, if Init is in exactly that shape.
func (g Global) I32ConstValue() (int32, bool) {
	if len(g.Init) < 2 || g.Init[0] != 0x41 { // i32.const
		return 0, false
	}
	r := newReader(g.Init[1:])
	v, err := r.sleb128()
	if err != nil {
		return 0, false
	}
	if r.atEnd() || r.buf[r.pos] != 0x0b {
		return 0, false
	}
	return int32(v), true
}

func decodeGlobal(r *reader) (Global, error) {
	vt, err := r.byte()
	if err != nil {
		return Global{}, err
	}
	mut, err := r.byte()
	if err != nil {
		return Global{}, err
	}
	init, err := readInitExpr(r)
	if err != nil {
		return Global{}, err
	}
	return Global{Type: ValType(vt), Mutable: mut != 0, Init: init}, nil
}

func encodeGlobal(buf *bytes.Buffer, g Global) {
	buf.WriteByte(byte(g.Type))
	if g.Mutable {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	buf.Write(g.Init)
}

// readInitExpr reads bytes up to and including the terminating 0x0b
// (end), without interpreting any opcode besides recognizing
// constants (the only instructions legal in a constant expression).
func readInitExpr(r *reader) ([]byte, error) {
	start := r.pos
	for {
		op, err := r.byte()
		if err != nil {
			return nil, err
		}
		switch op {
		case 0x0b: // end
			return r.buf[start:r.pos], nil
		case 0x41: // i32.const
			if _, err := r.sleb128(); err != nil {
				return nil, err
			}
		case 0x42: // i64.const
			if _, err := r.sleb128(); err != nil {
				return nil, err
			}
		case 0x43: // f32.const
			if _, err := r.bytes(4); err != nil {
				return nil, err
			}
		case 0x44: // f64.const
			if _, err := r.bytes(8); err != nil {
				return nil, err
			}
		case 0x23: // global.get
			if _, err := r.uleb128(); err != nil {
				return nil, err
			}
		default:
			return nil, errInvalidModule("unsupported constant-expression opcode")
		}
	}
}

// TableType is one entry of the table section.
type TableType struct {
	ElemType byte // 0x70 funcref
	Limits   Limits
}

func decodeTableType(r *reader) (TableType, error) {
	et, err := r.byte()
	if err != nil {
		return TableType{}, err
	}
	l, err := decodeLimits(r)
	if err != nil {
		return TableType{}, err
	}
	return TableType{ElemType: et, Limits: l}, nil
}

func encodeTableType(buf *bytes.Buffer, t TableType) {
	buf.WriteByte(t.ElemType)
	encodeLimits(buf, t.Limits)
}

// DataSegment is one entry of the data section. Only active segments
// (mode 0, a memory-index-0 offset expression) are expected in the
// runtime-library contract this compiler links against.
type DataSegment struct {
	Mode   uint32 // 0 = active mem 0, 1 = passive, 2 = active explicit mem
	Offset []byte // init expr bytes, active segments only
	Bytes  []byte
}

// OffsetValue returns the constant folded by the segment's i32.const
// offset expression, if present.
func (d DataSegment) OffsetValue() (int32, bool) {
	if len(d.Offset) < 2 || d.Offset[0] != 0x41 {
		return 0, false
	}
	r := newReader(d.Offset[1:])
	v, err := r.sleb128()
	if err != nil {
		return 0, false
	}
	return int32(v), true
}

func decodeDataSegment(r *reader) (DataSegment, error) {
	mode, err := r.uleb128()
	if err != nil {
		return DataSegment{}, err
	}
	d := DataSegment{Mode: uint32(mode)}
	if mode == 0 {
		off, err := readInitExpr(r)
		if err != nil {
			return DataSegment{}, err
		}
		d.Offset = off
	} else if mode == 2 {
		if _, err := r.uleb128(); err != nil { // memory index
			return DataSegment{}, err
		}
		off, err := readInitExpr(r)
		if err != nil {
			return DataSegment{}, err
		}
		d.Offset = off
	}
	n, err := r.uleb128()
	if err != nil {
		return DataSegment{}, err
	}
	b, err := r.bytes(int(n))
	if err != nil {
		return DataSegment{}, err
	}
	d.Bytes = append([]byte(nil), b...)
	return d, nil
}

func encodeDataSegment(buf *bytes.Buffer, d DataSegment) {
	PutULEB128(buf, uint64(d.Mode))
	if d.Mode == 2 {
		PutULEB128(buf, 0)
	}
	if d.Mode != 1 {
		buf.Write(d.Offset)
	}
	PutULEB128(buf, uint64(len(d.Bytes)))
	buf.Write(d.Bytes)
}

// CodeEntry is one entry of the code section: a function body.
type CodeEntry struct {
	Locals []LocalGroup
	Body   []byte // instructions only, including the trailing 0x0b end
}

// LocalGroup is a run-length-encoded group of local variable
// declarations in a function body.
type LocalGroup struct {
	Count uint32
	Type  ValType
}

func decodeCode(r *reader) (CodeEntry, error) {
	size, err := r.uleb128()
	if err != nil {
		return CodeEntry{}, err
	}
	body, err := r.bytes(int(size))
	if err != nil {
		return CodeEntry{}, err
	}
	br := newReader(body)
	nGroups, err := br.uleb128()
	if err != nil {
		return CodeEntry{}, err
	}
	groups := make([]LocalGroup, nGroups)
	for i := range groups {
		cnt, err := br.u32()
		if err != nil {
			return CodeEntry{}, err
		}
		vt, err := br.byte()
		if err != nil {
			return CodeEntry{}, err
		}
		groups[i] = LocalGroup{Count: cnt, Type: ValType(vt)}
	}
	return CodeEntry{Locals: groups, Body: append([]byte(nil), body[br.pos:]...)}, nil
}

func encodeCode(buf *bytes.Buffer, c CodeEntry) {
	var body bytes.Buffer
	PutULEB128(&body, uint64(len(c.Locals)))
	for _, g := range c.Locals {
		PutULEB128(&body, uint64(g.Count))
		body.WriteByte(byte(g.Type))
	}
	body.Write(c.Body)

	PutULEB128(buf, uint64(body.Len()))
	buf.Write(body.Bytes())
}
