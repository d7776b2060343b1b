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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLEB128RoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 127, 128, 300, 65535, 1 << 40}
	for _, c := range cases {
		var buf bytes.Buffer
		PutULEB128(&buf, c)
		r := newReader(buf.Bytes())
		got, err := r.uleb128()
		require.NoError(t, err)
		require.Equal(t, c, got)
	}

	signed := []int64{0, 1, -1, 63, -64, 64, -65, 123456, -123456}
	for _, c := range signed {
		var buf bytes.Buffer
		PutSLEB128(&buf, c)
		r := newReader(buf.Bytes())
		got, err := r.sleb128()
		require.NoError(t, err)
		require.Equal(t, c, got)
	}
}

// buildFixture constructs a minimal but complete module: one type, one
// defined function (exported "foo"), one table, one global (exported
// "_abi_buffer") pointing into one data segment.
func buildFixture(t *testing.T) *Module {
	t.Helper()
	m := &Module{}
	m.setTypes([]FuncType{{}})
	m.setFuncTypeIndices([]uint32{0})
	m.setTables([]TableType{{ElemType: 0x70, Limits: Limits{Min: 1, Max: 1, HasMax: true}}})

	var initExpr bytes.Buffer
	initExpr.WriteByte(OpI32Const)
	PutSLEB128(&initExpr, 1024)
	initExpr.WriteByte(OpEnd)
	m.setGlobals([]Global{{Type: I32, Mutable: false, Init: initExpr.Bytes()}})

	m.setExports([]Export{
		{Name: "foo", Kind: KindFunc, Idx: 0},
		{Name: "_abi_buffer", Kind: KindGlobal, Idx: 0},
	})

	var dataOff bytes.Buffer
	dataOff.WriteByte(OpI32Const)
	PutSLEB128(&dataOff, 1024)
	dataOff.WriteByte(OpEnd)
	m.setDataSegments([]DataSegment{{Mode: 0, Offset: dataOff.Bytes(), Bytes: make([]byte, 16)}})

	m.setCodeEntries([]CodeEntry{{Body: []byte{OpEnd}}})
	return m
}

func TestModuleEncodeParseRoundTrip(t *testing.T) {
	m := buildFixture(t)
	encoded := m.Encode()

	parsed, err := Parse(encoded)
	require.NoError(t, err)

	types, err := parsed.Types()
	require.NoError(t, err)
	require.Len(t, types, 1)

	exp, ok, err := parsed.FindExport("foo")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint32(0), exp.Idx)

	offset, err := parsed.GlobalExportI32("_abi_buffer")
	require.NoError(t, err)
	require.Equal(t, int32(1024), offset)
}

func TestGrowTable(t *testing.T) {
	m := buildFixture(t)
	require.NoError(t, m.GrowTable(65535))
	tables, err := m.Tables()
	require.NoError(t, err)
	require.Equal(t, uint32(65535), tables[0].Limits.Min)
	require.Equal(t, uint32(65535), tables[0].Limits.Max)
}

func TestPatchDataAt(t *testing.T) {
	m := buildFixture(t)
	payload := []byte{0xde, 0xad, 0xbe, 0xef}
	require.NoError(t, m.PatchDataAt(1024, payload))

	segs, err := m.DataSegments()
	require.NoError(t, err)
	require.Equal(t, payload, segs[0].Bytes[:4])
}

func TestPatchDataAtOutOfRange(t *testing.T) {
	m := buildFixture(t)
	err := m.PatchDataAt(9999, []byte{1})
	require.Error(t, err)
}

func TestAppendFunctionAndLookup(t *testing.T) {
	m := buildFixture(t)
	typeIdx, err := m.EnsureType(FuncType{})
	require.NoError(t, err)
	require.Equal(t, uint32(0), typeIdx) // reuses the existing empty signature

	body := NewAsm().Return().End().Bytes()
	idx, err := m.AppendFunction(typeIdx, body, "bar")
	require.NoError(t, err)
	require.Equal(t, uint32(1), idx)

	gotIdx, ok, err := m.OpcodeFunctionIndex("bar")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, idx, gotIdx)

	code, err := m.CodeEntries()
	require.NoError(t, err)
	require.Len(t, code, 2)
}

func TestEncodeParsePreservesUnknownSections(t *testing.T) {
	m := buildFixture(t)
	m.sections = append(m.sections, rawSection{ID: SecCustom, Data: []byte("name\x00hello")})
	encoded := m.Encode()

	parsed, err := Parse(encoded)
	require.NoError(t, err)
	found := false
	for _, s := range parsed.sections {
		if s.ID == SecCustom {
			found = true
		}
	}
	require.True(t, found)
}
