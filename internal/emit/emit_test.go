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

import (
	"bytes"
	"testing"

	"github.com/n42blockchain/evm2wasm/internal/abi"
	"github.com/n42blockchain/evm2wasm/internal/cfg"
	"github.com/n42blockchain/evm2wasm/internal/config"
	"github.com/n42blockchain/evm2wasm/internal/evm"
	"github.com/n42blockchain/evm2wasm/internal/reduce"
	"github.com/n42blockchain/evm2wasm/internal/reduce/caterpillar"
	"github.com/n42blockchain/evm2wasm/internal/relooper"
	"github.com/n42blockchain/evm2wasm/internal/wasmbin"
	"github.com/stretchr/testify/require"
)

// requiredRuntimeFuncs are the special names every fixture runtime
// module carries, beyond whatever opcode mnemonics a test needs.
var requiredRuntimeFuncs = []string{"_evm_init", "_evm_call", "_evm_post_exec", "_evm_pop_u32", "_evm_set_pc"}

var magic = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

func putName(buf *bytes.Buffer, s string) {
	wasmbin.PutULEB128(buf, uint64(len(s)))
	buf.WriteString(s)
}

func section(out *bytes.Buffer, id byte, payload []byte) {
	out.WriteByte(id)
	wasmbin.PutULEB128(out, uint64(len(payload)))
	out.Write(payload)
}

// buildRuntime hand-assembles a fixture runtime-library module's raw
// binary (Module exposes no in-package constructors outside Parse) and
// parses it: opcodeNames each get a trivial exported function, plus the
// reserved special functions, an "_abi_buffer" global at abiOffset, and
// one active data segment of abiCapacity bytes covering it.
func buildRuntime(t *testing.T, opcodeNames []string, abiOffset int32, abiCapacity int) *wasmbin.Module {
	t.Helper()

	names := append(append([]string{}, opcodeNames...), requiredRuntimeFuncs...)
	n := len(names)

	var out bytes.Buffer
	out.Write(magic)

	var typeSec bytes.Buffer
	wasmbin.PutULEB128(&typeSec, 1)
	typeSec.WriteByte(0x60)
	typeSec.WriteByte(0x00)
	typeSec.WriteByte(0x00)
	section(&out, wasmbin.SecType, typeSec.Bytes())

	var funcSec bytes.Buffer
	wasmbin.PutULEB128(&funcSec, uint64(n))
	for i := 0; i < n; i++ {
		wasmbin.PutULEB128(&funcSec, 0)
	}
	section(&out, wasmbin.SecFunction, funcSec.Bytes())

	var tableSec bytes.Buffer
	wasmbin.PutULEB128(&tableSec, 1)
	tableSec.WriteByte(0x70)
	tableSec.WriteByte(0x01)
	wasmbin.PutULEB128(&tableSec, 1)
	wasmbin.PutULEB128(&tableSec, 1)
	section(&out, wasmbin.SecTable, tableSec.Bytes())

	var globalSec bytes.Buffer
	wasmbin.PutULEB128(&globalSec, 1)
	globalSec.WriteByte(byte(wasmbin.I32))
	globalSec.WriteByte(0x00)
	globalSec.WriteByte(wasmbin.OpI32Const)
	wasmbin.PutSLEB128(&globalSec, int64(abiOffset))
	globalSec.WriteByte(wasmbin.OpEnd)
	section(&out, wasmbin.SecGlobal, globalSec.Bytes())

	var exportSec bytes.Buffer
	wasmbin.PutULEB128(&exportSec, uint64(n+1))
	for i, name := range names {
		putName(&exportSec, name)
		exportSec.WriteByte(wasmbin.KindFunc)
		wasmbin.PutULEB128(&exportSec, uint64(i))
	}
	putName(&exportSec, "_abi_buffer")
	exportSec.WriteByte(wasmbin.KindGlobal)
	wasmbin.PutULEB128(&exportSec, 0)
	section(&out, wasmbin.SecExport, exportSec.Bytes())

	var dataSec bytes.Buffer
	wasmbin.PutULEB128(&dataSec, 1)
	wasmbin.PutULEB128(&dataSec, 0) // mode 0: active, memory 0
	dataSec.WriteByte(wasmbin.OpI32Const)
	wasmbin.PutSLEB128(&dataSec, int64(abiOffset))
	dataSec.WriteByte(wasmbin.OpEnd)
	wasmbin.PutULEB128(&dataSec, uint64(abiCapacity))
	dataSec.Write(make([]byte, abiCapacity))
	section(&out, wasmbin.SecData, dataSec.Bytes())

	var codeSec bytes.Buffer
	wasmbin.PutULEB128(&codeSec, uint64(n))
	for i := 0; i < n; i++ {
		body := []byte{0, wasmbin.OpEnd} // zero local-decl groups, then "end"
		wasmbin.PutULEB128(&codeSec, uint64(len(body)))
		codeSec.Write(body)
	}
	section(&out, wasmbin.SecCode, codeSec.Bytes())

	m, err := wasmbin.Parse(out.Bytes())
	require.NoError(t, err)
	return m
}

// straightLineTree builds the structured tree a single terminal
// (STOP/RETURN-ending) CFG block reloops to: its one action sequence
// followed directly by a return.
func straightLineTree(origin uint32) []*relooper.Node {
	return []*relooper.Node{
		{Kind: relooper.KindActions, Label: reduce.ExtendedLabel{Origin: origin}},
		{Kind: relooper.KindReturn},
	}
}

func TestEmitStraightLineConstant(t *testing.T) {
	// PUSH1 0x2a PUSH1 0x00 MSTORE PUSH1 0x20 PUSH1 0x00 RETURN
	prog, err := evm.Decode("602a60005260206000f3")
	require.NoError(t, err)

	g := cfg.Build(prog)
	tree := straightLineTree(0)

	rt := buildRuntime(t, []string{"push1", "mstore", "return"}, 1024, 64)

	out, err := Emit(Params{
		Runtime: rt,
		Program: prog,
		CFG:     g,
		Tree:    tree,
		Config:  config.Config{ChainID: 1, ProgramCounter: true, GasAccounting: false},
	})
	require.NoError(t, err)

	exports, err := out.Exports()
	require.NoError(t, err)
	names := make(map[string]bool, len(exports))
	for _, e := range exports {
		names[e.Name] = true
	}
	require.True(t, names["_evm_exec"])
	require.True(t, names["_start"])
	require.True(t, names["_evm_start"])
	require.True(t, names["execute"])

	tables, err := out.Tables()
	require.NoError(t, err)
	require.Equal(t, uint32(tableSize), tables[0].Limits.Min)
}

func TestEmitMissingOpcodeExport(t *testing.T) {
	prog, err := evm.Decode("00") // STOP, no "stop" export provided
	require.NoError(t, err)

	g := cfg.Build(prog)
	tree := straightLineTree(0)
	rt := buildRuntime(t, nil, 1024, 64)

	_, err = Emit(Params{Runtime: rt, Program: prog, CFG: g, Tree: tree, Config: config.Config{}})
	require.Error(t, err)
}

func TestEmitMissingRequiredSpecial(t *testing.T) {
	m, err := wasmbin.Parse(magic)
	require.NoError(t, err)

	prog, err := evm.Decode("00")
	require.NoError(t, err)
	g := cfg.Build(prog)

	_, err = Emit(Params{Runtime: m, Program: prog, CFG: g, Tree: straightLineTree(0)})
	require.Error(t, err)
}

func TestEmitABIMethodWrappers(t *testing.T) {
	prog, err := evm.Decode("602a60005260206000f3")
	require.NoError(t, err)
	g := cfg.Build(prog)
	tree := straightLineTree(0)

	rt := buildRuntime(t, []string{"push1", "mstore", "return"}, 1024, 256)

	methods := []abi.Method{
		{Name: "answer", Outputs: []abi.Param{{Name: "", Type: "uint256"}}},
	}

	out, err := Emit(Params{
		Runtime: rt,
		Program: prog,
		CFG:     g,
		Tree:    tree,
		Methods: methods,
		Config:  config.Config{ChainID: 1},
	})
	require.NoError(t, err)

	_, ok, err := out.FindExport("answer")
	require.NoError(t, err)
	require.True(t, ok)

	segs, err := out.DataSegments()
	require.NoError(t, err)
	selector := abi.Selector(methods[0])
	require.Equal(t, selector[:], segs[0].Bytes[:4])
}

func TestEmitCaterpillarDispatchCondition(t *testing.T) {
	// JUMPDEST ... JUMPDEST STOP (two jump destinations; only the
	// second one matters to this test's dispatch-test node).
	prog, err := evm.Decode("5b5b00")
	require.NoError(t, err)
	g := cfg.Build(prog)

	rt := buildRuntime(t, []string{"jumpdest", "stop"}, 1024, 64)

	testLabel := caterpillar.TestLabel(1)
	tree := []*relooper.Node{
		{
			Kind:  relooper.KindIf,
			Label: testLabel,
			Then:  []*relooper.Node{{Kind: relooper.KindReturn}},
			Else:  []*relooper.Node{{Kind: relooper.KindReturn}},
		},
	}

	_, err = Emit(Params{
		Runtime: rt,
		Program: prog,
		CFG:     g,
		Tree:    tree,
		Config:  config.Config{},
	})
	require.NoError(t, err)
}

func TestEmitCaterpillarDispatchOutOfRange(t *testing.T) {
	prog, err := evm.Decode("5b00")
	require.NoError(t, err)
	g := cfg.Build(prog)
	rt := buildRuntime(t, []string{"jumpdest", "stop"}, 1024, 64)

	tree := []*relooper.Node{
		{Kind: relooper.KindIf, Label: caterpillar.TestLabel(5), Then: []*relooper.Node{{Kind: relooper.KindReturn}}},
	}

	_, err = Emit(Params{Runtime: rt, Program: prog, CFG: g, Tree: tree, Config: config.Config{}})
	require.Error(t, err)
}
