// Copyright 2022-2026 The N42 Authors
// This file is part of the N42 library.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/n42blockchain/evm2wasm/internal/wasmbin"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestReadBytecodeFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contract.hex")
	require.NoError(t, os.WriteFile(path, []byte(" 0x6000600055\n"), 0644))

	src, err := readBytecode(path)
	require.NoError(t, err)
	require.Equal(t, "6000600055", src)
}

func TestLoadMethodsEmptyPath(t *testing.T) {
	methods, err := loadMethods("")
	require.NoError(t, err)
	require.Nil(t, methods)
}

func TestLoadMethodsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abi.json")
	doc := `[{"name":"answer","outputs":[{"name":"","type":"uint256"}]}]`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	methods, err := loadMethods(path)
	require.NoError(t, err)
	require.Len(t, methods, 1)
	require.Equal(t, "answer", methods[0].Name)
}

func putName(buf *bytes.Buffer, s string) {
	wasmbin.PutULEB128(buf, uint64(len(s)))
	buf.WriteString(s)
}

func section(out *bytes.Buffer, id byte, payload []byte) {
	out.WriteByte(id)
	wasmbin.PutULEB128(out, uint64(len(payload)))
	out.Write(payload)
}

// buildFixtureRuntime hand-assembles a minimal runtime-library wasm
// blob exporting exactly the opcodes scenario 1 (spec.md §8) needs,
// mirroring internal/emit's test fixture construction (Module exposes
// no in-package constructors outside Parse).
func buildFixtureRuntime(t *testing.T) []byte {
	t.Helper()
	names := []string{"push1", "mstore", "return", "_evm_init", "_evm_call", "_evm_post_exec", "_evm_pop_u32", "_evm_set_pc"}
	n := len(names)

	var out bytes.Buffer
	out.Write([]byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00})

	var typeSec bytes.Buffer
	wasmbin.PutULEB128(&typeSec, 1)
	typeSec.Write([]byte{0x60, 0x00, 0x00})
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

	const abiOffset = 1024
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
	wasmbin.PutULEB128(&dataSec, 0)
	dataSec.WriteByte(wasmbin.OpI32Const)
	wasmbin.PutSLEB128(&dataSec, int64(abiOffset))
	dataSec.WriteByte(wasmbin.OpEnd)
	wasmbin.PutULEB128(&dataSec, 64)
	dataSec.Write(make([]byte, 64))
	section(&out, wasmbin.SecData, dataSec.Bytes())

	var codeSec bytes.Buffer
	wasmbin.PutULEB128(&codeSec, uint64(n))
	for i := 0; i < n; i++ {
		body := []byte{0, wasmbin.OpEnd}
		wasmbin.PutULEB128(&codeSec, uint64(len(body)))
		codeSec.Write(body)
	}
	section(&out, wasmbin.SecCode, codeSec.Bytes())

	return out.Bytes()
}

// TestRunEndToEnd exercises the full Decode -> CFG -> Reduce -> Expand
// -> Reloop -> Emit pipeline through the CLI entry point (spec.md §8
// scenario 1: a straight-line contract with no jumps).
func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()

	bytecodePath := filepath.Join(dir, "contract.hex")
	require.NoError(t, os.WriteFile(bytecodePath, []byte("602a60005260206000f3"), 0644))

	runtimePath := filepath.Join(dir, "runtime.wasm")
	require.NoError(t, os.WriteFile(runtimePath, buildFixtureRuntime(t), 0644))

	outPath := filepath.Join(dir, "out.wasm")

	app := cli.NewApp()
	app.Flags = appFlags
	app.Action = run
	app.ExitErrHandler = func(*cli.Context, error) {} // don't os.Exit from inside a test

	err := app.Run([]string{"evm2wasm", "--runtime-module", runtimePath, "-o", outPath, bytecodePath})
	require.NoError(t, err)

	produced, err := os.ReadFile(outPath)
	require.NoError(t, err)

	mod, err := wasmbin.Parse(produced)
	require.NoError(t, err)
	_, ok, err := mod.FindExport("_evm_exec")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRunMissingInputFile(t *testing.T) {
	app := cli.NewApp()
	app.Flags = appFlags
	app.Action = run
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run([]string{"evm2wasm"})
	require.Error(t, err)
}
