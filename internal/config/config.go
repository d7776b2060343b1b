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

// Package config holds the compiler's run configuration, populated
// directly from CLI flags (spec.md §6) — no file-format loader, since
// a one-shot compiler has no persistent node configuration.
package config

// Config is the full set of knobs the driver threads through the
// pipeline.
type Config struct {
	// ChainID is baked into the synthesized _evm_start function.
	ChainID uint64

	// GasAccounting, when true, emits per-opcode gas-burn calls.
	GasAccounting bool
	// ProgramCounter, when true, emits per-opcode _evm_set_pc calls.
	ProgramCounter bool

	// RuntimeModulePath is the pre-compiled runtime-library wasm blob.
	RuntimeModulePath string
	// OutputPath is where the emitted module is written ("-" or empty
	// for standard output).
	OutputPath string
	// ABIPath, if set, points at the --abi JSON method-descriptor file.
	ABIPath string

	// Debug enables -d intermediate-artifact dumping.
	Debug bool
	// DebugDir is where CFG/supergraph/structured-tree dumps are written.
	DebugDir string

	// Verbose enables -v chatty logging.
	Verbose bool
}

// Default returns a Config with gas accounting and program-counter
// tracking enabled (the --fno-* flags are opt-out), no ABI file, and
// the conventional runtime-library path.
func Default() Config {
	return Config{
		GasAccounting:     true,
		ProgramCounter:    true,
		RuntimeModulePath: "./runtime/runtime.wasm",
	}
}
