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

package main

import "github.com/urfave/cli/v2"

const (
	defaultRuntimeModulePath = "./runtime/runtime.wasm"
	defaultChainID           = 1
)

var (
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "write the compiled module to `FILE` (default: stdout)",
	}
	chainIDFlag = &cli.Uint64Flag{
		Name:  "chain-id",
		Usage: "chain identifier baked into _evm_start",
		Value: defaultChainID,
	}
	debugFlag = &cli.BoolFlag{
		Name:    "debug",
		Aliases: []string{"d"},
		Usage:   "dump intermediate CFG/supergraph/structured-tree artifacts as Graphviz .dot files",
	}
	debugDirFlag = &cli.StringFlag{
		Name:  "debug-dir",
		Usage: "directory the -d artifacts and the evm2wasm.log file are written to",
		Value: "./evm2wasm-debug",
	}
	noGasAccountingFlag = &cli.BoolFlag{
		Name:  "fno-gas-accounting",
		Usage: "omit per-opcode gas-burn calls",
	}
	noProgramCounterFlag = &cli.BoolFlag{
		Name:  "fno-program-counter",
		Usage: "omit per-opcode _evm_set_pc calls",
	}
	verboseFlag = &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "chatty logging of each compiler phase",
	}
	abiFlag = &cli.StringFlag{
		Name:  "abi",
		Usage: "path to a JSON array of method descriptors (name, inputs, outputs)",
	}
	runtimeModuleFlag = &cli.StringFlag{
		Name:  "runtime-module",
		Usage: "path to the pre-compiled runtime-library wasm blob",
		Value: defaultRuntimeModulePath,
	}
)

var appFlags = []cli.Flag{
	outputFlag,
	chainIDFlag,
	debugFlag,
	debugDirFlag,
	noGasAccountingFlag,
	noProgramCounterFlag,
	verboseFlag,
	abiFlag,
	runtimeModuleFlag,
}
