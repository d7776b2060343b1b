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

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"github.com/n42blockchain/evm2wasm/internal/abi"
	"github.com/n42blockchain/evm2wasm/internal/cfg"
	"github.com/n42blockchain/evm2wasm/internal/config"
	"github.com/n42blockchain/evm2wasm/internal/emit"
	"github.com/n42blockchain/evm2wasm/internal/evm"
	"github.com/n42blockchain/evm2wasm/internal/reduce"
	"github.com/n42blockchain/evm2wasm/internal/reduce/caterpillar"
	"github.com/n42blockchain/evm2wasm/internal/relooper"
	"github.com/n42blockchain/evm2wasm/internal/wasmbin"
	"github.com/n42blockchain/evm2wasm/log"
	"github.com/urfave/cli/v2"
)

// readBytecode loads hex bytecode from path, or from stdin when path
// is "-". Leading "0x" and surrounding whitespace are tolerated.
func readBytecode(path string) (string, error) {
	var src io.Reader
	if path == "-" {
		src = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		src = f
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, src); err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}

	s := strings.TrimSpace(buf.String())
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	return s, nil
}

// loadMethods reads the --abi file, if any, into the flat method
// descriptor slice abi.LoadMethods expects.
func loadMethods(path string) ([]abi.Method, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open abi: %w", err)
	}
	defer f.Close()
	return abi.LoadMethods(f)
}

func run(ctx *cli.Context) error {
	cfgVal := config.Default()
	cfgVal.ChainID = ctx.Uint64(chainIDFlag.Name)
	cfgVal.GasAccounting = !ctx.Bool(noGasAccountingFlag.Name)
	cfgVal.ProgramCounter = !ctx.Bool(noProgramCounterFlag.Name)
	cfgVal.RuntimeModulePath = ctx.String(runtimeModuleFlag.Name)
	cfgVal.OutputPath = ctx.String(outputFlag.Name)
	cfgVal.ABIPath = ctx.String(abiFlag.Name)
	cfgVal.Debug = ctx.Bool(debugFlag.Name)
	cfgVal.DebugDir = ctx.String(debugDirFlag.Name)
	cfgVal.Verbose = ctx.Bool(verboseFlag.Name)

	log.Init(cfgVal)
	logger := log.New("module", "evm2wasm")

	if ctx.NArg() < 1 {
		return cli.Exit("evm2wasm: missing input bytecode file (use \"-\" for stdin)", 1)
	}
	inputPath := ctx.Args().Get(0)

	src, err := readBytecode(inputPath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("evm2wasm: %v", err), 1)
	}

	prog, err := evm.Decode(src)
	if err != nil {
		return cli.Exit(fmt.Sprintf("evm2wasm: decode: %v", err), 1)
	}
	logger.Debug("decoded program", "instructions", len(prog.Instructions))

	// Each invocation gets its own debug subdirectory so repeated runs
	// (e.g. compiling a batch of contracts) don't clobber each other's
	// dumps.
	var runDebugDir string
	if cfgVal.Debug {
		runDebugDir = filepath.Join(cfgVal.DebugDir, uuid.New().String())
		logger.Info("writing debug artifacts", "dir", runDebugDir)
	}

	g := cfg.Build(prog)
	if cfgVal.Debug {
		if err := dumpCFG(runDebugDir, g); err != nil {
			logger.Warn("failed to dump cfg.dot", "err", err)
		}
		if err := os.WriteFile(filepath.Join(runDebugDir, "disasm.txt"), []byte(prog.Disassemble()), 0644); err != nil {
			logger.Warn("failed to dump disasm.txt", "err", err)
		}
	}

	reduced, err := reduce.Reduce(g, 0)
	if err != nil {
		return cli.Exit(fmt.Sprintf("evm2wasm: reduce: %v", err), 1)
	}
	caterpillar.Expand(reduced, prog)
	if cfgVal.Debug {
		if err := dumpReduced(runDebugDir, reduced); err != nil {
			logger.Warn("failed to dump supergraph.dot", "err", err)
		}
	}

	tree, err := relooper.Reloop(reduced)
	if err != nil {
		return cli.Exit(fmt.Sprintf("evm2wasm: relooper: %v", err), 1)
	}
	if cfgVal.Debug {
		if err := dumpTree(runDebugDir, tree); err != nil {
			logger.Warn("failed to dump tree.dot", "err", err)
		}
		treeDump := []byte(spew.Sdump(tree))
		if err := os.WriteFile(filepath.Join(runDebugDir, "tree.txt"), treeDump, 0644); err != nil {
			logger.Warn("failed to dump tree.txt", "err", err)
		}
	}

	methods, err := loadMethods(cfgVal.ABIPath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("evm2wasm: abi: %v", err), 1)
	}

	runtimeBytes, err := os.ReadFile(cfgVal.RuntimeModulePath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("evm2wasm: runtime module: %v", err), 1)
	}
	runtime, err := wasmbin.Parse(runtimeBytes)
	if err != nil {
		return cli.Exit(fmt.Sprintf("evm2wasm: runtime module: %v", err), 1)
	}

	module, err := emit.Emit(emit.Params{
		Runtime: runtime,
		Program: prog,
		CFG:     g,
		Tree:    tree,
		Methods: methods,
		Config:  cfgVal,
	})
	if err != nil {
		return cli.Exit(fmt.Sprintf("evm2wasm: emit: %v", err), 1)
	}

	out := module.Encode()
	if cfgVal.OutputPath == "" || cfgVal.OutputPath == "-" {
		if _, err := os.Stdout.Write(out); err != nil {
			return cli.Exit(fmt.Sprintf("evm2wasm: write output: %v", err), 1)
		}
		return nil
	}
	if err := os.WriteFile(cfgVal.OutputPath, out, 0644); err != nil {
		return cli.Exit(fmt.Sprintf("evm2wasm: write output: %v", err), 1)
	}
	logger.Info("wrote module", "path", cfgVal.OutputPath, "bytes", len(out))
	return nil
}
