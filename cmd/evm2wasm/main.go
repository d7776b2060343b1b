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
	"fmt"
	"os"

	"github.com/n42blockchain/evm2wasm/internal/buildinfo"
	"github.com/urfave/cli/v2"
)

const banner = `
  ___     __  __ ____  __      __  _    ____  __  __
 / _ \__ /  \/  |___ \ \ \ /\ / / / \  / ___||  \/  |
| | | \ \ | |\/| | __) | \ V  V / / _ \ \___ \| |\/| |
| |_| |\ \| |  | / __/   \ /\ / / ___ \ ___) | |  | |
 \___/  \/|_|  |_|_____|  \/  \/ /_/   \_\____/|_|  |_|

EVM bytecode -> WebAssembly ahead-of-time compiler
`

const usageText = `evm2wasm compiles EVM contract bytecode into a standalone WebAssembly
module, linked against a pre-compiled runtime library.

Quick examples:

   evm2wasm contract.hex -o contract.wasm
   cat contract.hex | evm2wasm - -o contract.wasm --abi contract.abi.json
   evm2wasm contract.hex -d --debug-dir ./debug -v
`

func main() {
	app := cli.NewApp()
	app.Name = "evm2wasm"
	app.Usage = "compile EVM bytecode to a linked WebAssembly module"
	app.UsageText = usageText
	app.Version = buildinfo.VersionWithCommit(buildinfo.GitCommit)
	app.Flags = appFlags
	app.Action = run
	app.UseShortOptionHandling = true
	app.Suggest = true
	app.EnableBashCompletion = true
	app.Copyright = "Copyright 2022-2026 The N42 Authors"

	cli.AppHelpTemplate = fmt.Sprintf("%s\n%s", banner, cli.AppHelpTemplate)
	// -v belongs to --verbose, so the version flag takes -V.
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
