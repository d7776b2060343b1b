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
	"fmt"

	"github.com/n42blockchain/evm2wasm/internal/abi"
	"github.com/n42blockchain/evm2wasm/internal/cfg"
	"github.com/n42blockchain/evm2wasm/internal/config"
	"github.com/n42blockchain/evm2wasm/internal/evm"
	"github.com/n42blockchain/evm2wasm/internal/evmerr"
	"github.com/n42blockchain/evm2wasm/internal/reduce"
	"github.com/n42blockchain/evm2wasm/internal/reduce/caterpillar"
	"github.com/n42blockchain/evm2wasm/internal/relooper"
	"github.com/n42blockchain/evm2wasm/internal/wasmbin"
)

// tableOffset is the base index synthesized indirect-call stubs are
// linked against (spec.md §4.6 "table offset (0x1000)").
const tableOffset = 0x1000

// tableSize is the minimum/maximum entry count the first table is
// grown to (spec.md §4.6).
const tableSize = 65535

// Params is everything Emit needs: the structured tree and the
// decoded program it realizes, the loaded runtime-library module to
// link against, and the contract's ABI methods (may be empty).
type Params struct {
	Runtime *wasmbin.Module
	Program *evm.Program
	CFG     *cfg.CFG
	Tree    []*relooper.Node
	Methods []abi.Method
	Config  config.Config
}

type blockRange struct{ start, end int }

type emitter struct {
	l      *linker
	prog   *evm.Program
	cfg    config.Config
	ranges map[uint32]blockRange
	dests  []uint32
}

// Emit links tree against rt, appending the synthesized entry-point
// functions and patching the ABI descriptor buffer, and returns the
// merged module (spec.md §4.6).
func Emit(p Params) (*wasmbin.Module, error) {
	l, err := newLinker(p.Runtime)
	if err != nil {
		return nil, err
	}

	ranges := make(map[uint32]blockRange, len(p.CFG.Blocks))
	for label, b := range p.CFG.Blocks {
		ranges[label] = blockRange{start: b.Start, end: b.End}
	}

	e := &emitter{l: l, prog: p.Program, cfg: p.Config, ranges: ranges, dests: p.Program.JumpDests()}

	execAsm := wasmbin.NewAsm()
	if err := e.walk(p.Tree, execAsm); err != nil {
		return nil, err
	}
	execAsm.End()
	evmExecIdx, err := p.Runtime.AppendFunction(l.voidTypeIdx, execAsm.Bytes(), "_evm_exec")
	if err != nil {
		return nil, err
	}

	if _, err := p.Runtime.AppendFunction(l.voidTypeIdx, wasmbin.NewAsm().End().Bytes(), "_start"); err != nil {
		return nil, err
	}

	startAsm := wasmbin.NewAsm().
		I32Const(tableOffset).
		I64Const(int64(p.Config.ChainID)).
		I64Const(0).
		Call(l.evmInit).
		End()
	evmStartIdx, err := p.Runtime.AppendFunction(l.voidTypeIdx, startAsm.Bytes(), "_evm_start")
	if err != nil {
		return nil, err
	}

	executeAsm := wasmbin.NewAsm().
		Call(evmStartIdx).
		Call(evmExecIdx).
		I32Const(0).
		I32Const(0).
		Call(l.evmPostExec).
		End()
	if _, err := p.Runtime.AppendFunction(l.voidTypeIdx, executeAsm.Bytes(), "execute"); err != nil {
		return nil, err
	}

	if len(p.Methods) > 0 {
		capacity, err := abiBufferCapacity(p.Runtime, l.abiBufferOffset)
		if err != nil {
			return nil, err
		}
		data, descs, err := abi.EncodeDescriptors(p.Methods, capacity)
		if err != nil {
			return nil, err
		}

		for _, d := range descs {
			if err := e.emitMethodWrapper(p.Runtime, l, d, evmStartIdx, evmExecIdx); err != nil {
				return nil, err
			}
		}

		if err := p.Runtime.PatchDataAt(l.abiBufferOffset, data); err != nil {
			return nil, err
		}
	}

	if err := p.Runtime.GrowTable(tableSize); err != nil {
		return nil, err
	}

	return p.Runtime, nil
}

// emitMethodWrapper appends the public per-ABI-method dispatch
// function (spec.md §4.6). d's offsets are relative to the full
// concatenated descriptor buffer Emit is about to patch in, so they
// must come from the same abi.EncodeDescriptors call that produces
// that buffer — not a fresh single-method encoding, whose offsets
// would start back at zero.
func (e *emitter) emitMethodWrapper(rt *wasmbin.Module, l *linker, d abi.Descriptor, evmStartIdx, evmExecIdx uint32) error {
	selector := int32(beUint(d.Selector[:]))
	asm := wasmbin.NewAsm().
		Call(evmStartIdx).
		I32Const(selector).
		I32Const(l.abiBufferOffset + int32(d.NamesOffset)).
		I32Const(int32(d.NamesLen)).
		I32Const(l.abiBufferOffset + int32(d.TypesOffset)).
		I32Const(int32(d.TypesLen)).
		Call(l.evmCall).
		Call(evmExecIdx).
		I32Const(l.abiBufferOffset + int32(d.OutputsOffset)).
		I32Const(int32(d.OutputsLen)).
		Call(l.evmPostExec).
		End()

	_, err := rt.AppendFunction(l.voidTypeIdx, asm.Bytes(), d.Method.Name)
	return err
}

// abiBufferCapacity returns how many bytes remain in the data segment
// covering offset, from offset to that segment's end — the cap
// EncodeDescriptors must fit inside since PatchDataAt never resizes a
// segment (spec.md §4.6).
func abiBufferCapacity(rt *wasmbin.Module, offset int32) (int, error) {
	segs, err := rt.DataSegments()
	if err != nil {
		return 0, err
	}
	for _, s := range segs {
		off, ok := s.OffsetValue()
		if !ok {
			continue
		}
		end := off + int32(len(s.Bytes))
		if offset >= off && offset < end {
			return int(end - offset), nil
		}
	}
	return 0, fmt.Errorf("emit: no data segment covers _abi_buffer offset %d", offset)
}

// walk renders a structured-tree sequence into wasm instructions
// (spec.md §4.6's structural-walk rules).
func (e *emitter) walk(nodes []*relooper.Node, asm *wasmbin.Asm) error {
	for _, n := range nodes {
		switch n.Kind {
		case relooper.KindBlock:
			asm.Block()
			if err := e.walk(n.Body, asm); err != nil {
				return err
			}
			asm.End()

		case relooper.KindLoop:
			asm.Loop()
			if err := e.walk(n.Body, asm); err != nil {
				return err
			}
			asm.End()

		case relooper.KindIf:
			if caterpillar.IsTestLabel(n.Label) {
				pc, err := e.testDestPC(n.Label)
				if err != nil {
					return err
				}
				asm.Call(e.l.evmPopU32).I32Const(int32(pc)).I32Eq()
			} else {
				asm.Call(e.l.evmPopU32)
			}
			asm.If()
			if err := e.walk(n.Then, asm); err != nil {
				return err
			}
			if len(n.Else) > 0 {
				asm.Else()
				if err := e.walk(n.Else, asm); err != nil {
					return err
				}
			}
			asm.End()

		case relooper.KindActions:
			if err := e.emitActions(n.Label, asm); err != nil {
				return err
			}

		case relooper.KindBr:
			asm.Br(n.Depth)

		case relooper.KindReturn:
			asm.Return()

		case relooper.KindTableJump:
			return fmt.Errorf("emit: unsupported TableJump node (caterpillar lowering never produces one)")
		}
	}
	return nil
}

// emitActions renders one CFG block's opcode range (spec.md §4.6
// Actions(block) rule). Caterpillar dispatch-test nodes carry no
// opcodes of their own — their comparison is folded into the
// enclosing If (see walk) — so emitActions is a no-op for them.
func (e *emitter) emitActions(label reduce.ExtendedLabel, asm *wasmbin.Asm) error {
	if caterpillar.IsTestLabel(label) {
		return nil
	}

	rng, ok := e.ranges[label.Origin]
	if !ok {
		return fmt.Errorf("emit: no CFG block for label %s", label)
	}

	for _, in := range e.prog.Instructions[rng.start:rng.end] {
		if e.cfg.ProgramCounter {
			asm.I32Const(int32(in.PC)).Call(e.l.evmSetPC)
		}
		if e.cfg.GasAccounting && e.l.haveGas {
			asm.Call(e.l.evmGas)
		}
		if in.Op.IsPush() {
			pushOperand(asm, in.Immediate)
		}
		idx, ok := e.l.funcIndex(in.Op)
		if !ok {
			return fmt.Errorf("%w: runtime module missing export for opcode %s", evmerr.ErrRuntimeLinking, in.Op)
		}
		asm.Call(idx)
		if in.Op == evm.RETURN {
			asm.Return()
		}
	}
	return nil
}

// testDestPC resolves a caterpillar dispatch-test label back to the
// JUMPDEST program counter it compares against: the label's Origin is
// caterpillar.TestOriginBase + i, where i indexes e.dests in the same
// ascending order caterpillar.Expand built the chain in.
func (e *emitter) testDestPC(label reduce.ExtendedLabel) (uint32, error) {
	i := int(label.Origin - caterpillar.TestOriginBase)
	if i < 0 || i >= len(e.dests) {
		return 0, fmt.Errorf("emit: dispatch test label %s out of range of %d JUMPDESTs", label, len(e.dests))
	}
	return e.dests[i], nil
}
