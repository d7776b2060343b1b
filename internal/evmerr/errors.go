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

// Package evmerr defines the error taxonomy shared by every compiler
// phase, so the driver can present a single-line diagnostic regardless
// of which phase failed (spec.md §7).
package evmerr

import (
	"errors"
	"fmt"
)

// =====================
// Decoder errors
// =====================

var (
	// ErrInvalidBytecode is returned when the input is not well-formed hex.
	ErrInvalidBytecode = errors.New("invalid bytecode: not valid hex")

	// ErrTruncatedPush is returned when a PUSHn immediate runs past the
	// end of the input.
	ErrTruncatedPush = errors.New("truncated PUSH immediate")

	// ErrUnknownOpcode is returned when the decoder encounters a byte
	// that names no assigned EVM opcode.
	ErrUnknownOpcode = errors.New("unknown opcode")
)

// =====================
// Linking & emission errors
// =====================

var (
	// ErrRuntimeLinking is returned when the runtime-library module is
	// missing a required export, has the wrong signature, or lacks an
	// _abi_buffer global.
	ErrRuntimeLinking = errors.New("runtime module linking error")

	// ErrEmitFailure indicates the WASM encoder rejected the produced
	// structure. Should be unreachable; signals a compiler bug.
	ErrEmitFailure = errors.New("emit failure")
)

// =====================
// ABI errors
// =====================

var (
	// ErrInvalidAbi is returned when a parameter or return type string
	// is not recognized.
	ErrInvalidAbi = errors.New("invalid ABI type")

	// ErrAbiBufferOverflow is returned when the encoded ABI descriptor
	// would exceed the runtime's _abi_buffer capacity.
	ErrAbiBufferOverflow = errors.New("ABI descriptor buffer overflow")
)

// =====================
// Reducer errors
// =====================

// ErrIrreducibilityBudgetExceeded is returned when the reducer's node
// splitting does not converge within the configured duplication budget
// — a safety valve against pathological inputs (spec.md §9).
var ErrIrreducibilityBudgetExceeded = errors.New("irreducibility budget exceeded")

// =====================
// Relooper errors
// =====================

// ErrNoBranchTarget is returned when do_branch cannot find exactly one
// enclosing context frame labelled with the branch target — a
// well-formedness violation of the reduced CFG that should be
// unreachable given a correctly reduced, caterpillar-expanded input
// (spec.md §3 "every Br(k) resolves to exactly one context frame").
var ErrNoBranchTarget = errors.New("relooper: no matching branch target in context")

// PositionalError wraps a decoder/CFG-builder error with the byte
// offset at fault (spec.md §7 propagation policy).
type PositionalError struct {
	Offset int
	Err    error
}

func (e *PositionalError) Error() string {
	return fmt.Sprintf("at byte offset %d: %v", e.Offset, e.Err)
}

func (e *PositionalError) Unwrap() error { return e.Err }

// AtOffset wraps err with the byte offset at which it occurred.
func AtOffset(offset int, err error) error {
	return &PositionalError{Offset: offset, Err: err}
}

// LabelError wraps a reducer/relooper error with the offending
// extended label, rendered as "origin/version".
type LabelError struct {
	Origin  uint32
	Version int
	Err     error
}

func (e *LabelError) Error() string {
	return fmt.Sprintf("at label %d/%d: %v", e.Origin, e.Version, e.Err)
}

func (e *LabelError) Unwrap() error { return e.Err }

// AtLabel wraps err with the extended label at which it occurred.
func AtLabel(origin uint32, version int, err error) error {
	return &LabelError{Origin: origin, Version: version, Err: err}
}
