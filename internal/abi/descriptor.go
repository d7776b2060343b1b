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

package abi

import (
	"strings"

	"github.com/n42blockchain/evm2wasm/internal/evmerr"
)

// Descriptor locates one method's encoded fields within the buffer
// EncodeDescriptors returns, as byte offsets relative to the start of
// that buffer (the Emitter adds abi_buffer_offset when it pushes these
// as wasm constants for the method's dispatch wrapper, spec.md §4.6).
type Descriptor struct {
	Method   Method
	Selector [4]byte

	NamesOffset, NamesLen     uint32
	TypesOffset, TypesLen     uint32
	OutputsOffset, OutputsLen uint32
}

// EncodeDescriptors lays out, per method, the 4-byte selector followed
// by the NUL-separated parameter-name list, parameter-type list, and
// output-type list (spec.md §3), concatenating all methods'
// descriptors into one buffer. capacity is the runtime module's
// existing _abi_buffer data segment length; exceeding it is
// ErrAbiBufferOverflow since the patch only overwrites in place
// (internal/wasmbin.PatchDataAt never resizes a segment).
func EncodeDescriptors(methods []Method, capacity int) ([]byte, []Descriptor, error) {
	var buf []byte
	descs := make([]Descriptor, len(methods))

	for i, m := range methods {
		d := Descriptor{Method: m, Selector: Selector(m)}
		buf = append(buf, d.Selector[:]...)

		d.NamesOffset = uint32(len(buf))
		buf = append(buf, []byte(strings.Join(names(m.Inputs), ","))...)
		buf = append(buf, 0)
		d.NamesLen = uint32(len(buf)) - d.NamesOffset - 1

		d.TypesOffset = uint32(len(buf))
		buf = append(buf, []byte(strings.Join(types(m.Inputs), ","))...)
		buf = append(buf, 0)
		d.TypesLen = uint32(len(buf)) - d.TypesOffset - 1

		d.OutputsOffset = uint32(len(buf))
		buf = append(buf, []byte(strings.Join(types(m.Outputs), ","))...)
		buf = append(buf, 0)
		d.OutputsLen = uint32(len(buf)) - d.OutputsOffset - 1

		descs[i] = d
	}

	if capacity >= 0 && len(buf) > capacity {
		return nil, nil, evmerr.ErrAbiBufferOverflow
	}
	return buf, descs, nil
}
