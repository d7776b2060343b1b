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

import "bytes"

// ValType is a WASM value type byte.
type ValType byte

const (
	I32 ValType = 0x7f
	I64 ValType = 0x7e
	F32 ValType = 0x7d
	F64 ValType = 0x7c
)

// FuncType is a WASM function signature.
type FuncType struct {
	Params  []ValType
	Results []ValType
}

func (f FuncType) Equal(o FuncType) bool {
	return bytes.Equal(valsToBytes(f.Params), valsToBytes(o.Params)) &&
		bytes.Equal(valsToBytes(f.Results), valsToBytes(o.Results))
}

func valsToBytes(vs []ValType) []byte {
	b := make([]byte, len(vs))
	for i, v := range vs {
		b[i] = byte(v)
	}
	return b
}

const funcTypeTag = 0x60

func decodeFuncType(r *reader) (FuncType, error) {
	tag, err := r.byte()
	if err != nil {
		return FuncType{}, err
	}
	if tag != funcTypeTag {
		return FuncType{}, errInvalidModule("func type tag")
	}
	params, err := decodeValTypes(r)
	if err != nil {
		return FuncType{}, err
	}
	results, err := decodeValTypes(r)
	if err != nil {
		return FuncType{}, err
	}
	return FuncType{Params: params, Results: results}, nil
}

func decodeValTypes(r *reader) ([]ValType, error) {
	n, err := r.uleb128()
	if err != nil {
		return nil, err
	}
	out := make([]ValType, n)
	for i := range out {
		b, err := r.byte()
		if err != nil {
			return nil, err
		}
		out[i] = ValType(b)
	}
	return out, nil
}

func encodeFuncType(buf *bytes.Buffer, f FuncType) {
	buf.WriteByte(funcTypeTag)
	encodeValTypes(buf, f.Params)
	encodeValTypes(buf, f.Results)
}

func encodeValTypes(buf *bytes.Buffer, vs []ValType) {
	PutULEB128(buf, uint64(len(vs)))
	for _, v := range vs {
		buf.WriteByte(byte(v))
	}
}
