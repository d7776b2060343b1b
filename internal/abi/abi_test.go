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
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignature(t *testing.T) {
	m := Method{
		Name:   "multiply",
		Inputs: []Param{{Name: "a", Type: "int256"}, {Name: "b", Type: "int256"}},
	}
	require.Equal(t, "multiply(int256,int256)", Signature(m))
}

// TestSelectorMultiply matches the evm2near scenario fixture
// (spec.md §8 scenario 2): multiply(int256,int256) selects 0x3c4308a8.
func TestSelectorMultiply(t *testing.T) {
	m := Method{
		Name:   "multiply",
		Inputs: []Param{{Name: "a", Type: "int256"}, {Name: "b", Type: "int256"}},
	}
	sel := Selector(m)
	require.Equal(t, "3c4308a8", hex.EncodeToString(sel[:]))
}

func TestSelectorNoArgs(t *testing.T) {
	m := Method{Name: "answer", Outputs: []Param{{Type: "uint256"}}}
	sel := Selector(m)
	require.Len(t, sel, 4)
	require.Equal(t, "answer()", Signature(m))
}

func TestEncodeDescriptorsLayout(t *testing.T) {
	methods := []Method{
		{
			Name:    "multiply",
			Inputs:  []Param{{Name: "a", Type: "int256"}, {Name: "b", Type: "int256"}},
			Outputs: []Param{{Type: "int256"}},
		},
		{Name: "answer", Outputs: []Param{{Type: "uint256"}}},
	}

	buf, descs, err := EncodeDescriptors(methods, -1)
	require.NoError(t, err)
	require.Len(t, descs, 2)

	first := descs[0]
	require.Equal(t, Selector(methods[0]), first.Selector)
	require.Equal(t, "a,b", string(buf[first.NamesOffset:first.NamesOffset+first.NamesLen]))
	require.Equal(t, byte(0), buf[first.NamesOffset+first.NamesLen])
	require.Equal(t, "int256,int256", string(buf[first.TypesOffset:first.TypesOffset+first.TypesLen]))
	require.Equal(t, "int256", string(buf[first.OutputsOffset:first.OutputsOffset+first.OutputsLen]))

	second := descs[1]
	require.Equal(t, Selector(methods[1]), second.Selector)
	require.Equal(t, "", string(buf[second.NamesOffset:second.NamesOffset+second.NamesLen]))
	require.Equal(t, "uint256", string(buf[second.OutputsOffset:second.OutputsOffset+second.OutputsLen]))

	require.True(t, int(second.OutputsOffset+second.OutputsLen) < len(buf))
}

func TestEncodeDescriptorsOverflow(t *testing.T) {
	methods := []Method{{Name: "answer", Outputs: []Param{{Type: "uint256"}}}}
	_, _, err := EncodeDescriptors(methods, 4)
	require.Error(t, err)
}

func TestLoadMethods(t *testing.T) {
	r := strings.NewReader(`[{"name":"multiply","inputs":[{"name":"a","type":"int256"},{"name":"b","type":"int256"}],"outputs":[{"type":"int256"}]}]`)
	methods, err := LoadMethods(r)
	require.NoError(t, err)
	require.Len(t, methods, 1)
	require.Equal(t, "multiply", methods[0].Name)
}

func TestLoadMethodsRejectsUnknownType(t *testing.T) {
	r := strings.NewReader(`[{"name":"f","inputs":[{"name":"x","type":"tuple"}]}]`)
	_, err := LoadMethods(r)
	require.Error(t, err)
}

func TestEncodeSuccess(t *testing.T) {
	out, err := EncodeSuccess(CoerceInt(big.NewInt(42)))
	require.NoError(t, err)
	require.JSONEq(t, `{"status":"SUCCESS","output":42}`, string(out))
}

func TestEncodeRevertErrorString(t *testing.T) {
	// Error("boom") ABI-encoded: selector ‖ offset(0x20) ‖ len(4) ‖ "boom" padded.
	var data []byte
	data = append(data, 0x08, 0xc3, 0x79, 0xa0)
	offset := make([]byte, 32)
	offset[31] = 0x20
	data = append(data, offset...)
	length := make([]byte, 32)
	length[31] = 4
	data = append(data, length...)
	payload := make([]byte, 32)
	copy(payload, "boom")
	data = append(data, payload...)

	out, err := EncodeRevert(data)
	require.NoError(t, err)
	require.JSONEq(t, `{"status":"REVERT","error":"boom"}`, string(out))
}

func TestEncodeRevertOtherData(t *testing.T) {
	out, err := EncodeRevert([]byte{0xde, 0xad})
	require.NoError(t, err)
	require.JSONEq(t, `{"status":"REVERT","error":"0xdead"}`, string(out))
}

func TestEncodeOutOfGas(t *testing.T) {
	out, err := EncodeOutOfGas()
	require.NoError(t, err)
	require.JSONEq(t, `{"status":"OUT_OF_GAS"}`, string(out))
}

func TestCoerceIntLargeBecomesString(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 200)
	v := CoerceInt(huge)
	require.Equal(t, huge.String(), v)
}

func TestCoerceBytes(t *testing.T) {
	require.Equal(t, "0xdeadbeef", CoerceBytes([]byte{0xde, 0xad, 0xbe, 0xef}))
}
