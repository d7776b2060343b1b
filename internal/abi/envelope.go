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
	"encoding/json"
	"math/big"
)

// errorSelector is the standard Error(string) revert selector
// (spec.md §6.6).
var errorSelector = [4]byte{0x08, 0xc3, 0x79, 0xa0}

// envelope mirrors the JSON shape emitted by _evm_post_exec
// (spec.md §6.6). The core never encodes this at runtime — the
// runtime library does — but the shape is specified here and
// exercised by tests as documentation of that contract.
type envelope struct {
	Status string          `json:"status"`
	Output json.RawMessage `json:"output,omitempty"`
	Error  interface{}     `json:"error,omitempty"`
}

// EncodeSuccess renders {"status":"SUCCESS","output": <decoded>}.
// output should already have been passed through Coerce* below.
func EncodeSuccess(output interface{}) ([]byte, error) {
	raw, err := json.Marshal(output)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Status: "SUCCESS", Output: raw})
}

// EncodeRevert renders the REVERT envelope: decoded revert string if
// data carries the standard Error(string) selector, else "0x"+hex of
// the raw revert data.
func EncodeRevert(data []byte) ([]byte, error) {
	if len(data) >= 4 && [4]byte{data[0], data[1], data[2], data[3]} == errorSelector {
		if msg, ok := decodeErrorString(data[4:]); ok {
			return json.Marshal(envelope{Status: "REVERT", Error: msg})
		}
	}
	return json.Marshal(envelope{Status: "REVERT", Error: "0x" + hex.EncodeToString(data)})
}

// EncodeOutOfGas renders {"status":"OUT_OF_GAS"}.
func EncodeOutOfGas() ([]byte, error) {
	return json.Marshal(envelope{Status: "OUT_OF_GAS"})
}

// decodeErrorString decodes the ABI-encoded string payload that
// follows the Error(string) selector: a 32-byte offset (always 0x20),
// a 32-byte length, then the UTF-8 bytes padded to a 32-byte boundary.
func decodeErrorString(payload []byte) (string, bool) {
	if len(payload) < 64 {
		return "", false
	}
	length := new(big.Int).SetBytes(payload[32:64]).Uint64()
	if uint64(len(payload)) < 64+length {
		return "", false
	}
	return string(payload[64 : 64+length]), true
}

// maxJSONInt is the largest magnitude that fits in a JSON number
// without precision loss for this envelope's consumers.
var maxJSONInt = big.NewInt(1<<63 - 1)

// CoerceInt renders an ABI integer per spec.md §6.6: a JSON number if
// it fits in a signed 64-bit integer with magnitude at most 2^63-1,
// else a decimal string.
func CoerceInt(v *big.Int) interface{} {
	abs := new(big.Int).Abs(v)
	if abs.Cmp(maxJSONInt) <= 0 {
		return v.Int64()
	}
	return v.String()
}

// CoerceBytes renders address/bytes/fixedbytes values as "0x"+hex.
func CoerceBytes(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}
