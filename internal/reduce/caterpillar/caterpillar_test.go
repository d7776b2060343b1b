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

package caterpillar

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/n42blockchain/evm2wasm/internal/evm"
	"github.com/n42blockchain/evm2wasm/internal/reduce"
)

// mustDecode decodes hex bytecode, failing the test on error.
func mustDecode(t *testing.T, hexSrc string) *evm.Program {
	t.Helper()
	prog, err := evm.Decode(hexSrc)
	require.NoError(t, err)
	return prog
}

// TestExpandNoDynamicEdgesIsNoop is spec.md §8 scenario 5: a program
// with no dynamic jumps must come through caterpillar unchanged.
func TestExpandNoDynamicEdgesIsNoop(t *testing.T) {
	prog := mustDecode(t, "6000600055") // PUSH1 0, PUSH1 0, SSTORE

	r := &reduce.Reduced{
		Entry: reduce.ExtendedLabel{Origin: 0, Version: 0},
		Nodes: map[reduce.ExtendedLabel]*reduce.Node{
			{Origin: 0, Version: 0}: {
				Label: reduce.ExtendedLabel{Origin: 0, Version: 0},
				Edges: []reduce.Edge{{Kind: reduce.EExit}},
			},
		},
	}
	before := len(r.Nodes)

	Expand(r, prog)

	require.Len(t, r.Nodes, before)
}

// TestExpandBuildsSharedChain is spec.md §8 scenario 6: two dynamic
// jump sites sharing a chain of two equality tests, lower offset
// first, last mismatch going to Exit.
func TestExpandBuildsSharedChain(t *testing.T) {
	// JUMPDEST@0, JUMPDEST@1, STOP@2 — just need two valid destinations.
	prog := mustDecode(t, "5b5b00")

	r := &reduce.Reduced{
		Entry: reduce.ExtendedLabel{Origin: 0, Version: 0},
		Nodes: map[reduce.ExtendedLabel]*reduce.Node{
			{Origin: 10, Version: 0}: {
				Label: reduce.ExtendedLabel{Origin: 10, Version: 0},
				Edges: []reduce.Edge{{Kind: reduce.EDynamic}},
			},
			{Origin: 20, Version: 0}: {
				Label: reduce.ExtendedLabel{Origin: 20, Version: 0},
				Edges: []reduce.Edge{{Kind: reduce.EDynamic}},
			},
		},
	}

	Expand(r, prog)

	dests := prog.JumpDests()
	require.Len(t, dests, 2)

	chainHead := TestLabel(0)
	for _, origin := range []uint32{10, 20} {
		n := r.Nodes[reduce.ExtendedLabel{Origin: origin, Version: 0}]
		require.Equal(t, reduce.EStatic, n.Edges[0].Kind)
		require.Equal(t, chainHead, n.Edges[0].To)
	}

	test0 := r.Nodes[TestLabel(0)]
	require.NotNil(t, test0)
	require.Equal(t, reduce.Edge{Kind: reduce.EStatic, To: reduce.ExtendedLabel{Origin: dests[0], Version: 0}}, test0.Edges[0])
	require.Equal(t, reduce.Edge{Kind: reduce.EStatic, To: TestLabel(1)}, test0.Edges[1])

	test1 := r.Nodes[TestLabel(1)]
	require.NotNil(t, test1)
	require.Equal(t, reduce.Edge{Kind: reduce.EStatic, To: reduce.ExtendedLabel{Origin: dests[1], Version: 0}}, test1.Edges[0])
	require.Equal(t, reduce.Edge{Kind: reduce.EExit}, test1.Edges[1])
}

func TestIsTestLabel(t *testing.T) {
	require.False(t, IsTestLabel(reduce.ExtendedLabel{Origin: 5, Version: 0}))
	require.True(t, IsTestLabel(TestLabel(0)))
}
