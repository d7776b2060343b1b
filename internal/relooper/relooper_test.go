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

package relooper

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/n42blockchain/evm2wasm/internal/reduce"
)

func lbl(origin uint32) reduce.ExtendedLabel { return reduce.ExtendedLabel{Origin: origin, Version: 0} }

func node(origin uint32, edges ...reduce.Edge) *reduce.Node {
	return &reduce.Node{Label: lbl(origin), Edges: edges}
}

func staticEdge(to uint32) reduce.Edge { return reduce.Edge{Kind: reduce.EStatic, To: lbl(to)} }
func exitEdge() reduce.Edge            { return reduce.Edge{Kind: reduce.EExit} }

// TestRelooperStraightLine is spec.md §8 scenario 1: a straight run of
// blocks with no branches produces a flat Actions sequence.
func TestRelooperStraightLine(t *testing.T) {
	r := &reduce.Reduced{
		Entry: lbl(0),
		Nodes: map[reduce.ExtendedLabel]*reduce.Node{
			lbl(0): node(0, staticEdge(1)),
			lbl(1): node(1, staticEdge(2)),
			lbl(2): node(2, exitEdge()),
		},
	}

	tree, err := Reloop(r)
	require.NoError(t, err)
	require.Len(t, tree, 4)
	require.Equal(t, KindActions, tree[0].Kind)
	require.Equal(t, lbl(0), tree[0].Label)
	require.Equal(t, KindActions, tree[1].Kind)
	require.Equal(t, lbl(1), tree[1].Label)
	require.Equal(t, KindActions, tree[2].Kind)
	require.Equal(t, lbl(2), tree[2].Label)
	require.Equal(t, KindReturn, tree[3].Kind)
}

// TestRelooperLoopWithExit is spec.md §8 scenario 2: a loop header
// with a conditional back edge becomes Loop(..., If(Br, Return)).
func TestRelooperLoopWithExit(t *testing.T) {
	r := &reduce.Reduced{
		Entry: lbl(0),
		Nodes: map[reduce.ExtendedLabel]*reduce.Node{
			lbl(0): node(0, staticEdge(1)),
			lbl(1): node(1, staticEdge(2), staticEdge(3)),
			lbl(2): node(2, staticEdge(1)),
			lbl(3): node(3, exitEdge()),
		},
	}

	tree, err := Reloop(r)
	require.NoError(t, err)
	require.Len(t, tree, 2)
	require.Equal(t, KindActions, tree[0].Kind)
	require.Equal(t, lbl(0), tree[0].Label)

	loopN := tree[1]
	require.Equal(t, KindLoop, loopN.Kind)
	require.Len(t, loopN.Body, 2)
	require.Equal(t, KindActions, loopN.Body[0].Kind)
	require.Equal(t, lbl(1), loopN.Body[0].Label)

	ifN := loopN.Body[1]
	require.Equal(t, KindIf, ifN.Kind)
	require.Len(t, ifN.Then, 2)
	require.Equal(t, KindActions, ifN.Then[0].Kind)
	require.Equal(t, lbl(2), ifN.Then[0].Label)
	require.Equal(t, KindBr, ifN.Then[1].Kind)
	require.Equal(t, uint32(1), ifN.Then[1].Depth)

	require.Len(t, ifN.Else, 2)
	require.Equal(t, KindActions, ifN.Else[0].Kind)
	require.Equal(t, lbl(3), ifN.Else[0].Label)
	require.Equal(t, KindReturn, ifN.Else[1].Kind)
}

// TestRelooperDiamondMerge is spec.md §8 scenario 3: two branches
// rejoining at a common successor wrap the join point in a Block so
// both arms can Br into it.
func TestRelooperDiamondMerge(t *testing.T) {
	r := &reduce.Reduced{
		Entry: lbl(0),
		Nodes: map[reduce.ExtendedLabel]*reduce.Node{
			lbl(0): node(0, staticEdge(1), staticEdge(2)),
			lbl(1): node(1, staticEdge(3)),
			lbl(2): node(2, staticEdge(3)),
			lbl(3): node(3, exitEdge()),
		},
	}

	tree, err := Reloop(r)
	require.NoError(t, err)
	require.Len(t, tree, 3)

	blockN := tree[0]
	require.Equal(t, KindBlock, blockN.Kind)
	require.Equal(t, KindActions, tree[1].Kind)
	require.Equal(t, lbl(3), tree[1].Label)
	require.Equal(t, KindReturn, tree[2].Kind)

	require.Len(t, blockN.Body, 2)
	require.Equal(t, KindActions, blockN.Body[0].Kind)
	require.Equal(t, lbl(0), blockN.Body[0].Label)

	ifN := blockN.Body[1]
	require.Equal(t, KindIf, ifN.Kind)
	require.Len(t, ifN.Then, 2)
	require.Equal(t, KindActions, ifN.Then[0].Kind)
	require.Equal(t, lbl(1), ifN.Then[0].Label)
	require.Equal(t, KindBr, ifN.Then[1].Kind)
	require.Equal(t, uint32(1), ifN.Then[1].Depth)

	require.Len(t, ifN.Else, 2)
	require.Equal(t, KindActions, ifN.Else[0].Kind)
	require.Equal(t, lbl(2), ifN.Else[0].Label)
	require.Equal(t, KindBr, ifN.Else[1].Kind)
	require.Equal(t, uint32(1), ifN.Else[1].Depth)
}
