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

package dom

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/n42blockchain/evm2wasm/internal/reduce"
)

func label(origin uint32) reduce.ExtendedLabel {
	return reduce.ExtendedLabel{Origin: origin, Version: 0}
}

func TestBuildLinearChain(t *testing.T) {
	succs := map[reduce.ExtendedLabel][]reduce.ExtendedLabel{
		label(0): {label(1)},
		label(1): {label(2)},
		label(2): {},
	}
	tree := Build(label(0), succs)
	require.Equal(t, []reduce.ExtendedLabel{label(1)}, tree.ImmediatelyDominatedBy(label(0)))
	require.Equal(t, []reduce.ExtendedLabel{label(2)}, tree.ImmediatelyDominatedBy(label(1)))
	require.Empty(t, tree.ImmediatelyDominatedBy(label(2)))
}

// TestBuildDiamond covers a branch that rejoins: the merge point's
// immediate dominator is the branch node itself, not either arm.
func TestBuildDiamond(t *testing.T) {
	succs := map[reduce.ExtendedLabel][]reduce.ExtendedLabel{
		label(0): {label(1), label(2)},
		label(1): {label(3)},
		label(2): {label(3)},
		label(3): {},
	}
	tree := Build(label(0), succs)
	children := tree.ImmediatelyDominatedBy(label(0))
	require.ElementsMatch(t, []reduce.ExtendedLabel{label(1), label(2), label(3)}, children)
}

// TestBuildLoop covers a loop header dominating its own body.
func TestBuildLoop(t *testing.T) {
	succs := map[reduce.ExtendedLabel][]reduce.ExtendedLabel{
		label(0): {label(1)},
		label(1): {label(2), label(3)},
		label(2): {label(1)},
		label(3): {},
	}
	tree := Build(label(0), succs)
	require.Equal(t, []reduce.ExtendedLabel{label(1)}, tree.ImmediatelyDominatedBy(label(0)))
	require.ElementsMatch(t, []reduce.ExtendedLabel{label(2), label(3)}, tree.ImmediatelyDominatedBy(label(1)))
}
