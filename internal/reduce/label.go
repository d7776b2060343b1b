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

// Package reduce transforms an arbitrary CFG into a reducible one by
// node duplication — the "supergraph" approach (spec.md §4.3).
package reduce

import "fmt"

// ExtendedLabel pairs an original block label with a version
// distinguishing duplicates introduced by reducibility splitting
// (spec.md §3).
type ExtendedLabel struct {
	Origin  uint32
	Version int
}

func (l ExtendedLabel) String() string {
	return fmt.Sprintf("%d/%d", l.Origin, l.Version)
}

// Edge is a successor/predecessor edge between extended labels, or a
// synthetic Entry/Exit/Dynamic marker (mirrors cfg.Edge but over
// extended labels once splitting can have introduced duplicates).
type EdgeKind int

const (
	EEntry EdgeKind = iota
	EExit
	EStatic
	EDynamic
)

type Edge struct {
	Kind EdgeKind
	To   ExtendedLabel
}
