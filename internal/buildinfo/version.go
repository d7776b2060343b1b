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

// Package buildinfo holds the compiler's version string, reported by
// the -V/--version flag.
package buildinfo

import "fmt"

var (
	// Following vars are injected through build flags.
	GitCommit string
	GitBranch string
)

// Version format: Major.Minor.Build
const (
	VersionMajor    = 1
	VersionMinor    = 0
	VersionBuild    = 1
	VersionModifier = ""
)

func isStable() bool {
	return VersionModifier == "stable"
}

func withModifier(vsn string) string {
	if !isStable() && VersionModifier != "" {
		vsn += "-" + VersionModifier
	}
	return vsn
}

// Version holds the textual version string.
var Version = func() string {
	return fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionBuild)
}()

// VersionWithMeta holds the textual version string including modifier metadata.
var VersionWithMeta = func() string {
	return withModifier(Version)
}()

// VersionWithCommit appends the short git commit hash, when known, to
// VersionWithMeta.
func VersionWithCommit(gitCommit string) string {
	vsn := VersionWithMeta
	if len(gitCommit) >= 8 {
		vsn += "-" + gitCommit[:8]
	}
	return vsn
}
