// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package internal

import "regexp"

// The version string, as set by the linker at build time. It has the form "<semver> (commit <sha>)".
//
//	go build -ldflags "-X 'github.com/stackscan/stackscan/internal.Version=1.2.0 (commit 13ec2b1)'"
var Version = "0.0.0-dev.0 (commit 0000000000000000000000000000000000000000)"

var versionRegex = regexp.MustCompile(`^(\S+) \(commit ([0-9a-f]+)\)$`)

// VersionSpec is the structured form of Version.
type VersionSpec struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
}

// GetVersionSpec parses Version. Unrecognized values are returned as the version, with an empty commit.
func GetVersionSpec() VersionSpec {
	m := versionRegex.FindStringSubmatch(Version)
	if m == nil {
		return VersionSpec{Version: Version}
	}

	return VersionSpec{Version: m[1], Commit: m[2]}
}
