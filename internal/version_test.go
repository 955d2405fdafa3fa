// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetVersionSpec(t *testing.T) {
	original := Version
	t.Cleanup(func() { Version = original })

	require.Equal(t, VersionSpec{Version: "0.0.0-dev.0", Commit: "0000000000000000000000000000000000000000"},
		GetVersionSpec())

	Version = "1.4.2 (commit 13ec2b1)"
	require.Equal(t, VersionSpec{Version: "1.4.2", Commit: "13ec2b1"}, GetVersionSpec())

	Version = "custom"
	require.Equal(t, VersionSpec{Version: "custom"}, GetVersionSpec())
}
