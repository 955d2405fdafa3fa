// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package output

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func Test_ColorFormats(t *testing.T) {
	original := color.NoColor
	t.Cleanup(func() { color.NoColor = original })

	t.Run("Color", func(t *testing.T) {
		color.NoColor = false
		require.Equal(t, color.New(color.FgCyan).Sprint("go"), WithHighLightFormat("go"))
		require.Equal(t, color.New(color.FgGreen).Sprint("2 projects"), WithSuccessFormat("%d projects", 2))
		require.Contains(t, WithHighLightFormat("go"), "\x1b[36m")
		require.Equal(t, color.New(color.Bold).Sprint("report"), WithBold("report"))
		require.Contains(t, WithBold("report"), "\x1b[1m")
	})

	t.Run("No color", func(t *testing.T) {
		color.NoColor = true
		require.Equal(t, "go", WithHighLightFormat("go"))
		require.Equal(t, "warn", WithWarningFormat("warn"))
		require.Equal(t, "err", WithErrorFormat("err"))
		require.Equal(t, "0.8", WithGrayFormat("%.1f", 0.8))
	})
}
