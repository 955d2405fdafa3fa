// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appdetect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLanguageVersion(t *testing.T) {
	tests := []struct {
		lang Language
		raw  string
		want string
	}{
		{Go, "1.21.3", "1.21.3"},
		{Go, "go1.22.0", "1.22.0"},
		{Php, "^8.1", "8.1"},
		{Python, ">=3.10,<4", "3.10"},
		{CSharp, "net8.0", "8.0"},
		{JavaScript, ">=18", "18"},
		{Ruby, "~> 3.2.2", "3.2.2"},
		{Java, "", "17"},
		{Rust, "stable", "1.75"},
		{Python, "*", "3.11"},
	}

	for _, tt := range tests {
		t.Run(string(tt.lang)+"/"+tt.raw, func(t *testing.T) {
			require.Equal(t, tt.want, languageVersion(tt.lang, tt.raw))
		})
	}
}

func TestFallbackVersions(t *testing.T) {
	for _, lang := range DefaultRegistry().Languages() {
		require.NotEmpty(t, fallbackVersions[lang], lang)
	}
}
