// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appdetect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	require.NoError(t, r.Validate())
	require.Equal(t,
		[]Language{Java, CSharp, Go, Rust, Ruby, Php, JavaScript, Python},
		r.Languages())

	for _, e := range r.entries {
		require.NotEmpty(t, append(e.probe.ManifestNames(), e.probe.ManifestPatterns()...), e.probe.Language())
	}
}

func TestNewRegistry_Overlaps(t *testing.T) {
	tests := []struct {
		name     string
		probes   []Probe
		alwaysOn []Probe
	}{
		{
			"DuplicateLanguage",
			[]Probe{
				&testProbe{lang: Go, manifestSet: manifestSet{names: []string{"go.mod"}}},
				&testProbe{lang: Go, manifestSet: manifestSet{names: []string{"go.work"}}},
			},
			nil,
		},
		{
			"DuplicateManifestName",
			[]Probe{&testProbe{lang: JavaScript, manifestSet: manifestSet{names: []string{"package.json"}}}},
			[]Probe{&testProbe{lang: Ruby, manifestSet: manifestSet{names: []string{"Package.json"}}}},
		},
		{
			"DuplicateManifestPattern",
			[]Probe{
				&testProbe{lang: CSharp, manifestSet: manifestSet{patterns: []string{"*.csproj"}}},
				&testProbe{lang: Java, manifestSet: manifestSet{patterns: []string{"*.csproj"}}},
			},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.probes, tt.alwaysOn)
			require.Error(t, err)
		})
	}
}

func TestRegistryFilter(t *testing.T) {
	r := DefaultRegistry()

	require.Equal(t, []Language{Go, Python}, r.filter([]Language{Python, Go}, nil).Languages())
	require.Equal(t, []Language{Go}, r.filter([]Language{Python, Go}, []Language{Python}).Languages())
	require.NotContains(t, r.filter(nil, []Language{JavaScript}).Languages(), JavaScript)
	require.Len(t, r.filter(nil, nil).Languages(), len(r.Languages()))

	// filtering keeps always-on probes always-on
	filtered := r.filter([]Language{Python}, nil)
	require.True(t, filtered.entries[0].alwaysOn)
}
