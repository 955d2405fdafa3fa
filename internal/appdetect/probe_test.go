// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appdetect

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetect_StrategyOrder(t *testing.T) {
	dir := newTestDir(t, nil)
	manifest := &EcosystemRecord{Confidence: 0.8}
	structure := &EcosystemRecord{Confidence: StructureConfidence}
	heuristic := &EcosystemRecord{Confidence: HeuristicConfidence}

	tests := []struct {
		name   string
		probe  Probe
		method DetectionMethod
	}{
		{
			"ManifestFirst",
			&testProbe{lang: Go, manifest: found(manifest), structure: found(structure), heuristic: found(heuristic)},
			MethodManifest,
		},
		{
			"StructureBeforeHeuristic",
			&testProbe{lang: Go, structure: found(structure), heuristic: found(heuristic)},
			MethodStructure,
		},
		{
			"ImportsBeforeHeuristic",
			&testImportsProbe{
				testProbe: testProbe{lang: Python, heuristic: found(heuristic)},
				imports:   found(&EcosystemRecord{Confidence: ImportsConfidence}),
			},
			MethodImports,
		},
		{
			"HeuristicLast",
			&testProbe{lang: Go, heuristic: found(heuristic)},
			MethodHeuristic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := Detect(context.Background(), tt.probe, dir)
			require.NotNil(t, record)
			require.Equal(t, tt.method, record.DetectionMethod)
			require.Equal(t, tt.probe.Language(), record.Language)
		})
	}
}

func TestDetect_NoFinding(t *testing.T) {
	record := Detect(context.Background(), &testProbe{lang: Go}, newTestDir(t, nil))
	require.Nil(t, record)
}

func TestDetect_ErrorsAreNoFinding(t *testing.T) {
	probe := &testProbe{
		lang: Ruby,
		manifest: func(context.Context, *Dir) (*EcosystemRecord, error) {
			return nil, errors.New("malformed Gemfile")
		},
		structure: func(context.Context, *Dir) (*EcosystemRecord, error) {
			panic("boom")
		},
		heuristic: found(heuristicRecord()),
	}

	record := Detect(context.Background(), probe, newTestDir(t, nil))
	require.NotNil(t, record)
	require.Equal(t, MethodHeuristic, record.DetectionMethod)
	require.Equal(t, HeuristicConfidence, record.Confidence)
}

func TestDetect_FinalizesRecord(t *testing.T) {
	probe := &testProbe{
		lang:     Rust,
		manifest: found(&EcosystemRecord{Language: Go, Confidence: 3}),
	}

	record := Detect(context.Background(), probe, newTestDir(t, nil))
	require.NotNil(t, record)
	require.Equal(t, Rust, record.Language)
	require.Equal(t, 1.0, record.Confidence)
	require.NotNil(t, record.Dependencies)
	require.Empty(t, record.Dependencies)
	require.Equal(t, "1.75", record.Version)
}

func TestDetect_DoesNotAliasDependencies(t *testing.T) {
	deps := []string{"a", "b"}
	probe := &testProbe{lang: Go, manifest: found(&EcosystemRecord{Dependencies: deps})}

	record := Detect(context.Background(), probe, newTestDir(t, nil))
	deps[0] = "changed"
	require.Equal(t, []string{"a", "b"}, record.Dependencies)
}

func TestDetect_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	probe := &testProbe{lang: Go, manifest: found(&EcosystemRecord{})}
	require.Nil(t, Detect(ctx, probe, newTestDir(t, nil)))
}

func TestManifestSet(t *testing.T) {
	m := manifestSet{names: []string{"Gemfile"}, patterns: []string{"*.gemspec"}}

	require.True(t, m.IsLikelyCandidate(newTestDir(t, map[string]string{"Gemfile": ""})))
	require.True(t, m.IsLikelyCandidate(newTestDir(t, map[string]string{"tool.gemspec": ""})))
	require.False(t, m.IsLikelyCandidate(newTestDir(t, map[string]string{"lib/tool.gemspec": ""})))
	require.False(t, m.IsLikelyCandidate(newTestDir(t, map[string]string{"Gemfile/": ""})))

	names := m.ManifestNames()
	names[0] = "changed"
	require.Equal(t, []string{"Gemfile"}, m.ManifestNames())
}
