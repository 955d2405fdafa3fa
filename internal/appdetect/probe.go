// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appdetect

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
)

// Probe detects one language ecosystem in a directory.
//
// Strategy methods return (nil, nil) when they find nothing. Errors are treated the same way by Detect,
// after being logged.
type Probe interface {
	// Language is the language of the records the probe produces.
	Language() Language
	// ManifestNames are the literal manifest file names of the ecosystem.
	ManifestNames() []string
	// ManifestPatterns are glob patterns for manifests with variable names, like *.csproj.
	ManifestPatterns() []string
	// IsLikelyCandidate is a cheap existence check for any manifest of the ecosystem.
	IsLikelyCandidate(dir *Dir) bool

	DetectManifest(ctx context.Context, dir *Dir) (*EcosystemRecord, error)
	DetectStructure(ctx context.Context, dir *Dir) (*EcosystemRecord, error)
	DetectHeuristic(ctx context.Context, dir *Dir) (*EcosystemRecord, error)
}

// ImportsProbe is implemented by probes that can detect an ecosystem from import statements in source files.
type ImportsProbe interface {
	DetectImports(ctx context.Context, dir *Dir) (*EcosystemRecord, error)
}

// projectNamer is implemented by probes that can read a project name from the manifest.
type projectNamer interface {
	projectName(dir *Dir) *string
}

type strategyFunc func(ctx context.Context, dir *Dir) (*EcosystemRecord, error)

type strategy struct {
	method DetectionMethod
	run    strategyFunc
}

func strategies(probe Probe) []strategy {
	s := []strategy{
		{MethodManifest, probe.DetectManifest},
		{MethodStructure, probe.DetectStructure},
	}

	if ip, ok := probe.(ImportsProbe); ok {
		s = append(s, strategy{MethodImports, ip.DetectImports})
	}

	return append(s, strategy{MethodHeuristic, probe.DetectHeuristic})
}

// Detect runs the strategies of probe against dir in order, and returns the first record found, or nil.
// Detect never fails: strategy errors and panics are logged and treated as "no finding".
func Detect(ctx context.Context, probe Probe, dir *Dir) *EcosystemRecord {
	for _, s := range strategies(probe) {
		if ctx.Err() != nil {
			return nil
		}

		record, err := runStrategy(ctx, s.run, dir)
		if err != nil {
			slog.DebugContext(ctx, "detection strategy failed",
				"language", probe.Language(),
				"method", s.method,
				"path", dir.Path(),
				"error", err)
			continue
		}

		if record != nil {
			return finalizeRecord(probe.Language(), s.method, record)
		}
	}

	return nil
}

func runStrategy(ctx context.Context, run strategyFunc, dir *Dir) (record *EcosystemRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			record = nil
			err = fmt.Errorf("strategy panicked: %v", r)
		}
	}()

	return run(ctx, dir)
}

// recovered returns fn(), or the zero value of T when fn panics.
func recovered[T any](ctx context.Context, probe Probe, dir *Dir, fn func() T) (result T) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			result = zero
			slog.DebugContext(ctx, "probe panicked",
				"language", probe.Language(),
				"path", dir.Path(),
				"panic", r)
		}
	}()

	return fn()
}

// finalizeRecord returns a copy of record with the invariants every record must hold.
func finalizeRecord(lang Language, method DetectionMethod, record *EcosystemRecord) *EcosystemRecord {
	result := *record
	result.Language = lang
	result.DetectionMethod = method
	result.Confidence = clampConfidence(result.Confidence)
	result.Dependencies = slices.Clone(result.Dependencies)
	if result.Dependencies == nil {
		result.Dependencies = []string{}
	}
	if result.Version == "" {
		result.Version = fallbackVersions[lang]
	}

	return &result
}

// manifestSet implements the manifest related methods of Probe.
type manifestSet struct {
	names    []string
	patterns []string
}

func (m manifestSet) ManifestNames() []string {
	return slices.Clone(m.names)
}

func (m manifestSet) ManifestPatterns() []string {
	return slices.Clone(m.patterns)
}

func (m manifestSet) IsLikelyCandidate(dir *Dir) bool {
	for _, name := range m.names {
		if dir.IsFile(name) {
			return true
		}
	}

	for _, pattern := range m.patterns {
		if len(dir.Glob(pattern)) > 0 {
			return true
		}
	}

	return false
}

// manifestRecord builds the record of a manifest detection, scoring its confidence from the signals.
func manifestRecord(deps []string, l labels, structure bool) *EcosystemRecord {
	return &EcosystemRecord{
		Framework:    l.framework,
		ORM:          l.orm,
		Database:     l.database,
		Dependencies: deps,
		Confidence: Score(Signals{
			Manifest:     true,
			Structure:    structure,
			Dependencies: len(deps) > 0,
			Framework:    l.framework != nil,
		}),
	}
}

func structureRecord() *EcosystemRecord {
	return &EcosystemRecord{Confidence: StructureConfidence}
}

func importsRecord(deps []string, l labels) *EcosystemRecord {
	confidence := ImportsConfidence
	if l.framework != nil {
		confidence += frameworkWeight
	}

	return &EcosystemRecord{
		Framework:    l.framework,
		ORM:          l.orm,
		Database:     l.database,
		Dependencies: deps,
		Confidence:   confidence,
	}
}

func heuristicRecord() *EcosystemRecord {
	return &EcosystemRecord{Confidence: HeuristicConfidence}
}
