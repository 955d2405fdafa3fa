// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appdetect

import "math"

// Signals are the evidence a manifest detection collected.
type Signals struct {
	Manifest     bool
	Structure    bool
	Dependencies bool
	Framework    bool
}

const (
	manifestWeight     = 0.4
	structureWeight    = 0.2
	dependenciesWeight = 0.2
	frameworkWeight    = 0.2
)

const (
	// StructureConfidence is the fixed confidence of a structure-only detection.
	StructureConfidence = 0.5
	// ImportsConfidence is the base confidence of an imports detection, before the framework weight.
	ImportsConfidence = 0.3
	// HeuristicConfidence is the fixed confidence of a filename-only detection. It is the lowest tier.
	HeuristicConfidence = 0.2
)

// Score combines detection signals into a confidence in [0, 1].
func Score(s Signals) float64 {
	score := 0.0
	if s.Manifest {
		score += manifestWeight
	}
	if s.Structure {
		score += structureWeight
	}
	if s.Dependencies {
		score += dependenciesWeight
	}
	if s.Framework {
		score += frameworkWeight
	}

	return clampConfidence(score)
}

func clampConfidence(c float64) float64 {
	if c < 0 || math.IsNaN(c) {
		return 0
	}
	if c > 1 {
		return 1
	}

	return c
}
