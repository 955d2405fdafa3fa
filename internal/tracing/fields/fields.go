// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package fields provides definitions for common span attribute keys.
package fields

import "go.opentelemetry.io/otel/attribute"

const ServiceNameStackScan = "stackscan"

// Probe related fields
const (
	// The language of the probe being run.
	ProbeLanguageKey = attribute.Key("probe.language")
	// Whether the probe passed its candidate check.
	ProbeCandidateKey = attribute.Key("probe.candidate")
	// The detection method of the probe result, if any.
	ProbeMethodKey = attribute.Key("probe.method")
)

// Scan related fields
const (
	// Slash separated path of the scanned directory, relative to the root.
	DirPathKey = attribute.Key("scan.dir")
	// Number of directories scanned.
	DirCountKey = attribute.Key("scan.dir.count")
	// Number of projects detected.
	ProjectCountKey = attribute.Key("scan.project.count")
	// The architecture the scan was classified as.
	ArchitectureTypeKey = attribute.Key("scan.architecture")
)

// ErrorKey returns a new Key with "error." prefix appended.
func ErrorKey(k attribute.Key) attribute.Key {
	return attribute.Key("error." + string(k))
}
