// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package events provides definitions of span names.
package events

// Command event names follow the convention cmd.<command invocation path with spaces replaced by .>.
//
// Examples:
//   - cmd.detect
//   - cmd.version
const CommandEventPrefix = "cmd."

// DetectEvent is the span of a whole detection run.
const DetectEvent = "appdetect.detect"

// ProbeEvent is the span of a single probe run against a single directory.
const ProbeEvent = "appdetect.probe"

// WorkspaceEvent is the span of workspace inspection.
const WorkspaceEvent = "appdetect.workspace"
