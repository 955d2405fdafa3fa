// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package appdetect classifies the technology stack of a source tree.
//
// Ecosystems are detected by probes, one per language ecosystem. Each probe is tried with the
// following strategies, in order, stopping at the first one that finds something:
//  1. Manifest: the canonical manifest file (go.mod, pom.xml, package.json, ...) is read and its
//     dependencies are matched against ordered pattern tables to resolve framework, ORM and database.
//  2. Structure: the idiomatic directory layout of the ecosystem is present.
//  3. Imports: representative source files are scanned for import statements (optional per probe).
//  4. Heuristic: a telltale filename is present.
//
// The detected projects, together with workspace markers found at the root, are then classified into
// an overall architecture.
//
//   - `DetectAll()` to produce an ArchitectureReport for a directory on disk.
//   - `DetectFS()` to do the same for an arbitrary fs.FS.
//   - `Detect()` to run a single probe against a single directory.
//
// Detection is read-only and best-effort: malformed manifests and unreadable files degrade to
// "no finding" and never surface as errors.
package appdetect
