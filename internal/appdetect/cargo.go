// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appdetect

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

var cargoPatterns = PatternTables{
	Framework: PatternTable{
		exact("actix-web", "actix-web"),
		exact("axum", "axum"),
		exact("rocket", "rocket"),
		exact("warp", "warp"),
		exact("poem", "poem"),
		exact("tauri", "tauri"),
		exact("leptos", "leptos"),
		exact("yew", "yew"),
		exact("dioxus", "dioxus"),
		exact("tonic", "grpc"),
		exact("clap", "clap"),
	},
	ORM: PatternTable{
		exact("diesel", "diesel"),
		exact("sea-orm", "sea-orm"),
		exact("sqlx", "sqlx"),
	},
	Database: PatternTable{
		exact("tokio-postgres", "postgresql"),
		exact("postgres", "postgresql"),
		prefix("mysql", "mysql"),
		exact("rusqlite", "sqlite"),
		exact("mongodb", "mongodb"),
		exact("redis", "redis"),
		exact("scylla", "cassandra"),
	},
}

type cargoProbe struct {
	manifestSet
	tables PatternTables
}

func newCargoProbe() *cargoProbe {
	return &cargoProbe{
		manifestSet: manifestSet{names: []string{"Cargo.toml"}},
		tables:      cargoPatterns,
	}
}

func (p *cargoProbe) Language() Language {
	return Rust
}

type cargoManifest struct {
	Package *struct {
		Name        string `toml:"name"`
		RustVersion string `toml:"rust-version"`
	} `toml:"package"`
	Bin []struct {
		Name string `toml:"name"`
	} `toml:"bin"`
}

type rustToolchain struct {
	Toolchain struct {
		Channel string `toml:"channel"`
	} `toml:"toolchain"`
}

func (p *cargoProbe) DetectManifest(ctx context.Context, dir *Dir) (*EcosystemRecord, error) {
	contents, err := dir.ReadFile("Cargo.toml")
	if err != nil {
		return nil, nil
	}

	var manifest cargoManifest
	if err := toml.Unmarshal(contents, &manifest); err != nil {
		return nil, fmt.Errorf("parsing Cargo.toml: %w", err)
	}

	deps := tomlTableKeys(contents, isCargoDependencyTable)
	record := manifestRecord(deps, p.tables.resolve(deps), p.hasStructure(dir))
	record.BuildTool = ptr("cargo")
	record.PackageManager = ptr("cargo")
	record.Executable = len(manifest.Bin) > 0

	version := ""
	if manifest.Package != nil {
		version = manifest.Package.RustVersion
	}
	if version == "" {
		version = p.toolchainChannel(dir)
	}
	record.Version = languageVersion(Rust, version)

	return record, nil
}

func (p *cargoProbe) toolchainChannel(dir *Dir) string {
	if contents, err := dir.ReadFile("rust-toolchain.toml"); err == nil {
		var tc rustToolchain
		if err := toml.Unmarshal(contents, &tc); err == nil {
			return tc.Toolchain.Channel
		}
	}

	if contents, err := dir.ReadFile("rust-toolchain"); err == nil {
		return strings.TrimSpace(string(contents))
	}

	return ""
}

func isCargoDependencyTable(table string) bool {
	switch table {
	case "dependencies", "dev-dependencies", "build-dependencies", "workspace.dependencies":
		return true
	}

	return strings.HasPrefix(table, "target.") && strings.HasSuffix(table, "dependencies")
}

var (
	tomlTableRegex = regexp.MustCompile(`^\[\s*([^\[\]]+?)\s*\]\s*(?:#.*)?$`)
	tomlKeyRegex   = regexp.MustCompile(`^["']?([A-Za-z0-9_.\-]+?)["']?\s*=`)
)

// tomlTableKeys returns the keys of every table accepted by isDepTable, in file order. A table header of the
// form [<dep table>.<name>] contributes <name>. TOML decoding into maps loses the order, which matters
// for pattern resolution.
func tomlTableKeys(contents []byte, isDepTable func(string) bool) []string {
	keys := []string{}
	current := ""

	scanner := bufio.NewScanner(bytes.NewReader(contents))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "", strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "[["):
			current = ""
			continue
		}

		if m := tomlTableRegex.FindStringSubmatch(line); m != nil {
			current = strings.ReplaceAll(m[1], `"`, "")
			if i := strings.LastIndex(current, "."); i > 0 && isDepTable(current[:i]) {
				keys = append(keys, current[i+1:])
				current = ""
			}
			continue
		}

		if !isDepTable(current) {
			continue
		}

		if m := tomlKeyRegex.FindStringSubmatch(line); m != nil {
			// dotted keys like serde.workspace = true
			key, _, _ := strings.Cut(m[1], ".")
			keys = append(keys, key)
		}
	}

	return keys
}

func (p *cargoProbe) DetectStructure(ctx context.Context, dir *Dir) (*EcosystemRecord, error) {
	if !p.hasStructure(dir) {
		return nil, nil
	}

	return structureRecord(), nil
}

func (p *cargoProbe) hasStructure(dir *Dir) bool {
	return dir.IsFile("src/main.rs") || dir.IsFile("src/lib.rs")
}

func (p *cargoProbe) DetectHeuristic(ctx context.Context, dir *Dir) (*EcosystemRecord, error) {
	if dir.IsFile("rust-toolchain.toml") || dir.IsFile("rust-toolchain") || dir.HasAny("*.rs") {
		return heuristicRecord(), nil
	}

	return nil, nil
}

func (p *cargoProbe) projectName(dir *Dir) *string {
	contents, err := dir.ReadFile("Cargo.toml")
	if err != nil {
		return nil
	}

	var manifest cargoManifest
	if err := toml.Unmarshal(contents, &manifest); err != nil || manifest.Package == nil {
		return nil
	}

	return ptr(manifest.Package.Name)
}
