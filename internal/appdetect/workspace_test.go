// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appdetect

import (
	"context"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/require"
)

func TestInspectWorkspace(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		tool    string
		members []string
	}{
		{
			"Pnpm",
			map[string]string{
				"pnpm-workspace.yaml": "packages:\n  - 'packages/*'\n  - apps/*\n",
				"package.json":        `{"workspaces": ["ignored/*"]}`,
			},
			"pnpm",
			[]string{"packages/*", "apps/*"},
		},
		{
			"Lerna",
			map[string]string{"lerna.json": `{"packages": ["modules/*"], "version": "independent"}`},
			"lerna",
			[]string{"modules/*"},
		},
		{
			"LernaFallsBackToPackageJson",
			map[string]string{
				"lerna.json":   `{"useWorkspaces": true}`,
				"package.json": `{"workspaces": ["libs/*"]}`,
			},
			"lerna",
			[]string{"libs/*"},
		},
		{
			"Nx",
			map[string]string{"nx.json": "{}"},
			"nx",
			nil,
		},
		{
			"Turbo",
			map[string]string{
				"turbo.json":   `{"pipeline": {}}`,
				"package.json": `{"workspaces": {"packages": ["apps/*", "packages/*"]}}`,
			},
			"turborepo",
			[]string{"apps/*", "packages/*"},
		},
		{
			"Rush",
			map[string]string{
				"rush.json": heredoc.Doc(`
					{
						"projects": [
							{ "packageName": "a", "projectFolder": "apps/a" },
							{ "packageName": "b", "projectFolder": "libs/b" }
						]
					}
				`),
			},
			"rush",
			[]string{"apps/a", "libs/b"},
		},
		{
			"NpmWorkspaces",
			map[string]string{"package.json": `{"name": "root", "workspaces": ["packages/*"]}`},
			"npm",
			[]string{"packages/*"},
		},
		{
			"YarnWorkspaces",
			map[string]string{
				"package.json": `{"workspaces": ["packages/*"]}`,
				"yarn.lock":    "",
			},
			"yarn",
			[]string{"packages/*"},
		},
		{
			"BunWorkspaces",
			map[string]string{
				"package.json": `{"workspaces": ["packages/*"]}`,
				"bun.lockb":    "",
			},
			"bun",
			[]string{"packages/*"},
		},
		{
			"GoWork",
			map[string]string{
				"go.work": heredoc.Doc(`
					go 1.22

					use (
						./api
						./worker
					)
				`),
			},
			"go-workspace",
			[]string{"./api", "./worker"},
		},
		{
			"GoWorkMalformed",
			map[string]string{"go.work": "use (\n"},
			"go-workspace",
			nil,
		},
		{
			"CargoWorkspace",
			map[string]string{
				"Cargo.toml": heredoc.Doc(`
					[workspace]
					members = ["crates/core", "crates/cli"]
				`),
			},
			"cargo-workspace",
			[]string{"crates/core", "crates/cli"},
		},
		{
			"MavenModules",
			map[string]string{
				"pom.xml": heredoc.Doc(`
					<project>
						<modules>
							<module>core</module>
							<module>web</module>
						</modules>
					</project>
				`),
			},
			"maven-modules",
			[]string{"core", "web"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := InspectWorkspace(context.Background(), newTestDir(t, tt.files))
			require.True(t, ws.Found)
			require.Equal(t, tt.tool, deref(ws.Tool))
			require.Equal(t, tt.members, ws.Members)
		})
	}
}

func TestInspectWorkspace_NotFound(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"Empty", nil},
		{"PlainPackageJson", map[string]string{"package.json": `{"name": "app"}`}},
		{"InvalidPackageJson", map[string]string{"package.json": `{"workspaces": [`}},
		{"PlainCargo", map[string]string{"Cargo.toml": "[package]\nname = \"app\"\n"}},
		{"PomWithoutModules", map[string]string{"pom.xml": "<project><artifactId>a</artifactId></project>"}},
		{"NestedMarker", map[string]string{"apps/pnpm-workspace.yaml": "packages: []"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := InspectWorkspace(context.Background(), newTestDir(t, tt.files))
			require.False(t, ws.Found)
			require.Nil(t, ws.Tool)
		})
	}
}

func TestInspectWorkspace_Idempotent(t *testing.T) {
	dir := newTestDir(t, map[string]string{
		"package.json": `{"workspaces": ["packages/*"]}`,
		"yarn.lock":    "",
		"go.work":      "go 1.22\n",
	})

	first := InspectWorkspace(context.Background(), dir)
	second := InspectWorkspace(context.Background(), dir)
	require.Equal(t, first, second)
	require.Equal(t, "yarn", deref(second.Tool))
}

func TestInspectWorkspace_MalformedMarkerStillCounts(t *testing.T) {
	ws := InspectWorkspace(context.Background(), newTestDir(t, map[string]string{
		"pnpm-workspace.yaml": "packages: [unclosed",
	}))

	require.True(t, ws.Found)
	require.Equal(t, "pnpm", deref(ws.Tool))
	require.Empty(t, ws.Members)
}
