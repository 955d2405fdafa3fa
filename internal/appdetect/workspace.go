// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appdetect

import (
	"context"
	"encoding/xml"
	"log/slog"
	"regexp"

	"github.com/pelletier/go-toml/v2"
	"github.com/stackscan/stackscan/internal/tracing"
	"github.com/stackscan/stackscan/internal/tracing/events"
	"github.com/tidwall/gjson"
	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"
)

// Workspace is the result of inspecting a root for workspace declarations.
type Workspace struct {
	Found bool
	// Tool names the workspace convention that matched.
	Tool *string
	// Members are the member globs or paths the declaration lists, if any.
	Members []string
}

// workspaceMarker checks dir for one workspace convention.
type workspaceMarker struct {
	name    string
	inspect func(ctx context.Context, dir *Dir) (tool string, members []string, found bool)
}

// Order here determines precedence. Tool specific marker files come first, then the generic
// package.json field, then markers inside compiled language manifests.
var workspaceMarkers = []workspaceMarker{
	{"pnpm-workspace.yaml", inspectPnpmWorkspace},
	{"lerna.json", inspectLerna},
	{"nx.json", markerFile("nx.json", "nx")},
	{"turbo.json", inspectTurbo},
	{"rush.json", inspectRush},
	{"package.json", inspectPackageJsonWorkspaces},
	{"go.work", inspectGoWork},
	{"Cargo.toml", inspectCargoWorkspace},
	{"pom.xml", inspectMavenModules},
}

// InspectWorkspace looks for workspace declarations at the root dir. The first marker found wins.
func InspectWorkspace(ctx context.Context, dir *Dir) Workspace {
	ctx, span := tracing.Start(ctx, events.WorkspaceEvent)
	defer span.End()

	for _, marker := range workspaceMarkers {
		if tool, members, found := marker.inspect(ctx, dir); found {
			slog.DebugContext(ctx, "workspace detected", "marker", marker.name, "tool", tool)
			return Workspace{
				Found:   true,
				Tool:    ptr(tool),
				Members: members,
			}
		}
	}

	return Workspace{}
}

func markerFile(name string, tool string) func(context.Context, *Dir) (string, []string, bool) {
	return func(_ context.Context, dir *Dir) (string, []string, bool) {
		return tool, nil, dir.IsFile(name)
	}
}

func inspectPnpmWorkspace(ctx context.Context, dir *Dir) (string, []string, bool) {
	contents, err := dir.ReadFile("pnpm-workspace.yaml")
	if err != nil {
		return "", nil, false
	}

	var ws struct {
		Packages []string `yaml:"packages"`
	}
	if err := yaml.Unmarshal(contents, &ws); err != nil {
		slog.DebugContext(ctx, "parsing pnpm-workspace.yaml", "error", err)
	}

	return "pnpm", ws.Packages, true
}

func inspectLerna(_ context.Context, dir *Dir) (string, []string, bool) {
	contents, err := dir.ReadFile("lerna.json")
	if err != nil {
		return "", nil, false
	}

	members := jsonStrings(gjson.GetBytes(contents, "packages"))
	if len(members) == 0 {
		members = packageJsonWorkspaces(dir)
	}

	return "lerna", members, true
}

func inspectTurbo(_ context.Context, dir *Dir) (string, []string, bool) {
	if !dir.IsFile("turbo.json") {
		return "", nil, false
	}

	return "turborepo", packageJsonWorkspaces(dir), true
}

func inspectRush(_ context.Context, dir *Dir) (string, []string, bool) {
	contents, err := dir.ReadFile("rush.json")
	if err != nil {
		return "", nil, false
	}

	return "rush", jsonStrings(gjson.GetBytes(contents, "projects.#.projectFolder")), true
}

func inspectPackageJsonWorkspaces(_ context.Context, dir *Dir) (string, []string, bool) {
	contents, err := dir.ReadFile("package.json")
	if err != nil || !gjson.ValidBytes(contents) {
		return "", nil, false
	}

	if !gjson.GetBytes(contents, "workspaces").Exists() {
		return "", nil, false
	}

	tool := "npm"
	switch {
	case dir.IsFile("yarn.lock"):
		tool = "yarn"
	case dir.IsFile("bun.lockb"), dir.IsFile("bun.lock"):
		tool = "bun"
	}

	return tool, packageJsonWorkspaces(dir), true
}

// packageJsonWorkspaces reads the workspaces field of package.json, which is either a list of globs
// or an object with a packages list.
func packageJsonWorkspaces(dir *Dir) []string {
	contents, err := dir.ReadFile("package.json")
	if err != nil {
		return nil
	}

	workspaces := gjson.GetBytes(contents, "workspaces")
	if workspaces.IsObject() {
		workspaces = workspaces.Get("packages")
	}

	return jsonStrings(workspaces)
}

func inspectGoWork(ctx context.Context, dir *Dir) (string, []string, bool) {
	contents, err := dir.ReadFile("go.work")
	if err != nil {
		return "", nil, false
	}

	work, err := modfile.ParseWork("go.work", contents, nil)
	if err != nil {
		slog.DebugContext(ctx, "parsing go.work", "error", err)
		return "go-workspace", nil, true
	}

	var members []string
	for _, use := range work.Use {
		members = append(members, use.Path)
	}

	return "go-workspace", members, true
}

var cargoWorkspaceRegex = regexp.MustCompile(`(?m)^\s*\[workspace\]`)

func inspectCargoWorkspace(ctx context.Context, dir *Dir) (string, []string, bool) {
	contents, err := dir.ReadFile("Cargo.toml")
	if err != nil {
		return "", nil, false
	}

	var manifest struct {
		Workspace *struct {
			Members []string `toml:"members"`
		} `toml:"workspace"`
	}
	if err := toml.Unmarshal(contents, &manifest); err != nil {
		slog.DebugContext(ctx, "parsing Cargo.toml", "error", err)
		return "cargo-workspace", nil, cargoWorkspaceRegex.Match(contents)
	}

	if manifest.Workspace == nil {
		return "", nil, false
	}

	return "cargo-workspace", manifest.Workspace.Members, true
}

func inspectMavenModules(ctx context.Context, dir *Dir) (string, []string, bool) {
	contents, err := dir.ReadFile("pom.xml")
	if err != nil {
		return "", nil, false
	}

	var project struct {
		Modules []string `xml:"modules>module"`
	}
	if err := xml.Unmarshal(contents, &project); err != nil {
		slog.DebugContext(ctx, "parsing pom.xml", "error", err)
		return "", nil, false
	}

	return "maven-modules", project.Modules, len(project.Modules) > 0
}

func jsonStrings(result gjson.Result) []string {
	var values []string
	for _, v := range result.Array() {
		if v.Type == gjson.String {
			values = append(values, v.String())
		}
	}

	return values
}
