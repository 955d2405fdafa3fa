// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appdetect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func project(lang Language, framework string) ProjectRecord {
	p := ProjectRecord{EcosystemRecord: EcosystemRecord{Language: lang}}
	if framework != "" {
		p.Framework = ptr(framework)
	}

	return p
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		projects     []ProjectRecord
		hasWorkspace bool
		layout       Layout
		wantType     ArchitectureType
		wantStyle    ArchitectureStyle
	}{
		{"Empty", nil, false, Layout{}, Library, Monoglot},
		{"EmptyWorkspace", nil, true, Layout{}, Monorepo, Monoglot},
		{"SingleBackend", []ProjectRecord{project(Go, "gin")}, false, Layout{}, Monolith, Monoglot},
		{"SingleNoFramework", []ProjectRecord{project(Java, "")}, false, Layout{}, Monolith, Monoglot},
		{"Desktop", []ProjectRecord{project(JavaScript, "electron")}, false, Layout{}, DesktopApp, Monoglot},
		{"DesktopWinsOverCliDirs", []ProjectRecord{project(Go, "wails")}, false, Layout{CLIDirs: true}, DesktopApp, Monoglot},
		{"MobileFramework", []ProjectRecord{project(JavaScript, "react-native")}, false, Layout{}, MobileApp, Monoglot},
		{"MobileDirs", []ProjectRecord{project(JavaScript, "react")}, false, Layout{MobileDirs: true}, MobileApp, Monoglot},
		{"CliFramework", []ProjectRecord{project(Rust, "clap")}, false, Layout{}, CliTool, Monoglot},
		{"CliDirs", []ProjectRecord{project(Go, "")}, false, Layout{CLIDirs: true}, CliTool, Monoglot},
		{
			"Executable",
			[]ProjectRecord{{EcosystemRecord: EcosystemRecord{Language: JavaScript, Executable: true}}},
			false, Layout{}, CliTool, Monoglot,
		},
		{"SingleWithWorkspace", []ProjectRecord{project(JavaScript, "react")}, true, Layout{}, Monorepo, Monoglot},
		{
			"WebFullstack",
			[]ProjectRecord{project(JavaScript, "react"), project(Python, "fastapi")},
			false, Layout{}, WebFullstack, Polyglot,
		},
		{
			"WebFullstackSameLanguage",
			[]ProjectRecord{project(JavaScript, "express"), project(JavaScript, "vue")},
			false, Layout{}, WebFullstack, Monoglot,
		},
		{
			"TwoBackends",
			[]ProjectRecord{project(Go, "gin"), project(Java, "spring-boot")},
			false, Layout{}, Microservices, Polyglot,
		},
		{
			"TwoFrontends",
			[]ProjectRecord{project(JavaScript, "react"), project(JavaScript, "vue")},
			false, Layout{}, Microservices, Monoglot,
		},
		{
			"TwoWithWorkspace",
			[]ProjectRecord{project(JavaScript, "react"), project(Go, "gin")},
			true, Layout{}, Monorepo, Polyglot,
		},
		{
			"Three",
			[]ProjectRecord{project(Go, "gin"), project(Go, "echo"), project(Go, "")},
			false, Layout{}, Monorepo, Monoglot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archType, style := Classify(tt.projects, tt.hasWorkspace, tt.layout)
			require.Equal(t, tt.wantType, archType)
			require.Equal(t, tt.wantStyle, style)
		})
	}
}

func TestClassify_PermutationInvariant(t *testing.T) {
	sets := [][]ProjectRecord{
		{project(JavaScript, "next"), project(Go, "chi")},
		{project(Python, "django"), project(JavaScript, "")},
		{project(Go, "gin"), project(Python, "flask"), project(JavaScript, "react")},
		{project(Rust, "axum"), project(Rust, "yew"), project(Ruby, "rails"), project(Php, "laravel")},
	}

	for _, projects := range sets {
		for _, hasWorkspace := range []bool{false, true} {
			wantType, wantStyle := Classify(projects, hasWorkspace, Layout{})

			for _, perm := range permutations(projects) {
				archType, style := Classify(perm, hasWorkspace, Layout{})
				require.Equal(t, wantType, archType)
				require.Equal(t, wantStyle, style)
			}
		}
	}
}

func permutations(projects []ProjectRecord) [][]ProjectRecord {
	if len(projects) <= 1 {
		return [][]ProjectRecord{projects}
	}

	var result [][]ProjectRecord
	for i := range projects {
		rest := make([]ProjectRecord, 0, len(projects)-1)
		rest = append(rest, projects[:i]...)
		rest = append(rest, projects[i+1:]...)

		for _, perm := range permutations(rest) {
			result = append(result, append([]ProjectRecord{projects[i]}, perm...))
		}
	}

	return result
}

func TestReadLayout(t *testing.T) {
	require.Equal(t, Layout{}, ReadLayout(newTestDir(t, nil)))
	require.Equal(t,
		Layout{MobileDirs: true, CLIDirs: true},
		ReadLayout(newTestDir(t, map[string]string{"ios/": "", "cmd/tool/main.go": ""})))

	// files do not count
	require.Equal(t, Layout{}, ReadLayout(newTestDir(t, map[string]string{"cli": "", "android": ""})))
}
