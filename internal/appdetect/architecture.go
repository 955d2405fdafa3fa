// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appdetect

// Layout holds the root level directory signals used by classification.
type Layout struct {
	// MobileDirs is set when the root has an android/ or ios/ directory.
	MobileDirs bool
	// CLIDirs is set when the root has a cmd/ or cli/ directory.
	CLIDirs bool
}

// ReadLayout reads the layout signals of dir.
func ReadLayout(dir *Dir) Layout {
	return Layout{
		MobileDirs: dir.IsDir("android") || dir.IsDir("ios"),
		CLIDirs:    dir.IsDir("cmd") || dir.IsDir("cli"),
	}
}

type frameworkSet map[string]struct{}

func newFrameworkSet(frameworks ...string) frameworkSet {
	s := frameworkSet{}
	for _, f := range frameworks {
		s[f] = struct{}{}
	}

	return s
}

func (s frameworkSet) has(framework *string) bool {
	if framework == nil {
		return false
	}

	_, has := s[*framework]
	return has
}

var desktopFrameworks = newFrameworkSet(
	"electron", "tauri", "wails", "fyne", "wpf", "winforms", "avalonia", "javafx", "pyqt", "pyside", "gtk")

var mobileFrameworks = newFrameworkSet(
	"react-native", "expo", "ionic", "capacitor", "flutter", "maui", "xamarin", "android", "kivy")

var cliFrameworks = newFrameworkSet(
	"cobra", "urfave-cli", "clap", "click", "typer", "commander", "yargs", "oclif", "thor", "picocli",
	"symfony-console", "system-commandline")

var frontendFrameworks = newFrameworkSet(
	"react", "next", "vue", "nuxt", "angular", "svelte", "sveltekit", "solid", "preact", "remix", "gatsby",
	"astro", "ember", "qwik", "blazor", "yew", "leptos", "dioxus")

var backendFrameworks = newFrameworkSet(
	"express", "fastify", "koa", "hapi", "nestjs", "adonis",
	"gin", "echo", "fiber", "chi", "gorilla", "beego", "buffalo", "grpc",
	"spring-boot", "quarkus", "micronaut", "dropwizard", "vertx",
	"django", "flask", "fastapi", "tornado", "pyramid", "sanic", "starlette", "aiohttp",
	"rails", "sinatra", "hanami", "grape", "roda",
	"laravel", "symfony", "slim", "cakephp", "codeigniter", "yii", "laminas",
	"aspnet-core",
	"actix-web", "axum", "rocket", "warp", "poem")

// Classify assigns an architecture type and style to a set of projects. The result does not depend on
// the order of projects.
func Classify(projects []ProjectRecord, hasWorkspace bool, layout Layout) (ArchitectureType, ArchitectureStyle) {
	return classifyType(projects, hasWorkspace, layout), classifyStyle(projects)
}

func classifyType(projects []ProjectRecord, hasWorkspace bool, layout Layout) ArchitectureType {
	count := len(projects)

	switch {
	case hasWorkspace || count > 2:
		return Monorepo
	case count == 0:
		return Library
	case count == 1:
		p := projects[0]
		switch {
		case desktopFrameworks.has(p.Framework):
			return DesktopApp
		case layout.MobileDirs || mobileFrameworks.has(p.Framework):
			return MobileApp
		case layout.CLIDirs || p.Executable || cliFrameworks.has(p.Framework):
			return CliTool
		default:
			return Monolith
		}
	case count == 2:
		a, b := projects[0], projects[1]
		if (frontendFrameworks.has(a.Framework) && backendFrameworks.has(b.Framework)) ||
			(frontendFrameworks.has(b.Framework) && backendFrameworks.has(a.Framework)) {
			return WebFullstack
		}

		return Microservices
	default:
		return Microservices
	}
}

func classifyStyle(projects []ProjectRecord) ArchitectureStyle {
	if len(distinctLanguages(projects)) > 1 {
		return Polyglot
	}

	return Monoglot
}
