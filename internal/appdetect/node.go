// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appdetect

import (
	"context"
	"strings"

	"github.com/tidwall/gjson"
)

// Wrapper frameworks come before the UI library they build on, so that a Next app resolves to next and
// not react.
var nodePatterns = PatternTables{
	Framework: PatternTable{
		exact("electron", "electron"),
		prefix("@tauri-apps/", "tauri"),
		exact("react-native", "react-native"),
		exact("expo", "expo"),
		prefix("@ionic/", "ionic"),
		prefix("@capacitor/", "capacitor"),
		exact("next", "next"),
		exact("nuxt", "nuxt"),
		prefix("@remix-run/", "remix"),
		exact("gatsby", "gatsby"),
		exact("astro", "astro"),
		exact("@sveltejs/kit", "sveltekit"),
		exact("svelte", "svelte"),
		prefix("@angular/core", "angular"),
		exact("vue", "vue"),
		exact("solid-js", "solid"),
		exact("preact", "preact"),
		exact("ember-source", "ember"),
		exact("@builder.io/qwik", "qwik"),
		exact("react", "react"),
		prefix("@nestjs/", "nestjs"),
		exact("express", "express"),
		exact("fastify", "fastify"),
		exact("koa", "koa"),
		exact("@hapi/hapi", "hapi"),
		prefix("@adonisjs/", "adonis"),
		exact("@grpc/grpc-js", "grpc"),
		prefix("@oclif/", "oclif"),
		exact("commander", "commander"),
		exact("yargs", "yargs"),
	},
	ORM: PatternTable{
		exact("@prisma/client", "prisma"),
		exact("prisma", "prisma"),
		exact("typeorm", "typeorm"),
		exact("sequelize", "sequelize"),
		exact("drizzle-orm", "drizzle"),
		prefix("@mikro-orm/", "mikro-orm"),
		exact("mongoose", "mongoose"),
		exact("objection", "objection"),
		exact("knex", "knex"),
	},
	Database: PatternTable{
		exact("pg", "postgresql"),
		exact("postgres", "postgresql"),
		exact("mysql2", "mysql"),
		exact("mysql", "mysql"),
		exact("better-sqlite3", "sqlite"),
		exact("sqlite3", "sqlite"),
		exact("mongodb", "mongodb"),
		exact("mongoose", "mongodb"),
		exact("ioredis", "redis"),
		exact("redis", "redis"),
	},
}

var nodeBuildTools = PatternTable{
	exact("vite", "vite"),
	exact("webpack", "webpack"),
	exact("rollup", "rollup"),
	exact("esbuild", "esbuild"),
	exact("parcel", "parcel"),
	exact("@swc/core", "swc"),
	exact("turbo", "turborepo"),
	exact("typescript", "tsc"),
}

// lockfiles in precedence order, used when package.json has no packageManager field.
var nodeLockfiles = []struct {
	name           string
	packageManager string
}{
	{"pnpm-lock.yaml", "pnpm"},
	{"yarn.lock", "yarn"},
	{"bun.lockb", "bun"},
	{"bun.lock", "bun"},
	{"package-lock.json", "npm"},
}

type nodeProbe struct {
	manifestSet
	tables PatternTables
}

func newNodeProbe() *nodeProbe {
	return &nodeProbe{
		manifestSet: manifestSet{names: []string{"package.json"}},
		tables:      nodePatterns,
	}
}

func (p *nodeProbe) Language() Language {
	return JavaScript
}

func (p *nodeProbe) DetectManifest(ctx context.Context, dir *Dir) (*EcosystemRecord, error) {
	contents, err := dir.ReadFile("package.json")
	if err != nil {
		return nil, nil
	}

	if !gjson.ValidBytes(contents) {
		return nil, errInvalidJson
	}

	manifest := gjson.ParseBytes(contents)
	deps := []string{}
	for _, section := range []string{"dependencies", "devDependencies"} {
		manifest.Get(section).ForEach(func(key, _ gjson.Result) bool {
			deps = append(deps, key.String())
			return true
		})
	}

	record := manifestRecord(deps, p.tables.resolve(deps), p.hasStructure(dir))
	record.PackageManager = ptr(p.packageManager(dir, manifest))
	record.BuildTool = nodeBuildTools.Resolve(deps)
	record.Version = languageVersion(JavaScript, manifest.Get("engines.node").String())
	record.Executable = manifest.Get("bin").Exists()

	return record, nil
}

func (p *nodeProbe) packageManager(dir *Dir, manifest gjson.Result) string {
	if pm := manifest.Get("packageManager").String(); pm != "" {
		name, _, _ := strings.Cut(pm, "@")
		return name
	}

	for _, lock := range nodeLockfiles {
		if dir.IsFile(lock.name) {
			return lock.packageManager
		}
	}

	return "npm"
}

func (p *nodeProbe) DetectStructure(ctx context.Context, dir *Dir) (*EcosystemRecord, error) {
	if !p.hasStructure(dir) {
		return nil, nil
	}

	return structureRecord(), nil
}

// hasStructure looks for a JavaScript source layout. app/ holds the javascript of Rails apps and src/ nests
// the static assets of JVM apps, so their deep layouts only count next to a tsconfig.json or jsconfig.json.
func (p *nodeProbe) hasStructure(dir *Dir) bool {
	if dir.HasAny("src/*.{js,jsx,ts,tsx,mjs}", "pages/**/*.{js,jsx,ts,tsx}") {
		return true
	}

	return dir.HasAny("tsconfig.json", "jsconfig.json") &&
		dir.HasAny("src/**/*.{js,jsx,ts,tsx,mjs}", "app/**/*.{js,jsx,ts,tsx}")
}

func (p *nodeProbe) DetectHeuristic(ctx context.Context, dir *Dir) (*EcosystemRecord, error) {
	for _, name := range []string{"index.js", "server.js", "app.js"} {
		if dir.IsFile(name) {
			return heuristicRecord(), nil
		}
	}

	if dir.HasAny("*.js") {
		return heuristicRecord(), nil
	}

	return nil, nil
}

func (p *nodeProbe) projectName(dir *Dir) *string {
	contents, err := dir.ReadFile("package.json")
	if err != nil {
		return nil
	}

	if name := gjson.GetBytes(contents, "name").String(); name != "" {
		return ptr(name)
	}

	return nil
}
