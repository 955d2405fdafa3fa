// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appdetect

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"golang.org/x/mod/modfile"
)

var goPatterns = PatternTables{
	Framework: PatternTable{
		prefix("github.com/gin-gonic/gin", "gin"),
		prefix("github.com/labstack/echo", "echo"),
		prefix("github.com/gofiber/fiber", "fiber"),
		prefix("github.com/go-chi/chi", "chi"),
		prefix("github.com/gorilla/mux", "gorilla"),
		prefix("github.com/beego/beego", "beego"),
		prefix("github.com/gobuffalo/buffalo", "buffalo"),
		prefix("github.com/wailsapp/wails", "wails"),
		prefix("fyne.io/fyne", "fyne"),
		prefix("github.com/spf13/cobra", "cobra"),
		prefix("github.com/urfave/cli", "urfave-cli"),
		prefix("google.golang.org/grpc", "grpc"),
	},
	ORM: PatternTable{
		prefix("gorm.io/gorm", "gorm"),
		prefix("github.com/jinzhu/gorm", "gorm"),
		prefix("entgo.io/ent", "ent"),
		prefix("github.com/uptrace/bun", "bun"),
		prefix("xorm.io/xorm", "xorm"),
		prefix("github.com/jmoiron/sqlx", "sqlx"),
		prefix("github.com/sqlc-dev/pqtype", "sqlc"),
	},
	Database: PatternTable{
		prefix("github.com/jackc/pgx", "postgresql"),
		prefix("github.com/lib/pq", "postgresql"),
		prefix("gorm.io/driver/postgres", "postgresql"),
		prefix("github.com/go-sql-driver/mysql", "mysql"),
		prefix("gorm.io/driver/mysql", "mysql"),
		prefix("github.com/mattn/go-sqlite3", "sqlite"),
		prefix("modernc.org/sqlite", "sqlite"),
		prefix("gorm.io/driver/sqlite", "sqlite"),
		prefix("go.mongodb.org/mongo-driver", "mongodb"),
		prefix("github.com/redis/go-redis", "redis"),
		prefix("github.com/go-redis/redis", "redis"),
		prefix("github.com/gocql/gocql", "cassandra"),
	},
}

type goProbe struct {
	manifestSet
	tables PatternTables
}

func newGoProbe() *goProbe {
	return &goProbe{
		manifestSet: manifestSet{names: []string{"go.mod"}},
		tables:      goPatterns,
	}
}

func (p *goProbe) Language() Language {
	return Go
}

func (p *goProbe) DetectManifest(ctx context.Context, dir *Dir) (*EcosystemRecord, error) {
	mod, err := readGoMod(dir)
	if err != nil || mod == nil {
		return nil, err
	}

	deps := []string{}
	for _, req := range mod.Require {
		deps = append(deps, req.Mod.Path)
	}

	record := manifestRecord(deps, p.tables.resolve(deps), p.hasStructure(dir))
	record.BuildTool = ptr("go")
	record.PackageManager = ptr("go")

	switch {
	case mod.Go != nil:
		record.Version = languageVersion(Go, mod.Go.Version)
	case mod.Toolchain != nil:
		record.Version = languageVersion(Go, mod.Toolchain.Name)
	}

	return record, nil
}

func (p *goProbe) DetectStructure(ctx context.Context, dir *Dir) (*EcosystemRecord, error) {
	if !p.hasStructure(dir) {
		return nil, nil
	}

	return structureRecord(), nil
}

func (p *goProbe) hasStructure(dir *Dir) bool {
	return dir.HasAny("cmd/**/*.go", "internal/**/*.go", "pkg/**/*.go")
}

var (
	goImportBlockRegex  = regexp.MustCompile(`(?s)\bimport\s*\((.*?)\)`)
	goImportSingleRegex = regexp.MustCompile(`(?m)^\s*import\s+(?:[\w.]+\s+)?"([^"]+)"`)
	goImportPathRegex   = regexp.MustCompile(`"([^"]+)"`)
)

// DetectImports reads the import declarations of the go files at the root of dir. Only imports that look
// like module paths count as dependencies.
func (p *goProbe) DetectImports(ctx context.Context, dir *Dir) (*EcosystemRecord, error) {
	deps := []string{}
	seen := map[string]struct{}{}

	for _, file := range dir.Glob("*.go") {
		contents, err := dir.ReadFile(file)
		if err != nil {
			return nil, err
		}

		var paths []string
		for _, block := range goImportBlockRegex.FindAllSubmatch(contents, -1) {
			for _, m := range goImportPathRegex.FindAllSubmatch(block[1], -1) {
				paths = append(paths, string(m[1]))
			}
		}
		for _, m := range goImportSingleRegex.FindAllSubmatch(contents, -1) {
			paths = append(paths, string(m[1]))
		}

		for _, imp := range paths {
			if _, has := seen[imp]; has || !isModulePath(imp) {
				continue
			}
			seen[imp] = struct{}{}
			deps = append(deps, imp)
		}
	}

	if len(deps) == 0 {
		return nil, nil
	}

	return importsRecord(deps, p.tables.resolve(deps)), nil
}

// isModulePath reports whether imp is outside the standard library, whose import paths have no dot in
// their first element.
func isModulePath(imp string) bool {
	first, _, _ := strings.Cut(imp, "/")
	return strings.Contains(first, ".")
}

func (p *goProbe) DetectHeuristic(ctx context.Context, dir *Dir) (*EcosystemRecord, error) {
	if dir.IsFile("main.go") || len(dir.Glob("*.go")) > 0 {
		return heuristicRecord(), nil
	}

	return nil, nil
}

func (p *goProbe) projectName(dir *Dir) *string {
	mod, err := readGoMod(dir)
	if err != nil || mod == nil || mod.Module == nil {
		return nil
	}

	return ptr(path.Base(mod.Module.Mod.Path))
}

func readGoMod(dir *Dir) (*modfile.File, error) {
	contents, err := dir.ReadFile("go.mod")
	if err != nil {
		return nil, nil
	}

	mod, err := modfile.ParseLax("go.mod", contents, nil)
	if err != nil {
		return nil, fmt.Errorf("parsing go.mod: %w", err)
	}

	return mod, nil
}
