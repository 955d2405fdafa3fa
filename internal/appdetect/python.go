// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appdetect

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

var pythonPatterns = PatternTables{
	Framework: PatternTable{
		exact("django", "django"),
		exact("fastapi", "fastapi"),
		exact("flask", "flask"),
		exact("starlette", "starlette"),
		exact("tornado", "tornado"),
		exact("pyramid", "pyramid"),
		exact("sanic", "sanic"),
		exact("aiohttp", "aiohttp"),
		prefix("pyqt", "pyqt"),
		prefix("pyside", "pyside"),
		exact("kivy", "kivy"),
		exact("typer", "typer"),
		exact("click", "click"),
		exact("grpcio", "grpc"),
	},
	ORM: PatternTable{
		exact("sqlmodel", "sqlmodel"),
		exact("sqlalchemy", "sqlalchemy"),
		exact("flask-sqlalchemy", "sqlalchemy"),
		exact("django", "django-orm"),
		exact("tortoise-orm", "tortoise"),
		exact("peewee", "peewee"),
		exact("pony", "pony"),
		exact("mongoengine", "mongoengine"),
		exact("beanie", "beanie"),
		exact("odmantic", "odmantic"),
	},
	Database: PatternTable{
		prefix("psycopg", "postgresql"),
		exact("asyncpg", "postgresql"),
		contains("mysql", "mysql"),
		exact("aiosqlite", "sqlite"),
		exact("pymongo", "mongodb"),
		exact("motor", "mongodb"),
		exact("mongoengine", "mongodb"),
		exact("beanie", "mongodb"),
		exact("redis", "redis"),
		exact("cassandra-driver", "cassandra"),
	},
}

var pythonBuildBackends = PatternTable{
	prefix("poetry", "poetry"),
	prefix("hatchling", "hatch"),
	prefix("setuptools", "setuptools"),
	prefix("flit", "flit"),
	prefix("pdm", "pdm"),
	prefix("maturin", "maturin"),
}

type pythonProbe struct {
	manifestSet
	tables PatternTables
}

func newPythonProbe() *pythonProbe {
	return &pythonProbe{
		manifestSet: manifestSet{names: []string{"pyproject.toml", "requirements.txt", "Pipfile", "setup.py"}},
		tables:      pythonPatterns,
	}
}

func (p *pythonProbe) Language() Language {
	return Python
}

type pyProject struct {
	Project *struct {
		Name           string            `toml:"name"`
		RequiresPython string            `toml:"requires-python"`
		Dependencies   []string          `toml:"dependencies"`
		Scripts        map[string]string `toml:"scripts"`
	} `toml:"project"`
	BuildSystem struct {
		BuildBackend string `toml:"build-backend"`
	} `toml:"build-system"`
	Tool struct {
		Poetry *struct {
			Name         string         `toml:"name"`
			Dependencies map[string]any `toml:"dependencies"`
			Scripts      map[string]any `toml:"scripts"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

type pipfile struct {
	Requires struct {
		PythonVersion string `toml:"python_version"`
	} `toml:"requires"`
}

// pythonManifest accumulates what the python manifests of a directory declare.
type pythonManifest struct {
	deps           []string
	version        string
	buildTool      string
	packageManager string
	executable     bool
}

func (m *pythonManifest) setVersion(v string) {
	if m.version == "" {
		m.version = v
	}
}

func (m *pythonManifest) setPackageManager(pm string) {
	if m.packageManager == "" {
		m.packageManager = pm
	}
}

func (p *pythonProbe) DetectManifest(ctx context.Context, dir *Dir) (*EcosystemRecord, error) {
	m := pythonManifest{deps: []string{}}

	readers := []struct {
		name string
		read func([]byte, *pythonManifest) error
	}{
		{"pyproject.toml", readPyProject},
		{"requirements.txt", readRequirements},
		{"Pipfile", readPipfile},
		{"setup.py", readSetupPy},
	}

	var errs []error
	parsed := false
	for _, r := range readers {
		contents, err := dir.ReadFile(r.name)
		if err != nil {
			continue
		}

		if err := r.read(contents, &m); err != nil {
			slog.DebugContext(ctx, "skipping python manifest", "path", dir.Path(), "manifest", r.name, "error", err)
			errs = append(errs, err)
			continue
		}
		parsed = true
	}

	// nil when no manifest exists
	if !parsed {
		return nil, errors.Join(errs...)
	}

	for _, lock := range []struct{ name, pm string }{
		{"uv.lock", "uv"},
		{"poetry.lock", "poetry"},
		{"pdm.lock", "pdm"},
		{"Pipfile.lock", "pipenv"},
	} {
		if dir.IsFile(lock.name) {
			m.setPackageManager(lock.pm)
		}
	}
	m.setPackageManager("pip")

	if contents, err := dir.ReadFile(".python-version"); err == nil {
		m.setVersion(strings.TrimSpace(string(contents)))
	}

	record := manifestRecord(m.deps, p.tables.resolve(m.deps), p.hasStructure(dir))
	record.PackageManager = ptr(m.packageManager)
	if m.buildTool != "" {
		record.BuildTool = ptr(m.buildTool)
	}
	record.Version = languageVersion(Python, m.version)
	record.Executable = m.executable

	return record, nil
}

func readPyProject(contents []byte, m *pythonManifest) error {
	var project pyProject
	if err := toml.Unmarshal(contents, &project); err != nil {
		return fmt.Errorf("parsing pyproject.toml: %w", err)
	}

	if project.Project != nil {
		for _, req := range project.Project.Dependencies {
			if name := requirementName(req); name != "" {
				m.deps = append(m.deps, name)
			}
		}
		m.setVersion(project.Project.RequiresPython)
		m.executable = m.executable || len(project.Project.Scripts) > 0
	}

	if poetry := project.Tool.Poetry; poetry != nil {
		for _, dep := range tomlTableKeys(contents, isPoetryDependencyTable) {
			if dep != "python" {
				m.deps = append(m.deps, dep)
			}
		}
		if v, ok := poetry.Dependencies["python"].(string); ok {
			m.setVersion(v)
		}
		m.executable = m.executable || len(poetry.Scripts) > 0
		m.setPackageManager("poetry")
	}

	if backend := pythonBuildBackends.Resolve([]string{project.BuildSystem.BuildBackend}); backend != nil {
		m.buildTool = *backend
	}

	return nil
}

func isPoetryDependencyTable(table string) bool {
	switch table {
	case "tool.poetry.dependencies", "tool.poetry.dev-dependencies":
		return true
	}

	return strings.HasPrefix(table, "tool.poetry.group.") && strings.HasSuffix(table, ".dependencies")
}

func readRequirements(contents []byte, m *pythonManifest) error {
	scanner := bufio.NewScanner(bytes.NewReader(contents))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}

		if name := requirementName(line); name != "" {
			m.deps = append(m.deps, name)
		}
	}

	return scanner.Err()
}

func readPipfile(contents []byte, m *pythonManifest) error {
	var pf pipfile
	if err := toml.Unmarshal(contents, &pf); err != nil {
		return fmt.Errorf("parsing Pipfile: %w", err)
	}

	m.deps = append(m.deps, tomlTableKeys(contents, func(table string) bool {
		return table == "packages" || table == "dev-packages"
	})...)
	m.setVersion(pf.Requires.PythonVersion)
	m.setPackageManager("pipenv")

	return nil
}

var (
	setupInstallRequiresRegex = regexp.MustCompile(`(?s)install_requires\s*=\s*\[(.*?)\]`)
	setupStringRegex          = regexp.MustCompile(`["']([^"']+)["']`)
	setupPythonRequiresRegex  = regexp.MustCompile(`python_requires\s*=\s*["']([^"']+)["']`)
	setupNameRegex            = regexp.MustCompile(`\bname\s*=\s*["']([^"']+)["']`)
)

func readSetupPy(contents []byte, m *pythonManifest) error {
	if block := setupInstallRequiresRegex.FindSubmatch(contents); block != nil {
		for _, s := range setupStringRegex.FindAllSubmatch(block[1], -1) {
			if name := requirementName(string(s[1])); name != "" {
				m.deps = append(m.deps, name)
			}
		}
	}

	if v := setupPythonRequiresRegex.FindSubmatch(contents); v != nil {
		m.setVersion(string(v[1]))
	}

	m.executable = m.executable || bytes.Contains(contents, []byte("console_scripts"))
	if m.buildTool == "" {
		m.buildTool = "setuptools"
	}

	return nil
}

var requirementNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._\-]*`)

// requirementName returns the distribution name of a requirement specifier like "Django[argon2]>=4.2".
// requirementName returns the lowercased distribution name of a requirement specifier. URL and VCS
// requirements like git+https://... have no name and yield "".
func requirementName(req string) string {
	req = strings.TrimSpace(req)
	name := requirementNameRegex.FindString(req)
	if rest := req[len(name):]; strings.HasPrefix(rest, "+") || strings.HasPrefix(rest, ":") {
		return ""
	}

	return strings.ToLower(name)
}

func (p *pythonProbe) DetectStructure(ctx context.Context, dir *Dir) (*EcosystemRecord, error) {
	if !p.hasStructure(dir) {
		return nil, nil
	}

	return structureRecord(), nil
}

func (p *pythonProbe) hasStructure(dir *Dir) bool {
	return dir.HasAny("src/*/__init__.py", "*/__init__.py")
}

var pythonImportRegex = regexp.MustCompile(`(?m)^\s*(?:from\s+([A-Za-z_][\w.]*)\s+import\b|import\s+([A-Za-z_][\w.]*))`)

// pythonStdlib lists common standard library modules, which are not dependencies.
var pythonStdlib = map[string]struct{}{
	"__future__": {}, "abc": {}, "argparse": {}, "asyncio": {}, "base64": {}, "collections": {},
	"concurrent": {}, "contextlib": {}, "copy": {}, "csv": {}, "dataclasses": {}, "datetime": {},
	"decimal": {}, "enum": {}, "functools": {}, "glob": {}, "hashlib": {}, "http": {}, "importlib": {},
	"io": {}, "itertools": {}, "json": {}, "logging": {}, "math": {}, "multiprocessing": {}, "os": {},
	"pathlib": {}, "pickle": {}, "random": {}, "re": {}, "shutil": {}, "signal": {}, "socket": {},
	"sqlite3": {}, "string": {}, "subprocess": {}, "sys": {}, "tempfile": {}, "threading": {}, "time": {},
	"traceback": {}, "typing": {}, "unittest": {}, "urllib": {}, "uuid": {}, "warnings": {}, "xml": {},
}

func (p *pythonProbe) DetectImports(ctx context.Context, dir *Dir) (*EcosystemRecord, error) {
	deps := []string{}
	seen := map[string]struct{}{}

	for _, file := range dir.Glob("*.py") {
		contents, err := dir.ReadFile(file)
		if err != nil {
			return nil, err
		}

		for _, m := range pythonImportRegex.FindAllSubmatch(contents, -1) {
			module := string(m[1])
			if module == "" {
				module = string(m[2])
			}

			top, _, _ := strings.Cut(strings.ToLower(module), ".")
			if _, std := pythonStdlib[top]; std {
				continue
			}
			if _, has := seen[top]; has {
				continue
			}

			seen[top] = struct{}{}
			deps = append(deps, top)
		}
	}

	if len(deps) == 0 {
		return nil, nil
	}

	return importsRecord(deps, p.tables.resolve(deps)), nil
}

func (p *pythonProbe) DetectHeuristic(ctx context.Context, dir *Dir) (*EcosystemRecord, error) {
	for _, name := range []string{"main.py", "app.py", "manage.py"} {
		if dir.IsFile(name) {
			return heuristicRecord(), nil
		}
	}

	if dir.HasAny("*.py") {
		return heuristicRecord(), nil
	}

	return nil, nil
}

func (p *pythonProbe) projectName(dir *Dir) *string {
	if contents, err := dir.ReadFile("pyproject.toml"); err == nil {
		var project pyProject
		if err := toml.Unmarshal(contents, &project); err == nil {
			switch {
			case project.Project != nil && project.Project.Name != "":
				return ptr(project.Project.Name)
			case project.Tool.Poetry != nil && project.Tool.Poetry.Name != "":
				return ptr(project.Tool.Poetry.Name)
			}
		}
	}

	if contents, err := dir.ReadFile("setup.py"); err == nil {
		if m := setupNameRegex.FindSubmatch(contents); m != nil {
			return ptr(string(m[1]))
		}
	}

	return nil
}
