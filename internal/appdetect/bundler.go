// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appdetect

import (
	"context"
	"regexp"
	"strings"
)

var rubyPatterns = PatternTables{
	Framework: PatternTable{
		exact("rails", "rails"),
		exact("railties", "rails"),
		exact("hanami", "hanami"),
		exact("sinatra", "sinatra"),
		exact("grape", "grape"),
		exact("roda", "roda"),
		exact("thor", "thor"),
	},
	ORM: PatternTable{
		exact("activerecord", "active-record"),
		exact("rails", "active-record"),
		exact("sequel", "sequel"),
		exact("mongoid", "mongoid"),
		prefix("rom-", "rom"),
	},
	Database: PatternTable{
		exact("pg", "postgresql"),
		exact("mysql2", "mysql"),
		exact("trilogy", "mysql"),
		exact("sqlite3", "sqlite"),
		exact("mongoid", "mongodb"),
		exact("mongo", "mongodb"),
		exact("redis", "redis"),
	},
}

type bundlerProbe struct {
	manifestSet
	tables PatternTables
}

func newBundlerProbe() *bundlerProbe {
	return &bundlerProbe{
		manifestSet: manifestSet{
			names:    []string{"Gemfile"},
			patterns: []string{"*.gemspec"},
		},
		tables: rubyPatterns,
	}
}

func (p *bundlerProbe) Language() Language {
	return Ruby
}

var (
	gemRegex            = regexp.MustCompile(`(?m)^\s*gem\s+["']([^"']+)["']`)
	gemspecDepRegex     = regexp.MustCompile(`(?m)\.add_(?:runtime_|development_)?dependency\s*\(?\s*["']([^"']+)["']`)
	gemspecExecRegex    = regexp.MustCompile(`(?m)\.executables\s*=`)
	gemspecNameRegex    = regexp.MustCompile(`(?m)\.name\s*=\s*["']([^"']+)["']`)
	gemfileRubyRegex    = regexp.MustCompile(`(?m)^\s*ruby\s+["']([^"']+)["']`)
	gemspecRubyVerRegex = regexp.MustCompile(`required_ruby_version\s*=\s*["']([^"']+)["']`)
)

func (p *bundlerProbe) DetectManifest(ctx context.Context, dir *Dir) (*EcosystemRecord, error) {
	gemfile, gemfileErr := dir.ReadFile("Gemfile")
	gemspecs := dir.Glob("*.gemspec")
	if gemfileErr != nil && len(gemspecs) == 0 {
		return nil, nil
	}

	deps := []string{}
	var rubyVersion string
	var executable bool

	if gemfileErr == nil {
		deps = appendSubmatches(deps, gemRegex, gemfile)
		if m := gemfileRubyRegex.FindSubmatch(gemfile); m != nil {
			rubyVersion = string(m[1])
		}
	}

	for _, spec := range gemspecs {
		contents, err := dir.ReadFile(spec)
		if err != nil {
			return nil, err
		}

		deps = appendSubmatches(deps, gemspecDepRegex, contents)
		executable = executable || gemspecExecRegex.Match(contents)
		if m := gemspecRubyVerRegex.FindSubmatch(contents); m != nil && rubyVersion == "" {
			rubyVersion = string(m[1])
		}
	}

	if rubyVersion == "" {
		if contents, err := dir.ReadFile(".ruby-version"); err == nil {
			rubyVersion = strings.TrimSpace(string(contents))
		}
	}

	record := manifestRecord(deps, p.tables.resolve(deps), p.hasStructure(dir))
	record.PackageManager = ptr("bundler")
	record.BuildTool = ptr("bundler")
	if dir.IsFile("Rakefile") {
		record.BuildTool = ptr("rake")
	}
	record.Version = languageVersion(Ruby, rubyVersion)
	record.Executable = executable

	return record, nil
}

// appendSubmatches appends the first submatch of every match of re in contents.
func appendSubmatches(values []string, re *regexp.Regexp, contents []byte) []string {
	for _, m := range re.FindAllSubmatch(contents, -1) {
		values = append(values, string(m[1]))
	}

	return values
}

func (p *bundlerProbe) DetectStructure(ctx context.Context, dir *Dir) (*EcosystemRecord, error) {
	if !p.hasStructure(dir) {
		return nil, nil
	}

	return structureRecord(), nil
}

func (p *bundlerProbe) hasStructure(dir *Dir) bool {
	return (dir.IsDir("app") && dir.IsDir("config")) || dir.HasAny("lib/**/*.rb")
}

func (p *bundlerProbe) DetectHeuristic(ctx context.Context, dir *Dir) (*EcosystemRecord, error) {
	if dir.IsFile("Rakefile") || dir.IsFile("config.ru") || dir.HasAny("*.rb") {
		return heuristicRecord(), nil
	}

	return nil, nil
}

func (p *bundlerProbe) projectName(dir *Dir) *string {
	for _, spec := range dir.Glob("*.gemspec") {
		contents, err := dir.ReadFile(spec)
		if err != nil {
			continue
		}

		if m := gemspecNameRegex.FindSubmatch(contents); m != nil {
			return ptr(string(m[1]))
		}
	}

	return nil
}
