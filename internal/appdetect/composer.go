// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appdetect

import (
	"context"
	"errors"

	"github.com/tidwall/gjson"
)

var errInvalidJson = errors.New("invalid json")

var phpPatterns = PatternTables{
	Framework: PatternTable{
		exact("laravel/framework", "laravel"),
		exact("laravel/lumen-framework", "laravel"),
		exact("symfony/framework-bundle", "symfony"),
		prefix("slim/slim", "slim"),
		exact("cakephp/cakephp", "cakephp"),
		prefix("codeigniter", "codeigniter"),
		prefix("yiisoft/yii", "yii"),
		prefix("laminas/laminas-mvc", "laminas"),
		exact("symfony/console", "symfony-console"),
	},
	ORM: PatternTable{
		exact("doctrine/orm", "doctrine"),
		exact("laravel/framework", "eloquent"),
		exact("illuminate/database", "eloquent"),
		prefix("propel/", "propel"),
		prefix("cycle/orm", "cycle"),
	},
	Database: PatternTable{
		contains("pgsql", "postgresql"),
		contains("mysql", "mysql"),
		contains("sqlite", "sqlite"),
		contains("mongodb", "mongodb"),
		exact("predis/predis", "redis"),
		exact("ext-redis", "redis"),
	},
}

type composerProbe struct {
	manifestSet
	tables PatternTables
}

func newComposerProbe() *composerProbe {
	return &composerProbe{
		manifestSet: manifestSet{names: []string{"composer.json"}},
		tables:      phpPatterns,
	}
}

func (p *composerProbe) Language() Language {
	return Php
}

func (p *composerProbe) DetectManifest(ctx context.Context, dir *Dir) (*EcosystemRecord, error) {
	contents, err := dir.ReadFile("composer.json")
	if err != nil {
		return nil, nil
	}

	if !gjson.ValidBytes(contents) {
		return nil, errInvalidJson
	}

	manifest := gjson.ParseBytes(contents)
	deps := []string{}
	for _, section := range []string{"require", "require-dev"} {
		manifest.Get(section).ForEach(func(key, _ gjson.Result) bool {
			if key.String() != "php" {
				deps = append(deps, key.String())
			}
			return true
		})
	}

	record := manifestRecord(deps, p.tables.resolve(deps), p.hasStructure(dir))
	record.BuildTool = ptr("composer")
	record.PackageManager = ptr("composer")
	record.Version = languageVersion(Php, manifest.Get("require.php").String())
	record.Executable = manifest.Get("bin").Exists()

	return record, nil
}

func (p *composerProbe) DetectStructure(ctx context.Context, dir *Dir) (*EcosystemRecord, error) {
	if !p.hasStructure(dir) {
		return nil, nil
	}

	return structureRecord(), nil
}

func (p *composerProbe) hasStructure(dir *Dir) bool {
	return dir.IsFile("public/index.php") || dir.IsDir("app/Http") || dir.HasAny("src/**/*.php")
}

func (p *composerProbe) DetectHeuristic(ctx context.Context, dir *Dir) (*EcosystemRecord, error) {
	if dir.IsFile("artisan") || dir.IsFile("index.php") || dir.HasAny("*.php") {
		return heuristicRecord(), nil
	}

	return nil, nil
}

func (p *composerProbe) projectName(dir *Dir) *string {
	contents, err := dir.ReadFile("composer.json")
	if err != nil {
		return nil
	}

	if name := gjson.GetBytes(contents, "name").String(); name != "" {
		return ptr(name)
	}

	return nil
}
