// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appdetect

import (
	"context"
	"encoding/xml"
	"fmt"
	"path"
	"strings"
)

// Besides package references, the framework table sees the project SDK as "sdk:<name>" and enabled UI
// properties as "property:<name>".
var dotnetPatterns = PatternTables{
	Framework: PatternTable{
		exact("sdk:Microsoft.NET.Sdk.BlazorWebAssembly", "blazor"),
		prefix("Microsoft.AspNetCore.Components.WebAssembly", "blazor"),
		exact("property:UseMaui", "maui"),
		prefix("Microsoft.Maui", "maui"),
		prefix("Xamarin.Forms", "xamarin"),
		exact("property:UseWPF", "wpf"),
		exact("property:UseWindowsForms", "winforms"),
		exact("Avalonia", "avalonia"),
		exact("sdk:Microsoft.NET.Sdk.Web", "aspnet-core"),
		prefix("Microsoft.AspNetCore", "aspnet-core"),
		prefix("Grpc.AspNetCore", "grpc"),
		prefix("System.CommandLine", "system-commandline"),
	},
	ORM: PatternTable{
		prefix("Microsoft.EntityFrameworkCore", "entity-framework-core"),
		exact("EntityFramework", "entity-framework"),
		prefix("Dapper", "dapper"),
		prefix("NHibernate", "nhibernate"),
	},
	Database: PatternTable{
		prefix("Npgsql", "postgresql"),
		exact("Microsoft.EntityFrameworkCore.SqlServer", "sqlserver"),
		exact("Microsoft.Data.SqlClient", "sqlserver"),
		exact("System.Data.SqlClient", "sqlserver"),
		prefix("Pomelo.EntityFrameworkCore.MySql", "mysql"),
		prefix("MySql", "mysql"),
		exact("Microsoft.EntityFrameworkCore.Sqlite", "sqlite"),
		exact("Microsoft.Data.Sqlite", "sqlite"),
		prefix("MongoDB.Driver", "mongodb"),
		prefix("StackExchange.Redis", "redis"),
		prefix("Microsoft.Azure.Cosmos", "cosmosdb"),
	},
}

type dotnetProbe struct {
	manifestSet
	tables PatternTables
}

func newDotNetProbe() *dotnetProbe {
	return &dotnetProbe{
		manifestSet: manifestSet{patterns: []string{"*.csproj", "*.fsproj", "*.vbproj"}},
		tables:      dotnetPatterns,
	}
}

func (p *dotnetProbe) Language() Language {
	return CSharp
}

type msbuildProject struct {
	XMLName        xml.Name `xml:"Project"`
	Sdk            string   `xml:"Sdk,attr"`
	PropertyGroups []struct {
		TargetFramework  string `xml:"TargetFramework"`
		TargetFrameworks string `xml:"TargetFrameworks"`
		OutputType       string `xml:"OutputType"`
		UseWPF           string `xml:"UseWPF"`
		UseWindowsForms  string `xml:"UseWindowsForms"`
		UseMaui          string `xml:"UseMaui"`
		PackAsTool       string `xml:"PackAsTool"`
	} `xml:"PropertyGroup"`
	ItemGroups []struct {
		PackageReferences []struct {
			Include string `xml:"Include,attr"`
		} `xml:"PackageReference"`
	} `xml:"ItemGroup"`
}

// projectFile returns the first project file of dir in lexical order.
func (p *dotnetProbe) projectFile(dir *Dir) (string, bool) {
	for _, pattern := range p.patterns {
		if matches := dir.Glob(pattern); len(matches) > 0 {
			return matches[0], true
		}
	}

	return "", false
}

func (p *dotnetProbe) DetectManifest(ctx context.Context, dir *Dir) (*EcosystemRecord, error) {
	file, has := p.projectFile(dir)
	if !has {
		return nil, nil
	}

	contents, err := dir.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var project msbuildProject
	if err := xml.Unmarshal(contents, &project); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", file, err)
	}

	deps := []string{}
	for _, group := range project.ItemGroups {
		for _, ref := range group.PackageReferences {
			if ref.Include != "" {
				deps = append(deps, ref.Include)
			}
		}
	}

	signals := []string{}
	if project.Sdk != "" {
		signals = append(signals, "sdk:"+project.Sdk)
	}

	var targetFramework string
	var exe, tool bool
	for _, group := range project.PropertyGroups {
		if isTrue(group.UseWPF) {
			signals = append(signals, "property:UseWPF")
		}
		if isTrue(group.UseWindowsForms) {
			signals = append(signals, "property:UseWindowsForms")
		}
		if isTrue(group.UseMaui) {
			signals = append(signals, "property:UseMaui")
		}
		if strings.EqualFold(strings.TrimSpace(group.OutputType), "exe") {
			exe = true
		}
		if isTrue(group.PackAsTool) {
			tool = true
		}

		if targetFramework == "" {
			targetFramework = group.TargetFramework
		}
		if targetFramework == "" {
			targetFramework, _, _ = strings.Cut(group.TargetFrameworks, ";")
		}
	}

	l := p.tables.resolve(append(signals, deps...))
	record := manifestRecord(deps, l, p.hasStructure(dir))
	record.BuildTool = ptr("dotnet")
	record.PackageManager = ptr("nuget")
	record.Version = languageVersion(CSharp, targetFramework)

	// a console app without any UI or web framework, or a packaged dotnet tool
	record.Executable = tool || (exe && l.framework == nil && project.Sdk == "Microsoft.NET.Sdk")
	return record, nil
}

func isTrue(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

func (p *dotnetProbe) DetectStructure(ctx context.Context, dir *Dir) (*EcosystemRecord, error) {
	if !p.hasStructure(dir) {
		return nil, nil
	}

	return structureRecord(), nil
}

func (p *dotnetProbe) hasStructure(dir *Dir) bool {
	return dir.IsFile("Properties/launchSettings.json") || dir.IsDir("Controllers")
}

func (p *dotnetProbe) DetectHeuristic(ctx context.Context, dir *Dir) (*EcosystemRecord, error) {
	if dir.IsFile("Program.cs") || dir.HasAny("*.sln", "*.cs") {
		return heuristicRecord(), nil
	}

	return nil, nil
}

func (p *dotnetProbe) projectName(dir *Dir) *string {
	file, has := p.projectFile(dir)
	if !has {
		return nil
	}

	return ptr(strings.TrimSuffix(file, path.Ext(file)))
}
