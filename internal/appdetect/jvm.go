// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appdetect

import (
	"context"
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"
)

// JVM dependencies are identified as "groupId:artifactId".
var jvmPatterns = PatternTables{
	Framework: PatternTable{
		prefix("org.springframework.boot:", "spring-boot"),
		prefix("io.quarkus:", "quarkus"),
		prefix("io.micronaut", "micronaut"),
		prefix("io.dropwizard:", "dropwizard"),
		prefix("io.vertx:", "vertx"),
		prefix("org.openjfx:", "javafx"),
		prefix("info.picocli:", "picocli"),
		prefix("io.grpc:", "grpc"),
	},
	ORM: PatternTable{
		contains("spring-boot-starter-data-jpa", "spring-data-jpa"),
		prefix("org.hibernate", "hibernate"),
		prefix("org.mybatis", "mybatis"),
		prefix("org.jooq:", "jooq"),
		prefix("org.jdbi:", "jdbi"),
		prefix("org.jetbrains.exposed:", "exposed"),
	},
	Database: PatternTable{
		exact("org.postgresql:postgresql", "postgresql"),
		exact("com.mysql:mysql-connector-j", "mysql"),
		exact("mysql:mysql-connector-java", "mysql"),
		prefix("org.mariadb.jdbc:", "mariadb"),
		exact("com.microsoft.sqlserver:mssql-jdbc", "sqlserver"),
		prefix("com.oracle.database.jdbc:", "oracle"),
		contains("spring-boot-starter-data-mongodb", "mongodb"),
		prefix("org.mongodb:", "mongodb"),
		contains("spring-boot-starter-data-redis", "redis"),
		prefix("redis.clients:", "redis"),
		prefix("com.h2database:", "h2"),
		contains("cassandra", "cassandra"),
	},
}

type jvmProbe struct {
	manifestSet
	tables PatternTables
}

func newJvmProbe() *jvmProbe {
	return &jvmProbe{
		manifestSet: manifestSet{names: []string{"pom.xml", "build.gradle", "build.gradle.kts"}},
		tables:      jvmPatterns,
	}
}

func (p *jvmProbe) Language() Language {
	return Java
}

type mavenPom struct {
	XMLName    xml.Name `xml:"project"`
	GroupId    string   `xml:"groupId"`
	ArtifactId string   `xml:"artifactId"`
	Name       string   `xml:"name"`
	Packaging  string   `xml:"packaging"`
	Properties struct {
		Entries []mavenProperty `xml:",any"`
	} `xml:"properties"`
	Dependencies []mavenDependency `xml:"dependencies>dependency"`
}

type mavenProperty struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type mavenDependency struct {
	GroupId    string `xml:"groupId"`
	ArtifactId string `xml:"artifactId"`
}

func (p *jvmProbe) DetectManifest(ctx context.Context, dir *Dir) (*EcosystemRecord, error) {
	if contents, err := dir.ReadFile("pom.xml"); err == nil {
		pom, err := parsePom(contents)
		if err != nil {
			return nil, err
		}

		deps := []string{}
		for _, dep := range pom.Dependencies {
			deps = append(deps, dep.GroupId+":"+dep.ArtifactId)
		}

		record := manifestRecord(deps, p.tables.resolve(deps), p.hasStructure(dir))
		record.BuildTool = ptr("maven")
		record.PackageManager = ptr("maven")
		record.Version = languageVersion(Java, pom.javaVersion())
		return record, nil
	}

	for _, name := range []string{"build.gradle.kts", "build.gradle"} {
		contents, err := dir.ReadFile(name)
		if err != nil {
			continue
		}

		deps := gradleDependencies(contents)
		record := manifestRecord(deps, p.tables.resolve(deps), p.hasStructure(dir))
		record.BuildTool = ptr("gradle")
		record.PackageManager = ptr("gradle")
		record.Version = languageVersion(Java, gradleJavaVersion(contents))
		return record, nil
	}

	return nil, nil
}

func parsePom(contents []byte) (mavenPom, error) {
	var pom mavenPom
	if err := xml.Unmarshal(contents, &pom); err != nil {
		return mavenPom{}, fmt.Errorf("parsing pom.xml: %w", err)
	}

	return pom, nil
}

func (pom mavenPom) javaVersion() string {
	for _, key := range []string{"java.version", "maven.compiler.release", "maven.compiler.source"} {
		for _, prop := range pom.Properties.Entries {
			if prop.XMLName.Local == key {
				return strings.TrimSpace(prop.Value)
			}
		}
	}

	return ""
}

var (
	gradleDependencyRegex = regexp.MustCompile(
		`(?m)^\s*(?:implementation|api|compileOnly|runtimeOnly|testImplementation|annotationProcessor|kapt)` +
			`\s*\(?\s*["']([^:"'\s]+):([^:"'\s]+)`)
	gradlePluginRegex      = regexp.MustCompile(`id\s*\(?\s*["'](org\.springframework\.boot|io\.quarkus|io\.micronaut\.application)["']`)
	gradleJavaVersionRegex = regexp.MustCompile(
		`(?:sourceCompatibility\s*=\s*(?:JavaVersion\.VERSION_)?['"]?([\d_.]+)|languageVersion(?:\.set)?\s*[=(]\s*JavaLanguageVersion\.of\((\d+)\))`)
)

// gradleDependencies extracts "group:artifact" coordinates from a gradle build script. Applied framework
// plugins count as dependencies so that plugin-only builds still resolve a framework.
func gradleDependencies(contents []byte) []string {
	deps := []string{}
	for _, m := range gradlePluginRegex.FindAllSubmatch(contents, -1) {
		deps = append(deps, string(m[1])+":plugin")
	}
	for _, m := range gradleDependencyRegex.FindAllSubmatch(contents, -1) {
		deps = append(deps, string(m[1])+":"+string(m[2]))
	}

	return deps
}

func gradleJavaVersion(contents []byte) string {
	m := gradleJavaVersionRegex.FindSubmatch(contents)
	if m == nil {
		return ""
	}

	version := string(m[1])
	if version == "" {
		version = string(m[2])
	}

	return strings.ReplaceAll(version, "_", ".")
}

func (p *jvmProbe) DetectStructure(ctx context.Context, dir *Dir) (*EcosystemRecord, error) {
	if !p.hasStructure(dir) {
		return nil, nil
	}

	return structureRecord(), nil
}

func (p *jvmProbe) hasStructure(dir *Dir) bool {
	return dir.IsDir("src/main/java") || dir.IsDir("src/main/kotlin")
}

func (p *jvmProbe) DetectHeuristic(ctx context.Context, dir *Dir) (*EcosystemRecord, error) {
	if dir.IsFile("mvnw") || dir.IsFile("gradlew") || dir.HasAny("*.java") {
		return heuristicRecord(), nil
	}

	return nil, nil
}

func (p *jvmProbe) projectName(dir *Dir) *string {
	contents, err := dir.ReadFile("pom.xml")
	if err != nil {
		return nil
	}

	pom, err := parsePom(contents)
	if err != nil || pom.ArtifactId == "" {
		return nil
	}

	return ptr(pom.ArtifactId)
}
