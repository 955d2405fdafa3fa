// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appdetect

type Language string

const (
	Go         Language = "go"
	Java       Language = "java"
	CSharp     Language = "csharp"
	Rust       Language = "rust"
	Ruby       Language = "ruby"
	Php        Language = "php"
	JavaScript Language = "javascript"
	Python     Language = "python"
)

func (l Language) Display() string {
	switch l {
	case Go:
		return "Go"
	case Java:
		return "Java"
	case CSharp:
		return "C#"
	case Rust:
		return "Rust"
	case Ruby:
		return "Ruby"
	case Php:
		return "PHP"
	case JavaScript:
		return "JavaScript"
	case Python:
		return "Python"
	}

	return string(l)
}

// DetectionMethod records which strategy produced an EcosystemRecord.
type DetectionMethod string

const (
	MethodManifest  DetectionMethod = "manifest"
	MethodStructure DetectionMethod = "structure"
	MethodImports   DetectionMethod = "imports"
	MethodHeuristic DetectionMethod = "heuristic"
)

// EcosystemRecord is one ecosystem detected in one location.
//
// Optional labels are nil when they could not be determined. A nil Framework does not mean that the
// project has no framework.
type EcosystemRecord struct {
	Language       Language `json:"language" yaml:"language"`
	Framework      *string  `json:"framework,omitempty" yaml:"framework,omitempty"`
	ORM            *string  `json:"orm,omitempty" yaml:"orm,omitempty"`
	Database       *string  `json:"database,omitempty" yaml:"database,omitempty"`
	BuildTool      *string  `json:"buildTool,omitempty" yaml:"buildTool,omitempty"`
	PackageManager *string  `json:"packageManager,omitempty" yaml:"packageManager,omitempty"`
	Version        string   `json:"version" yaml:"version"`

	// Dependencies in manifest order, duplicates included.
	Dependencies []string `json:"dependencies" yaml:"dependencies"`

	// Executable is set when the manifest declares an executable entry point.
	Executable bool `json:"executable,omitempty" yaml:"executable,omitempty"`

	Confidence      float64         `json:"confidence" yaml:"confidence"`
	DetectionMethod DetectionMethod `json:"detectionMethod" yaml:"detectionMethod"`
}

// ProjectRecord is an EcosystemRecord located in the scanned tree.
type ProjectRecord struct {
	Name *string `json:"name,omitempty" yaml:"name,omitempty"`

	// Path is slash separated and relative to the scanned root. The root itself is ".".
	Path string `json:"path" yaml:"path"`

	EcosystemRecord `yaml:",inline"`
}

type ArchitectureType string

const (
	Monolith      ArchitectureType = "monolith"
	Monorepo      ArchitectureType = "monorepo"
	Microservices ArchitectureType = "microservices"
	WebFullstack  ArchitectureType = "web-fullstack"
	CliTool       ArchitectureType = "cli-tool"
	DesktopApp    ArchitectureType = "desktop-app"
	MobileApp     ArchitectureType = "mobile-app"
	Library       ArchitectureType = "library"
)

type ArchitectureStyle string

const (
	Monoglot ArchitectureStyle = "monoglot"
	Polyglot ArchitectureStyle = "polyglot"
)

// ArchitectureReport is the result of classifying a source tree.
type ArchitectureReport struct {
	Type          ArchitectureType  `json:"type" yaml:"type"`
	Style         ArchitectureStyle `json:"style" yaml:"style"`
	ProjectCount  int               `json:"projectCount" yaml:"projectCount"`
	HasWorkspace  bool              `json:"hasWorkspace" yaml:"hasWorkspace"`
	WorkspaceTool *string           `json:"workspaceTool,omitempty" yaml:"workspaceTool,omitempty"`

	// WorkspaceMembers are the member globs declared by the workspace marker, if any.
	WorkspaceMembers []string `json:"workspaceMembers,omitempty" yaml:"workspaceMembers,omitempty"`

	Projects []ProjectRecord `json:"projects" yaml:"projects"`
}

// Languages returns the distinct languages of the report's projects, in first-seen order.
func (r *ArchitectureReport) Languages() []Language {
	return distinctLanguages(r.Projects)
}

func distinctLanguages(projects []ProjectRecord) []Language {
	seen := map[Language]struct{}{}
	var languages []Language
	for _, p := range projects {
		if _, has := seen[p.Language]; has {
			continue
		}
		seen[p.Language] = struct{}{}
		languages = append(languages, p.Language)
	}

	return languages
}

func ptr[T any](v T) *T {
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
