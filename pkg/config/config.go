// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package config loads detection settings from a .stackscan.yaml file.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/stackscan/stackscan/internal"
	"github.com/stackscan/stackscan/internal/appdetect"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the configuration file looked up in the scanned root.
const FileName = ".stackscan.yaml"

// Config holds detection settings. Zero values mean "use the default".
type Config struct {
	// MaxDepth is how many directory levels below the root are scanned. A pointer, since 0 is meaningful.
	MaxDepth *int `yaml:"maxDepth,omitempty"`

	Exclude                 []string `yaml:"exclude,omitempty"`
	OverrideDefaultExcludes bool     `yaml:"overrideDefaultExcludes,omitempty"`
	Languages               []string `yaml:"languages,omitempty"`
	SkipLanguages           []string `yaml:"skipLanguages,omitempty"`

	ProbeBudget time.Duration `yaml:"probeBudget,omitempty"`
	Concurrency int           `yaml:"concurrency,omitempty"`
}

// Parse decodes a configuration document.
func Parse(contents []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(contents, &c); err != nil {
		return nil, err
	}

	return &c, nil
}

// Load reads the configuration at path. When path is empty, the default file in root is read if it exists,
// and an empty configuration is returned otherwise.
func Load(ctx context.Context, root string, path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(root, FileName)
	}

	contents, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return &Config{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	slog.DebugContext(ctx, "reading config", "path", path)
	c, err := Parse(contents)
	if err != nil {
		return nil, &internal.ErrorWithSuggestion{
			Err:        fmt.Errorf("parsing config file %s: %w", path, err),
			Suggestion: "Fix the YAML syntax of the file, or pass a different file with --config.",
		}
	}

	return c, nil
}

// Merge returns c with every set value of override applied on top.
func (c Config) Merge(override Config) (Config, error) {
	merged := c
	merged.Exclude = slices.Clone(c.Exclude)
	merged.Languages = slices.Clone(c.Languages)
	merged.SkipLanguages = slices.Clone(c.SkipLanguages)

	if err := mergo.Merge(&merged, override, mergo.WithOverride, mergo.WithoutDereference); err != nil {
		return Config{}, fmt.Errorf("merging config: %w", err)
	}

	return merged, nil
}

// DetectOptions converts the configuration into detection options.
func (c Config) DetectOptions() ([]appdetect.DetectOption, error) {
	var options []appdetect.DetectOption

	if c.MaxDepth != nil {
		options = append(options, appdetect.WithMaxDepth(*c.MaxDepth))
	}

	if len(c.Exclude) > 0 || c.OverrideDefaultExcludes {
		options = append(options, appdetect.WithExcludePatterns(c.Exclude, c.OverrideDefaultExcludes))
	}

	include, err := parseLanguages(c.Languages)
	if err != nil {
		return nil, err
	}
	if len(include) > 0 {
		options = append(options, appdetect.WithLanguages(include...))
	}

	exclude, err := parseLanguages(c.SkipLanguages)
	if err != nil {
		return nil, err
	}
	if len(exclude) > 0 {
		options = append(options, appdetect.WithoutLanguages(exclude...))
	}

	if c.ProbeBudget != 0 {
		options = append(options, appdetect.WithProbeBudget(c.ProbeBudget))
	}

	if c.Concurrency > 0 {
		options = append(options, appdetect.WithConcurrency(c.Concurrency))
	}

	return options, nil
}

func parseLanguages(names []string) ([]appdetect.Language, error) {
	known := appdetect.DefaultRegistry().Languages()

	var languages []appdetect.Language
	for _, name := range names {
		lang := appdetect.Language(strings.ToLower(strings.TrimSpace(name)))
		if !slices.Contains(known, lang) {
			supported := make([]string, 0, len(known))
			for _, k := range known {
				supported = append(supported, string(k))
			}

			return nil, &internal.ErrorWithSuggestion{
				Err:        fmt.Errorf("unknown language %q", name),
				Suggestion: fmt.Sprintf("Supported languages are: %s.", strings.Join(supported, ", ")),
			}
		}

		languages = append(languages, lang)
	}

	return languages, nil
}
