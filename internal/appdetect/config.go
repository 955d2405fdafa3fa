// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appdetect

import (
	"time"

	"github.com/benbjohnson/clock"
)

const (
	defaultMaxDepth    = 2
	defaultProbeBudget = 10 * time.Second
	defaultConcurrency = 8
)

func newConfig(options ...DetectOption) detectConfig {
	c := detectConfig{
		defaultExcludePatterns: []string{
			"**/node_modules",
			"**/[Tt]arget",
			"**/[Oo]ut",
			"**/[Dd]ist",
			"**/[Bb]in",
			"**/[oO]bj",
			"**/vendor",
			"**/__pycache__",
			"**/venv",
			"**/docs",
			"**/examples",
			"**/testdata",
			"**/fixtures",
			// native shells of cross-platform mobile apps
			"**/android",
			"**/ios",
			"**/.*",
		},
		maxDepth:    defaultMaxDepth,
		probeBudget: defaultProbeBudget,
		concurrency: defaultConcurrency,
	}

	for _, opt := range options {
		c = opt.apply(c)
	}

	if c.defaultExcludePatterns != nil {
		c.ExcludePatterns = append(c.defaultExcludePatterns, c.ExcludePatterns...)
	}

	if c.registry == nil {
		r := DefaultRegistry()
		c.registry = &r
	}
	filtered := c.registry.filter(c.IncludeLanguages, c.ExcludeLanguages)
	c.registry = &filtered

	if c.clock == nil {
		c.clock = clock.New()
	}

	if c.concurrency < 1 {
		c.concurrency = 1
	}

	return c
}

type DetectOption interface {
	apply(detectConfig) detectConfig
}

type detectConfig struct {
	// Project languages to be detected. If unset, all registered languages are included.
	IncludeLanguages []Language
	// Project languages to be excluded from detection.
	ExcludeLanguages []Language

	// Exclude patterns for directories scanned below the root.
	// By default, build and package cache directories like **/dist, **/bin, **/node_modules are automatically excluded.
	// Any hidden directories (directories starting with '.') are also excluded.
	// Set overrideDefaults in WithExcludePatterns(patterns, overrideDefaults) to choose whether to override defaults.
	ExcludePatterns []string

	// Internal usage fields
	defaultExcludePatterns []string
	registry               *Registry
	maxDepth               int
	probeBudget            time.Duration
	concurrency            int
	clock                  clock.Clock
}

type detectOptionFunc func(detectConfig) detectConfig

func (f detectOptionFunc) apply(c detectConfig) detectConfig {
	return f(c)
}

// WithExcludePatterns excludes directories matching the doublestar patterns from the scan.
func WithExcludePatterns(patterns []string, overrideDefaults bool) DetectOption {
	return detectOptionFunc(func(c detectConfig) detectConfig {
		if overrideDefaults {
			c.defaultExcludePatterns = nil
		}

		c.ExcludePatterns = append(c.ExcludePatterns, patterns...)
		return c
	})
}

// WithLanguages restricts detection to the given languages.
func WithLanguages(languages ...Language) DetectOption {
	return detectOptionFunc(func(c detectConfig) detectConfig {
		c.IncludeLanguages = append(c.IncludeLanguages, languages...)
		return c
	})
}

// WithoutLanguages excludes the given languages from detection.
func WithoutLanguages(languages ...Language) DetectOption {
	return detectOptionFunc(func(c detectConfig) detectConfig {
		c.ExcludeLanguages = append(c.ExcludeLanguages, languages...)
		return c
	})
}

// WithMaxDepth sets how many directory levels below the root are scanned for projects.
// Zero scans the root only.
func WithMaxDepth(depth int) DetectOption {
	return detectOptionFunc(func(c detectConfig) detectConfig {
		c.maxDepth = max(depth, 0)
		return c
	})
}

// WithProbeBudget sets the soft time budget of a single probe run. Probes exceeding it are
// left out of the report. A non-positive budget waits indefinitely.
func WithProbeBudget(budget time.Duration) DetectOption {
	return detectOptionFunc(func(c detectConfig) detectConfig {
		c.probeBudget = budget
		return c
	})
}

// WithConcurrency sets how many probes may run at the same time.
func WithConcurrency(n int) DetectOption {
	return detectOptionFunc(func(c detectConfig) detectConfig {
		c.concurrency = n
		return c
	})
}

// WithRegistry replaces the built-in probes.
func WithRegistry(r Registry) DetectOption {
	return detectOptionFunc(func(c detectConfig) detectConfig {
		c.registry = &r
		return c
	})
}

// WithClock sets the clock used to measure probe budgets.
func WithClock(clk clock.Clock) DetectOption {
	return detectOptionFunc(func(c detectConfig) detectConfig {
		c.clock = clk
		return c
	})
}
