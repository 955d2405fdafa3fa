// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stackscan/stackscan/internal"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte(heredoc.Doc(`
		maxDepth: 0
		exclude:
		  - "**/fixtures"
		languages: [go, python]
		skipLanguages: [ruby]
		probeBudget: 2s
		concurrency: 4
	`)))

	require.NoError(t, err)
	require.Equal(t, &Config{
		MaxDepth:      ptr(0),
		Exclude:       []string{"**/fixtures"},
		Languages:     []string{"go", "python"},
		SkipLanguages: []string{"ruby"},
		ProbeBudget:   2 * time.Second,
		Concurrency:   4,
	}, c)
}

func TestLoad(t *testing.T) {
	t.Run("MissingDefaultFile", func(t *testing.T) {
		c, err := Load(context.Background(), t.TempDir(), "")
		require.NoError(t, err)
		require.Equal(t, &Config{}, c)
	})

	t.Run("DefaultFile", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte("maxDepth: 3\n"), 0600))

		c, err := Load(context.Background(), root, "")
		require.NoError(t, err)
		require.Equal(t, 3, *c.MaxDepth)
	})

	t.Run("MissingExplicitFile", func(t *testing.T) {
		_, err := Load(context.Background(), t.TempDir(), filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("Malformed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("maxDepth: [\n"), 0600))

		_, err := Load(context.Background(), "", path)
		var suggestion *internal.ErrorWithSuggestion
		require.True(t, errors.As(err, &suggestion))
		require.NotEmpty(t, suggestion.Suggestion)
	})
}

func TestMerge(t *testing.T) {
	file := Config{
		MaxDepth:    ptr(1),
		Exclude:     []string{"docs"},
		Languages:   []string{"go"},
		Concurrency: 2,
	}

	merged, err := file.Merge(Config{
		MaxDepth: ptr(0),
		Exclude:  []string{"examples"},
	})
	require.NoError(t, err)

	require.Equal(t, 0, *merged.MaxDepth)
	require.Equal(t, []string{"examples"}, merged.Exclude)
	require.Equal(t, []string{"go"}, merged.Languages)
	require.Equal(t, 2, merged.Concurrency)

	// the receiver is left untouched
	require.Equal(t, 1, *file.MaxDepth)
	require.Equal(t, []string{"docs"}, file.Exclude)
}

func TestDetectOptions(t *testing.T) {
	options, err := Config{}.DetectOptions()
	require.NoError(t, err)
	require.Empty(t, options)

	options, err = Config{
		MaxDepth:      ptr(1),
		Exclude:       []string{"docs"},
		Languages:     []string{"Go"},
		SkipLanguages: []string{"python"},
		ProbeBudget:   time.Second,
		Concurrency:   3,
	}.DetectOptions()
	require.NoError(t, err)
	require.Len(t, options, 6)

	_, err = Config{Languages: []string{"cobol"}}.DetectOptions()
	var suggestion *internal.ErrorWithSuggestion
	require.True(t, errors.As(err, &suggestion))
	require.Contains(t, suggestion.Suggestion, "javascript")
}
