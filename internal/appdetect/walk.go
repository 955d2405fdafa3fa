// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appdetect

import (
	"bytes"
	"context"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/denormal/go-gitignore"
)

// candidateDirs returns the root (".") followed by the subdirectories of fsys that may hold projects,
// in lexical walk order. Directories deeper than maxDepth, matching an exclude pattern, or ignored by the
// root .gitignore are skipped along with their contents.
func candidateDirs(ctx context.Context, fsys fs.FS, maxDepth int, excludePatterns []string) []string {
	ignore := readGitIgnore(ctx, fsys)
	dirs := []string{"."}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if p == "." {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if err != nil {
			slog.DebugContext(ctx, "skipping unreadable directory", "path", p, "error", err)
			return fs.SkipDir
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if depth(p) > maxDepth || shouldSkip(p, excludePatterns) || isIgnored(ignore, p) {
			return fs.SkipDir
		}

		dirs = append(dirs, p)
		return nil
	})
	if err != nil {
		slog.DebugContext(ctx, "scanning directories", "error", err)
	}

	return dirs
}

func depth(p string) int {
	return strings.Count(p, "/") + 1
}

func shouldSkip(p string, excludePatterns []string) bool {
	for _, pattern := range excludePatterns {
		if match, err := doublestar.Match(pattern, p); err == nil && match {
			return true
		}
	}

	return false
}

func readGitIgnore(ctx context.Context, fsys fs.FS) gitignore.GitIgnore {
	contents, err := fs.ReadFile(fsys, ".gitignore")
	if err != nil {
		return nil
	}

	return gitignore.New(bytes.NewReader(contents), ".", func(e gitignore.Error) bool {
		slog.DebugContext(ctx, "invalid .gitignore pattern", "error", e)
		return true
	})
}

func isIgnored(ignore gitignore.GitIgnore, p string) bool {
	if ignore == nil {
		return false
	}

	match := ignore.Relative(p, true)
	return match != nil && match.Ignore()
}
