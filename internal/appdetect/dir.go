// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appdetect

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/bmatcuk/doublestar/v4"
	lru "github.com/hashicorp/golang-lru/v2"
)

// maxManifestSize bounds how much of a single file is read.
const maxManifestSize = 4 << 20

const defaultReadCacheSize = 256

var errManifestTooLarge = errors.New("file exceeds maximum manifest size")

// errFound stops a glob walk at the first match.
var errFound = errors.New("found")

// Dir is a read-only view of one directory of the scanned tree.
//
// File reads are cached for the duration of a single detection run, since the same manifest is
// often read by several probes and by the workspace inspector.
type Dir struct {
	fsys  fs.FS
	path  string
	name  string
	reads *lru.Cache[string, []byte]
}

// NewDir returns a Dir for the root of fsys. name is used as the project name fallback and may be empty.
func NewDir(fsys fs.FS, name string) *Dir {
	return &Dir{
		fsys:  fsys,
		path:  ".",
		name:  name,
		reads: newReadCache(),
	}
}

func newReadCache() *lru.Cache[string, []byte] {
	// only fails for a non-positive size
	cache, _ := lru.New[string, []byte](defaultReadCacheSize)
	return cache
}

// sub returns the Dir for the slash separated relative path rel under the root dir d.
func (d *Dir) sub(rel string) (*Dir, error) {
	if rel == "." {
		return d, nil
	}

	fsys, err := fs.Sub(d.fsys, rel)
	if err != nil {
		return nil, err
	}

	return &Dir{
		fsys:  fsys,
		path:  rel,
		name:  path.Base(rel),
		reads: d.reads,
	}, nil
}

// Path is the slash separated path of the directory relative to the scanned root.
func (d *Dir) Path() string {
	return d.path
}

// Name is the base name of the directory, or empty when unknown.
func (d *Dir) Name() string {
	return d.name
}

// FS returns the file system rooted at the directory.
func (d *Dir) FS() fs.FS {
	return d.fsys
}

// Exists reports whether name exists in the directory.
func (d *Dir) Exists(name string) bool {
	_, err := fs.Stat(d.fsys, name)
	return err == nil
}

// IsDir reports whether name exists and is a directory.
func (d *Dir) IsDir(name string) bool {
	info, err := fs.Stat(d.fsys, name)
	return err == nil && info.IsDir()
}

// IsFile reports whether name exists and is a regular file.
func (d *Dir) IsFile(name string) bool {
	info, err := fs.Stat(d.fsys, name)
	return err == nil && info.Mode().IsRegular()
}

// ReadFile reads name, relative to the directory.
func (d *Dir) ReadFile(name string) ([]byte, error) {
	key := path.Join(d.path, name)
	if contents, has := d.reads.Get(key); has {
		return contents, nil
	}

	f, err := d.fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	contents, err := io.ReadAll(io.LimitReader(f, maxManifestSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}

	if len(contents) > maxManifestSize {
		return nil, fmt.Errorf("%s: %w", key, errManifestTooLarge)
	}

	d.reads.Add(key, contents)
	return contents, nil
}

// Glob returns the names matching the doublestar pattern, in lexical order.
func (d *Dir) Glob(pattern string) []string {
	matches, err := doublestar.Glob(d.fsys, pattern)
	if err != nil {
		return nil
	}

	return matches
}

// FirstMatch returns the first name matching any of the doublestar patterns, trying patterns in order.
func (d *Dir) FirstMatch(patterns ...string) (string, bool) {
	for _, pattern := range patterns {
		var match string
		err := doublestar.GlobWalk(d.fsys, pattern, func(p string, _ fs.DirEntry) error {
			match = p
			return errFound
		})

		if errors.Is(err, errFound) {
			return match, true
		}
	}

	return "", false
}

// HasAny reports whether any of the doublestar patterns matches.
func (d *Dir) HasAny(patterns ...string) bool {
	_, has := d.FirstMatch(patterns...)
	return has
}
