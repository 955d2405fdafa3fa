// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appdetect

import (
	"context"
	"path"
	"strings"
	"testing"

	"github.com/psanford/memfs"
	"github.com/stretchr/testify/require"
)

// newMemFS builds an in-memory tree from a map of file names to contents. Names ending with "/" create
// empty directories.
func newMemFS(t *testing.T, files map[string]string) *memfs.FS {
	fsys := memfs.New()
	for name, contents := range files {
		if strings.HasSuffix(name, "/") {
			require.NoError(t, fsys.MkdirAll(strings.TrimSuffix(name, "/"), 0755))
			continue
		}

		if dir := path.Dir(name); dir != "." {
			require.NoError(t, fsys.MkdirAll(dir, 0755))
		}
		require.NoError(t, fsys.WriteFile(name, []byte(contents), 0644))
	}

	return fsys
}

func newTestDir(t *testing.T, files map[string]string) *Dir {
	return NewDir(newMemFS(t, files), "testapp")
}

// testProbe is a Probe whose strategies are supplied by the test.
type testProbe struct {
	manifestSet
	lang      Language
	manifest  strategyFunc
	structure strategyFunc
	heuristic strategyFunc
}

func (p *testProbe) Language() Language {
	return p.lang
}

func (p *testProbe) DetectManifest(ctx context.Context, dir *Dir) (*EcosystemRecord, error) {
	return call(ctx, p.manifest, dir)
}

func (p *testProbe) DetectStructure(ctx context.Context, dir *Dir) (*EcosystemRecord, error) {
	return call(ctx, p.structure, dir)
}

func (p *testProbe) DetectHeuristic(ctx context.Context, dir *Dir) (*EcosystemRecord, error) {
	return call(ctx, p.heuristic, dir)
}

type testImportsProbe struct {
	testProbe
	imports strategyFunc
}

func (p *testImportsProbe) DetectImports(ctx context.Context, dir *Dir) (*EcosystemRecord, error) {
	return call(ctx, p.imports, dir)
}

func call(ctx context.Context, fn strategyFunc, dir *Dir) (*EcosystemRecord, error) {
	if fn == nil {
		return nil, nil
	}

	return fn(ctx, dir)
}

func found(r *EcosystemRecord) strategyFunc {
	return func(context.Context, *Dir) (*EcosystemRecord, error) {
		return r, nil
	}
}
