// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package ioc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var errNoRoot = errors.New("no root")

type scanner struct {
	root string
}

func newScanner(root string) (*scanner, error) {
	if root == "" {
		return nil, errNoRoot
	}

	return &scanner{root: root}, nil
}

func Test_Resolve(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		c := NewNestedContainer(nil)
		c.RegisterSingleton(func() string {
			return "Test"
		})

		var instance string
		err := c.Resolve(&instance)

		require.NoError(t, err)
		require.Equal(t, "Test", instance)
	})

	t.Run("FailWithContainerError", func(t *testing.T) {
		c := NewNestedContainer(nil)

		var instance *scanner
		err := c.Resolve(&instance)

		require.Error(t, err)
		require.True(t, errors.Is(err, ErrResolveInstance))
		require.False(t, errors.Is(err, errNoRoot))
	})

	t.Run("FailWithResolverError", func(t *testing.T) {
		c := NewNestedContainer(nil)
		RegisterInstance(c, "")
		c.RegisterSingleton(newScanner)

		var instance *scanner
		err := c.Resolve(&instance)

		require.Error(t, err)
		require.False(t, errors.Is(err, ErrResolveInstance))
		require.True(t, errors.Is(err, errNoRoot))
	})

	t.Run("ResolverErrorFromChildScope", func(t *testing.T) {
		parent := NewNestedContainer(nil)
		parent.RegisterSingleton(newScanner)

		child := NewNestedContainer(parent)
		RegisterInstance(child, "")

		var instance *scanner
		err := child.Resolve(&instance)

		require.ErrorIs(t, err, errNoRoot)
		require.NotErrorIs(t, err, ErrResolveInstance)
	})
}

func Test_NestedContainer(t *testing.T) {
	parent := NewNestedContainer(nil)
	RegisterInstance(parent, "/src")
	parent.RegisterSingleton(newScanner)

	child := NewNestedContainer(parent)
	RegisterInstance(child, 42)

	var s *scanner
	require.NoError(t, child.Resolve(&s))
	require.Equal(t, "/src", s.root)

	var n int
	require.NoError(t, child.Resolve(&n))
	require.Equal(t, 42, n)

	require.ErrorIs(t, parent.Resolve(&n), ErrResolveInstance)
}

func Test_Context(t *testing.T) {
	_, err := GetContainer(context.Background())
	require.Error(t, err)

	c := NewNestedContainer(nil)
	got, err := GetContainer(WithContainer(context.Background(), c))
	require.NoError(t, err)
	require.Same(t, c, got)
}
