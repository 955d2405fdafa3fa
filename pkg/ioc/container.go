// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package ioc wraps golobby/container with lazily resolved registrations and child containers that fall back
// to their parent during resolution.
package ioc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golobby/container/v3"
)

var (
	// Global is the root container that command scoped containers are created from.
	Global *NestedContainer = &NestedContainer{
		inner:  container.Global,
		parent: nil,
	}

	ErrResolveInstance error = errors.New("failed resolving instance from container")
)

// NestedContainer is a container scoped to a parent container.
type NestedContainer struct {
	inner  container.Container
	parent *NestedContainer
}

// NewNestedContainer creates a child of parent. Registrations of parent are visible from the child, and
// registrations made on the child never leak back to the parent.
func NewNestedContainer(parent *NestedContainer) *NestedContainer {
	current := container.New()
	if parent != nil {
		for key, value := range parent.inner {
			current[key] = value
		}
	}

	return &NestedContainer{
		inner:  current,
		parent: parent,
	}
}

// RegisterSingleton registers a lazily invoked resolver whose result is cached.
// Panics when resolveFn is not a function.
func (c *NestedContainer) RegisterSingleton(resolveFn any) {
	container.MustSingletonLazy(c.inner, resolveFn)
}

// Resolve fills instance, which must be a pointer, walking up to the parent containers when no resolver is
// registered. An error returned by a resolver stops the walk.
func (c *NestedContainer) Resolve(instance any) error {
	current := c
	for {
		err := current.inner.Resolve(instance)
		if err == nil {
			return nil
		}

		if current.parent == nil || isResolverError(err) {
			return inspectResolveError(err)
		}
		current = current.parent
	}
}

// RegisterInstance registers an already constructed instance for type F.
func RegisterInstance[F any](c *NestedContainer, instance F) {
	container.MustSingletonLazy(c.inner, func() F {
		return instance
	})
}

// golobby errors are untyped, but every message is prefixed with "container:". A failing resolver has its
// error wrapped by golobby, so it stays in the chain and is returned as is.
func inspectResolveError(err error) error {
	if isResolverError(err) || !strings.HasPrefix(err.Error(), "container:") {
		return err
	}

	return fmt.Errorf("%w: %w", ErrResolveInstance, err)
}

func isResolverError(err error) bool {
	return errors.Unwrap(err) != nil
}
