// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package ioc

import (
	"context"
	"errors"
)

type containerKeyType string

const containerKey containerKeyType = "ioc-container"

// WithContainer returns a copy of ctx carrying c.
func WithContainer(ctx context.Context, c *NestedContainer) context.Context {
	return context.WithValue(ctx, containerKey, c)
}

// GetContainer returns the container carried by ctx.
func GetContainer(ctx context.Context) (*NestedContainer, error) {
	c, ok := ctx.Value(containerKey).(*NestedContainer)
	if !ok {
		return nil, errors.New("container not found in context")
	}

	return c, nil
}
