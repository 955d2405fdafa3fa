// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorWithSuggestion(t *testing.T) {
	err := fmt.Errorf("detecting: %w", &ErrorWithSuggestion{
		Err:        fmt.Errorf("path %s: %w", "/missing", fs.ErrNotExist),
		Suggestion: "Check the path.",
	})

	require.Equal(t, "detecting: path /missing: file does not exist", err.Error())
	require.True(t, errors.Is(err, fs.ErrNotExist))

	var suggestion *ErrorWithSuggestion
	require.True(t, errors.As(err, &suggestion))
	require.Equal(t, "Check the path.", suggestion.Suggestion)
}
