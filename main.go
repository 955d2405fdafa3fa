// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/stackscan/stackscan/cmd"
	"github.com/stackscan/stackscan/internal"
	"github.com/stackscan/stackscan/pkg/output"
)

func main() {
	ctx := context.Background()

	restoreColorMode := colorable.EnableColorsStdout(nil)
	defer restoreColorMode()

	cmdErr := cmd.NewRootCmd(nil).ExecuteContext(ctx)
	if cmdErr != nil {
		stderr := colorable.NewColorableStderr()
		fmt.Fprintln(stderr, output.WithErrorFormat("ERROR: %s", cmdErr.Error()))

		var errWithSuggestion *internal.ErrorWithSuggestion
		if errors.As(cmdErr, &errWithSuggestion) {
			fmt.Fprintln(stderr, output.WithHighLightFormat("Suggestion: %s", errWithSuggestion.Suggestion))
		}

		restoreColorMode()
		os.Exit(1)
	}
}
