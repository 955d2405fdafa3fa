// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package actions contains the application logic that handles stackscan commands.
package actions

import (
	"context"
	"fmt"
	"io"

	"github.com/stackscan/stackscan/pkg/output"
)

// ResultMessage is the message shown when an Action completes.
type ResultMessage struct {
	Header   string
	FollowUp string
}

type ActionResult struct {
	Message *ResultMessage
}

// Action is the representation of the application logic of a CLI command.
type Action interface {
	// Run executes the CLI command.
	Run(ctx context.Context) (*ActionResult, error)
}

// ShowActionResults writes the completion message of an action to w.
func ShowActionResults(w io.Writer, actionResult *ActionResult) {
	if actionResult == nil || actionResult.Message == nil {
		return
	}

	fmt.Fprintln(w, output.WithSuccessFormat(actionResult.Message.Header))
	if actionResult.Message.FollowUp != "" {
		fmt.Fprintln(w, actionResult.Message.FollowUp)
	}
}
