// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/stackscan/stackscan/cmd/actions"
	"github.com/stackscan/stackscan/internal/tracing"
	"github.com/stackscan/stackscan/internal/tracing/events"
	"github.com/stackscan/stackscan/pkg/ioc"
	"github.com/stackscan/stackscan/pkg/output"
)

// Registers the dependencies shared by all commands in a command scoped container.
func registerCommonDependencies(container *ioc.NestedContainer) {
	container.RegisterSingleton(func(cmd *cobra.Command) (output.Formatter, error) {
		return output.GetCommandFormatter(cmd.Flags())
	})

	container.RegisterSingleton(func(cmd *cobra.Command) io.Writer {
		writer := cmd.OutOrStdout()

		if os.Getenv("NO_COLOR") != "" || !isTerminal(writer) {
			writer = colorable.NewNonColorable(writer)
		}

		return writer
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// runAction returns a cobra RunE that resolves the action of type T from a command scoped child of container
// and runs it. newAction is the constructor of the action. Its parameters are resolved from the container,
// which also holds the command, its arguments, its context and flags.
func runAction[T actions.Action, F any](
	container *ioc.NestedContainer,
	flags *F,
	newAction any,
) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, span := tracing.Start(cmd.Context(), events.CommandEventPrefix+commandPath(cmd))
		defer span.End()

		scope := ioc.NewNestedContainer(container)
		ioc.RegisterInstance(scope, cmd)
		ioc.RegisterInstance(scope, args)
		ioc.RegisterInstance(scope, *flags)
		registerCommonDependencies(scope)
		scope.RegisterSingleton(newAction)

		ctx = ioc.WithContainer(ctx, scope)
		ioc.RegisterInstance(scope, ctx)

		var action T
		if err := scope.Resolve(&action); err != nil {
			span.RecordError(err)
			return err
		}

		result, err := action.Run(ctx)
		if err != nil {
			span.RecordError(err)
			return err
		}

		actions.ShowActionResults(cmd.ErrOrStderr(), result)
		return nil
	}
}

// commandPath is the command invocation path without the root command, joined with dots.
func commandPath(cmd *cobra.Command) string {
	parts := strings.Fields(cmd.CommandPath())
	if len(parts) > 1 {
		parts = parts[1:]
	}

	return strings.Join(parts, ".")
}
