// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stackscan/stackscan/cmd/actions"
	"github.com/stackscan/stackscan/internal"
	"github.com/stackscan/stackscan/pkg/ioc"
	"github.com/stackscan/stackscan/pkg/output"
)

type versionFlags struct {
	outputFormat string
	global       *internal.GlobalCommandOptions
}

func (v *versionFlags) Bind(local *pflag.FlagSet, global *internal.GlobalCommandOptions) {
	output.AddOutputFlag(
		local,
		&v.outputFormat,
		[]output.Format{output.JsonFormat, output.YamlFormat, output.NoneFormat},
		output.NoneFormat,
	)
	v.global = global
}

func versionCmdDesign(global *internal.GlobalCommandOptions) (*cobra.Command, *versionFlags) {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of stackscan.",
		Args:  cobra.NoArgs,
	}

	flags := &versionFlags{}
	flags.Bind(cmd.Flags(), global)

	return cmd, flags
}

func newVersionCmd(container *ioc.NestedContainer, global *internal.GlobalCommandOptions) *cobra.Command {
	cmd, flags := versionCmdDesign(global)
	cmd.RunE = runAction[*versionAction](container, flags, newVersionAction)
	return cmd
}

type versionAction struct {
	flags     versionFlags
	formatter output.Formatter
	writer    io.Writer
}

func newVersionAction(
	flags versionFlags,
	formatter output.Formatter,
	writer io.Writer,
) *versionAction {
	return &versionAction{
		flags:     flags,
		formatter: formatter,
		writer:    writer,
	}
}

func (v *versionAction) Run(ctx context.Context) (*actions.ActionResult, error) {
	if v.formatter.Kind() == output.NoneFormat {
		fmt.Fprintf(v.writer, "stackscan version %s\n", internal.Version)
		return nil, nil
	}

	return nil, v.formatter.Format(internal.GetVersionSpec(), v.writer, nil)
}
