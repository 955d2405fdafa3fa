// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/stackscan/stackscan/internal"
	"github.com/stackscan/stackscan/pkg/ioc"
)

// NewRootCmd creates the root stackscan command. When container is nil, a child of ioc.Global is used.
func NewRootCmd(container *ioc.NestedContainer) *cobra.Command {
	prevDir := ""
	opts := &internal.GlobalCommandOptions{}
	closeLog := func() error { return nil }

	if container == nil {
		container = ioc.NewNestedContainer(ioc.Global)
	}

	cmd := &cobra.Command{
		Use:   "stackscan",
		Short: "Detect the languages, frameworks and architecture of a source tree.",
		Long: heredoc.Doc(`
			stackscan inspects a source tree and reports the projects it contains: their language,
			framework, ORM, database driver, build tool and package manager, along with the
			architecture of the tree as a whole.

			To get started, run "stackscan detect" in the root of a repository.`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Cwd != "" {
				current, err := os.Getwd()
				if err != nil {
					return err
				}

				prevDir = current

				if err := os.Chdir(opts.Cwd); err != nil {
					return fmt.Errorf("failed to change directory to %s: %w", opts.Cwd, err)
				}
			}

			handler, closer := newLogHandler(opts, cmd.ErrOrStderr())
			slog.SetDefault(slog.New(handler))
			closeLog = closer.Close

			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if err := closeLog(); err != nil {
				return err
			}

			// Tests run commands in place, so the working directory is put back once the command completes.
			if prevDir != "" {
				return os.Chdir(prevDir)
			}

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.Flags().BoolP("help", "h", false, "Help for "+cmd.Name())
	cmd.PersistentFlags().StringVarP(&opts.Cwd, "cwd", "C", "", "Set the current working directory")
	cmd.PersistentFlags().BoolVar(&opts.EnableDebugLogging, "debug", false, "Enables debug/diagnostic logging")
	cmd.PersistentFlags().StringVar(&opts.LogFile, "log-file", "", "Write the debug log to a rotated file")

	ioc.RegisterInstance(container, opts)

	cmd.AddCommand(newDetectCmd(container, opts))
	cmd.AddCommand(newVersionCmd(container, opts))

	return cmd
}
