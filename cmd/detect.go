// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stackscan/stackscan/cmd/actions"
	"github.com/stackscan/stackscan/internal"
	"github.com/stackscan/stackscan/internal/appdetect"
	"github.com/stackscan/stackscan/pkg/config"
	"github.com/stackscan/stackscan/pkg/ioc"
	"github.com/stackscan/stackscan/pkg/output"
)

type detectFlags struct {
	outputFormat            string
	configPath              string
	maxDepth                int
	exclude                 []string
	overrideDefaultExcludes bool
	languages               []string
	skipLanguages           []string
	probeBudget             time.Duration
	concurrency             int

	local  *pflag.FlagSet
	global *internal.GlobalCommandOptions
}

func (f *detectFlags) Bind(local *pflag.FlagSet, global *internal.GlobalCommandOptions) {
	output.AddOutputFlag(
		local,
		&f.outputFormat,
		[]output.Format{output.JsonFormat, output.YamlFormat, output.NoneFormat},
		output.NoneFormat,
	)
	local.StringVar(&f.configPath, "config", "", "Read settings from this file instead of "+config.FileName)
	local.IntVar(&f.maxDepth, "depth", 2, "How many directory levels below the root are scanned")
	local.StringSliceVar(&f.exclude, "exclude", nil, "Glob patterns of directories to skip")
	local.BoolVar(
		&f.overrideDefaultExcludes, "override-default-excludes", false, "Replace the default exclude patterns")
	local.StringSliceVar(&f.languages, "language", nil, "Only run the probes of these languages")
	local.StringSliceVar(&f.skipLanguages, "skip-language", nil, "Skip the probes of these languages")
	local.DurationVar(&f.probeBudget, "probe-budget", 0, "Time budget of a single probe run (default 10s)")
	local.IntVar(&f.concurrency, "concurrency", 0, "Number of probes run at once (default 8)")

	f.local = local
	f.global = global
}

// overrides returns the settings given on the command line. Flags left unset do not override the config file.
func (f *detectFlags) overrides() config.Config {
	var c config.Config
	if f.local.Changed("depth") {
		c.MaxDepth = &f.maxDepth
	}

	c.Exclude = f.exclude
	c.OverrideDefaultExcludes = f.overrideDefaultExcludes
	c.Languages = f.languages
	c.SkipLanguages = f.skipLanguages
	c.ProbeBudget = f.probeBudget
	c.Concurrency = f.concurrency
	return c
}

func detectCmdDesign(global *internal.GlobalCommandOptions) (*cobra.Command, *detectFlags) {
	cmd := &cobra.Command{
		Use:   "detect [path]",
		Short: "Detect the projects and architecture of a source tree.",
		Long: heredoc.Doc(`
			Detect the projects of the source tree rooted at path, or the current directory.

			Directories up to --depth levels below the root are scanned. Dependency, build output and
			hidden directories are skipped, along with directories matched by the root .gitignore.
			Settings are read from the .stackscan.yaml file of the root when present, and flags take
			precedence over the file.`),
		Example: heredoc.Doc(`
			$ stackscan detect
			$ stackscan detect ./services --depth 3 --output json
			$ stackscan detect --language go,python --exclude "**/testdata"`),
		Args: cobra.MaximumNArgs(1),
	}

	flags := &detectFlags{}
	flags.Bind(cmd.Flags(), global)

	return cmd, flags
}

func newDetectCmd(container *ioc.NestedContainer, global *internal.GlobalCommandOptions) *cobra.Command {
	cmd, flags := detectCmdDesign(global)
	cmd.RunE = runAction[*detectAction](container, flags, newDetectAction)
	return cmd
}

type detectAction struct {
	flags     detectFlags
	args      []string
	formatter output.Formatter
	writer    io.Writer
}

func newDetectAction(
	flags detectFlags,
	args []string,
	formatter output.Formatter,
	writer io.Writer,
) *detectAction {
	return &detectAction{
		flags:     flags,
		args:      args,
		formatter: formatter,
		writer:    writer,
	}
}

func (d *detectAction) Run(ctx context.Context) (*actions.ActionResult, error) {
	root := "."
	if len(d.args) > 0 {
		root = d.args[0]
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, &internal.ErrorWithSuggestion{
			Err:        fmt.Errorf("reading %s: %w", root, err),
			Suggestion: "Pass the path of an existing directory, or omit it to scan the current directory.",
		}
	}
	if !info.IsDir() {
		return nil, &internal.ErrorWithSuggestion{
			Err:        fmt.Errorf("%s is not a directory", root),
			Suggestion: "Pass the directory that contains the project, not one of its files.",
		}
	}

	fileConfig, err := config.Load(ctx, root, d.flags.configPath)
	if err != nil {
		return nil, err
	}

	merged, err := fileConfig.Merge(d.flags.overrides())
	if err != nil {
		return nil, err
	}

	options, err := merged.DetectOptions()
	if err != nil {
		return nil, err
	}

	report := appdetect.DetectAll(ctx, root, options...)

	if d.formatter.Kind() != output.NoneFormat {
		return nil, d.formatter.Format(report, d.writer, nil)
	}

	if len(report.Projects) == 0 {
		return &actions.ActionResult{
			Message: &actions.ResultMessage{
				Header:   "No projects detected.",
				FollowUp: "Scan deeper with --depth, or check the exclude patterns and languages in use.",
			},
		}, nil
	}

	return nil, printReport(d.writer, report)
}

// printReport writes a human readable summary of report.
func printReport(w io.Writer, report *appdetect.ArchitectureReport) error {
	fmt.Fprintf(w, "%s %s (%s)\n",
		output.WithBold("Architecture:"), output.WithHighLightFormat(string(report.Type)), report.Style)

	if report.HasWorkspace {
		workspace := valueOrDash(report.WorkspaceTool)
		if len(report.WorkspaceMembers) > 0 {
			workspace += " " + output.WithGrayFormat("(%s)", strings.Join(report.WorkspaceMembers, ", "))
		}
		fmt.Fprintf(w, "%s %s\n", output.WithBold("Workspace:"), workspace)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tNAME\tLANGUAGE\tVERSION\tFRAMEWORK\tORM\tDATABASE\tBUILD TOOL\tPACKAGE MANAGER\tCONFIDENCE")
	for _, p := range report.Projects {
		version := p.Version
		if version == "" {
			version = "-"
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%.2f (%s)\n",
			p.Path,
			valueOrDash(p.Name),
			p.Language.Display(),
			version,
			valueOrDash(p.Framework),
			valueOrDash(p.ORM),
			valueOrDash(p.Database),
			valueOrDash(p.BuildTool),
			valueOrDash(p.PackageManager),
			p.Confidence,
			p.DetectionMethod,
		)
	}

	return tw.Flush()
}

func valueOrDash(s *string) string {
	if s == nil {
		return "-"
	}

	return *s
}
