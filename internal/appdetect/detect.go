// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appdetect

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stackscan/stackscan/internal/tracing"
	"github.com/stackscan/stackscan/internal/tracing/events"
	"github.com/stackscan/stackscan/internal/tracing/fields"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

var errBudgetExceeded = errors.New("probe exceeded its time budget")

// DetectAll detects the projects under root and classifies the architecture of the tree.
//
// DetectAll never fails. When root cannot be read, the report has no projects.
func DetectAll(ctx context.Context, root string, options ...DetectOption) *ArchitectureReport {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		slog.DebugContext(ctx, "root is not a readable directory", "root", root, "error", err)
		return newReport(nil, Workspace{}, Layout{})
	}

	name := ""
	if abs, err := filepath.Abs(root); err == nil {
		name = filepath.Base(abs)
	}

	return detect(ctx, NewDir(os.DirFS(root), name), options...)
}

// DetectFS is like DetectAll, for the tree rooted at fsys.
func DetectFS(ctx context.Context, fsys fs.FS, options ...DetectOption) *ArchitectureReport {
	return detect(ctx, NewDir(fsys, ""), options...)
}

type probeTask struct {
	dir      *Dir
	probe    Probe
	alwaysOn bool
}

func detect(ctx context.Context, root *Dir, options ...DetectOption) *ArchitectureReport {
	config := newConfig(options...)

	ctx, span := tracing.Start(ctx, events.DetectEvent)
	defer span.End()

	var tasks []probeTask
	dirs := candidateDirs(ctx, root.FS(), config.maxDepth, config.ExcludePatterns)
	for _, rel := range dirs {
		dir, err := root.sub(rel)
		if err != nil {
			slog.DebugContext(ctx, "opening directory", "path", rel, "error", err)
			continue
		}

		for _, e := range config.registry.entries {
			tasks = append(tasks, probeTask{
				dir:      dir,
				probe:    e.probe,
				alwaysOn: e.alwaysOn && rel == ".",
			})
		}
	}

	results := make([]*EcosystemRecord, len(tasks))
	errs := make([]bool, len(tasks))
	var mu sync.Mutex
	var softErrs error

	g := errgroup.Group{}
	g.SetLimit(config.concurrency)
	for i, task := range tasks {
		g.Go(func() error {
			record, err := runWithBudget(ctx, config.clock, config.probeBudget, func(ctx context.Context) *EcosystemRecord {
				return runProbe(ctx, task)
			})
			if err != nil {
				mu.Lock()
				softErrs = multierr.Append(softErrs,
					fmt.Errorf("%s probe in %s: %w", task.probe.Language(), task.dir.Path(), err))
				mu.Unlock()
				errs[i] = true
				return nil
			}

			results[i] = record
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range multierr.Errors(softErrs) {
		if errors.Is(err, errBudgetExceeded) {
			slog.WarnContext(ctx, "probe result dropped", "error", err)
		} else {
			slog.DebugContext(ctx, "probe result dropped", "error", err)
		}
	}

	var projects []ProjectRecord
	var failed []string
	for i, record := range results {
		if record == nil {
			if errs[i] {
				failed = append(failed, string(tasks[i].probe.Language())+"@"+tasks[i].dir.Path())
			}
			continue
		}

		task := tasks[i]
		name := recovered(ctx, task.probe, task.dir, func() *string {
			return projectName(task.probe, task.dir)
		})
		projects = append(projects, ProjectRecord{
			Name:            name,
			Path:            task.dir.Path(),
			EcosystemRecord: *record,
		})
	}

	workspace := InspectWorkspace(ctx, root)
	report := newReport(projects, workspace, ReadLayout(root))

	span.SetAttributes(
		fields.DirCountKey.Int(len(dirs)),
		fields.ProjectCountKey.Int(report.ProjectCount),
		fields.ArchitectureTypeKey.String(string(report.Type)),
	)
	if len(failed) > 0 {
		span.SetAttributes(fields.ErrorKey(fields.ProbeLanguageKey).StringSlice(failed))
	}

	return report
}

func runProbe(ctx context.Context, task probeTask) *EcosystemRecord {
	ctx, span := tracing.Start(ctx, events.ProbeEvent)
	defer span.End()

	candidate := recovered(ctx, task.probe, task.dir, func() bool {
		return task.probe.IsLikelyCandidate(task.dir)
	})
	span.SetAttributes(
		fields.ProbeLanguageKey.String(string(task.probe.Language())),
		fields.DirPathKey.String(task.dir.Path()),
		fields.ProbeCandidateKey.Bool(candidate),
	)

	if !candidate && !task.alwaysOn {
		return nil
	}

	record := Detect(ctx, task.probe, task.dir)
	if record != nil {
		span.SetAttributes(fields.ProbeMethodKey.String(string(record.DetectionMethod)))
	}

	return record
}

// runWithBudget runs fn, giving up on its result once budget has elapsed on clk. fn keeps running in
// the background in that case, but its context is cancelled so that no further strategies are tried.
func runWithBudget(
	ctx context.Context,
	clk clock.Clock,
	budget time.Duration,
	fn func(context.Context) *EcosystemRecord,
) (*EcosystemRecord, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan *EcosystemRecord, 1)
	go func() {
		done <- fn(ctx)
	}()

	var expired <-chan time.Time
	if budget > 0 {
		timer := clk.Timer(budget)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case record := <-done:
		return record, nil
	case <-expired:
		return nil, fmt.Errorf("%w (%s)", errBudgetExceeded, budget)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func projectName(probe Probe, dir *Dir) *string {
	if namer, ok := probe.(projectNamer); ok {
		if name := namer.projectName(dir); name != nil && *name != "" {
			return name
		}
	}

	if dir.Name() == "" {
		return nil
	}

	return ptr(dir.Name())
}

func newReport(projects []ProjectRecord, workspace Workspace, layout Layout) *ArchitectureReport {
	if projects == nil {
		projects = []ProjectRecord{}
	}

	archType, style := Classify(projects, workspace.Found, layout)
	return &ArchitectureReport{
		Type:             archType,
		Style:            style,
		ProjectCount:     len(projects),
		HasWorkspace:     workspace.Found,
		WorkspaceTool:    workspace.Tool,
		WorkspaceMembers: workspace.Members,
		Projects:         projects,
	}
}
