// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"io"
	"log/slog"

	"github.com/stackscan/stackscan/internal"
	"gopkg.in/natefinch/lumberjack.v2"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newLogHandler returns the handler of the default logger. Debug records go to stderr with --debug, and to a
// rotated file with --log-file. Without either flag everything is discarded.
func newLogHandler(opts *internal.GlobalCommandOptions, stderr io.Writer) (slog.Handler, io.Closer) {
	var writers []io.Writer
	var closer io.Closer = nopCloser{}

	if opts.EnableDebugLogging {
		writers = append(writers, stderr)
	}

	if opts.LogFile != "" {
		file := &lumberjack.Logger{
			Filename:   opts.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		}
		writers = append(writers, file)
		closer = file
	}

	if len(writers) == 0 {
		return slog.NewTextHandler(io.Discard, nil), closer
	}

	return slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelDebug,
	}), closer
}
