// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package internal

type GlobalCommandOptions struct {
	// Cwd allows the user to override the current working directory, temporarily.
	// The root command will take care of cd'ing into that folder before your command
	// and cd'ing back to the original folder after the commands complete (to make testing
	// easier)
	Cwd string

	// EnableDebugLogging indicates you should turn on verbose/debug logging in your command.
	// It's enabled with `--debug`, for any command.
	EnableDebugLogging bool

	// LogFile is the path of a rotated log file that receives the debug log, regardless of EnableDebugLogging.
	LogFile string
}
