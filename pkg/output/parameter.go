// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package output

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"
)

const (
	outputFlagName               = "output"
	supportedFormatterAnnotation = "github.com/stackscan/stackscan/pkg/output/supportedOutputFormatters"
)

// AddOutputFlag adds the --output flag to flags, bound to value.
func AddOutputFlag(flags *pflag.FlagSet, value *string, supportedFormats []Format, defaultFormat Format) {
	formatNames := make([]string, len(supportedFormats))
	for i, f := range supportedFormats {
		formatNames[i] = string(f)
	}

	description := fmt.Sprintf("The output format (the supported formats are %s).", strings.Join(formatNames, ", "))
	flags.StringVarP(value, outputFlagName, "o", string(defaultFormat), description)

	// Only error that can occur is "flag not found", which is not possible given we just added the flag on the previous line
	_ = flags.SetAnnotation(outputFlagName, supportedFormatterAnnotation, formatNames)
}

// GetCommandFormatter returns the formatter selected with the --output flag in flags.
func GetCommandFormatter(flags *pflag.FlagSet) (Formatter, error) {
	outputVal, err := flags.GetString(outputFlagName)
	if err != nil {
		return nil, err
	}

	desiredFormatter := strings.ToLower(strings.TrimSpace(outputVal))
	f := flags.Lookup(outputFlagName)
	supportedFormatters, hasFormatters := f.Annotations[supportedFormatterAnnotation]
	if !hasFormatters {
		return NewFormatter(desiredFormatter)
	}

	if !slices.Contains(supportedFormatters, desiredFormatter) {
		return nil, fmt.Errorf("unsupported format '%s'", desiredFormatter)
	}

	return NewFormatter(desiredFormatter)
}
