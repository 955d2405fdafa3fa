// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appdetect

import (
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// fallbackVersions are used when a language version cannot be determined.
var fallbackVersions = map[Language]string{
	Go:         "1.22",
	Java:       "17",
	CSharp:     "8.0",
	Rust:       "1.75",
	Ruby:       "3.2",
	Php:        "8.2",
	JavaScript: "20",
	Python:     "3.11",
}

var versionRegex = regexp.MustCompile(`\d+(\.\d+){0,2}`)

// languageVersion extracts a version number from raw, which may be a plain version ("1.21.3"),
// a constraint ("^8.1", ">=3.10,<4") or a moniker ("net8.0"). The fallback version of the language
// is returned when raw contains no valid version.
func languageVersion(lang Language, raw string) string {
	if match := versionRegex.FindString(raw); match != "" {
		if _, err := semver.NewVersion(match); err == nil {
			return match
		}
	}

	return fallbackVersions[lang]
}
