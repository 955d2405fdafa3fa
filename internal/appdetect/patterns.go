// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appdetect

import "strings"

type MatchKind int

const (
	// Exact matches a dependency equal to the pattern value.
	Exact MatchKind = iota
	// Prefix matches a dependency starting with the pattern value.
	Prefix
	// Contains matches a dependency containing the pattern value.
	Contains
)

// Pattern maps dependencies matching Value to Label. Matching ignores case.
type Pattern struct {
	Kind  MatchKind
	Value string
	Label string
}

func (p Pattern) Matches(dep string) bool {
	dep = strings.ToLower(dep)
	value := strings.ToLower(p.Value)

	switch p.Kind {
	case Exact:
		return dep == value
	case Prefix:
		return strings.HasPrefix(dep, value)
	case Contains:
		return strings.Contains(dep, value)
	}

	return false
}

// PatternTable is an ordered list of patterns. Order is significant: the first entry that matches
// any dependency wins, so more specific entries must come before more general ones.
type PatternTable []Pattern

// Resolve returns the label of the first table entry matching any of deps, or nil.
func (t PatternTable) Resolve(deps []string) *string {
	for _, pattern := range t {
		for _, dep := range deps {
			if pattern.Matches(dep) {
				return ptr(pattern.Label)
			}
		}
	}

	return nil
}

// PatternTables groups the tables of one ecosystem.
type PatternTables struct {
	Framework PatternTable
	ORM       PatternTable
	Database  PatternTable
}

// labels is the result of resolving every table of a PatternTables.
type labels struct {
	framework *string
	orm       *string
	database  *string
}

func (t PatternTables) resolve(deps []string) labels {
	return labels{
		framework: t.Framework.Resolve(deps),
		orm:       t.ORM.Resolve(deps),
		database:  t.Database.Resolve(deps),
	}
}

func exact(value, label string) Pattern {
	return Pattern{Kind: Exact, Value: value, Label: label}
}

func prefix(value, label string) Pattern {
	return Pattern{Kind: Prefix, Value: value, Label: label}
}

func contains(value, label string) Pattern {
	return Pattern{Kind: Contains, Value: value, Label: label}
}
