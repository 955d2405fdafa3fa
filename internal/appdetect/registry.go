// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appdetect

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Registry is the ordered set of probes used for detection.
//
// Registered probes only run where IsLikelyCandidate holds. Always-on probes additionally run
// ungated at the scanned root, so that their structure and heuristic strategies are reachable even
// without a manifest. Registration order fixes the order of the detected projects.
type Registry struct {
	entries []registryEntry
}

type registryEntry struct {
	probe    Probe
	alwaysOn bool
}

// NewRegistry builds a registry from gated probes followed by always-on probes. Two probes may not
// produce the same language or claim the same manifest name or pattern.
func NewRegistry(probes []Probe, alwaysOn []Probe) (Registry, error) {
	r := Registry{}
	for _, p := range probes {
		r.entries = append(r.entries, registryEntry{probe: p})
	}
	for _, p := range alwaysOn {
		r.entries = append(r.entries, registryEntry{probe: p, alwaysOn: true})
	}

	if err := r.Validate(); err != nil {
		return Registry{}, err
	}

	return r, nil
}

// DefaultRegistry returns the registry of all built-in probes.
func DefaultRegistry() Registry {
	r, err := NewRegistry(
		[]Probe{
			newJvmProbe(),
			newDotNetProbe(),
			newGoProbe(),
			newCargoProbe(),
			newBundlerProbe(),
			newComposerProbe(),
		},
		[]Probe{
			newNodeProbe(),
			newPythonProbe(),
		})
	if err != nil {
		panic(fmt.Sprintf("invalid built-in registry: %v", err))
	}

	return r
}

// Validate checks that no two probes overlap.
func (r Registry) Validate() error {
	var errs []error
	languages := map[Language]struct{}{}
	claimed := map[string]Language{}

	for _, e := range r.entries {
		lang := e.probe.Language()
		if _, has := languages[lang]; has {
			errs = append(errs, fmt.Errorf("language %s is registered more than once", lang))
		}
		languages[lang] = struct{}{}

		for _, name := range append(e.probe.ManifestNames(), e.probe.ManifestPatterns()...) {
			key := strings.ToLower(name)
			if owner, has := claimed[key]; has {
				errs = append(errs, fmt.Errorf("manifest %s is claimed by both %s and %s", name, owner, lang))
				continue
			}
			claimed[key] = lang
		}
	}

	return errors.Join(errs...)
}

// Languages returns the languages of all probes in registration order.
func (r Registry) Languages() []Language {
	languages := make([]Language, 0, len(r.entries))
	for _, e := range r.entries {
		languages = append(languages, e.probe.Language())
	}

	return languages
}

// filter returns the registry restricted to the included languages, minus the excluded ones.
// A nil include list includes every language.
func (r Registry) filter(include []Language, exclude []Language) Registry {
	filtered := Registry{}
	for _, e := range r.entries {
		lang := e.probe.Language()
		if include != nil && !slices.Contains(include, lang) {
			continue
		}
		if slices.Contains(exclude, lang) {
			continue
		}
		filtered.entries = append(filtered.entries, e)
	}

	return filtered
}
