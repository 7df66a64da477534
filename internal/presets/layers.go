// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/presets/layers.go
// Summary: Builds the option patch stack shared by the CLIs.

package presets

import (
	"context"
	"fmt"

	"github.com/framegrace/texelglitch/glitch"
)

// Layers returns the patches to resolve, lowest precedence first: base (the
// config file's glitch section), the named preset, then top. An empty name
// skips the preset and s may then be nil.
func Layers(ctx context.Context, s *Store, name string, base, top glitch.Partial) ([]glitch.Partial, error) {
	out := []glitch.Partial{base}
	if name != "" {
		if s == nil {
			return nil, fmt.Errorf("presets: no store for %q", name)
		}
		p, err := s.Load(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return append(out, top), nil
}

// FlagPatch turns a -mode flag value into a patch. Empty leaves the mode
// unset.
func FlagPatch(mode string) (glitch.Partial, error) {
	var p glitch.Partial
	if mode == "" {
		return p, nil
	}
	m, err := glitch.ParsePlayMode(mode)
	if err != nil {
		return p, err
	}
	p.PlayMode = &m
	return p, nil
}
