// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/glitch.go
// Summary: Bridges the "glitch" config section and glitch.Partial.

package config

import (
	"encoding/json"
	"fmt"

	"github.com/framegrace/texelglitch/glitch"
)

const glitchSection = "glitch"

// Glitch decodes the glitch section into a partial option patch. A missing
// section yields an empty patch.
func (c Config) Glitch() (glitch.Partial, error) {
	section := c.Section(glitchSection)
	if len(section) == 0 {
		return glitch.Partial{}, nil
	}
	data, err := json.Marshal(section)
	if err != nil {
		return glitch.Partial{}, fmt.Errorf("config: encode glitch section: %w", err)
	}
	p, err := glitch.ParsePartial(data)
	if err != nil {
		return glitch.Partial{}, fmt.Errorf("config: glitch section: %w", err)
	}
	return p, nil
}

// SetGlitch replaces the glitch section with the encoded patch.
func (c Config) SetGlitch(p glitch.Partial) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("config: encode glitch options: %w", err)
	}
	var section Section
	if err := json.Unmarshal(data, &section); err != nil {
		return fmt.Errorf("config: decode glitch options: %w", err)
	}
	c[glitchSection] = section
	return nil
}
