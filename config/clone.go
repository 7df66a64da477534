// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/clone.go
// Summary: Deep copy helpers for config maps.

package config

// Clone returns a deep copy of cfg. Nested objects become Sections so
// typed getters work on the copy without type switches on both map forms.
func Clone(cfg Config) Config {
	if cfg == nil {
		return nil
	}
	out := make(Config, len(cfg))
	for k, v := range cfg {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case Section:
		return cloneSection(val)
	case map[string]interface{}:
		return cloneSection(val)
	case Config:
		return cloneSection(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

func cloneSection(in map[string]interface{}) Section {
	out := make(Section, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}
