// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Fallback values layered under whatever the config files contain.

package config

func applySystemDefaults(cfg Config) {
	if cfg == nil {
		return
	}
	cfg.RegisterDefaults("glitch", Section{})
	cfg.RegisterDefaults("presets", Section{
		"path": "",
	})
	cfg.RegisterDefaults("log", Section{
		"level": "info",
		"path":  "",
	})
}

func applyHostDefaults(host string, cfg Config) {
	if cfg == nil {
		return
	}
	switch host {
	case "term":
		cfg.RegisterDefaults("term", Section{
			"fps":       30,
			"file":      "",
			"selector":  ".glitch",
			"linkClass": "router-link-active",
		})
	case "browser":
		cfg.RegisterDefaults("browser", Section{
			"url":        "",
			"selector":   ".glitch",
			"remote":     "",
			"headless":   true,
			"timeout_ms": 30000,
			"stealth":    false,
		})
	}
}
