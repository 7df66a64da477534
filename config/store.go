// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/store.go
// Summary: Load and default-seeding logic for the config store.
// Notes: A missing or empty file is seeded from the embedded defaults and
// written back, so users always find a complete file to edit.

package config

import "github.com/charmbracelet/log"

func loadSystemLocked() error {
	path, err := systemConfigPath()
	if err != nil {
		log.Warn("config: resolve system config path", "err", err)
		system = make(Config)
		applySystemDefaults(system)
		return err
	}

	cfg, readErr := loadSeeded(path, defaultSystemConfig)
	applySystemDefaults(cfg)
	system = cfg
	if readErr == nil {
		log.Debug("config: loaded system config", "path", path)
	}
	return readErr
}

func loadHostLocked(name string) (Config, error) {
	path, err := hostConfigPath(name)
	if err != nil {
		return nil, err
	}
	cfg, readErr := loadSeeded(path, func() Config { return defaultHostConfig(name) })
	applyHostDefaults(name, cfg)
	if readErr == nil {
		log.Debug("config: loaded host config", "host", name, "path", path)
	}
	return cfg, readErr
}

// loadSeeded reads path. Missing or empty files are replaced by seed() and
// persisted; read errors leave an empty config and are returned.
func loadSeeded(path string, seed func() Config) (Config, error) {
	cfg, exists, readErr := readConfig(path)
	if readErr != nil {
		log.Warn("config: read config", "path", path, "err", readErr)
		return make(Config), readErr
	}
	if exists && len(cfg) > 0 {
		return cfg, nil
	}

	def := seed()
	if def == nil {
		return make(Config), nil
	}
	if err := writeConfig(path, def); err != nil {
		log.Warn("config: write default config", "path", path, "err", err)
		return def, err
	}
	return def, nil
}
