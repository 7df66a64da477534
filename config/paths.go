// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/paths.go
// Summary: Path helpers for texelglitch configuration and state files.

package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	presetDBName = "presets.db"
	logFileName  = "texelglitch.log"
)

func configRoot() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "texelglitch"), nil
}

func systemConfigPath() (string, error) {
	root, err := configRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, systemConfigName), nil
}

func hostConfigPath(host string) (string, error) {
	if host == "" {
		return "", fmt.Errorf("host name is required")
	}
	root, err := configRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "hosts", host+".json"), nil
}

// PresetDBPath returns the preset database location: the system config's
// presets.path when set, otherwise presets.db beside texelglitch.json.
func PresetDBPath() (string, error) {
	if p := System().GetString("presets", "path", ""); p != "" {
		return p, nil
	}
	root, err := configRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, presetDBName), nil
}

// LogPath returns log.path from the system config, falling back to the
// user cache dir.
func LogPath() (string, error) {
	if p := System().GetString("log", "path", ""); p != "" {
		return p, nil
	}
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, "texelglitch", logFileName), nil
}
