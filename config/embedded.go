// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/embedded.go
// Summary: Loads and caches parsed defaults from the embedded JSON files.

package config

import (
	"encoding/json"
	"sync"

	"github.com/framegrace/texelglitch/defaults"
)

var (
	embeddedSystemOnce sync.Once
	embeddedSystem     Config
	embeddedSystemErr  error

	embeddedHosts   = make(map[string]Config)
	embeddedHostsMu sync.RWMutex
)

func embeddedSystemDefaults() (Config, error) {
	embeddedSystemOnce.Do(func() {
		data, err := defaults.SystemConfig()
		if err != nil {
			embeddedSystemErr = err
			return
		}
		var cfg Config
		if err := json.Unmarshal(data, &cfg); err != nil {
			embeddedSystemErr = err
			return
		}
		embeddedSystem = cfg
	})
	return embeddedSystem, embeddedSystemErr
}

// embeddedHostDefaults returns nil without error for hosts that ship no file.
func embeddedHostDefaults(host string) (Config, error) {
	embeddedHostsMu.RLock()
	if cfg, ok := embeddedHosts[host]; ok {
		embeddedHostsMu.RUnlock()
		return cfg, nil
	}
	embeddedHostsMu.RUnlock()

	data, err := defaults.HostConfig(host)
	if err != nil {
		return nil, nil
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	embeddedHostsMu.Lock()
	embeddedHosts[host] = cfg
	embeddedHostsMu.Unlock()
	return cfg, nil
}

func defaultSystemConfig() Config {
	cfg, err := embeddedSystemDefaults()
	if err != nil || cfg == nil {
		return nil
	}
	return Clone(cfg)
}

func defaultHostConfig(host string) Config {
	cfg, err := embeddedHostDefaults(host)
	if err != nil || cfg == nil {
		return nil
	}
	return Clone(cfg)
}
