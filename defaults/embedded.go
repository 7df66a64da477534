// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: defaults/embedded.go
// Summary: Embedded default configuration files for texelglitch and its hosts.

package defaults

import (
	"embed"
	"fmt"
)

//go:embed texelglitch.json hosts/*.json
var fs embed.FS

// SystemConfig returns the embedded texelglitch.json.
func SystemConfig() ([]byte, error) {
	return fs.ReadFile("texelglitch.json")
}

// HostConfig returns the embedded config JSON for the named host ("term", "browser").
func HostConfig(host string) ([]byte, error) {
	if host == "" {
		return nil, fmt.Errorf("host name is required")
	}
	return fs.ReadFile(fmt.Sprintf("hosts/%s.json", host))
}
