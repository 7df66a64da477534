// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: glitch/options_json.go
// Summary: JSON form of Partial, matching the keys used by config files and presets.

package glitch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

func (m PlayMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *PlayMode) UnmarshalText(text []byte) error {
	parsed, err := ParsePlayMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

type timingJSON struct {
	Duration   *float64        `json:"duration,omitempty"`
	Iterations json.RawMessage `json:"iterations,omitempty"`
}

// MarshalJSON writes duration in milliseconds and Infinite as "infinite".
func (t TimingPatch) MarshalJSON() ([]byte, error) {
	var out timingJSON
	if t.Duration != nil {
		ms := float64(*t.Duration) / float64(time.Millisecond)
		out.Duration = &ms
	}
	if t.Iterations != nil {
		if *t.Iterations == Infinite {
			out.Iterations = json.RawMessage(`"infinite"`)
		} else {
			out.Iterations = json.RawMessage(fmt.Sprintf("%d", *t.Iterations))
		}
	}
	return json.Marshal(out)
}

func (t *TimingPatch) UnmarshalJSON(data []byte) error {
	var in timingJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*t = TimingPatch{}
	if in.Duration != nil {
		d := time.Duration(*in.Duration * float64(time.Millisecond))
		t.Duration = &d
	}
	if len(in.Iterations) > 0 && !bytes.Equal(in.Iterations, []byte("null")) {
		n, err := parseIterations(in.Iterations)
		if err != nil {
			return err
		}
		t.Iterations = &n
	}
	return nil
}

func parseIterations(raw json.RawMessage) (int, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch strings.ToLower(s) {
		case "infinite", "infinity":
			return Infinite, nil
		}
		return 0, fmt.Errorf("glitch: invalid iterations %q", s)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, fmt.Errorf("glitch: invalid iterations: %w", err)
	}
	if math.IsInf(f, 1) || f < 0 {
		return Infinite, nil
	}
	return int(f), nil
}

// MarshalJSON writes false for a disabled pulse and {"scale": n} otherwise.
func (p PulsePatch) MarshalJSON() ([]byte, error) {
	if p.Enabled != nil && !*p.Enabled {
		return []byte("false"), nil
	}
	if p.Scale == nil {
		return []byte("true"), nil
	}
	return json.Marshal(struct {
		Scale float64 `json:"scale"`
	}{*p.Scale})
}

// UnmarshalJSON accepts false, true or {"scale": n}.
func (p *PulsePatch) UnmarshalJSON(data []byte) error {
	*p = PulsePatch{}
	var flag bool
	if err := json.Unmarshal(data, &flag); err == nil {
		p.Enabled = &flag
		return nil
	}
	var obj struct {
		Scale *float64 `json:"scale"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("glitch: invalid pulse: %w", err)
	}
	p.Scale = obj.Scale
	if obj.Scale == nil {
		enabled := true
		p.Enabled = &enabled
	}
	return nil
}

// ParsePartial decodes a JSON override object.
func ParsePartial(data []byte) (Partial, error) {
	var p Partial
	if len(bytes.TrimSpace(data)) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return Partial{}, fmt.Errorf("glitch: parse options: %w", err)
	}
	return p, nil
}
