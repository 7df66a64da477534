// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: glitch/options.go
// Summary: Glitch options, per-mode defaults and the typed partial merge.
// Usage: Callers build Partial overrides and resolve them over DefaultsFor.
// Notes: Nil fields in a Partial never override; explicit false and zero do.

package glitch

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// PlayMode selects what drives playback of an attached element.
type PlayMode int

const (
	PlayAlways PlayMode = iota
	PlayHover
	PlayClick
)

// Infinite marks unbounded iteration in Timing.Iterations.
const Infinite = -1

// DefaultPulseScale is used when pulse is enabled without an explicit scale.
const DefaultPulseScale = 1.5

var ErrUnknownPlayMode = errors.New("glitch: unknown play mode")

func (m PlayMode) String() string {
	switch m {
	case PlayAlways:
		return "always"
	case PlayHover:
		return "hover"
	case PlayClick:
		return "click"
	}
	return fmt.Sprintf("PlayMode(%d)", int(m))
}

// ParsePlayMode converts always|hover|click to a PlayMode.
func ParsePlayMode(s string) (PlayMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "always", "":
		return PlayAlways, nil
	case "hover":
		return PlayHover, nil
	case "click":
		return PlayClick, nil
	}
	return PlayAlways, fmt.Errorf("%w: %q", ErrUnknownPlayMode, s)
}

// Timing is the cycle length and repeat count shared by every layer.
type Timing struct {
	Duration   time.Duration
	Iterations int
}

// Span is the fraction of one cycle during which glitches are visible.
type Span struct {
	Start float64
	End   float64
}

// Mid returns the point of peak intensity.
func (s Span) Mid() float64 {
	return s.Start + (s.End-s.Start)/2
}

type Shake struct {
	Velocity   float64
	AmplitudeX float64
	AmplitudeY float64
}

type Slice struct {
	Count     int
	Velocity  float64
	MinHeight float64
	MaxHeight float64
	HueRotate bool
}

type Pulse struct {
	Enabled bool
	Scale   float64
}

// Options is a fully resolved configuration. It is passed by value and never
// mutated after resolution.
type Options struct {
	PlayMode         PlayMode
	CreateContainers bool
	HideOverflow     bool
	// Content replaces the glitched node's content before it is cloned.
	Content string
	Timing  Timing
	Span    Span
	Shake   Shake
	Slice   Slice
	Pulse   Pulse
}

// DefaultsFor returns a fresh set of defaults for the given play mode.
func DefaultsFor(mode PlayMode) Options {
	opts := Options{
		PlayMode:         mode,
		CreateContainers: true,
		Shake: Shake{
			Velocity:   15,
			AmplitudeX: 0.2,
			AmplitudeY: 0.2,
		},
		Slice: Slice{
			Count:     6,
			Velocity:  15,
			MinHeight: 0.02,
			MaxHeight: 0.15,
			HueRotate: true,
		},
	}
	if mode == PlayAlways {
		opts.Timing = Timing{Duration: 2000 * time.Millisecond, Iterations: Infinite}
		opts.Span = Span{Start: 0.5, End: 0.7}
	} else {
		opts.Timing = Timing{Duration: 250 * time.Millisecond, Iterations: 1}
		opts.Span = Span{Start: 0, End: 1}
	}
	if mode == PlayClick {
		opts.Slice.Count = 15
		opts.Slice.Velocity = 20
	}
	return opts
}

type TimingPatch struct {
	Duration   *time.Duration
	Iterations *int
}

type SpanPatch struct {
	Start *float64 `json:"start,omitempty"`
	End   *float64 `json:"end,omitempty"`
}

type ShakePatch struct {
	Velocity   *float64 `json:"velocity,omitempty"`
	AmplitudeX *float64 `json:"amplitudeX,omitempty"`
	AmplitudeY *float64 `json:"amplitudeY,omitempty"`
}

type SlicePatch struct {
	Count     *int     `json:"count,omitempty"`
	Velocity  *float64 `json:"velocity,omitempty"`
	MinHeight *float64 `json:"minHeight,omitempty"`
	MaxHeight *float64 `json:"maxHeight,omitempty"`
	HueRotate *bool    `json:"hueRotate,omitempty"`
}

// PulsePatch enables, disables or rescales the pulse layer. A patch carrying
// only a Scale enables pulse.
type PulsePatch struct {
	Enabled *bool
	Scale   *float64
}

// Partial is a sparse set of overrides. See Resolve for the merge rules.
type Partial struct {
	PlayMode         *PlayMode    `json:"playMode,omitempty"`
	CreateContainers *bool        `json:"createContainers,omitempty"`
	HideOverflow     *bool        `json:"hideOverflow,omitempty"`
	Content          *string      `json:"html,omitempty"`
	Timing           *TimingPatch `json:"timing,omitempty"`
	Span             *SpanPatch   `json:"glitchTimeSpan,omitempty"`
	Shake            *ShakePatch  `json:"shake,omitempty"`
	Slice            *SlicePatch  `json:"slice,omitempty"`
	Pulse            *PulsePatch  `json:"pulse,omitempty"`
}

// Resolve applies overrides in order over defaults. Later overrides win,
// nested sections merge field by field, and nil fields are skipped.
func Resolve(defaults Options, overrides ...Partial) Options {
	out := defaults
	for _, p := range overrides {
		p.applyTo(&out)
	}
	return out
}

// ResolvePartial merges overrides, then resolves them over the defaults of
// the play mode they select (Always when none does).
func ResolvePartial(overrides ...Partial) Options {
	var merged Partial
	for _, p := range overrides {
		merged = merged.Merge(p)
	}
	mode := PlayAlways
	if merged.PlayMode != nil {
		mode = *merged.PlayMode
	}
	return Resolve(DefaultsFor(mode), merged)
}

func (p Partial) applyTo(o *Options) {
	setIf(&o.PlayMode, p.PlayMode)
	setIf(&o.CreateContainers, p.CreateContainers)
	setIf(&o.HideOverflow, p.HideOverflow)
	setIf(&o.Content, p.Content)
	if t := p.Timing; t != nil {
		setIf(&o.Timing.Duration, t.Duration)
		setIf(&o.Timing.Iterations, t.Iterations)
	}
	if s := p.Span; s != nil {
		setIf(&o.Span.Start, s.Start)
		setIf(&o.Span.End, s.End)
	}
	if s := p.Shake; s != nil {
		setIf(&o.Shake.Velocity, s.Velocity)
		setIf(&o.Shake.AmplitudeX, s.AmplitudeX)
		setIf(&o.Shake.AmplitudeY, s.AmplitudeY)
	}
	if s := p.Slice; s != nil {
		setIf(&o.Slice.Count, s.Count)
		setIf(&o.Slice.Velocity, s.Velocity)
		setIf(&o.Slice.MinHeight, s.MinHeight)
		setIf(&o.Slice.MaxHeight, s.MaxHeight)
		setIf(&o.Slice.HueRotate, s.HueRotate)
	}
	if pp := p.Pulse; pp != nil {
		switch {
		case pp.Enabled != nil:
			o.Pulse.Enabled = *pp.Enabled
			if o.Pulse.Enabled && pp.Scale == nil && o.Pulse.Scale == 0 {
				o.Pulse.Scale = DefaultPulseScale
			}
		case pp.Scale != nil:
			o.Pulse.Enabled = true
		}
		setIf(&o.Pulse.Scale, pp.Scale)
	}
}

// Merge returns p overlaid with later, using the same rules as Resolve.
func (p Partial) Merge(later Partial) Partial {
	out := p
	setPtr(&out.PlayMode, later.PlayMode)
	setPtr(&out.CreateContainers, later.CreateContainers)
	setPtr(&out.HideOverflow, later.HideOverflow)
	setPtr(&out.Content, later.Content)
	if later.Timing != nil {
		t := TimingPatch{}
		if out.Timing != nil {
			t = *out.Timing
		}
		setPtr(&t.Duration, later.Timing.Duration)
		setPtr(&t.Iterations, later.Timing.Iterations)
		out.Timing = &t
	}
	if later.Span != nil {
		s := SpanPatch{}
		if out.Span != nil {
			s = *out.Span
		}
		setPtr(&s.Start, later.Span.Start)
		setPtr(&s.End, later.Span.End)
		out.Span = &s
	}
	if later.Shake != nil {
		s := ShakePatch{}
		if out.Shake != nil {
			s = *out.Shake
		}
		setPtr(&s.Velocity, later.Shake.Velocity)
		setPtr(&s.AmplitudeX, later.Shake.AmplitudeX)
		setPtr(&s.AmplitudeY, later.Shake.AmplitudeY)
		out.Shake = &s
	}
	if later.Slice != nil {
		s := SlicePatch{}
		if out.Slice != nil {
			s = *out.Slice
		}
		setPtr(&s.Count, later.Slice.Count)
		setPtr(&s.Velocity, later.Slice.Velocity)
		setPtr(&s.MinHeight, later.Slice.MinHeight)
		setPtr(&s.MaxHeight, later.Slice.MaxHeight)
		setPtr(&s.HueRotate, later.Slice.HueRotate)
		out.Slice = &s
	}
	if later.Pulse != nil {
		pp := PulsePatch{}
		if out.Pulse != nil {
			pp = *out.Pulse
		}
		if later.Pulse.Enabled != nil {
			pp.Enabled = later.Pulse.Enabled
		} else if later.Pulse.Scale != nil {
			pp.Enabled = nil
		}
		setPtr(&pp.Scale, later.Pulse.Scale)
		out.Pulse = &pp
	}
	return out
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func setPtr[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

// Ptr is a convenience for building Partial literals.
func Ptr[T any](v T) *T {
	return &v
}
