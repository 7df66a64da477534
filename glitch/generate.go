// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: glitch/generate.go
// Summary: Shake, slice and pulse generators plus the layer set composer.
// Usage: g := NewGenerator(src); set := g.Compose(opts)
// Notes: Every call draws fresh randomness; two composes never share descriptors.

package glitch

import (
	"math"
	"time"
)

// Generator turns resolved options into randomized layer descriptors.
type Generator struct {
	rng Source
}

// NewGenerator returns a generator drawing from src (DefaultSource when nil).
func NewGenerator(src Source) *Generator {
	if src == nil {
		src = DefaultSource()
	}
	return &Generator{rng: src}
}

// Shake emits one translate keyframe per step, scaled by amplitudes that are
// jittered to 50-150% once per call.
func (g *Generator) Shake(opts Options) *Layer {
	steps := stepCount(opts.Shake.Velocity, opts.Timing.Duration)
	ampX := opts.Shake.AmplitudeX * (0.5 + g.rng.Float64())
	ampY := opts.Shake.AmplitudeY * (0.5 + g.rng.Float64())

	frames := make([]Keyframe, 0, steps)
	for i := 0; i < steps; i++ {
		p := float64(i) / float64(steps)
		x := SignedIntensity(opts, p, g.rng) * ampX * 100
		y := SignedIntensity(opts, p, g.rng) * ampY * 100
		frames = append(frames, Keyframe{PropTransform: translate3d(x, y)})
	}
	return &Layer{
		Kind:      KindShake,
		Keyframes: frames,
		Timing:    layerTiming(opts, StepsEasing(steps)),
	}
}

// Slice emits a thin horizontal strip that jumps around while the envelope
// is non-zero and stays hidden otherwise.
func (g *Generator) Slice(opts Options) *Layer {
	steps := stepCount(opts.Slice.Velocity, opts.Timing.Duration)
	frames := make([]Keyframe, 0, steps)
	for i := 0; i < steps; i++ {
		p := float64(i) / float64(steps)
		if Intensity(opts, p) == 0 {
			frames = append(frames, Keyframe{
				PropOpacity:   "0",
				PropTransform: "none",
				PropClipPath:  "unset",
			})
			continue
		}
		frame := Keyframe{
			PropOpacity:   "1",
			PropTransform: translate3d(SignedIntensity(opts, p, g.rng)*30, 0),
			PropClipPath:  g.clipPath(opts.Slice.MinHeight, opts.Slice.MaxHeight, 1, 1),
		}
		if opts.Slice.HueRotate {
			frame[PropFilter] = "hue-rotate(" + num(math.Floor(g.rng.Float64()*360)) + "deg)"
		}
		frames = append(frames, frame)
	}
	timing := layerTiming(opts, StepsEasing(steps))
	timing.Delay = time.Duration(g.rng.Float64() * 100 * float64(time.Millisecond))
	return &Layer{Kind: KindSlice, Keyframes: frames, Timing: timing}
}

// clipPath builds a rectangle polygon, sizes given as fractions of the node.
func (g *Generator) clipPath(minHeight, maxHeight, minWidth, maxWidth float64) string {
	height := math.Floor(g.rng.Float64()*((maxHeight-minHeight)*100+1)) + minHeight*100
	width := math.Floor(g.rng.Float64()*((maxWidth-minWidth)*100+1)) + minWidth*100
	top := math.Floor(g.rng.Float64() * (100 - height))
	left := math.Floor(g.rng.Float64() * (100 - width))

	point := func(x, y float64) string { return num(x) + "% " + num(y) + "%" }
	return "polygon(" +
		point(left+width, top) + ", " +
		point(left+width, top+height) + ", " +
		point(left, top+height) + ", " +
		point(left, top) + ")"
}

// Pulse returns nil when pulse is disabled. Otherwise a smooth scale-out and
// fade starting at the span start.
func (g *Generator) Pulse(opts Options) *Layer {
	if !opts.Pulse.Enabled {
		return nil
	}
	timing := layerTiming(opts, EaseInOut)
	timing.Delay = time.Duration(opts.Span.Start * float64(opts.Timing.Duration))
	return &Layer{
		Kind: KindPulse,
		Keyframes: []Keyframe{
			{PropTransform: "scale(1)", PropOpacity: "1"},
			{PropTransform: "scale(" + num(opts.Pulse.Scale) + ")", PropOpacity: "0"},
		},
		Timing: timing,
	}
}

// Compose builds one play cycle: shake, pulse when enabled, then between 2
// and Slice.Count slices. Span bounds are jittered by up to 10% per call.
func (g *Generator) Compose(opts Options) LayerSet {
	jittered := opts
	jittered.Span = Span{
		Start: opts.Span.Start * between(g.rng, 0.9, 1.1),
		End:   opts.Span.End * between(g.rng, 0.9, 1.1),
	}

	set := make(LayerSet, 0, MaxLayers(opts))
	set = append(set, g.Shake(jittered))
	if pulse := g.Pulse(jittered); pulse != nil {
		set = append(set, pulse)
	}
	for n := g.sliceCount(opts.Slice.Count); n > 0; n-- {
		set = append(set, g.Slice(jittered))
	}
	return set
}

func (g *Generator) sliceCount(configured int) int {
	if configured <= 2 {
		return 2
	}
	return int(math.Floor(g.rng.Float64()*float64(configured-1))) + 2
}

// MaxLayers is the largest layer set Compose can return for opts, and so the
// number of presentation nodes an element needs.
func MaxLayers(opts Options) int {
	n := 1 + max(opts.Slice.Count, 2)
	if opts.Pulse.Enabled {
		n++
	}
	return n
}
