// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: glitch/layer.go
// Summary: Layer descriptors produced by the generators and consumed by a Player.
// Notes: Descriptors are built fresh on every compose and never mutated afterwards.

package glitch

import (
	"fmt"
	"strconv"
	"time"
)

// Style properties written into keyframes.
const (
	PropOpacity   = "opacity"
	PropTransform = "transform"
	PropClipPath  = "clipPath"
	PropFilter    = "filter"
)

// Easing identifiers emitted in layer timings.
const (
	EaseInOut      = "ease-in-out"
	stepsJumpStart = "steps(%d, jump-start)"
)

// Keyframe maps a style property to its CSS value.
type Keyframe map[string]string

// LayerKind names the generator a layer came from.
type LayerKind int

const (
	KindShake LayerKind = iota
	KindPulse
	KindSlice
)

func (k LayerKind) String() string {
	switch k {
	case KindShake:
		return "shake"
	case KindPulse:
		return "pulse"
	case KindSlice:
		return "slice"
	}
	return "LayerKind(" + strconv.Itoa(int(k)) + ")"
}

// LayerTiming is the playback record handed to the animation engine.
type LayerTiming struct {
	Duration   time.Duration
	Iterations int
	Easing     string
	Delay      time.Duration
}

// Layer is one self-contained animation: ordered keyframes plus timing.
type Layer struct {
	Kind      LayerKind
	Keyframes []Keyframe
	Timing    LayerTiming
}

// LayerSet is one play cycle. Index i plays on presentation clone i.
type LayerSet []*Layer

// StepsEasing returns the jump-cut easing for n discrete steps.
func StepsEasing(n int) string {
	return fmt.Sprintf(stepsJumpStart, n)
}

// stepCount couples keyframe density to velocity and cycle length.
func stepCount(velocity float64, duration time.Duration) int {
	ms := float64(duration) / float64(time.Millisecond)
	n := int(velocity*ms/1000) + 1
	if n < 1 {
		n = 1
	}
	return n
}

func layerTiming(opts Options, easing string) LayerTiming {
	return LayerTiming{
		Duration:   opts.Timing.Duration,
		Iterations: opts.Timing.Iterations,
		Easing:     easing,
	}
}

func num(v float64) string {
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func translate3d(x, y float64) string {
	return "translate3d(" + num(x) + "%, " + num(y) + "%, 0)"
}
