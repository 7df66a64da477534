// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/effects/animation.go
// Summary: One playing layer: decoded keyframes plus timing, sampled by time.

package effects

import (
	"fmt"
	"math"
	"time"

	"github.com/framegrace/texelglitch/glitch"
)

// Animation plays a glitch layer from Start. Keyframes are evenly spaced
// over one iteration and the easing applies to the whole iteration.
type Animation struct {
	Kind       glitch.LayerKind
	Frames     []Frame
	Duration   time.Duration
	Delay      time.Duration
	Iterations int
	Easing     EasingFunc
	Start      time.Time
}

// NewAnimation decodes layer into an animation starting at start.
func NewAnimation(layer *glitch.Layer, start time.Time) (*Animation, error) {
	if layer == nil || len(layer.Keyframes) == 0 {
		return nil, fmt.Errorf("effects: layer has no keyframes")
	}
	ease, err := ParseEasing(layer.Timing.Easing)
	if err != nil {
		return nil, err
	}
	frames := make([]Frame, len(layer.Keyframes))
	for i, kf := range layer.Keyframes {
		if frames[i], err = DecodeKeyframe(kf); err != nil {
			return nil, fmt.Errorf("keyframe %d: %w", i, err)
		}
	}
	return &Animation{
		Kind:       layer.Kind,
		Frames:     frames,
		Duration:   layer.Timing.Duration,
		Delay:      layer.Timing.Delay,
		Iterations: layer.Timing.Iterations,
		Easing:     ease,
		Start:      start,
	}, nil
}

// Sample returns the frame at now. ok is false while the delay is pending
// and once the last iteration has ended; the node then shows its own style.
func (a *Animation) Sample(now time.Time) (frame Frame, ok bool) {
	elapsed := now.Sub(a.Start) - a.Delay
	if elapsed < 0 || a.Duration <= 0 || a.Iterations == 0 {
		return Frame{}, false
	}
	if a.Iterations != glitch.Infinite && elapsed >= a.Duration*time.Duration(a.Iterations) {
		return Frame{}, false
	}
	progress := float64(elapsed%a.Duration) / float64(a.Duration)
	ease := a.Easing
	if ease == nil {
		ease = EaseLinear
	}
	return a.frameAt(ease(progress)), true
}

// Finished reports whether the animation can no longer produce frames.
func (a *Animation) Finished(now time.Time) bool {
	if a.Duration <= 0 || a.Iterations == 0 {
		return true
	}
	if a.Iterations == glitch.Infinite {
		return false
	}
	return now.Sub(a.Start)-a.Delay >= a.Duration*time.Duration(a.Iterations)
}

func (a *Animation) frameAt(p float64) Frame {
	n := len(a.Frames)
	if n == 1 {
		return a.Frames[0]
	}
	pos := clamp01(p) * float64(n-1)
	i := int(math.Floor(pos))
	if i >= n-1 {
		i = n - 2
	}
	return a.Frames[i].Lerp(a.Frames[i+1], pos-float64(i))
}
