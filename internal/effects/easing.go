// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/effects/easing.go
// Summary: Easing curves and the parser for CSS timing-function strings.
// Usage: ease, err := ParseEasing("steps(4, jump-start)"); y := ease(0.3)
// Notes: Covers the keywords, steps() and cubic-bezier() forms that layer
// timings use; anything else is an error rather than a silent linear.

package effects

import (
	"fmt"
	"math"
	"strings"
)

// EasingFunc maps iteration progress in [0,1] to eased progress.
type EasingFunc func(progress float64) float64

var (
	EaseLinear EasingFunc = func(t float64) float64 { return t }

	// EaseSmoothstep is the S-curve the timeline uses by default.
	EaseSmoothstep EasingFunc = func(t float64) float64 {
		return t * t * (3.0 - 2.0*t)
	}

	EaseCSS       = CubicBezier(0.25, 0.1, 0.25, 1)
	EaseIn        = CubicBezier(0.42, 0, 1, 1)
	EaseOut       = CubicBezier(0, 0, 0.58, 1)
	EaseInOut     = CubicBezier(0.42, 0, 0.58, 1)
	easeStepStart = Steps(1, JumpStart)
	easeStepEnd   = Steps(1, JumpEnd)
)

// StepPosition selects where the jumps of a steps() easing happen.
type StepPosition int

const (
	JumpEnd StepPosition = iota
	JumpStart
	JumpNone
	JumpBoth
)

func parseStepPosition(s string) (StepPosition, error) {
	switch s {
	case "", "end", "jump-end":
		return JumpEnd, nil
	case "start", "jump-start":
		return JumpStart, nil
	case "jump-none":
		return JumpNone, nil
	case "jump-both":
		return JumpBoth, nil
	}
	return JumpEnd, fmt.Errorf("effects: unknown step position %q", s)
}

// Steps returns a jump-cut easing with n plateaus.
func Steps(n int, pos StepPosition) EasingFunc {
	if n < 1 {
		n = 1
	}
	if pos == JumpNone && n < 2 {
		n = 2
	}
	return func(t float64) float64 {
		t = clamp01(t)
		step := math.Floor(t * float64(n))
		if pos == JumpStart || pos == JumpBoth {
			step++
		}
		var out float64
		switch pos {
		case JumpNone:
			out = step / float64(n-1)
		case JumpBoth:
			out = step / float64(n+1)
		default:
			out = step / float64(n)
		}
		return clamp01(out)
	}
}

// CubicBezier returns the CSS cubic-bezier(x1, y1, x2, y2) easing.
func CubicBezier(x1, y1, x2, y2 float64) EasingFunc {
	cx := 3 * x1
	bx := 3*(x2-x1) - cx
	ax := 1 - cx - bx
	cy := 3 * y1
	by := 3*(y2-y1) - cy
	ay := 1 - cy - by

	sampleX := func(t float64) float64 { return ((ax*t+bx)*t + cx) * t }
	sampleY := func(t float64) float64 { return ((ay*t+by)*t + cy) * t }
	slopeX := func(t float64) float64 { return (3*ax*t+2*bx)*t + cx }

	solve := func(x float64) float64 {
		t := x
		for i := 0; i < 8; i++ {
			err := sampleX(t) - x
			if math.Abs(err) < 1e-7 {
				return t
			}
			d := slopeX(t)
			if math.Abs(d) < 1e-6 {
				break
			}
			t -= err / d
		}
		lo, hi := 0.0, 1.0
		t = x
		for i := 0; i < 64 && lo < hi; i++ {
			v := sampleX(t)
			if math.Abs(v-x) < 1e-7 {
				return t
			}
			if v < x {
				lo = t
			} else {
				hi = t
			}
			t = (lo + hi) / 2
		}
		return t
	}

	return func(x float64) float64 {
		x = clamp01(x)
		if x == 0 || x == 1 {
			return x
		}
		return sampleY(solve(x))
	}
}

// ParseEasing understands linear, ease, ease-in, ease-out, ease-in-out,
// step-start, step-end, steps(n[, position]) and cubic-bezier(a, b, c, d).
// The empty string means linear.
func ParseEasing(s string) (EasingFunc, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "", "linear":
		return EaseLinear, nil
	case "ease":
		return EaseCSS, nil
	case "ease-in":
		return EaseIn, nil
	case "ease-out":
		return EaseOut, nil
	case "ease-in-out":
		return EaseInOut, nil
	case "step-start":
		return easeStepStart, nil
	case "step-end":
		return easeStepEnd, nil
	}

	terms, err := parseTerms(s)
	if err != nil {
		return nil, err
	}
	if len(terms) != 1 || !terms[0].fn {
		return nil, fmt.Errorf("effects: unsupported easing %q", s)
	}
	term := terms[0]
	switch term.name {
	case "steps":
		if len(term.args) < 1 || len(term.args) > 2 || term.args[0].unit != "" {
			return nil, fmt.Errorf("effects: malformed steps easing %q", s)
		}
		n := int(term.args[0].num)
		if n < 1 || float64(n) != term.args[0].num {
			return nil, fmt.Errorf("effects: steps count must be a positive integer in %q", s)
		}
		pos := JumpEnd
		if len(term.args) == 2 {
			if pos, err = parseStepPosition(term.args[1].ident); err != nil {
				return nil, err
			}
		}
		return Steps(n, pos), nil
	case "cubic-bezier":
		if len(term.args) != 4 {
			return nil, fmt.Errorf("effects: cubic-bezier needs four numbers in %q", s)
		}
		var p [4]float64
		for i, a := range term.args {
			if a.ident != "" || a.unit != "" {
				return nil, fmt.Errorf("effects: malformed cubic-bezier %q", s)
			}
			p[i] = a.num
		}
		if p[0] < 0 || p[0] > 1 || p[2] < 0 || p[2] > 1 {
			return nil, fmt.Errorf("effects: cubic-bezier x values must be in [0,1] in %q", s)
		}
		return CubicBezier(p[0], p[1], p[2], p[3]), nil
	}
	return nil, fmt.Errorf("effects: unsupported easing %q", s)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
