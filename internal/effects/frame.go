// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/effects/frame.go
// Summary: Decoded keyframe values and their interpolation.
// Notes: Offsets and clip edges are percentages of the node box, matching
// the units the glitch generators emit.

package effects

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/framegrace/texelglitch/glitch"
)

// Rect is a clip rectangle in percent of the node box.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// Frame is the visual state of one node at one instant.
type Frame struct {
	Opacity    float64
	TranslateX float64
	TranslateY float64
	Scale      float64
	// Clip is nil when the node is not clipped.
	Clip      *Rect
	HueRotate float64
}

// Identity is the frame of an unanimated node.
func Identity() Frame {
	return Frame{Opacity: 1, Scale: 1}
}

// Lerp interpolates towards to. Clip switches discretely at the halfway
// point when only one side is clipped, as clip-path does between a shape
// and unset.
func (f Frame) Lerp(to Frame, t float64) Frame {
	mix := func(a, b float64) float64 { return a + (b-a)*t }
	out := Frame{
		Opacity:    mix(f.Opacity, to.Opacity),
		TranslateX: mix(f.TranslateX, to.TranslateX),
		TranslateY: mix(f.TranslateY, to.TranslateY),
		Scale:      mix(f.Scale, to.Scale),
		HueRotate:  mix(f.HueRotate, to.HueRotate),
	}
	switch {
	case f.Clip != nil && to.Clip != nil:
		out.Clip = &Rect{
			Left:   mix(f.Clip.Left, to.Clip.Left),
			Top:    mix(f.Clip.Top, to.Clip.Top),
			Right:  mix(f.Clip.Right, to.Clip.Right),
			Bottom: mix(f.Clip.Bottom, to.Clip.Bottom),
		}
	case t < 0.5:
		out.Clip = f.Clip
	default:
		out.Clip = to.Clip
	}
	return out
}

// DecodeKeyframe parses the CSS values of a generated keyframe. Properties
// the terminal cannot express are ignored.
func DecodeKeyframe(kf glitch.Keyframe) (Frame, error) {
	f := Identity()
	for prop, value := range kf {
		var err error
		switch prop {
		case glitch.PropOpacity:
			f.Opacity, err = decodeOpacity(value)
		case glitch.PropTransform:
			err = decodeTransform(&f, value)
		case glitch.PropClipPath:
			f.Clip, err = decodeClipPath(value)
		case glitch.PropFilter:
			f.HueRotate, err = decodeFilter(value)
		}
		if err != nil {
			return Frame{}, fmt.Errorf("effects: %s: %w", prop, err)
		}
	}
	return f, nil
}

func decodeOpacity(value string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, err
	}
	return clamp01(v), nil
}

func decodeTransform(f *Frame, value string) error {
	terms, err := parseTerms(value)
	if err != nil {
		return err
	}
	for _, term := range terms {
		if !term.fn {
			if term.name == "none" {
				continue
			}
			return fmt.Errorf("unknown transform %q", term.name)
		}
		switch term.name {
		case "translate", "translate3d":
			if len(term.args) < 1 {
				return fmt.Errorf("%s() needs arguments", term.name)
			}
			x, err := percent(term.args[0])
			if err != nil {
				return err
			}
			f.TranslateX += x
			if len(term.args) > 1 {
				y, err := percent(term.args[1])
				if err != nil {
					return err
				}
				f.TranslateY += y
			}
		case "translatex":
			x, err := singlePercent(term)
			if err != nil {
				return err
			}
			f.TranslateX += x
		case "translatey":
			y, err := singlePercent(term)
			if err != nil {
				return err
			}
			f.TranslateY += y
		case "scale":
			if len(term.args) < 1 || term.args[0].unit != "" {
				return fmt.Errorf("malformed scale()")
			}
			f.Scale *= term.args[0].num
		default:
			return fmt.Errorf("unsupported transform %s()", term.name)
		}
	}
	return nil
}

func decodeClipPath(value string) (*Rect, error) {
	terms, err := parseTerms(value)
	if err != nil {
		return nil, err
	}
	if len(terms) != 1 {
		return nil, fmt.Errorf("expected one clip shape in %q", value)
	}
	term := terms[0]
	if !term.fn {
		switch term.name {
		case "unset", "none", "initial":
			return nil, nil
		}
		return nil, fmt.Errorf("unknown clip %q", term.name)
	}
	if term.name != "polygon" || len(term.args) < 2 || len(term.args)%2 != 0 {
		return nil, fmt.Errorf("unsupported clip shape %s()", term.name)
	}
	r := Rect{Left: math.Inf(1), Top: math.Inf(1), Right: math.Inf(-1), Bottom: math.Inf(-1)}
	for i := 0; i < len(term.args); i += 2 {
		x, err := percent(term.args[i])
		if err != nil {
			return nil, err
		}
		y, err := percent(term.args[i+1])
		if err != nil {
			return nil, err
		}
		r.Left, r.Right = math.Min(r.Left, x), math.Max(r.Right, x)
		r.Top, r.Bottom = math.Min(r.Top, y), math.Max(r.Bottom, y)
	}
	return &r, nil
}

func decodeFilter(value string) (float64, error) {
	terms, err := parseTerms(value)
	if err != nil {
		return 0, err
	}
	deg := 0.0
	for _, term := range terms {
		if !term.fn {
			if term.name == "none" {
				continue
			}
			return 0, fmt.Errorf("unknown filter %q", term.name)
		}
		if term.name != "hue-rotate" {
			continue
		}
		if len(term.args) != 1 {
			return 0, fmt.Errorf("malformed hue-rotate()")
		}
		a := term.args[0]
		switch a.unit {
		case "deg", "":
			deg += a.num
		case "turn":
			deg += a.num * 360
		case "rad":
			deg += a.num * 180 / math.Pi
		case "grad":
			deg += a.num * 0.9
		default:
			return 0, fmt.Errorf("bad angle unit %q", a.unit)
		}
	}
	return deg, nil
}

func percent(a cssArg) (float64, error) {
	switch {
	case a.ident != "":
		return 0, fmt.Errorf("expected a length, got %q", a.ident)
	case a.unit == "%":
		return a.num, nil
	case a.unit == "" && a.num == 0:
		return 0, nil
	}
	return 0, fmt.Errorf("unsupported unit %q", a.unit)
}

func singlePercent(term cssTerm) (float64, error) {
	if len(term.args) != 1 {
		return 0, fmt.Errorf("%s() takes one argument", term.name)
	}
	return percent(term.args[0])
}
