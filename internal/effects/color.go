// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/effects/color.go
// Summary: Cell colour operations for sampled frames: blend, fade and hue rotation.

package effects

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	fallbackFg = tcell.ColorWhite
	fallbackBg = tcell.ColorBlack
)

func toColorful(c tcell.Color) colorful.Color {
	r, g, b := c.RGB()
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

func fromColorful(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// BlendColor mixes overlay into base by intensity in RGB space.
func BlendColor(base, overlay tcell.Color, intensity float64) tcell.Color {
	if !overlay.Valid() || intensity <= 0 {
		return base
	}
	if !base.Valid() {
		return overlay
	}
	if intensity >= 1 {
		return overlay
	}
	return fromColorful(toColorful(base).BlendRgb(toColorful(overlay), intensity))
}

// HueRotate turns c around the HSL hue wheel by deg degrees.
func HueRotate(c tcell.Color, deg float64) tcell.Color {
	if !c.Valid() || math.Mod(deg, 360) == 0 {
		return c
	}
	h, s, l := toColorful(c).Hsl()
	h = math.Mod(h+deg, 360)
	if h < 0 {
		h += 360
	}
	return fromColorful(colorful.Hsl(h, s, l))
}

// TintStyle blends both style colours towards overlay, keeping attributes.
func TintStyle(style tcell.Style, overlay tcell.Color, intensity float64) tcell.Style {
	if intensity <= 0 {
		return style
	}
	fg, bg, _ := style.Decompose()
	if !fg.Valid() {
		fg = fallbackFg
	}
	if !bg.Valid() {
		bg = fallbackBg
	}
	return style.Foreground(BlendColor(fg, overlay, intensity)).Background(BlendColor(bg, overlay, intensity))
}

// FadeStyle renders style at opacity over the backdrop colour.
func FadeStyle(style tcell.Style, backdrop tcell.Color, opacity float64) tcell.Style {
	if opacity >= 1 {
		return style
	}
	if !backdrop.Valid() {
		backdrop = fallbackBg
	}
	return TintStyle(style, backdrop, 1-clamp01(opacity))
}

// RotateStyle hue-rotates both style colours.
func RotateStyle(style tcell.Style, deg float64) tcell.Style {
	if math.Mod(deg, 360) == 0 {
		return style
	}
	fg, bg, _ := style.Decompose()
	if !fg.Valid() {
		fg = fallbackFg
	}
	out := style.Foreground(HueRotate(fg, deg))
	if bg.Valid() {
		out = out.Background(HueRotate(bg, deg))
	}
	return out
}
