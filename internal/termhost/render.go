// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/termhost/render.go
// Summary: Lays boxes out as stacked rows and paints sampled frames.
// Notes: Translations are in percent of the box size; clip rectangles map
// to whole cells. Grid boxes stack every child on the same area, which is
// how clones overlay their original.

package termhost

import (
	"math"
	"strconv"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/framegrace/texelglitch/internal/effects"
)

const (
	marginLeft = 2
	marginTop  = 1
	// highlightMix is how far a fully hovered box is tinted towards the accent.
	highlightMix = 0.18
	// minOpacity below which a box is not drawn at all.
	minOpacity = 0.02
)

// Layout assigns every box a rectangle. Top-level boxes stack with a blank
// row between them.
func (s *Scene) Layout() {
	y := marginTop
	for _, child := range s.root.children {
		_, h := s.place(child, marginLeft, y)
		if h > 0 {
			y += h + 1
		}
	}
}

func (s *Scene) place(b *Box, x, y int) (int, int) {
	display := s.computed(b, "display")
	if display == "none" {
		b.rect = rect{x: x, y: y}
		b.walk(func(c *Box) bool {
			c.rect = rect{x: x, y: y}
			return true
		})
		return 0, 0
	}
	w := 0
	for _, line := range b.lines {
		w = max(w, lineWidth(line))
	}
	h := len(b.lines)
	cy := y + h
	if display == "grid" {
		gh := 0
		for _, c := range b.children {
			cw, ch := s.place(c, x, cy)
			w, gh = max(w, cw), max(gh, ch)
		}
		h += gh
	} else {
		for _, c := range b.children {
			cw, ch := s.place(c, x, cy)
			w = max(w, cw)
			cy += ch
			h += ch
		}
	}
	b.rect = rect{x: x, y: y, w: w, h: h}
	return w, h
}

type paint struct {
	dx, dy  int
	clip    rect
	opacity float64
	hue     float64
	tint    float64
}

// Render lays the scene out and draws it at now. The caller shows the screen.
func (s *Scene) Render(screen tcell.Screen, now time.Time) {
	s.Layout()
	w, h := screen.Size()
	screen.Fill(' ', s.hl.Base())
	st := paint{clip: rect{w: w, h: h}, opacity: 1}
	for _, child := range s.root.children {
		s.draw(screen, child, st, now)
	}
}

func (s *Scene) draw(screen tcell.Screen, b *Box, st paint, now time.Time) {
	if b.rect.w == 0 && b.rect.h == 0 {
		return
	}
	opacity := inlineOpacity(b)
	frame, animated := s.player.Sample(b, now)
	var ring *rect
	if animated {
		opacity = frame.Opacity
		st.dx += int(math.Round(frame.TranslateX * float64(b.rect.w) / 100))
		st.dy += int(math.Round(frame.TranslateY * float64(b.rect.h) / 100))
		st.hue += frame.HueRotate
		if frame.Clip != nil {
			st.clip = st.clip.intersect(clipArea(b.rect, frame.Clip).shift(st.dx, st.dy))
		}
		if frame.Scale > 1 {
			r := scaled(b.rect, frame.Scale).shift(st.dx, st.dy)
			ring = &r
		}
	}
	st.opacity *= opacity
	if st.opacity < minOpacity {
		return
	}
	if len(s.listeners[b]) > 0 {
		st.tint = math.Max(st.tint, s.highlight.Get(b, now)*highlightMix)
	}

	area := b.rect.shift(st.dx, st.dy)
	if ring != nil {
		s.drawRing(screen, *ring, st)
	}
	for row, line := range b.lines {
		x := area.x
		for _, c := range line {
			x += s.setCell(screen, x, area.y+row, c.Ch, c.Style, st)
		}
		for ; x < area.x+area.w; x++ {
			s.setCell(screen, x, area.y+row, ' ', s.hl.Base(), st)
		}
	}

	if s.computed(b, "overflow") == "hidden" {
		st.clip = st.clip.intersect(area)
	}
	for _, child := range b.children {
		s.draw(screen, child, st, now)
	}
}

// setCell paints one rune through the current paint state and returns how
// many columns it advanced.
func (s *Scene) setCell(screen tcell.Screen, x, y int, ch rune, style tcell.Style, st paint) int {
	width := runewidth.RuneWidth(ch)
	if width <= 0 {
		return 0
	}
	if !st.clip.contains(x, y) || (width == 2 && !st.clip.contains(x+1, y)) {
		return width
	}
	if st.hue != 0 {
		style = effects.RotateStyle(style, st.hue)
	}
	if st.tint > 0 {
		style = effects.TintStyle(style, s.accent, st.tint)
	}
	if st.opacity < 1 {
		style = effects.FadeStyle(style, s.hl.Background(), st.opacity)
	}
	screen.SetContent(x, y, ch, nil, style)
	return width
}

// drawRing outlines a pulse area with light box-drawing runes.
func (s *Scene) drawRing(screen tcell.Screen, r rect, st paint) {
	if r.w < 2 || r.h < 2 {
		return
	}
	_, _, attrs := s.hl.Base().Decompose()
	style := tcell.StyleDefault.Foreground(s.accent).Background(s.hl.Background()).Attributes(attrs)
	x1, y1 := r.x+r.w-1, r.y+r.h-1
	for x := r.x + 1; x < x1; x++ {
		s.setCell(screen, x, r.y, '─', style, st)
		s.setCell(screen, x, y1, '─', style, st)
	}
	for y := r.y + 1; y < y1; y++ {
		s.setCell(screen, r.x, y, '│', style, st)
		s.setCell(screen, x1, y, '│', style, st)
	}
	s.setCell(screen, r.x, r.y, '╭', style, st)
	s.setCell(screen, x1, r.y, '╮', style, st)
	s.setCell(screen, r.x, y1, '╰', style, st)
	s.setCell(screen, x1, y1, '╯', style, st)
}

func inlineOpacity(b *Box) float64 {
	v, ok := b.style["opacity"]
	if !ok {
		return 1
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 1
	}
	return math.Max(0, math.Min(1, f))
}

// clipArea maps a percent inset rectangle onto whole cells of r.
func clipArea(r rect, c *effects.Rect) rect {
	x0 := r.x + int(math.Floor(c.Left*float64(r.w)/100))
	x1 := r.x + int(math.Ceil(c.Right*float64(r.w)/100))
	y0 := r.y + int(math.Floor(c.Top*float64(r.h)/100))
	y1 := r.y + int(math.Ceil(c.Bottom*float64(r.h)/100))
	if x1 <= x0 || y1 <= y0 {
		return rect{x: x0, y: y0}
	}
	return rect{x: x0, y: y0, w: x1 - x0, h: y1 - y0}
}

// scaled grows r around its centre by factor.
func scaled(r rect, factor float64) rect {
	ex := int(math.Round((factor - 1) * float64(r.w) / 2))
	ey := int(math.Round((factor - 1) * float64(r.h) / 2))
	return rect{x: r.x - ex, y: r.y - ey, w: r.w + 2*ex, h: r.h + 2*ey}
}
