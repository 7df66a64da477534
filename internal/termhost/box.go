// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/termhost/box.go
// Summary: Box is the terminal presentation node handed to the glitch core.
// Notes: Boxes are compared by pointer identity; clones are new pointers.

package termhost

import (
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Cell is one styled rune of box content.
type Cell struct {
	Ch    rune
	Style tcell.Style
}

// Line is a row of content cells.
type Line []Cell

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

func (r rect) shift(dx, dy int) rect {
	return rect{x: r.x + dx, y: r.y + dy, w: r.w, h: r.h}
}

func (r rect) intersect(o rect) rect {
	x0, y0 := max(r.x, o.x), max(r.y, o.y)
	x1, y1 := min(r.x+r.w, o.x+o.w), min(r.y+r.h, o.y+o.h)
	if x1 <= x0 || y1 <= y0 {
		return rect{x: x0, y: y0}
	}
	return rect{x: x0, y: y0, w: x1 - x0, h: y1 - y0}
}

func (r rect) empty() bool { return r.w <= 0 || r.h <= 0 }

// Box is an element of the scene: a tag, classes, inline styles, optional
// content rows and children.
type Box struct {
	tag      string
	id       string
	classes  map[string]bool
	style    map[string]string
	lines    []Line
	parent   *Box
	children []*Box
	rect     rect
}

func newBox(tag string, classes ...string) *Box {
	b := &Box{
		tag:     strings.ToLower(tag),
		classes: make(map[string]bool),
		style:   make(map[string]string),
	}
	for _, c := range classes {
		if c != "" {
			b.classes[c] = true
		}
	}
	return b
}

func (b *Box) Tag() string   { return b.tag }
func (b *Box) ID() string    { return b.id }
func (b *Box) Parent() *Box  { return b.parent }
func (b *Box) Lines() []Line { return b.lines }

func (b *Box) Children() []*Box {
	return append([]*Box(nil), b.children...)
}

// SetID sets the id matched by #id selectors.
func (b *Box) SetID(id string) { b.id = id }

// Classes returns the class list in sorted order.
func (b *Box) Classes() []string {
	out := make([]string, 0, len(b.classes))
	for c := range b.classes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (b *Box) HasClass(class string) bool { return b.classes[class] }

// Style returns the inline style value for prop.
func (b *Box) Style(prop string) (string, bool) {
	v, ok := b.style[prop]
	return v, ok
}

// Text returns the content rows as plain text.
func (b *Box) Text() string {
	var sb strings.Builder
	for i, line := range b.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, c := range line {
			sb.WriteRune(c.Ch)
		}
	}
	return sb.String()
}

func (b *Box) indexOf(child *Box) int {
	for i, c := range b.children {
		if c == child {
			return i
		}
	}
	return -1
}

func (b *Box) insert(i int, child *Box) {
	child.detach()
	if i < 0 || i > len(b.children) {
		i = len(b.children)
	}
	b.children = append(b.children, nil)
	copy(b.children[i+1:], b.children[i:])
	b.children[i] = child
	child.parent = b
}

func (b *Box) detach() {
	p := b.parent
	if p == nil {
		return
	}
	if i := p.indexOf(b); i >= 0 {
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
	b.parent = nil
}

// clone deep-copies b and its subtree, unattached.
func (b *Box) clone() *Box {
	cp := newBox(b.tag)
	cp.id = b.id
	for c := range b.classes {
		cp.classes[c] = true
	}
	for k, v := range b.style {
		cp.style[k] = v
	}
	cp.lines = make([]Line, len(b.lines))
	for i, line := range b.lines {
		cp.lines[i] = append(Line(nil), line...)
	}
	for _, child := range b.children {
		cc := child.clone()
		cc.parent = cp
		cp.children = append(cp.children, cc)
	}
	return cp
}

// walk visits b's descendants in document order until fn returns false.
func (b *Box) walk(fn func(*Box) bool) bool {
	for _, child := range b.children {
		if !fn(child) || !child.walk(fn) {
			return false
		}
	}
	return true
}

func (b *Box) isDescendantOf(anc *Box) bool {
	for p := b.parent; p != nil; p = p.parent {
		if p == anc {
			return true
		}
	}
	return false
}
