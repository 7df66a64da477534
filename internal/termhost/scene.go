// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/termhost/scene.go
// Summary: Scene is the box tree and implements glitch.Tree over it.
// Usage: s := NewScene(SceneOptions{}); g := glitch.New(s.Host(nil))
// Notes: All methods run on the event loop goroutine. Only the Manager is
// shared with the frame timer.

package termhost

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelglitch/glitch"
	"github.com/framegrace/texelglitch/internal/effects"
)

var (
	ErrForeignNode = errors.New("termhost: node does not belong to this scene")
	ErrDetached    = errors.New("termhost: box is not attached")
)

var inlineTags = map[string]bool{
	"a": true, "span": true, "em": true, "strong": true, "code": true, "b": true, "i": true,
}

// SceneOptions configures a Scene. Zero values pick working defaults.
type SceneOptions struct {
	Player      *effects.Manager
	Highlighter *Highlighter
	Logger      *log.Logger
	// Accent is the hover highlight colour.
	Accent tcell.Color
}

// Scene is a retained box tree rendered onto a tcell screen.
type Scene struct {
	root   *Box
	player *effects.Manager
	hl     *Highlighter
	log    *log.Logger
	accent tcell.Color

	listeners map[*Box][]*listener
	subs      map[*Box][]*subscription
	pending   []notification
	seq       uint64

	hovered   []*Box
	pressed   bool
	highlight *effects.Timeline
}

func NewScene(opts SceneOptions) *Scene {
	if opts.Player == nil {
		opts.Player = effects.NewManager()
	}
	if opts.Highlighter == nil {
		opts.Highlighter = NewHighlighter("")
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Accent == tcell.ColorDefault {
		opts.Accent = tcell.NewRGBColor(0xcb, 0xa6, 0xf7)
	}
	return &Scene{
		root:      newBox("body"),
		player:    opts.Player,
		hl:        opts.Highlighter,
		log:       opts.Logger,
		accent:    opts.Accent,
		listeners: make(map[*Box][]*listener),
		subs:      make(map[*Box][]*subscription),
		highlight: effects.NewTimeline(0),
	}
}

func (s *Scene) Root() *Box                { return s.root }
func (s *Scene) Player() *effects.Manager  { return s.player }
func (s *Scene) Highlighter() *Highlighter { return s.hl }

// Host bundles the scene services for glitch.New.
func (s *Scene) Host(random glitch.Source) glitch.Host {
	return glitch.Host{
		Tree:     s,
		Player:   s.player,
		Events:   s,
		Notifier: s,
		Random:   random,
		Logger:   s.log,
	}
}

// Element creates a box and appends it to parent (the root when nil).
func (s *Scene) Element(parent *Box, tag string, classes ...string) *Box {
	if parent == nil {
		parent = s.root
	}
	b := newBox(tag, classes...)
	parent.insert(-1, b)
	return b
}

// SetLines replaces the content rows of b.
func (s *Scene) SetLines(b *Box, lines []Line) {
	b.lines = lines
}

func (s *Scene) AddClass(b *Box, class string) {
	if b.classes[class] {
		return
	}
	b.classes[class] = true
	s.notify(b, classChange)
}

func (s *Scene) RemoveClass(b *Box, class string) {
	if !b.classes[class] {
		return
	}
	delete(b.classes, class)
	s.notify(b, classChange)
}

// ToggleClass flips class on b and reports whether it is now present.
func (s *Scene) ToggleClass(b *Box, class string) bool {
	if b.classes[class] {
		s.RemoveClass(b, class)
		return false
	}
	s.AddClass(b, class)
	return true
}

func (s *Scene) box(n glitch.Node) (*Box, error) {
	b, ok := n.(*Box)
	if !ok || b == nil {
		return nil, fmt.Errorf("%w: %T", ErrForeignNode, n)
	}
	return b, nil
}

func (s *Scene) Wrap(target glitch.Node) (glitch.Node, glitch.Node, error) {
	t, err := s.box(target)
	if err != nil {
		return nil, nil, err
	}
	parent := t.parent
	if parent == nil {
		return nil, nil, ErrDetached
	}
	container := newBox("div")
	layers := newBox("div")
	parent.insert(parent.indexOf(t), container)
	container.insert(-1, layers)
	layers.insert(-1, t)
	return container, layers, nil
}

func (s *Scene) Unwrap(container, target glitch.Node) error {
	c, err := s.box(container)
	if err != nil {
		return err
	}
	t, err := s.box(target)
	if err != nil {
		return err
	}
	parent := c.parent
	if parent == nil {
		return ErrDetached
	}
	parent.insert(parent.indexOf(c), t)
	c.detach()
	s.forget(c)
	return nil
}

func (s *Scene) Children(n glitch.Node) ([]glitch.Node, error) {
	b, err := s.box(n)
	if err != nil {
		return nil, err
	}
	out := make([]glitch.Node, 0, len(b.children))
	for _, c := range b.children {
		out = append(out, c)
	}
	return out, nil
}

func (s *Scene) Clone(n glitch.Node) (glitch.Node, error) {
	b, err := s.box(n)
	if err != nil {
		return nil, err
	}
	return b.clone(), nil
}

func (s *Scene) Append(parent, child glitch.Node) error {
	p, err := s.box(parent)
	if err != nil {
		return err
	}
	c, err := s.box(child)
	if err != nil {
		return err
	}
	if p == c || p.isDescendantOf(c) {
		return fmt.Errorf("termhost: append would create a cycle")
	}
	p.insert(-1, c)
	return nil
}

func (s *Scene) Remove(child glitch.Node) error {
	c, err := s.box(child)
	if err != nil {
		return err
	}
	c.detach()
	s.forget(c)
	return nil
}

// SetStyle sets an inline style; an empty value removes it.
func (s *Scene) SetStyle(n glitch.Node, prop, value string) error {
	b, err := s.box(n)
	if err != nil {
		return err
	}
	prop = strings.ToLower(strings.TrimSpace(prop))
	value = strings.TrimSpace(value)
	old, had := b.style[prop]
	switch {
	case value == "" && !had:
		return nil
	case value == "":
		delete(b.style, prop)
	case had && old == value:
		return nil
	default:
		b.style[prop] = value
	}
	s.notify(b, styleChange)
	return nil
}

// ComputedStyle resolves inline styles, inheritance for pointer-events and
// per-tag defaults.
func (s *Scene) ComputedStyle(n glitch.Node, prop string) (string, error) {
	b, err := s.box(n)
	if err != nil {
		return "", err
	}
	return s.computed(b, prop), nil
}

func (s *Scene) computed(b *Box, prop string) string {
	if v, ok := b.style[prop]; ok {
		return v
	}
	switch prop {
	case "display":
		if inlineTags[b.tag] {
			return "inline"
		}
		return "block"
	case "pointer-events":
		for p := b.parent; p != nil; p = p.parent {
			if v, ok := p.style[prop]; ok {
				return v
			}
		}
		return "auto"
	case "opacity":
		return "1"
	case "overflow":
		return "visible"
	}
	return ""
}

// SetContent replaces b's children and rows with plain text content.
func (s *Scene) SetContent(n glitch.Node, content string) error {
	b, err := s.box(n)
	if err != nil {
		return err
	}
	for len(b.children) > 0 {
		c := b.children[0]
		c.detach()
		s.forget(c)
	}
	b.lines = s.hl.Plain(content)
	return nil
}

func (s *Scene) Query(n glitch.Node, sel string) (glitch.Node, error) {
	b, err := s.box(n)
	if err != nil {
		return nil, err
	}
	match, err := parseSelector(sel)
	if err != nil {
		return nil, err
	}
	var found *Box
	b.walk(func(c *Box) bool {
		if match.matches(c) {
			found = c
			return false
		}
		return true
	})
	if found == nil {
		return nil, nil
	}
	return found, nil
}

func (s *Scene) QueryAll(sel string) ([]glitch.Node, error) {
	match, err := parseSelector(sel)
	if err != nil {
		return nil, err
	}
	var out []glitch.Node
	s.root.walk(func(c *Box) bool {
		if match.matches(c) {
			out = append(out, c)
		}
		return true
	})
	return out, nil
}

func (s *Scene) HasClass(n glitch.Node, class string) (bool, error) {
	b, err := s.box(n)
	if err != nil {
		return false, err
	}
	return b.classes[class], nil
}

// forget drops event state for a removed subtree.
func (s *Scene) forget(b *Box) {
	drop := func(x *Box) bool {
		s.highlight.Reset(x)
		for i, h := range s.hovered {
			if h == x {
				s.hovered = append(s.hovered[:i:i], s.hovered[i+1:]...)
				break
			}
		}
		return true
	}
	drop(b)
	b.walk(drop)
}

// Playing reports whether any animation runs on b or its subtree.
func (s *Scene) Playing(b *Box) bool {
	busy := s.player.Playing(b) > 0
	b.walk(func(c *Box) bool {
		busy = busy || s.player.Playing(c) > 0
		return !busy
	})
	return busy
}

// Tick prunes finished animations and reports whether another frame is needed.
func (s *Scene) Tick(now time.Time) bool {
	animating := s.player.Update(now)
	if s.highlight.HasActiveAnimations(now) {
		s.player.RequestFrame()
		animating = true
	}
	return animating
}
