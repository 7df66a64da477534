// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/termhost/events.go
// Summary: Pointer listeners and change notifications for scene boxes.
// Notes: Change notifications queue up and are delivered by Flush, like a
// mutation observer delivering after the current task. Subscribers never
// see changes made before they subscribed.

package termhost

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelglitch/glitch"
)

const (
	highlightIn  = 120 * time.Millisecond
	highlightOut = 250 * time.Millisecond
	// maxFlushRounds bounds handler-triggered notification cascades.
	maxFlushRounds = 8
)

type changeKind int

const (
	classChange changeKind = iota
	styleChange
)

type notification struct {
	box  *Box
	kind changeKind
	seq  uint64
}

type subscription struct {
	h     glitch.ChangeHandlers
	since uint64
	dead  bool
}

type listener struct {
	l    glitch.Listeners
	dead bool
}

// Listen installs pointer callbacks on n.
func (s *Scene) Listen(n glitch.Node, l glitch.Listeners) func() {
	b, err := s.box(n)
	if err != nil {
		s.log.Warn("termhost: listen on foreign node", "err", err)
		return func() {}
	}
	entry := &listener{l: l}
	s.listeners[b] = append(s.listeners[b], entry)
	return func() {
		entry.dead = true
		list := s.listeners[b]
		for i, e := range list {
			if e == entry {
				list = append(list[:i:i], list[i+1:]...)
				break
			}
		}
		if len(list) == 0 {
			delete(s.listeners, b)
		} else {
			s.listeners[b] = list
		}
	}
}

// Subscribe observes class and inline style changes on n.
func (s *Scene) Subscribe(n glitch.Node, h glitch.ChangeHandlers) func() {
	b, err := s.box(n)
	if err != nil {
		s.log.Warn("termhost: subscribe on foreign node", "err", err)
		return func() {}
	}
	sub := &subscription{h: h, since: s.seq}
	s.subs[b] = append(s.subs[b], sub)
	return func() {
		sub.dead = true
		list := s.subs[b]
		for i, e := range list {
			if e == sub {
				list = append(list[:i:i], list[i+1:]...)
				break
			}
		}
		if len(list) == 0 {
			delete(s.subs, b)
		} else {
			s.subs[b] = list
		}
	}
}

func (s *Scene) notify(b *Box, kind changeKind) {
	s.seq++
	s.pending = append(s.pending, notification{box: b, kind: kind, seq: s.seq})
}

// Flush delivers queued change notifications and returns how many handler
// calls were made.
func (s *Scene) Flush() int {
	calls := 0
	for round := 0; round < maxFlushRounds && len(s.pending) > 0; round++ {
		batch := s.pending
		s.pending = nil
		type key struct {
			box  *Box
			kind changeKind
		}
		seen := make(map[key]bool, len(batch))
		for _, n := range batch {
			k := key{n.box, n.kind}
			if seen[k] {
				continue
			}
			seen[k] = true
			for _, sub := range append([]*subscription(nil), s.subs[n.box]...) {
				if sub.dead || n.seq <= sub.since {
					continue
				}
				fn := sub.h.OnClassChange
				if n.kind == styleChange {
					fn = sub.h.OnStyleChange
				}
				if fn != nil {
					fn()
					calls++
				}
			}
		}
	}
	if len(s.pending) > 0 {
		s.log.Warn("termhost: dropping notification cascade", "pending", len(s.pending))
		s.pending = nil
	}
	return calls
}

// HitTest returns the topmost box under (x, y) that accepts pointer events.
func (s *Scene) HitTest(x, y int) *Box {
	return s.hit(s.root, x, y)
}

func (s *Scene) hit(b *Box, x, y int) *Box {
	for i := len(b.children) - 1; i >= 0; i-- {
		if h := s.hit(b.children[i], x, y); h != nil {
			return h
		}
	}
	if b == s.root || !b.rect.contains(x, y) {
		return nil
	}
	if s.computed(b, "pointer-events") == "none" {
		return nil
	}
	return b
}

// HandleMouse routes a pointer sample: enter and leave for the hovered chain,
// click bubbling on a primary button press.
func (s *Scene) HandleMouse(x, y int, buttons tcell.ButtonMask, now time.Time) {
	var chain []*Box
	for b := s.HitTest(x, y); b != nil && b != s.root; b = b.parent {
		chain = append(chain, b)
	}

	inChain := func(list []*Box, b *Box) bool {
		for _, c := range list {
			if c == b {
				return true
			}
		}
		return false
	}
	prev := s.hovered
	s.hovered = chain
	for _, b := range prev {
		if !inChain(chain, b) {
			s.fire(b, now, false, func(l glitch.Listeners) func() { return l.Leave })
		}
	}
	for i := len(chain) - 1; i >= 0; i-- {
		if !inChain(prev, chain[i]) {
			s.fire(chain[i], now, true, func(l glitch.Listeners) func() { return l.Enter })
		}
	}

	down := buttons&tcell.Button1 != 0
	if down && !s.pressed {
		for _, b := range chain {
			s.fire(b, now, false, func(l glitch.Listeners) func() { return l.Click })
		}
	}
	s.pressed = down
}

// fire calls the picked callback on b's listeners and retargets its hover
// highlight.
func (s *Scene) fire(b *Box, now time.Time, enter bool, pick func(glitch.Listeners) func()) {
	list := s.listeners[b]
	if len(list) == 0 {
		return
	}
	for _, e := range append([]*listener(nil), list...) {
		if fn := pick(e.l); fn != nil && !e.dead {
			fn()
		}
	}
	if enter {
		s.highlight.AnimateTo(b, 1, highlightIn, now)
	} else if !s.isHovered(b) {
		s.highlight.AnimateTo(b, 0, highlightOut, now)
	}
}

func (s *Scene) isHovered(b *Box) bool {
	for _, h := range s.hovered {
		if h == b {
			return true
		}
	}
	return false
}
