// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/effects/manager.go
// Summary: Per-node animation registry that plays glitch layers without a
// native animation engine.
// Usage: Hosts use Manager as their glitch.Player and call Sample per node
// while rendering; Update prunes finished animations and schedules frames.
// Notes: Safe for concurrent use; the render ticker and the event loop may
// interleave.

package effects

import (
	"sync"
	"time"

	"github.com/framegrace/texelglitch/glitch"
)

const defaultFrameInterval = 16 * time.Millisecond

type Manager struct {
	mu    sync.RWMutex
	anims map[glitch.Node][]*Animation
	clock func() time.Time

	frameMu       sync.Mutex
	renderCh      chan<- struct{}
	frameTimer    *time.Timer
	frameInterval time.Duration
}

func NewManager() *Manager {
	return &Manager{
		anims:         make(map[glitch.Node][]*Animation),
		clock:         time.Now,
		frameInterval: defaultFrameInterval,
	}
}

// SetClock replaces the time source used to stamp new animations.
func (m *Manager) SetClock(clock func() time.Time) {
	m.mu.Lock()
	m.clock = clock
	m.mu.Unlock()
}

// SetFrameRate sets how soon a requested frame is delivered.
func (m *Manager) SetFrameRate(fps int) {
	if fps <= 0 {
		return
	}
	m.frameMu.Lock()
	m.frameInterval = time.Second / time.Duration(fps)
	m.frameMu.Unlock()
}

// AttachRenderChannel makes the manager signal ch whenever a frame is due.
func (m *Manager) AttachRenderChannel(ch chan<- struct{}) {
	m.frameMu.Lock()
	m.renderCh = ch
	if m.frameTimer != nil {
		m.frameTimer.Stop()
		m.frameTimer = nil
	}
	m.frameMu.Unlock()
}

// RequestFrame schedules one render signal after the frame interval.
func (m *Manager) RequestFrame() {
	m.frameMu.Lock()
	defer m.frameMu.Unlock()
	if m.renderCh == nil || m.frameTimer != nil {
		return
	}
	ch := m.renderCh
	m.frameTimer = time.AfterFunc(m.frameInterval, func() {
		select {
		case ch <- struct{}{}:
		default:
		}
		m.frameMu.Lock()
		m.frameTimer = nil
		m.frameMu.Unlock()
	})
}

// Play starts layer on n alongside whatever already plays there.
func (m *Manager) Play(n glitch.Node, layer *glitch.Layer) error {
	m.mu.Lock()
	anim, err := NewAnimation(layer, m.clock())
	if err != nil {
		m.mu.Unlock()
		return err
	}
	m.anims[n] = append(m.anims[n], anim)
	m.mu.Unlock()
	m.RequestFrame()
	return nil
}

// Cancel drops every animation on n.
func (m *Manager) Cancel(n glitch.Node) error {
	m.mu.Lock()
	_, had := m.anims[n]
	delete(m.anims, n)
	m.mu.Unlock()
	if had {
		m.RequestFrame()
	}
	return nil
}

// Sample composites the animations on n at now. Later animations replace
// earlier ones. ok is false when nothing is in effect.
func (m *Manager) Sample(n glitch.Node, now time.Time) (Frame, bool) {
	m.mu.RLock()
	anims := m.anims[n]
	m.mu.RUnlock()
	var (
		out Frame
		ok  bool
	)
	for _, a := range anims {
		if f, active := a.Sample(now); active {
			out, ok = f, true
		}
	}
	return out, ok
}

// Playing returns how many animations are registered on n.
func (m *Manager) Playing(n glitch.Node) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.anims[n])
}

// Update prunes finished animations and requests another frame while any
// remain. It reports whether anything is still animating.
func (m *Manager) Update(now time.Time) bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	for n, anims := range m.anims {
		kept := make([]*Animation, 0, len(anims))
		for _, a := range anims {
			if !a.Finished(now) {
				kept = append(kept, a)
			}
		}
		if len(kept) == 0 {
			delete(m.anims, n)
		} else {
			m.anims[n] = kept
		}
	}
	active := len(m.anims) > 0
	m.mu.Unlock()
	if active {
		m.RequestFrame()
	}
	return active
}
