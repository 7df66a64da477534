// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/effects/timeline.go
// Summary: Thread-safe per-key value timelines with configurable easing.
// Usage: termhost drives box hover highlights with it:
// tl.AnimateTo(box, 1, 120*time.Millisecond, now) on enter, 0 on leave.
// Notes: Retargeting mid-flight starts from the current value, so
// interrupted fades never jump.

package effects

import (
	"sync"
	"time"
)

type keyState struct {
	start     float64
	target    float64
	startTime time.Time
	duration  time.Duration
	easing    EasingFunc
}

// Timeline animates one float per key.
type Timeline struct {
	mu             sync.RWMutex
	states         map[interface{}]*keyState
	defaultEasing  EasingFunc
	defaultInitial float64
}

// NewTimeline returns a timeline whose unseen keys read as initial.
func NewTimeline(initial float64) *Timeline {
	return &Timeline{
		states:         make(map[interface{}]*keyState),
		defaultEasing:  EaseSmoothstep,
		defaultInitial: initial,
	}
}

// AnimateTo moves key towards target over duration starting at now and
// returns the value at now.
func (tl *Timeline) AnimateTo(key interface{}, target float64, duration time.Duration, now time.Time) float64 {
	return tl.AnimateWith(key, target, duration, nil, now)
}

// AnimateWith is AnimateTo with an explicit easing; nil keeps the default.
func (tl *Timeline) AnimateWith(key interface{}, target float64, duration time.Duration, easing EasingFunc, now time.Time) float64 {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	current := tl.defaultInitial
	if state := tl.states[key]; state != nil {
		current = tl.valueAt(state, now)
	}
	if easing == nil {
		easing = tl.defaultEasing
	}
	tl.states[key] = &keyState{
		start:     current,
		target:    target,
		startTime: now,
		duration:  duration,
		easing:    easing,
	}
	if duration <= 0 {
		return target
	}
	return current
}

// Get returns the value of key at now.
func (tl *Timeline) Get(key interface{}, now time.Time) float64 {
	tl.mu.RLock()
	defer tl.mu.RUnlock()
	state := tl.states[key]
	if state == nil {
		return tl.defaultInitial
	}
	return tl.valueAt(state, now)
}

// IsAnimating reports whether key is still moving at now.
func (tl *Timeline) IsAnimating(key interface{}, now time.Time) bool {
	tl.mu.RLock()
	defer tl.mu.RUnlock()
	state := tl.states[key]
	return state != nil && tl.moving(state, now)
}

// HasActiveAnimations reports whether any key is still moving at now.
func (tl *Timeline) HasActiveAnimations(now time.Time) bool {
	tl.mu.RLock()
	defer tl.mu.RUnlock()
	for _, state := range tl.states {
		if tl.moving(state, now) {
			return true
		}
	}
	return false
}

// Reset forgets key; it reads as the initial value again.
func (tl *Timeline) Reset(key interface{}) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	delete(tl.states, key)
}

func (tl *Timeline) moving(state *keyState, now time.Time) bool {
	return state.duration > 0 && state.start != state.target && now.Sub(state.startTime) < state.duration
}

// valueAt must be called with the lock held.
func (tl *Timeline) valueAt(state *keyState, now time.Time) float64 {
	if state.duration <= 0 {
		return state.target
	}
	elapsed := now.Sub(state.startTime)
	if elapsed <= 0 {
		return state.start
	}
	if elapsed >= state.duration {
		return state.target
	}
	progress := float64(elapsed) / float64(state.duration)
	return state.start + (state.target-state.start)*state.easing(progress)
}
