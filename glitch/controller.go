// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: glitch/controller.go
// Summary: Per-element playback state machine (Idle/Playing).
// Usage: Created by Glitcher.Attach; driven by pointer triggers, change
// notifications and the imperative Start/Stop/UpdateState calls.
// Notes: Every Start cancels all in-flight playback before issuing new layers.

package glitch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// State is the playback state of one element.
type State int

const (
	Idle State = iota
	Playing
)

func (s State) String() string {
	if s == Playing {
		return "playing"
	}
	return "idle"
}

var ErrNoGlitchTarget = errors.New("glitch: target has no child to glitch")

const gridArea = "1/1/-1/-1"

// Controller owns the playback state of a single attached element.
type Controller struct {
	host   Host
	log    *log.Logger
	opts   Options
	gen    *Generator
	target Node

	container Node
	layers    Node
	glitched  Node
	clones    []Node
	wrapped   bool

	state    State
	current  LayerSet
	teardown []func()
	// released controllers were replaced or detached and ignore controls.
	released bool
}

func (c *Controller) Target() Node     { return c.target }
func (c *Controller) Container() Node  { return c.container }
func (c *Controller) State() State     { return c.state }
func (c *Controller) Options() Options { return c.opts }

// Layers returns the layer set issued by the most recent Start, or nil
// while idle.
func (c *Controller) Layers() LayerSet { return c.current }

// Nodes returns the presentation nodes layers play on: the glitched node
// followed by its clones.
func (c *Controller) Nodes() []Node {
	nodes := make([]Node, 0, len(c.clones)+1)
	nodes = append(nodes, c.glitched)
	return append(nodes, c.clones...)
}

// Suppressed reports the current external suppression signal.
func (c *Controller) Suppressed() bool {
	return c.host.Suppressed(c.target)
}

// Start regenerates the layer set and plays it, unless suppressed. It is a
// hard reset when already playing.
func (c *Controller) Start() {
	if c.released {
		return
	}
	if c.Suppressed() {
		c.log.Debug("glitch: start suppressed")
		return
	}
	c.cancelAll()
	c.current = c.gen.Compose(c.opts)
	nodes := c.Nodes()
	for i, layer := range c.current {
		if i >= len(nodes) {
			c.log.Warn("glitch: layer without node", "index", i, "nodes", len(nodes))
			break
		}
		if err := c.host.Player.Play(nodes[i], layer); err != nil {
			c.log.Error("glitch: play layer", "kind", layer.Kind, "index", i, "err", err)
		}
	}
	c.state = Playing
	c.log.Debug("glitch: started", "layers", len(c.current))
}

// Stop cancels all playback on every node. Calling it while idle is harmless.
func (c *Controller) Stop() {
	if c.released {
		return
	}
	c.cancelAll()
	c.current = nil
	if c.state == Playing {
		c.log.Debug("glitch: stopped")
	}
	c.state = Idle
}

// UpdateState re-evaluates suppression: suppressed elements stop, Always
// elements restart, hover and click elements are left alone.
func (c *Controller) UpdateState() {
	if c.released {
		return
	}
	switch {
	case c.Suppressed():
		c.Stop()
	case c.opts.PlayMode == PlayAlways:
		c.Start()
	}
}

func (c *Controller) click() {
	c.Stop()
	if !c.Suppressed() {
		c.Start()
	}
}

func (c *Controller) cancelAll() {
	for _, n := range c.Nodes() {
		if n == nil {
			continue
		}
		if err := c.host.Player.Cancel(n); err != nil {
			c.log.Error("glitch: cancel playback", "err", err)
		}
	}
}

// setup builds or reuses the container structure and clones. On failure the
// target is left unwrapped with no clones.
func (c *Controller) setup(prev *Controller) (err error) {
	defer func() {
		if err != nil {
			c.rollback()
		}
	}()
	tree := c.host.Tree
	if prev != nil {
		prev.release()
		c.container, c.layers, c.glitched, c.wrapped = prev.container, prev.layers, prev.glitched, prev.wrapped
	} else if !c.opts.CreateContainers {
		children, err := tree.Children(c.target)
		if err != nil {
			return fmt.Errorf("glitch: list children: %w", err)
		}
		if len(children) == 0 {
			return ErrNoGlitchTarget
		}
		c.container, c.layers, c.glitched = c.target, c.target, children[0]
	} else {
		container, layers, err := tree.Wrap(c.target)
		if err != nil {
			return fmt.Errorf("glitch: wrap target: %w", err)
		}
		c.container, c.layers, c.glitched, c.wrapped = container, layers, c.target, true
		if display, err := tree.ComputedStyle(c.target, "display"); err == nil && strings.HasPrefix(display, "inline") {
			c.style(c.container, "display", "inline-block")
		}
	}

	c.style(c.layers, "display", "grid")
	if c.opts.HideOverflow {
		c.style(c.container, "overflow", "hidden")
	}
	if c.opts.Content != "" {
		if err := tree.SetContent(c.glitched, c.opts.Content); err != nil {
			c.log.Error("glitch: set content", "err", err)
		}
	}
	c.style(c.glitched, "grid-area", gridArea)

	template, err := tree.Clone(c.glitched)
	if err != nil {
		return fmt.Errorf("glitch: clone target: %w", err)
	}
	c.style(template, "grid-area", gridArea)
	c.style(template, "user-select", "none")
	c.style(template, "pointer-events", "none")
	c.style(template, "opacity", "0")

	for i := 1; i < MaxLayers(c.opts); i++ {
		clone := template
		if i > 1 {
			if clone, err = tree.Clone(template); err != nil {
				return fmt.Errorf("glitch: clone layer %d: %w", i, err)
			}
		}
		if err := tree.Append(c.layers, clone); err != nil {
			return fmt.Errorf("glitch: append layer %d: %w", i, err)
		}
		c.clones = append(c.clones, clone)
	}
	return nil
}

// install wires mode triggers and change notifications.
func (c *Controller) install() {
	var l Listeners
	switch c.opts.PlayMode {
	case PlayHover:
		l = Listeners{Enter: c.Start, Leave: c.Stop}
	case PlayClick:
		l = Listeners{Click: c.click}
	}
	if c.host.Events != nil && (l.Enter != nil || l.Click != nil) {
		c.teardown = append(c.teardown, c.host.Events.Listen(c.container, l))
	}

	if c.host.Notifier != nil {
		handlers := ChangeHandlers{OnClassChange: c.UpdateState, OnStyleChange: c.UpdateState}
		c.teardown = append(c.teardown, c.host.Notifier.Subscribe(c.target, handlers))
		if link, err := c.host.Tree.Query(c.target, "a"); err == nil && link != nil {
			c.teardown = append(c.teardown, c.host.Notifier.Subscribe(link, ChangeHandlers{OnClassChange: c.UpdateState}))
		}
	}

	c.UpdateState()
}

func (c *Controller) rollback() {
	c.removeClones()
	if c.wrapped {
		c.wrapped = false
		if err := c.host.Tree.Unwrap(c.container, c.target); err != nil {
			c.log.Error("glitch: unwrap after failed setup", "err", err)
		}
	}
	c.released = true
}

// release stops playback, drops subscriptions and removes clones, leaving
// the container structure in place for reuse.
func (c *Controller) release() {
	c.Stop()
	for _, fn := range c.teardown {
		if fn != nil {
			fn()
		}
	}
	c.teardown = nil
	c.removeClones()
	c.released = true
}

func (c *Controller) removeClones() {
	for _, clone := range c.clones {
		if err := c.host.Tree.Remove(clone); err != nil {
			c.log.Error("glitch: remove clone", "err", err)
		}
	}
	c.clones = nil
}

// detach releases everything and unwraps the target.
func (c *Controller) detach() error {
	c.release()
	if !c.wrapped {
		return nil
	}
	c.wrapped = false
	return c.host.Tree.Unwrap(c.container, c.target)
}

func (c *Controller) style(n Node, prop, value string) {
	if err := c.host.Tree.SetStyle(n, prop, value); err != nil {
		c.log.Error("glitch: set style", "prop", prop, "err", err)
	}
}
