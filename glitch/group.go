// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: glitch/group.go
// Summary: Attachment registry and the group handle that fans controls out.
// Usage: g := glitch.New(host); grp, err := g.Attach(nodes, glitch.Partial{...})
// Notes: Element state lives in a map keyed by node identity; attaching an
// element twice reuses its containers instead of wrapping again.

package glitch

import (
	"errors"
	"fmt"
)

// Glitcher holds the per-element playback state for one host.
type Glitcher struct {
	host     Host
	elements map[Node]*Controller
	order    []Node
}

// New returns a Glitcher bound to host. Tree and Player are required.
func New(host Host) *Glitcher {
	return &Glitcher{
		host:     host.withDefaults(),
		elements: make(map[Node]*Controller),
	}
}

// Controller returns the controller attached to target, if any.
func (g *Glitcher) Controller(target Node) (*Controller, bool) {
	c, ok := g.elements[target]
	return c, ok
}

// Attached reports how many elements currently carry a controller.
func (g *Glitcher) Attached() int { return len(g.elements) }

// AttachSelector resolves selector through the host tree and attaches every match.
func (g *Glitcher) AttachSelector(selector string, overrides ...Partial) (*Group, error) {
	nodes, err := g.host.Tree.QueryAll(selector)
	if err != nil {
		return nil, fmt.Errorf("glitch: query %q: %w", selector, err)
	}
	return g.Attach(nodes, overrides...)
}

// Attach resolves the options once and gives each target its own controller.
// Targets that fail setup are skipped and reported in the joined error.
func (g *Glitcher) Attach(targets []Node, overrides ...Partial) (*Group, error) {
	opts := ResolvePartial(overrides...)
	group := &Group{}
	var errs []error
	for _, target := range targets {
		c := &Controller{
			host:   g.host,
			log:    g.host.Logger.With("mode", opts.PlayMode),
			opts:   opts,
			gen:    NewGenerator(g.host.Random),
			target: target,
		}
		prev := g.elements[target]
		if err := c.setup(prev); err != nil {
			errs = append(errs, err)
			if prev != nil {
				g.forget(target)
			}
			continue
		}
		if prev == nil {
			g.order = append(g.order, target)
		}
		g.elements[target] = c
		c.install()
		group.controllers = append(group.controllers, c)
	}
	g.host.Logger.Info("glitch: attached", "targets", len(targets), "ok", len(group.controllers), "mode", opts.PlayMode)
	return group, errors.Join(errs...)
}

// Detach stops and unwraps target, forgetting its state.
func (g *Glitcher) Detach(target Node) error {
	c, ok := g.elements[target]
	if !ok {
		return nil
	}
	g.forget(target)
	return c.detach()
}

// Group returns a handle over every attached element in attach order.
func (g *Glitcher) Group() *Group {
	grp := &Group{controllers: make([]*Controller, 0, len(g.order))}
	for _, target := range g.order {
		grp.controllers = append(grp.controllers, g.elements[target])
	}
	return grp
}

func (g *Glitcher) forget(target Node) {
	delete(g.elements, target)
	for i, n := range g.order {
		if n == target {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

// Group is the aggregate control surface returned by Attach.
type Group struct {
	controllers []*Controller
}

func (grp *Group) Controllers() []*Controller { return grp.controllers }

// Containers returns the wrapper nodes, one per attached element.
func (grp *Group) Containers() []Node {
	out := make([]Node, 0, len(grp.controllers))
	for _, c := range grp.controllers {
		out = append(out, c.container)
	}
	return out
}

// Start starts every element that is not itself suppressed.
func (grp *Group) Start() {
	for _, c := range grp.controllers {
		if !c.Suppressed() {
			c.Start()
		}
	}
}

func (grp *Group) Stop() {
	for _, c := range grp.controllers {
		c.Stop()
	}
}

func (grp *Group) UpdateState() {
	for _, c := range grp.controllers {
		c.UpdateState()
	}
}

// Detach detaches every element of the group from g.
func (grp *Group) Detach(g *Glitcher) error {
	var errs []error
	for _, c := range grp.controllers {
		if cur, ok := g.elements[c.target]; !ok || cur != c {
			continue
		}
		if err := g.Detach(c.target); err != nil {
			errs = append(errs, err)
		}
	}
	grp.controllers = nil
	return errors.Join(errs...)
}
