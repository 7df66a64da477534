// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: glitch/host.go
// Summary: Narrow service interfaces the controller uses to reach its host.
// Usage: termhost and rodhost implement these; tests use in-memory fakes.
// Notes: Nodes are compared by identity, so hosts hand out stable pointers.

package glitch

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Node is an opaque presentation node owned by the host. It must be
// comparable; hosts use pointers and return the same pointer for the same
// underlying node.
type Node any

// Tree is the presentation tree service.
type Tree interface {
	// Wrap creates a container holding a layers container, inserts the
	// container where target was and moves target into the layers container.
	Wrap(target Node) (container, layers Node, err error)
	// Unwrap moves target back to the container's position and drops the container.
	Unwrap(container, target Node) error
	Children(n Node) ([]Node, error)
	// Clone deep-copies n. The clone is not attached anywhere.
	Clone(n Node) (Node, error)
	Append(parent, child Node) error
	Remove(child Node) error
	SetStyle(n Node, prop, value string) error
	ComputedStyle(n Node, prop string) (string, error)
	SetContent(n Node, content string) error
	// Query returns the first descendant matching selector, or nil.
	Query(n Node, selector string) (Node, error)
	QueryAll(selector string) ([]Node, error)
	HasClass(n Node, class string) (bool, error)
}

// Player is the animation playback service.
type Player interface {
	Play(n Node, layer *Layer) error
	// Cancel stops every in-flight playback on n.
	Cancel(n Node) error
}

// Listeners are pointer callbacks installed on a container.
type Listeners struct {
	Enter func()
	Leave func()
	Click func()
}

// Events delivers pointer events for a node until the returned func is called.
type Events interface {
	Listen(n Node, l Listeners) (unlisten func())
}

// ChangeHandlers receive attribute change notifications.
type ChangeHandlers struct {
	OnClassChange func()
	OnStyleChange func()
}

// Notifier observes class and inline style changes on a node.
type Notifier interface {
	Subscribe(n Node, h ChangeHandlers) (unsubscribe func())
}

// Host bundles the services a Glitcher needs.
type Host struct {
	Tree     Tree
	Player   Player
	Events   Events
	Notifier Notifier
	Random   Source
	// Suppressed reports the external suppression signal for a target.
	// Defaults to AnySuppressed(LinkActive(Tree), PointerEventsNone(Tree)).
	Suppressed func(target Node) bool
	Logger     *log.Logger
}

func (h Host) withDefaults() Host {
	if h.Random == nil {
		h.Random = DefaultSource()
	}
	if h.Suppressed == nil {
		h.Suppressed = AnySuppressed(LinkActive(h.Tree), PointerEventsNone(h.Tree))
	}
	if h.Logger == nil {
		h.Logger = log.New(io.Discard)
	}
	return h
}

// Router classes that mark a link as the current route.
var DefaultActiveClasses = []string{"router-link-active", "router-link-exact-active"}

// LinkActive reports whether the first link inside the target carries one of
// the given classes (DefaultActiveClasses when none are given).
func LinkActive(tree Tree, classes ...string) func(Node) bool {
	if len(classes) == 0 {
		classes = DefaultActiveClasses
	}
	return func(target Node) bool {
		link, err := tree.Query(target, "a")
		if err != nil || link == nil {
			return false
		}
		for _, class := range classes {
			if ok, err := tree.HasClass(link, class); err == nil && ok {
				return true
			}
		}
		return false
	}
}

// PointerEventsNone reports whether the target has pointer events disabled.
func PointerEventsNone(tree Tree) func(Node) bool {
	return func(target Node) bool {
		v, err := tree.ComputedStyle(target, "pointer-events")
		return err == nil && strings.TrimSpace(v) == "none"
	}
}

// AnySuppressed combines predicates with a logical or.
func AnySuppressed(preds ...func(Node) bool) func(Node) bool {
	return func(target Node) bool {
		for _, pred := range preds {
			if pred != nil && pred(target) {
				return true
			}
		}
		return false
	}
}
