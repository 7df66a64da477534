// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package glitch

import (
	"errors"
	"testing"
)

func mode(m PlayMode) Partial { return Partial{PlayMode: Ptr(m)} }

func attachOne(t *testing.T, f *fixture, target *fakeNode, overrides ...Partial) *Controller {
	t.Helper()
	grp, err := f.g.Attach([]Node{target}, overrides...)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if len(grp.Controllers()) != 1 {
		t.Fatalf("expected one controller, got %d", len(grp.Controllers()))
	}
	return grp.Controllers()[0]
}

func TestHoverStartsOnEnterAndStopsOnLeave(t *testing.T) {
	f := newFixture()
	el, _ := f.element()
	c := attachOne(t, f, el, mode(PlayHover))

	if c.State() != Idle || f.player.inFlight() != 0 {
		t.Fatalf("hover element should be idle after attach")
	}
	f.events.enter(c.Container())
	if c.State() != Playing {
		t.Fatalf("expected playing after enter")
	}
	// one shake, no pulse, two to six slices
	if n := len(c.Layers()); n < 3 || n > 7 {
		t.Fatalf("expected 3..7 layers for hover defaults, got %d", n)
	}
	if got, want := f.player.inFlight(), len(c.Layers()); got != want {
		t.Fatalf("expected %d in-flight layers, got %d", want, got)
	}
	f.events.leave(c.Container())
	if c.State() != Idle || f.player.inFlight() != 0 {
		t.Fatalf("expected idle with nothing in flight after leave, got %v/%d", c.State(), f.player.inFlight())
	}
}

func TestClickRestartsWithFreshLayers(t *testing.T) {
	f := newFixture()
	el, _ := f.element()
	c := attachOne(t, f, el, mode(PlayClick))

	f.events.enter(c.Container())
	if c.State() != Idle {
		t.Fatalf("click element must ignore hover")
	}
	f.events.click(c.Container())
	first := c.Layers()
	if c.State() != Playing || len(first) == 0 {
		t.Fatalf("expected playing after click")
	}
	f.events.click(c.Container())
	second := c.Layers()
	if c.State() != Playing {
		t.Fatalf("expected still playing after second click")
	}
	if first[0] == second[0] {
		t.Fatalf("second click reused the previous layer set")
	}
	if f.player.inFlight() != len(second) {
		t.Fatalf("previous cycle not cancelled: %d in flight, %d expected", f.player.inFlight(), len(second))
	}
}

func TestAlwaysStartsOnAttach(t *testing.T) {
	f := newFixture()
	el, _ := f.element()
	c := attachOne(t, f, el)

	if c.Options().PlayMode != PlayAlways {
		t.Fatalf("expected always mode by default")
	}
	if c.State() != Playing || f.player.inFlight() == 0 {
		t.Fatalf("always element should play immediately")
	}
	for _, l := range c.Layers() {
		if l.Timing.Iterations != Infinite {
			t.Fatalf("always layers should loop forever")
		}
	}
}

func TestActiveLinkSuppressesHover(t *testing.T) {
	f := newFixture()
	el, link := f.element()
	link.classes["router-link-active"] = true
	c := attachOne(t, f, el, mode(PlayHover))

	f.events.enter(c.Container())
	if c.State() != Idle || f.player.played != 0 {
		t.Fatalf("suppressed element must not start")
	}
	f.events.click(c.Container())
	if c.State() != Idle {
		t.Fatalf("hover element has no click trigger")
	}
}

func TestSuppressionChangesDriveAlways(t *testing.T) {
	f := newFixture()
	el, link := f.element()
	link.classes["router-link-exact-active"] = true
	c := attachOne(t, f, el)
	if c.State() != Idle {
		t.Fatalf("suppressed always element should not start on attach")
	}

	delete(link.classes, "router-link-exact-active")
	f.notifier.classChanged(link)
	if c.State() != Playing {
		t.Fatalf("clearing the active class should start playback")
	}

	el.styles["pointer-events"] = "none"
	f.notifier.styleChanged(el)
	if c.State() != Idle || f.player.inFlight() != 0 {
		t.Fatalf("pointer-events none should stop playback")
	}

	delete(el.styles, "pointer-events")
	f.notifier.styleChanged(el)
	if c.State() != Playing {
		t.Fatalf("restoring pointer events should restart playback")
	}
}

func TestSuppressionStopsPlayingHover(t *testing.T) {
	f := newFixture()
	el, link := f.element()
	c := attachOne(t, f, el, mode(PlayHover))
	f.events.enter(c.Container())

	link.classes["router-link-active"] = true
	f.notifier.classChanged(link)
	if c.State() != Idle {
		t.Fatalf("activation should stop a hover element")
	}
	delete(link.classes, "router-link-active")
	f.notifier.classChanged(link)
	if c.State() != Idle {
		t.Fatalf("hover element must wait for the pointer to restart")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	f := newFixture()
	el, _ := f.element()
	c := attachOne(t, f, el, mode(PlayHover))

	c.Stop()
	c.Stop()
	if c.State() != Idle || f.player.cancels != 0 {
		t.Fatalf("stopping an idle element should cancel nothing")
	}
	c.Start()
	c.Stop()
	cancels := f.player.cancels
	c.Stop()
	if f.player.cancels != cancels || c.Layers() != nil {
		t.Fatalf("second stop should be a no-op")
	}
}

func TestCustomSuppressionPredicate(t *testing.T) {
	f := newFixture()
	blocked := true
	f.g = New(Host{
		Tree:       f.tree,
		Player:     f.player,
		Events:     f.events,
		Notifier:   f.notifier,
		Random:     &seqSource{vals: []float64{0.25, 0.75}},
		Suppressed: func(Node) bool { return blocked },
	})
	el, _ := f.element()
	c := attachOne(t, f, el)
	if c.State() != Idle {
		t.Fatalf("custom predicate should suppress")
	}
	blocked = false
	c.UpdateState()
	if c.State() != Playing {
		t.Fatalf("expected playing once predicate clears")
	}
}

func TestSetupWrapsAndClones(t *testing.T) {
	f := newFixture()
	el, _ := f.element()
	c := attachOne(t, f, el, mode(PlayHover), Partial{
		HideOverflow: Ptr(true),
		Content:      Ptr("glitch"),
	})
	container := asNode(c.Container())
	if container == el || container.parent != f.tree.root {
		t.Fatalf("target should be wrapped in a container under the root")
	}
	if container.styles["overflow"] != "hidden" {
		t.Fatalf("expected overflow hidden")
	}
	layers := container.children[0]
	if layers.styles["display"] != "grid" {
		t.Fatalf("layers container should be a grid")
	}
	if layers.children[0] != el {
		t.Fatalf("target should be the first child of the layers container")
	}
	if got, want := len(layers.children), MaxLayers(c.Options()); got != want {
		t.Fatalf("expected %d presentation nodes, got %d", want, got)
	}
	if el.content != "glitch" || el.styles["grid-area"] != gridArea {
		t.Fatalf("target not prepared: %q %q", el.content, el.styles["grid-area"])
	}
	for _, n := range layers.children[1:] {
		if n.styles["opacity"] != "0" || n.styles["pointer-events"] != "none" || n.styles["user-select"] != "none" {
			t.Fatalf("clone not hidden: %v", n.styles)
		}
		if n.content != "glitch" {
			t.Fatalf("clone should carry replaced content")
		}
	}
}

func TestInlineTargetGetsInlineBlockContainer(t *testing.T) {
	f := newFixture()
	el, _ := f.element()
	el.computed["display"] = "inline"
	c := attachOne(t, f, el, mode(PlayHover))
	if got := asNode(c.Container()).styles["display"]; got != "inline-block" {
		t.Fatalf("expected inline-block container, got %q", got)
	}

	block, _ := f.element()
	block.computed["display"] = "block"
	c = attachOne(t, f, block, mode(PlayHover))
	if _, ok := asNode(c.Container()).styles["display"]; ok {
		t.Fatalf("block target should leave container display alone")
	}
}

func TestNoContainersUsesFirstChild(t *testing.T) {
	f := newFixture()
	el, link := f.element()
	c := attachOne(t, f, el, mode(PlayHover), Partial{CreateContainers: Ptr(false)})
	if c.Container() != Node(el) {
		t.Fatalf("target should act as its own container")
	}
	if c.Nodes()[0] != Node(link) {
		t.Fatalf("first child should be the glitched node")
	}
	if el.styles["display"] != "grid" {
		t.Fatalf("target should become the grid")
	}
	if len(el.children) != MaxLayers(c.Options()) {
		t.Fatalf("clones should be appended to the target")
	}
}

func TestNoContainersWithoutChildFails(t *testing.T) {
	f := newFixture()
	empty := f.tree.root.add(newFakeNode("span"))
	grp, err := f.g.Attach([]Node{empty}, Partial{CreateContainers: Ptr(false)})
	if !errors.Is(err, ErrNoGlitchTarget) {
		t.Fatalf("expected ErrNoGlitchTarget, got %v", err)
	}
	if len(grp.Controllers()) != 0 || f.g.Attached() != 0 {
		t.Fatalf("failed target should not be attached")
	}
}

func TestReattachReusesContainers(t *testing.T) {
	f := newFixture()
	el, _ := f.element()
	first := attachOne(t, f, el, mode(PlayHover))
	f.events.enter(first.Container())

	second := attachOne(t, f, el, mode(PlayClick), Partial{Slice: &SlicePatch{Count: Ptr(2)}})
	if second.Container() != first.Container() {
		t.Fatalf("re-attach should reuse the container")
	}
	if first.State() != Idle {
		t.Fatalf("previous controller should be stopped")
	}
	container := asNode(second.Container())
	if container.parent != f.tree.root || len(container.children) != 1 {
		t.Fatalf("re-attach should not wrap twice")
	}
	layers := container.children[0]
	if got, want := len(layers.children), MaxLayers(second.Options()); got != want {
		t.Fatalf("expected %d nodes after re-attach, got %d", want, got)
	}
	if f.g.Attached() != 1 {
		t.Fatalf("expected one attached element, got %d", f.g.Attached())
	}
	cur, _ := f.g.Controller(el)
	if cur != second {
		t.Fatalf("registry should hold the latest controller")
	}

	f.events.enter(container)
	if second.State() != Idle {
		t.Fatalf("old hover listener should be gone")
	}
	f.events.click(container)
	if second.State() != Playing {
		t.Fatalf("new click listener should start playback")
	}
}

func TestFailedSetupLeavesTargetUnwrapped(t *testing.T) {
	f := newFixture()
	before, _ := f.element()
	el, _ := f.element()
	f.tree.failCloneAfter = 3

	_, err := f.g.Attach([]Node{el}, mode(PlayHover))
	if err == nil {
		t.Fatalf("expected a clone error")
	}
	if f.g.Attached() != 0 {
		t.Fatalf("failed element should not be registered")
	}
	if el.parent != f.tree.root || f.tree.root.children[1] != el || f.tree.root.children[0] != before {
		t.Fatalf("target should be back at its original position")
	}
	if len(f.tree.root.children) != 2 {
		t.Fatalf("wrapper or clones left behind: %d root children", len(f.tree.root.children))
	}
}

func TestFailedReattachUnwraps(t *testing.T) {
	f := newFixture()
	el, _ := f.element()
	first := attachOne(t, f, el, mode(PlayHover))
	wrapper := asNode(first.Container())

	f.tree.failCloneAfter = f.tree.cloned
	if _, err := f.g.Attach([]Node{el}, mode(PlayClick)); err == nil {
		t.Fatalf("expected a clone error on re-attach")
	}
	if f.g.Attached() != 0 {
		t.Fatalf("failed re-attach should drop the element")
	}
	if el.parent != f.tree.root || wrapper.parent != nil {
		t.Fatalf("target should be unwrapped after a failed re-attach")
	}

	f.tree.failCloneAfter = 0
	again := attachOne(t, f, el, mode(PlayHover))
	container := asNode(again.Container())
	if container.parent != f.tree.root || el.parent == nil || el.parent.parent != container {
		t.Fatalf("attach after a failure should wrap the target once")
	}
	if len(f.tree.root.children) != 1 {
		t.Fatalf("expected a single wrapper at the root, got %d children", len(f.tree.root.children))
	}
}

func TestReplacedControllerIgnoresControls(t *testing.T) {
	f := newFixture()
	el, _ := f.element()
	old, err := f.g.Attach([]Node{el}, mode(PlayHover))
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	current := attachOne(t, f, el, mode(PlayClick))

	old.Start()
	if f.player.inFlight() != 0 || old.Controllers()[0].State() != Idle {
		t.Fatalf("stale group should not play on the shared nodes")
	}
	f.events.click(current.Container())
	n := f.player.inFlight()
	if current.State() != Playing || n == 0 {
		t.Fatalf("current controller should play on click")
	}
	old.Stop()
	if current.State() != Playing || f.player.inFlight() != n {
		t.Fatalf("stale group should not cancel the current playback")
	}
}

func TestDetachUnwraps(t *testing.T) {
	f := newFixture()
	before, _ := f.element()
	el, link := f.element()
	c := attachOne(t, f, el)

	if err := f.g.Detach(el); err != nil {
		t.Fatalf("detach: %v", err)
	}
	if c.State() != Idle || f.player.inFlight() != 0 {
		t.Fatalf("detach should stop playback")
	}
	if el.parent != f.tree.root || f.tree.root.children[1] != el || f.tree.root.children[0] != before {
		t.Fatalf("target should be back at its original position")
	}
	if len(el.children) != 1 || el.children[0] != link {
		t.Fatalf("target children should be untouched")
	}
	if f.g.Attached() != 0 {
		t.Fatalf("registry should be empty after detach")
	}
	if len(f.events.listeners) != 0 {
		t.Fatalf("listeners should be removed")
	}
	if err := f.g.Detach(el); err != nil {
		t.Fatalf("second detach should be a no-op: %v", err)
	}
}

func TestGroupFansOut(t *testing.T) {
	f := newFixture()
	a, _ := f.element()
	b, link := f.element()
	grp, err := f.g.Attach([]Node{a, b}, mode(PlayHover))
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if len(grp.Containers()) != 2 {
		t.Fatalf("expected two containers")
	}

	link.classes["router-link-active"] = true
	grp.Start()
	ca, cb := grp.Controllers()[0], grp.Controllers()[1]
	if ca.State() != Playing || cb.State() != Idle {
		t.Fatalf("group start should skip suppressed elements: %v %v", ca.State(), cb.State())
	}

	grp.Stop()
	if ca.State() != Idle || f.player.inFlight() != 0 {
		t.Fatalf("group stop should stop every element")
	}

	grp.Start()
	grp.UpdateState()
	if ca.State() != Playing || cb.State() != Idle {
		t.Fatalf("update should leave unsuppressed hover elements running")
	}

	if err := grp.Detach(f.g); err != nil {
		t.Fatalf("group detach: %v", err)
	}
	if f.g.Attached() != 0 || a.parent != f.tree.root || b.parent != f.tree.root {
		t.Fatalf("group detach should unwrap every element")
	}
}

func TestAttachSelector(t *testing.T) {
	f := newFixture()
	a, _ := f.element()
	b, _ := f.element()
	a.classes["glitch"] = true
	b.classes["glitch"] = true
	f.element()

	grp, err := f.g.AttachSelector(".glitch", mode(PlayClick))
	if err != nil {
		t.Fatalf("attach selector: %v", err)
	}
	if len(grp.Controllers()) != 2 || f.g.Attached() != 2 {
		t.Fatalf("expected two attached elements, got %d", len(grp.Controllers()))
	}
}
