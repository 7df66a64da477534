// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package termhost

import (
	"errors"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelglitch/glitch"
)

type appFixture struct {
	app    *App
	scene  *Scene
	target *Box
	screen tcell.SimulationScreen
}

func newAppFixture(t *testing.T, mode glitch.PlayMode) *appFixture {
	t.Helper()
	scene := NewScene(SceneOptions{})
	target := scene.AddSnippet(scene.Highlighter().Plain("hello world"), "glitch")
	scene.AddSnippet(scene.Highlighter().Plain("plain text"))

	app, err := NewApp(scene, Options{
		Overrides: []glitch.Partial{{PlayMode: glitch.Ptr(mode)}},
		Random:    glitch.NewSource(7),
	})
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(60, 12)
	app.Render(screen, time.Now())
	return &appFixture{app: app, scene: scene, target: target, screen: screen}
}

func (f *appFixture) controller(t *testing.T) *glitch.Controller {
	t.Helper()
	c, ok := f.app.Glitcher().Controller(f.target)
	if !ok {
		t.Fatalf("target is not attached")
	}
	return c
}

func (f *appFixture) key(r rune) bool {
	return f.app.HandleKey(tcell.NewEventKey(tcell.KeyRune, r, 0))
}

func (f *appFixture) mouse(x, y int, buttons tcell.ButtonMask) {
	f.app.HandleMouse(tcell.NewEventMouse(x, y, buttons, 0))
}

func TestNewAppWrapsMatchingBoxes(t *testing.T) {
	f := newAppFixture(t, glitch.PlayHover)
	if f.app.Glitcher().Attached() != 1 {
		t.Fatalf("expected one attached element, got %d", f.app.Glitcher().Attached())
	}
	c := f.controller(t)
	container := c.Container().(*Box)
	if container.parent != f.scene.Root() {
		t.Fatalf("container should sit at the top level")
	}
	layers := container.children[0]
	if v, _ := layers.Style("display"); v != "grid" {
		t.Fatalf("layers container should be a grid, got %q", v)
	}
	if got := len(layers.children); got != glitch.MaxLayers(c.Options()) {
		t.Fatalf("expected %d stacked nodes, got %d", glitch.MaxLayers(c.Options()), got)
	}
}

func TestNewAppWithoutTargets(t *testing.T) {
	scene := NewScene(SceneOptions{})
	scene.AddSnippet(scene.Highlighter().Plain("nothing to see"))
	if _, err := NewApp(scene, Options{}); err == nil {
		t.Fatalf("expected ErrNoTargets")
	}
}

func TestHoverStartsAndLeaveStops(t *testing.T) {
	f := newAppFixture(t, glitch.PlayHover)
	c := f.controller(t)
	r := f.target.rect

	f.mouse(r.x+1, r.y, tcell.ButtonNone)
	if c.State() != glitch.Playing {
		t.Fatalf("hover should start playback, state %v", c.State())
	}
	if !f.scene.Playing(c.Container().(*Box)) {
		t.Fatalf("expected animations on the element")
	}

	f.mouse(r.x+2, r.y, tcell.ButtonNone)
	if c.State() != glitch.Playing {
		t.Fatalf("moving inside the element must not stop it")
	}

	f.mouse(55, 10, tcell.ButtonNone)
	if c.State() != glitch.Idle {
		t.Fatalf("leaving should stop playback, state %v", c.State())
	}
	if f.scene.Playing(c.Container().(*Box)) {
		t.Fatalf("animations should be cancelled after leave")
	}
}

func TestClickRestartsWithFreshLayers(t *testing.T) {
	f := newAppFixture(t, glitch.PlayClick)
	c := f.controller(t)
	r := f.target.rect

	f.mouse(r.x, r.y, tcell.ButtonNone)
	if c.State() != glitch.Idle {
		t.Fatalf("hover must not start click mode")
	}
	f.mouse(r.x, r.y, tcell.Button1)
	first := c.Layers()
	if c.State() != glitch.Playing || len(first) == 0 {
		t.Fatalf("click should start playback")
	}
	f.mouse(r.x, r.y, tcell.Button1)
	if c.Layers()[0] != first[0] {
		t.Fatalf("holding the button must not click again")
	}
	f.mouse(r.x, r.y, tcell.ButtonNone)
	f.mouse(r.x, r.y, tcell.Button1)
	if c.Layers()[0] == first[0] {
		t.Fatalf("second click should issue a fresh layer set")
	}
}

func TestActiveLinkStopsAlwaysBox(t *testing.T) {
	f := newAppFixture(t, glitch.PlayAlways)
	c := f.controller(t)
	if c.State() != glitch.Playing {
		t.Fatalf("always mode should play after attach")
	}

	f.key('a')
	if c.State() != glitch.Idle {
		t.Fatalf("activating the link should stop playback, state %v", c.State())
	}
	f.key('s')
	if c.State() != glitch.Idle {
		t.Fatalf("start must be refused while the link is active")
	}

	f.key('a')
	if c.State() != glitch.Playing {
		t.Fatalf("deactivating the link should restart always mode")
	}
}

func TestPointerEventsKeySuppresses(t *testing.T) {
	f := newAppFixture(t, glitch.PlayAlways)
	c := f.controller(t)

	f.key('p')
	if c.State() != glitch.Idle || !c.Suppressed() {
		t.Fatalf("pointer-events none should suppress the element")
	}
	f.key('p')
	if c.State() != glitch.Playing {
		t.Fatalf("restoring pointer events should restart always mode")
	}
}

func TestGroupKeys(t *testing.T) {
	f := newAppFixture(t, glitch.PlayHover)
	c := f.controller(t)

	f.key('s')
	if c.State() != glitch.Playing {
		t.Fatalf("s should start every element")
	}
	f.key('x')
	if c.State() != glitch.Idle {
		t.Fatalf("x should stop every element")
	}
	if !f.key('q') {
		t.Fatalf("q should quit")
	}
}

func TestDetachKeyTogglesAttachment(t *testing.T) {
	f := newAppFixture(t, glitch.PlayHover)

	f.key('d')
	if _, ok := f.app.Glitcher().Controller(f.target); ok {
		t.Fatalf("target should be detached")
	}
	if f.target.parent != f.scene.Root() {
		t.Fatalf("detach should unwrap the target")
	}

	f.key('d')
	c := f.controller(t)
	if c.Container().(*Box) == f.target {
		t.Fatalf("re-attach should wrap again")
	}
}

func TestReloadKeyReattaches(t *testing.T) {
	f := newAppFixture(t, glitch.PlayHover)
	before := f.controller(t)

	f.key('r')
	if f.app.Status() != "reload not available" {
		t.Fatalf("unexpected status %q", f.app.Status())
	}

	f.app.opts.Reload = func() ([]glitch.Partial, error) {
		return nil, errors.New("broken config")
	}
	f.key('r')
	if f.app.Status() != "reload failed" || f.controller(t) != before {
		t.Fatalf("a failed reload should keep the current controller")
	}

	f.app.opts.Reload = func() ([]glitch.Partial, error) {
		return []glitch.Partial{{PlayMode: glitch.Ptr(glitch.PlayAlways)}}, nil
	}
	f.key('r')
	after := f.controller(t)
	if after == before || after.Options().PlayMode != glitch.PlayAlways {
		t.Fatalf("reload should re-attach with the new options")
	}
	if after.Container() != before.Container() {
		t.Fatalf("reload should reuse the wrapper")
	}
	if after.State() != glitch.Playing {
		t.Fatalf("always mode should play after reload")
	}
}

func TestRenderDrawsContentAndStatus(t *testing.T) {
	f := newAppFixture(t, glitch.PlayHover)
	r := f.target.rect

	for i, want := range "hello" {
		got, _, _, _ := f.screen.GetContent(r.x+i, r.y)
		if got != want {
			t.Fatalf("cell %d = %q, want %q", i, got, want)
		}
	}
	if got, _, _, _ := f.screen.GetContent(0, r.y); got != '▶' {
		t.Fatalf("expected focus marker, got %q", got)
	}
	if got, _, _, _ := f.screen.GetContent(1, 11); got != '1' {
		t.Fatalf("expected status line on the last row, got %q", got)
	}
}

func TestRenderAppliesTranslation(t *testing.T) {
	f := newAppFixture(t, glitch.PlayHover)
	start := time.Now()
	f.scene.Player().SetClock(func() time.Time { return start })

	layer := &glitch.Layer{
		Keyframes: []glitch.Keyframe{
			{glitch.PropTransform: "translate3d(100%, 0%, 0)"},
			{glitch.PropTransform: "translate3d(100%, 0%, 0)"},
		},
		Timing: glitch.LayerTiming{Duration: time.Second, Iterations: 1, Easing: "linear"},
	}
	if err := f.scene.Player().Play(f.target, layer); err != nil {
		t.Fatalf("Play: %v", err)
	}
	f.app.Render(f.screen, start.Add(500*time.Millisecond))

	r := f.target.rect
	if got, _, _, _ := f.screen.GetContent(r.x+r.w, r.y); got != 'h' {
		t.Fatalf("content should be shifted by one box width, got %q", got)
	}
	if got, _, _, _ := f.screen.GetContent(r.x, r.y); got == 'h' {
		t.Fatalf("original position should be cleared")
	}

	f.app.Render(f.screen, start.Add(2*time.Second))
	if got, _, _, _ := f.screen.GetContent(r.x, r.y); got != 'h' {
		t.Fatalf("content should return after the animation, got %q", got)
	}
}
