// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/termhost/app.go
// Summary: Interactive glitch playground over a Scene: key bindings, mouse
// routing and a status line.
// Usage: app, err := NewApp(scene, Options{Overrides: parts}); Run(ctx, app, 30)
// Notes: Keys s/x/u start, stop and re-evaluate every element; a, p and d act
// on the focused element; Tab moves focus.

package termhost

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/framegrace/texelglitch/glitch"
)

const defaultSelector = ".glitch"

var ErrNoTargets = errors.New("termhost: selector matched no boxes")

// Options configures an App.
type Options struct {
	// Selector picks the boxes to glitch. Defaults to ".glitch".
	Selector string
	// LinkClass marks the active link; it suppresses its element.
	LinkClass string
	Overrides []glitch.Partial
	// Reload, when set, is bound to the r key. It returns fresh overrides
	// and every attached element is re-attached with them.
	Reload    func() ([]glitch.Partial, error)
	Random    glitch.Source
	Logger    *log.Logger
}

// App binds a scene, a glitcher and the playground key map.
type App struct {
	scene    *Scene
	glitcher *glitch.Glitcher
	opts     Options
	log      *log.Logger
	targets  []*Box
	focus    int
	status   string
}

// NewApp attaches every box matching opts.Selector. The app is usable even
// when some targets failed; the error reports them.
func NewApp(scene *Scene, opts Options) (*App, error) {
	if opts.Selector == "" {
		opts.Selector = defaultSelector
	}
	if opts.LinkClass == "" {
		opts.LinkClass = glitch.DefaultActiveClasses[0]
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	host := scene.Host(opts.Random)
	host.Logger = opts.Logger
	host.Suppressed = glitch.AnySuppressed(
		glitch.LinkActive(scene, opts.LinkClass),
		glitch.PointerEventsNone(scene),
	)

	a := &App{
		scene:    scene,
		glitcher: glitch.New(host),
		opts:     opts,
		log:      opts.Logger,
	}
	nodes, err := scene.QueryAll(opts.Selector)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoTargets, opts.Selector)
	}
	for _, n := range nodes {
		a.targets = append(a.targets, n.(*Box))
	}
	_, err = a.glitcher.Attach(nodes, opts.Overrides...)
	scene.Flush()
	a.status = fmt.Sprintf("%d element(s) attached", a.glitcher.Attached())
	return a, err
}

func (a *App) Scene() *Scene              { return a.scene }
func (a *App) Glitcher() *glitch.Glitcher { return a.glitcher }
func (a *App) Targets() []*Box            { return a.targets }
func (a *App) Status() string             { return a.status }

// Focused returns the element the per-element keys act on.
func (a *App) Focused() *Box {
	if len(a.targets) == 0 {
		return nil
	}
	return a.targets[a.focus]
}

// HandleKey applies one key press and reports whether the app should quit.
func (a *App) HandleKey(ev *tcell.EventKey) bool {
	defer a.scene.Flush()
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return true
	case tcell.KeyTab:
		a.moveFocus(1)
		return false
	case tcell.KeyBacktab:
		a.moveFocus(-1)
		return false
	case tcell.KeyRune:
	default:
		return false
	}

	grp := a.glitcher.Group()
	switch ev.Rune() {
	case 'q':
		return true
	case 's':
		grp.Start()
		a.status = "start"
	case 'x':
		grp.Stop()
		a.status = "stop"
	case 'u':
		grp.UpdateState()
		a.status = "update state"
	case 'a':
		a.toggleLink()
	case 'p':
		a.togglePointerEvents()
	case 'd':
		a.toggleAttached()
	case 'r':
		a.reload()
	}
	return false
}

// HandleMouse forwards a pointer sample to the scene.
func (a *App) HandleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	a.scene.HandleMouse(x, y, ev.Buttons(), time.Now())
	a.scene.Flush()
}

// Tick advances animations and reports whether another frame is needed.
func (a *App) Tick(now time.Time) bool {
	return a.scene.Tick(now)
}

// Render draws the scene, the focus marker and the status line.
func (a *App) Render(screen tcell.Screen, now time.Time) {
	a.scene.Render(screen, now)
	w, h := screen.Size()
	base := a.scene.Highlighter().Base()

	if f := a.Focused(); f != nil {
		r := a.outer(f).rect
		screen.SetContent(0, r.y, '▶', nil, base.Foreground(a.scene.accent))
	}

	line := a.statusLine()
	style := base.Reverse(true)
	x := 0
	for _, r := range line {
		if x >= w {
			break
		}
		screen.SetContent(x, h-1, r, nil, style)
		x += max(runewidth.RuneWidth(r), 1)
	}
	for ; x < w; x++ {
		screen.SetContent(x, h-1, ' ', nil, style)
	}
}

func (a *App) statusLine() string {
	f := a.Focused()
	if f == nil {
		return " " + a.status
	}
	state, mode := "detached", "-"
	if c, ok := a.glitcher.Controller(f); ok {
		state = c.State().String()
		mode = c.Options().PlayMode.String()
		if c.Suppressed() {
			state += " (suppressed)"
		}
	}
	return fmt.Sprintf(" %d/%d %s %s | %s | s start x stop u update a link p pointer d detach r reload q quit",
		a.focus+1, len(a.targets), mode, state, a.status)
}

// outer returns the wrapper of an attached target, or the target itself.
func (a *App) outer(b *Box) *Box {
	if c, ok := a.glitcher.Controller(b); ok {
		if container, ok := c.Container().(*Box); ok && container != nil {
			return container
		}
	}
	return b
}

func (a *App) moveFocus(delta int) {
	if len(a.targets) == 0 {
		return
	}
	a.focus = (a.focus + delta + len(a.targets)) % len(a.targets)
}

func (a *App) toggleLink() {
	f := a.Focused()
	if f == nil {
		return
	}
	n, err := a.scene.Query(f, "a")
	if err != nil || n == nil {
		a.status = "no link in focused element"
		return
	}
	if a.scene.ToggleClass(n.(*Box), a.opts.LinkClass) {
		a.status = "link active"
	} else {
		a.status = "link inactive"
	}
}

func (a *App) togglePointerEvents() {
	f := a.Focused()
	if f == nil {
		return
	}
	if v, _ := f.Style("pointer-events"); v == "none" {
		_ = a.scene.SetStyle(f, "pointer-events", "")
		a.status = "pointer events on"
		return
	}
	_ = a.scene.SetStyle(f, "pointer-events", "none")
	a.status = "pointer events off"
}

func (a *App) toggleAttached() {
	f := a.Focused()
	if f == nil {
		return
	}
	if _, ok := a.glitcher.Controller(f); ok {
		if err := a.glitcher.Detach(f); err != nil {
			a.log.Error("termhost: detach", "err", err)
		}
		a.status = "detached"
		return
	}
	if _, err := a.glitcher.Attach([]glitch.Node{f}, a.opts.Overrides...); err != nil {
		a.log.Error("termhost: attach", "err", err)
		a.status = "attach failed"
		return
	}
	a.status = "attached"
}

func (a *App) reload() {
	if a.opts.Reload == nil {
		a.status = "reload not available"
		return
	}
	overrides, err := a.opts.Reload()
	if err != nil {
		a.log.Error("termhost: reload", "err", err)
		a.status = "reload failed"
		return
	}
	a.opts.Overrides = overrides
	var nodes []glitch.Node
	for _, t := range a.targets {
		if _, ok := a.glitcher.Controller(t); ok {
			nodes = append(nodes, t)
		}
	}
	if _, err := a.glitcher.Attach(nodes, overrides...); err != nil {
		a.log.Error("termhost: re-attach", "err", err)
		a.status = "reload partially failed"
		return
	}
	a.status = fmt.Sprintf("reloaded %d element(s)", len(nodes))
}

// AddSnippet appends a glitchable element: a div with the given classes
// holding a link whose content is lines.
func (s *Scene) AddSnippet(lines []Line, classes ...string) *Box {
	el := s.Element(nil, "div", classes...)
	link := s.Element(el, "a")
	s.SetLines(link, lines)
	return el
}
