// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/termhost/runner.go
// Summary: Runs an App inside a local tcell screen.
// Notes: Frame requests from the animation manager arrive as interrupt
// events so every scene mutation stays on the polling goroutine.

package termhost

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
)

var screenFactory = tcell.NewScreen

// SetScreenFactory overrides the screen factory used by Run. Passing nil restores the default.
func SetScreenFactory(factory func() (tcell.Screen, error)) {
	if factory == nil {
		screenFactory = tcell.NewScreen
		return
	}
	screenFactory = factory
}

// Run draws app until q, Esc or Ctrl-C is pressed or ctx is done.
func Run(ctx context.Context, app *App, fps int) error {
	screen, err := screenFactory()
	if err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	defer screen.Fini()
	screen.Clear()
	screen.EnableMouse()
	defer screen.DisableMouse()

	player := app.Scene().Player()
	player.SetFrameRate(fps)
	renderCh := make(chan struct{}, 1)
	player.AttachRenderChannel(renderCh)
	defer player.AttachRenderChannel(nil)

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-renderCh:
				screen.PostEvent(tcell.NewEventInterrupt(nil))
			case <-ctx.Done():
				screen.PostEvent(tcell.NewEventInterrupt(ctx))
				return
			case <-done:
				return
			}
		}
	}()

	draw := func() {
		now := time.Now()
		app.Tick(now)
		app.Render(screen, now)
		screen.Show()
	}
	draw()

	for {
		ev := screen.PollEvent()
		switch tev := ev.(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			if ctx.Err() != nil {
				return nil
			}
			draw()
		case *tcell.EventResize:
			screen.Sync()
			draw()
		case *tcell.EventKey:
			if app.HandleKey(tev) {
				return nil
			}
			draw()
		case *tcell.EventMouse:
			app.HandleMouse(tev)
			draw()
		}
	}
}
