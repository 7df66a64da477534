// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/rodhost/browser.go
// Summary: Launches or connects to Chrome and opens the page to glitch.

package rodhost

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// BrowserOptions selects a local or remote Chrome.
type BrowserOptions struct {
	// Remote is the DevTools WebSocket URL of a running browser. Empty
	// launches a local one.
	Remote   string
	Headless bool
	// Stealth opens pages with automation fingerprints masked.
	Stealth bool
	Logger  *log.Logger
}

// Browser owns a rod browser and the launcher that started it, if any.
type Browser struct {
	*rod.Browser
	lnch    *launcher.Launcher
	log     *log.Logger
	stealth bool
}

// Connect launches Chrome or attaches to opts.Remote.
func Connect(opts BrowserOptions) (*Browser, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	var (
		wsURL string
		lnch  *launcher.Launcher
	)
	if opts.Remote != "" {
		wsURL = opts.Remote
		opts.Logger.Info("rodhost: connecting to remote", "url", wsURL)
	} else {
		lnch = launcher.New().Headless(opts.Headless)
		u, err := lnch.Launch()
		if err != nil {
			return nil, fmt.Errorf("rodhost: launch: %w", err)
		}
		wsURL = u
		opts.Logger.Info("rodhost: launched local chrome", "url", wsURL, "headless", opts.Headless)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		if lnch != nil {
			lnch.Cleanup()
		}
		return nil, fmt.Errorf("rodhost: connect: %w", err)
	}
	return &Browser{Browser: b, lnch: lnch, log: opts.Logger, stealth: opts.Stealth}, nil
}

// Close disconnects and stops a locally launched browser.
func (b *Browser) Close() error {
	err := b.Browser.Close()
	if b.lnch != nil {
		b.lnch.Cleanup()
	}
	return err
}

// OpenPage navigates a new tab to url and waits for it to load.
func (b *Browser) OpenPage(ctx context.Context, url string, timeout time.Duration) (*rod.Page, error) {
	var (
		page *rod.Page
		err  error
	)
	if b.stealth {
		page, err = stealth.Page(b.Browser)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		return nil, fmt.Errorf("rodhost: create tab: %w", err)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	navCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := page.Context(navCtx).Navigate(url); err != nil {
		page.Close()
		return nil, fmt.Errorf("rodhost: navigate %s: %w", url, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		page.Close()
		return nil, fmt.Errorf("rodhost: wait load %s: %w", url, err)
	}
	b.log.Info("rodhost: page loaded", "url", url)
	return page, nil
}
