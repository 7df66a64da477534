// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/glitch-browser/main.go
// Summary: Opens a page in Chrome and glitches the elements matching a
// selector until interrupted.
// Usage: glitch-browser -url https://example.com -selector h1 -mode always

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/framegrace/texelglitch/config"
	"github.com/framegrace/texelglitch/glitch"
	"github.com/framegrace/texelglitch/internal/logging"
	"github.com/framegrace/texelglitch/internal/presets"
	"github.com/framegrace/texelglitch/internal/rodhost"
)

const hostName = "browser"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("glitch-browser", flag.ContinueOnError)
	url := fs.String("url", "", "Page to open (default from config)")
	selector := fs.String("selector", "", "Elements to glitch (default from config)")
	mode := fs.String("mode", "", "Play mode: always, hover or click")
	preset := fs.String("preset", "", "Layer the named preset over the config file")
	remote := fs.String("remote", "", "DevTools WebSocket URL of a running browser")
	logPath := fs.String("log", "", "Log file (default from config)")

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if err := config.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config: %v\n", err)
	}

	sys := config.System()
	hostCfg := config.Host(hostName)
	if *url == "" {
		*url = hostCfg.GetString(hostName, "url", "")
	}
	if *url == "" {
		return errors.New("no -url given and browser.url is empty")
	}
	if *selector == "" {
		*selector = hostCfg.GetString(hostName, "selector", ".glitch")
	}
	if *remote == "" {
		*remote = hostCfg.GetString(hostName, "remote", "")
	}
	if *logPath == "" {
		p, err := config.LogPath()
		if err != nil {
			return fmt.Errorf("resolve log path: %w", err)
		}
		*logPath = p
	}
	logger, err := logging.Init(*logPath, sys.GetString("log", "level", "info"))
	if err != nil {
		return err
	}
	defer logging.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	flags, err := presets.FlagPatch(*mode)
	if err != nil {
		return err
	}
	base, err := sys.Glitch()
	if err != nil {
		return err
	}
	var store *presets.Store
	if *preset != "" {
		path, err := config.PresetDBPath()
		if err != nil {
			return fmt.Errorf("resolve preset path: %w", err)
		}
		if store, err = presets.Open(path); err != nil {
			return err
		}
		defer store.Close()
	}
	layers, err := presets.Layers(ctx, store, *preset, base, flags)
	if err != nil {
		return err
	}

	b, err := rodhost.Connect(rodhost.BrowserOptions{
		Remote:   *remote,
		Headless: hostCfg.GetBool(hostName, "headless", true),
		Stealth:  hostCfg.GetBool(hostName, "stealth", false),
		Logger:   logging.WithPrefix("browser"),
	})
	if err != nil {
		return err
	}
	defer b.Close()

	timeout := hostCfg.GetDuration(hostName, "timeout_ms", 30*time.Second)
	page, err := b.OpenPage(ctx, *url, timeout)
	if err != nil {
		return err
	}
	doc, err := rodhost.Open(ctx, page, logging.WithPrefix("page"))
	if err != nil {
		return err
	}
	runCtx, stopRun := context.WithCancel(context.Background())
	defer stopRun()
	go doc.Run(runCtx)

	var (
		g         = glitch.New(doc.Host(glitch.DefaultSource()))
		grp       *glitch.Group
		attachErr error
	)
	if err := doc.Do(ctx, func() {
		grp, attachErr = g.AttachSelector(*selector, layers...)
	}); err != nil {
		return err
	}
	if grp == nil {
		return attachErr
	}
	if attachErr != nil {
		logger.Warn("some elements could not be attached", "err", attachErr)
	}
	n := len(grp.Controllers())
	if n == 0 {
		return fmt.Errorf("selector %q matched nothing on %s", *selector, *url)
	}
	fmt.Printf("Glitching %d element(s) on %s, Ctrl-C to stop\n", n, *url)
	logger.Info("attached", "url", *url, "selector", *selector, "count", n)

	<-ctx.Done()

	// A shared browser keeps the page, so leave it as it was.
	if *remote != "" {
		cleanup, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		var detachErr error
		if err := doc.Do(cleanup, func() { detachErr = grp.Detach(g) }); err != nil {
			detachErr = err
		}
		if detachErr != nil {
			logger.Warn("detach", "err", detachErr)
		}
	}
	return nil
}
