// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelglitch/main.go
// Summary: Terminal glitch playground.
// Usage: texelglitch -mode hover -file main.go
// Notes: Logs go to the file named by -log or the config's log.path.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/framegrace/texelglitch/config"
	"github.com/framegrace/texelglitch/glitch"
	"github.com/framegrace/texelglitch/internal/logging"
	"github.com/framegrace/texelglitch/internal/presets"
	"github.com/framegrace/texelglitch/internal/termhost"
)

const hostName = "term"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("texelglitch", flag.ContinueOnError)
	mode := fs.String("mode", "", "Play mode: always, hover or click")
	preset := fs.String("preset", "", "Layer the named preset over the config file")
	savePreset := fs.String("save-preset", "", "Store -preset and -mode under this name and exit")
	listPresets := fs.Bool("list-presets", false, "List stored presets and exit")
	writeConfig := fs.Bool("write-config", false, "Merge -mode into the config file's glitch section and exit")
	file := fs.String("file", "", "Glitch the paragraphs of this file instead of the demo text")
	seed := fs.Uint64("seed", 0, "Random seed (0 uses the clock)")
	fps := fs.Int("fps", 0, "Frame rate (default from config)")
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
	if *preset != "" || *savePreset != "" || *listPresets {
		path, err := config.PresetDBPath()
		if err != nil {
			return fmt.Errorf("resolve preset path: %w", err)
		}
		store, err = presets.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	switch {
	case *writeConfig:
		return saveConfig(base, flags)
	case *listPresets:
		return printPresets(ctx, store)
	case *savePreset != "":
		return savePatch(ctx, store, *savePreset, *preset, flags)
	}

	layers, err := presets.Layers(ctx, store, *preset, base, flags)
	if err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("stdout is not a terminal")
	}

	hostCfg := config.Host(hostName)
	if *fps <= 0 {
		*fps = hostCfg.GetInt(hostName, "fps", 30)
	}
	if *file == "" {
		*file = hostCfg.GetString(hostName, "file", "")
	}

	scene := termhost.NewScene(termhost.SceneOptions{Logger: logging.WithPrefix("scene")})
	if err := populate(scene, *file); err != nil {
		return err
	}

	random := glitch.DefaultSource()
	if *seed != 0 {
		random = glitch.NewSource(*seed)
	}
	reload := func() ([]glitch.Partial, error) {
		if err := config.Reload(); err != nil {
			return nil, err
		}
		base, err := config.System().Glitch()
		if err != nil {
			return nil, err
		}
		logger.Info("config reloaded")
		return presets.Layers(ctx, store, *preset, base, flags)
	}
	app, err := termhost.NewApp(scene, termhost.Options{
		Selector:  hostCfg.GetString(hostName, "selector", ""),
		LinkClass: hostCfg.GetString(hostName, "linkClass", ""),
		Overrides: layers,
		Reload:    reload,
		Random:    random,
		Logger:    logger,
	})
	if app == nil {
		return err
	}
	if err != nil {
		logger.Warn("some elements could not be attached", "err", err)
	}
	logger.Info("texelglitch started", "mode", glitch.ResolvePartial(layers...).PlayMode, "fps", *fps)
	if err := termhost.Run(ctx, app, *fps); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// saveConfig writes base with flags on top back to texelglitch.json.
func saveConfig(base, flags glitch.Partial) error {
	sys := config.System()
	if err := sys.SetGlitch(base.Merge(flags)); err != nil {
		return err
	}
	config.SetSystem(sys)
	if err := config.SaveSystem(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	fmt.Println("Saved glitch options to the config file")
	return nil
}
