// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelglitch/content.go
// Summary: Fills the scene with snippets from a file or the built-in demo.

package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/go-enry/go-enry/v2"

	"github.com/framegrace/texelglitch/glitch"
	"github.com/framegrace/texelglitch/internal/presets"
	"github.com/framegrace/texelglitch/internal/termhost"
)

const maxSnippets = 6

var demoText = []string{
	"TEXELGLITCH\nhover me",
	"func main() {\n\tfmt.Println(\"signal lost\")\n}",
	"press a to mark this one as the active link",
	"[ s ] start   [ x ] stop   [ u ] update   [ q ] quit",
}

func populate(scene *termhost.Scene, file string) error {
	hl := scene.Highlighter()
	if file == "" {
		for i, text := range demoText {
			lines := hl.Plain(text)
			if i == 1 {
				lines = hl.Highlight("Go", text)
			}
			scene.AddSnippet(lines, "glitch")
		}
		return nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}
	if enry.IsBinary(data) {
		return fmt.Errorf("%s looks binary", file)
	}
	lang := termhost.DetectLanguage(file, data)
	blocks := termhost.Paragraphs(string(data), maxSnippets)
	if len(blocks) == 0 {
		return fmt.Errorf("%s has no text", file)
	}
	for _, block := range blocks {
		scene.AddSnippet(hl.Highlight(lang, block), "glitch")
	}
	return nil
}

func printPresets(ctx context.Context, store *presets.Store) error {
	list, err := store.List(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMODE\tUPDATED")
	for _, p := range list {
		mode := "-"
		if p.Options.PlayMode != nil {
			mode = p.Options.PlayMode.String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, mode, p.UpdatedAt.Format(time.DateTime))
	}
	return w.Flush()
}

// savePatch stores base (another preset, when named) with flags on top.
func savePatch(ctx context.Context, store *presets.Store, name, base string, flags glitch.Partial) error {
	p := glitch.Partial{}
	if base != "" {
		loaded, err := store.Load(ctx, base)
		if err != nil {
			return err
		}
		p = loaded
	}
	if err := store.Save(ctx, name, p.Merge(flags)); err != nil {
		return err
	}
	fmt.Printf("Saved preset %q\n", name)
	return nil
}
