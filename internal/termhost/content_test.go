// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package termhost

import (
	"testing"
)

func TestDetectLanguage(t *testing.T) {
	src := []byte("package main\n\nfunc main() {}\n")
	if got := DetectLanguage("cmd/main.go", src); got != "Go" {
		t.Fatalf("expected Go, got %q", got)
	}
	if got := DetectLanguage("blob.bin", []byte{0x00, 0x01, 0x02, 0x00, 0xff}); got != "" {
		t.Fatalf("binary data should have no language, got %q", got)
	}
}

func TestHighlightColoursKeywords(t *testing.T) {
	h := NewHighlighter("")
	lines := h.Highlight("Go", "package main\nfunc main() {}")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(lines))
	}
	keyword := lines[0][0].Style
	ident := lines[0][len(lines[0])-1].Style
	if keyword == ident {
		t.Fatalf("keyword and identifier should be styled differently")
	}
	if got := string(cellRunes(lines[1])); got != "func main() {}" {
		t.Fatalf("unexpected second row %q", got)
	}
}

func TestPlainExpandsTabsAndDropsControls(t *testing.T) {
	h := NewHighlighter("")
	lines := h.Plain("a\tb\x07\r\n\n世界")
	if len(lines) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(lines))
	}
	if got := string(cellRunes(lines[0])); got != "a   b" {
		t.Fatalf("tab should pad to column 4, got %q", got)
	}
	if len(lines[1]) != 0 {
		t.Fatalf("blank row should stay empty")
	}
	if w := lineWidth(lines[2]); w != 4 {
		t.Fatalf("wide runes should count two columns, got %d", w)
	}
}

func TestParagraphs(t *testing.T) {
	text := "one\n\n\n two\nlines \n\nthree\n\nfour"
	got := Paragraphs(text, 3)
	if len(got) != 3 || got[0] != "one" || got[1] != " two\nlines " || got[2] != "three" {
		t.Fatalf("unexpected paragraphs %q", got)
	}
	if all := Paragraphs(text, 0); len(all) != 4 {
		t.Fatalf("no limit should keep every block, got %d", len(all))
	}
}

func cellRunes(line Line) []rune {
	out := make([]rune, len(line))
	for i, c := range line {
		out[i] = c.Ch
	}
	return out
}
