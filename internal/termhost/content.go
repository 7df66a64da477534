// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/termhost/content.go
// Summary: Turns text into styled content rows: language detection with
// go-enry, token colours with chroma, cell widths with go-runewidth.

package termhost

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gdamore/tcell/v2"
	"github.com/go-enry/go-enry/v2"
	"github.com/mattn/go-runewidth"
)

const (
	defaultStyleName = "catppuccin-mocha"
	tabWidth         = 4
)

// Highlighter styles content with one chroma theme.
type Highlighter struct {
	style *chroma.Style
	base  tcell.Style
}

// NewHighlighter resolves a chroma style name, falling back to the default.
func NewHighlighter(styleName string) *Highlighter {
	if styleName == "" {
		styleName = defaultStyleName
	}
	style := styles.Get(styleName)
	bg := style.Get(chroma.Background)
	base := tcell.StyleDefault
	if bg.Colour.IsSet() {
		base = base.Foreground(chromaColour(bg.Colour))
	}
	if bg.Background.IsSet() {
		base = base.Background(chromaColour(bg.Background))
	}
	return &Highlighter{style: style, base: base}
}

func chromaColour(c chroma.Colour) tcell.Color {
	return tcell.NewRGBColor(int32(c.Red()), int32(c.Green()), int32(c.Blue()))
}

// Base is the plain text style of the theme.
func (h *Highlighter) Base() tcell.Style { return h.base }

// Background is the theme background colour.
func (h *Highlighter) Background() tcell.Color {
	_, bg, _ := h.base.Decompose()
	return bg
}

// DetectLanguage names the language of a file, or "" for binary data.
func DetectLanguage(filename string, data []byte) string {
	if enry.IsBinary(data) {
		return ""
	}
	return enry.GetLanguage(filepath.Base(filename), data)
}

// Plain splits text into rows in the base style.
func (h *Highlighter) Plain(text string) []Line {
	w := newLineWriter()
	w.write(text, h.base)
	return w.done()
}

// Highlight tokenizes text with the lexer for lang, auto-detecting when lang
// is empty or unknown.
func (h *Highlighter) Highlight(lang, text string) []Line {
	lexer := lexerFor(lang, text)
	tokens, err := chroma.Tokenise(chroma.Coalesce(lexer), nil, text)
	if err != nil {
		return h.Plain(text)
	}
	w := newLineWriter()
	for _, tok := range tokens {
		if tok.Type == chroma.EOFType {
			break
		}
		w.write(tok.Value, h.tokenStyle(tok.Type))
	}
	return w.done()
}

func (h *Highlighter) tokenStyle(t chroma.TokenType) tcell.Style {
	entry := h.style.Get(t)
	st := h.base
	if entry.Colour.IsSet() {
		st = st.Foreground(chromaColour(entry.Colour))
	}
	if entry.Bold == chroma.Yes {
		st = st.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		st = st.Italic(true)
	}
	if entry.Underline == chroma.Yes {
		st = st.Underline(true)
	}
	return st
}

func lexerFor(name, text string) chroma.Lexer {
	if name != "" {
		if l := lexers.Get(name); l != nil {
			return l
		}
	}
	if l := lexers.Analyse(text); l != nil {
		return l
	}
	return lexers.Fallback
}

// lineWriter accumulates cells, expanding tabs and dropping control runes.
type lineWriter struct {
	lines []Line
	cur   Line
	col   int
}

func newLineWriter() *lineWriter { return &lineWriter{} }

func (w *lineWriter) write(text string, st tcell.Style) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, r := range text {
		switch {
		case r == '\n':
			w.lines = append(w.lines, w.cur)
			w.cur, w.col = nil, 0
		case r == '\t':
			for n := tabWidth - w.col%tabWidth; n > 0; n-- {
				w.cur = append(w.cur, Cell{Ch: ' ', Style: st})
				w.col++
			}
		case r < ' ' || r == 0x7f:
		default:
			rw := runewidth.RuneWidth(r)
			if rw == 0 {
				continue
			}
			w.cur = append(w.cur, Cell{Ch: r, Style: st})
			w.col += rw
		}
	}
}

func (w *lineWriter) done() []Line {
	if len(w.cur) > 0 {
		w.lines = append(w.lines, w.cur)
	}
	return w.lines
}

// lineWidth is the number of terminal columns a row occupies.
func lineWidth(line Line) int {
	n := 0
	for _, c := range line {
		n += runewidth.RuneWidth(c.Ch)
	}
	return n
}

// Paragraphs splits text into at most limit blank-line separated blocks.
// limit <= 0 means no limit.
func Paragraphs(text string, limit int) []string {
	var out []string
	for _, block := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		block = strings.Trim(block, "\n")
		if strings.TrimSpace(block) == "" {
			continue
		}
		out = append(out, block)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
