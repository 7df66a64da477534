// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/termhost/selector.go
// Summary: Minimal selector matching: tag, #id, .class compounds and comma lists.

package termhost

import (
	"fmt"
	"strings"
)

type compound struct {
	tag     string
	id      string
	classes []string
}

func (c compound) matches(b *Box) bool {
	if c.tag != "" && c.tag != "*" && c.tag != b.tag {
		return false
	}
	if c.id != "" && c.id != b.id {
		return false
	}
	for _, class := range c.classes {
		if !b.classes[class] {
			return false
		}
	}
	return true
}

type selector []compound

func (s selector) matches(b *Box) bool {
	for _, c := range s {
		if c.matches(b) {
			return true
		}
	}
	return false
}

func parseSelector(text string) (selector, error) {
	var out selector
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("termhost: empty selector in %q", text)
		}
		if strings.ContainsAny(part, " >+~[:") {
			return nil, fmt.Errorf("termhost: unsupported selector %q", part)
		}
		c, err := parseCompound(part)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func parseCompound(part string) (compound, error) {
	var c compound
	i := strings.IndexAny(part, ".#")
	if i < 0 {
		c.tag = strings.ToLower(part)
		return c, nil
	}
	c.tag = strings.ToLower(part[:i])
	rest := part[i:]
	for rest != "" {
		marker := rest[0]
		rest = rest[1:]
		end := strings.IndexAny(rest, ".#")
		if end < 0 {
			end = len(rest)
		}
		name := rest[:end]
		rest = rest[end:]
		if name == "" {
			return compound{}, fmt.Errorf("termhost: bad selector %q", part)
		}
		if marker == '#' {
			c.id = name
		} else {
			c.classes = append(c.classes, name)
		}
	}
	return c, nil
}
