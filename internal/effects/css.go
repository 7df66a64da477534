// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/effects/css.go
// Summary: Tokenizes CSS property values into function terms.
// Notes: Only the flat value grammar keyframes use is accepted: identifiers
// and single-level function calls with numeric or identifier arguments.

package effects

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gorilla/css/scanner"
)

type cssArg struct {
	num   float64
	unit  string
	ident string
}

type cssTerm struct {
	name string
	fn   bool
	args []cssArg
}

func parseTerms(value string) ([]cssTerm, error) {
	s := scanner.New(value)
	var terms []cssTerm
	var cur *cssTerm
	sign := 1.0
	for {
		tok := s.Next()
		switch tok.Type {
		case scanner.TokenEOF:
			if cur != nil {
				return nil, fmt.Errorf("effects: unterminated %s() in %q", cur.name, value)
			}
			return terms, nil
		case scanner.TokenError:
			return nil, fmt.Errorf("effects: bad css %q at column %d", value, tok.Column)
		case scanner.TokenS, scanner.TokenComment:
		case scanner.TokenFunction:
			if cur != nil {
				return nil, fmt.Errorf("effects: nested function in %q", value)
			}
			cur = &cssTerm{name: strings.ToLower(strings.TrimSuffix(tok.Value, "(")), fn: true}
		case scanner.TokenIdent:
			if cur == nil {
				terms = append(terms, cssTerm{name: strings.ToLower(tok.Value)})
				continue
			}
			cur.args = append(cur.args, cssArg{ident: strings.ToLower(tok.Value)})
		case scanner.TokenNumber, scanner.TokenPercentage, scanner.TokenDimension:
			if cur == nil {
				return nil, fmt.Errorf("effects: bare number %q in %q", tok.Value, value)
			}
			arg, err := parseNumeric(tok.Value)
			if err != nil {
				return nil, err
			}
			arg.num *= sign
			sign = 1
			cur.args = append(cur.args, arg)
		case scanner.TokenChar:
			switch tok.Value {
			case ",":
			case "-":
				sign = -sign
			case "+":
			case ")":
				if cur == nil {
					return nil, fmt.Errorf("effects: unbalanced ')' in %q", value)
				}
				terms = append(terms, *cur)
				cur = nil
			default:
				return nil, fmt.Errorf("effects: unexpected %q in %q", tok.Value, value)
			}
		default:
			return nil, fmt.Errorf("effects: unexpected token %s in %q", tok.Type, value)
		}
	}
}

// parseNumeric splits "12.5%", "90deg" or "-3" into number and unit.
func parseNumeric(v string) (cssArg, error) {
	end := 0
	for end < len(v) {
		c := v[end]
		if (c >= '0' && c <= '9') || c == '.' || ((c == '-' || c == '+') && end == 0) {
			end++
			continue
		}
		break
	}
	num, err := strconv.ParseFloat(v[:end], 64)
	if err != nil {
		return cssArg{}, fmt.Errorf("effects: bad number %q: %w", v, err)
	}
	return cssArg{num: num, unit: strings.ToLower(v[end:])}, nil
}
