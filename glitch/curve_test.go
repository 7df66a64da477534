// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package glitch

import (
	"math"
	"testing"
)

func spanOpts(start, end float64) Options {
	opts := DefaultsFor(PlayHover)
	opts.Span = Span{Start: start, End: end}
	return opts
}

func TestIntensityTriangle(t *testing.T) {
	opts := spanOpts(0.5, 0.7)
	cases := []struct {
		p    float64
		want float64
	}{
		{0.4, 0},
		{0.5, 0},
		{0.55, 0.5},
		{0.6, 1},
		{0.65, 0.5},
		{0.7, 0},
		{0.8, 0},
	}
	for _, tc := range cases {
		if got := Intensity(opts, tc.p); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("Intensity(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestIntensityFullSpan(t *testing.T) {
	opts := spanOpts(0, 1)
	if got := Intensity(opts, 0); got != 0 {
		t.Fatalf("expected 0 at start, got %v", got)
	}
	if got := Intensity(opts, 0.5); got != 1 {
		t.Fatalf("expected 1 at midpoint, got %v", got)
	}
	if got := Intensity(opts, 0.25); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("expected 0.5 at quarter, got %v", got)
	}
}

func TestIntensityDegenerateSpan(t *testing.T) {
	opts := spanOpts(0.3, 0.3)
	if got := Intensity(opts, 0.3); got != 1 {
		t.Fatalf("expected 1 at the single point, got %v", got)
	}
	if got := Intensity(opts, 0.31); got != 0 {
		t.Fatalf("expected 0 beside the single point, got %v", got)
	}
}

func TestSignedIntensityRange(t *testing.T) {
	opts := spanOpts(0, 1)
	if got := SignedIntensity(opts, 0.5, &seqSource{vals: []float64{0}}); got != -1 {
		t.Fatalf("expected -1 for draw 0, got %v", got)
	}
	if got := SignedIntensity(opts, 0.5, &seqSource{vals: []float64{0.5}}); got != 0 {
		t.Fatalf("expected 0 for draw 0.5, got %v", got)
	}
	src := NewSource(7)
	for i := 0; i < 200; i++ {
		p := float64(i) / 200
		v := SignedIntensity(opts, p, src)
		if math.Abs(v) > Intensity(opts, p)+1e-12 {
			t.Fatalf("|signed| %v exceeds envelope at %v", v, p)
		}
	}
	if got := SignedIntensity(opts, 1.5, src); got != 0 {
		t.Fatalf("expected 0 outside span, got %v", got)
	}
}
