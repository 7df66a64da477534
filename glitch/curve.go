// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: glitch/curve.go
// Summary: Triangular intensity envelope over the glitch span of one cycle.

package glitch

// Intensity maps progress in one cycle to [0,1]. It is zero outside the
// span, rises linearly to 1 at the span midpoint and falls back to zero at
// the end.
func Intensity(opts Options, progress float64) float64 {
	start, end := opts.Span.Start, opts.Span.End
	if progress < start || progress > end {
		return 0
	}
	mid := opts.Span.Mid()
	switch {
	case progress == mid:
		return 1
	case progress < mid:
		return (progress - start) / (mid - start)
	default:
		return (end - progress) / (end - mid)
	}
}

// SignedIntensity scales the envelope by an independent uniform draw in
// [-1, 1], giving each call its own direction and magnitude.
func SignedIntensity(opts Options, progress float64, src Source) float64 {
	return (src.Float64() - 0.5) * 2 * Intensity(opts, progress)
}
