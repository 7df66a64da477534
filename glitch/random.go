// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: glitch/random.go
// Summary: Randomness source injected into every generator.

package glitch

import (
	"math/rand/v2"
	"time"
)

// Source yields uniform values in [0, 1). Tests substitute a scripted source.
type Source interface {
	Float64() float64
}

// NewSource returns a deterministic PCG source for the given seed.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// DefaultSource returns a source seeded from the wall clock.
func DefaultSource() Source {
	return NewSource(uint64(time.Now().UnixNano()))
}

// between returns a uniform value in [lo, hi).
func between(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}
