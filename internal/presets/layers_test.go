// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package presets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/framegrace/texelglitch/glitch"
)

func TestLayersOrder(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	if err := s.Save(ctx, "slow", glitch.Partial{
		Timing: &glitch.TimingPatch{Duration: glitch.Ptr(4 * time.Second)},
		Slice:  &glitch.SlicePatch{Count: glitch.Ptr(9)},
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	base := glitch.Partial{
		PlayMode: glitch.Ptr(glitch.PlayHover),
		Slice:    &glitch.SlicePatch{Count: glitch.Ptr(3)},
	}
	top, err := FlagPatch("always")
	if err != nil {
		t.Fatalf("FlagPatch: %v", err)
	}
	layers, err := Layers(ctx, s, "slow", base, top)
	if err != nil {
		t.Fatalf("Layers: %v", err)
	}
	if len(layers) != 3 {
		t.Fatalf("expected 3 layers, got %d", len(layers))
	}
	opts := glitch.ResolvePartial(layers...)
	if opts.PlayMode != glitch.PlayAlways {
		t.Fatalf("flag mode should win, got %v", opts.PlayMode)
	}
	if opts.Slice.Count != 9 || opts.Timing.Duration != 4*time.Second {
		t.Fatalf("preset should override the config section: %+v", opts)
	}
}

func TestLayersWithoutPreset(t *testing.T) {
	layers, err := Layers(context.Background(), nil, "", glitch.Partial{}, glitch.Partial{})
	if err != nil || len(layers) != 2 {
		t.Fatalf("expected base and top only, got %d %v", len(layers), err)
	}
	if _, err := Layers(context.Background(), nil, "x", glitch.Partial{}, glitch.Partial{}); err == nil {
		t.Fatalf("named preset without a store should fail")
	}
}

func TestLayersMissingPreset(t *testing.T) {
	s, _ := openTestStore(t)
	_, err := Layers(context.Background(), s, "ghost", glitch.Partial{}, glitch.Partial{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFlagPatch(t *testing.T) {
	p, err := FlagPatch("")
	if err != nil || p.PlayMode != nil {
		t.Fatalf("empty mode should leave the patch empty")
	}
	if _, err := FlagPatch("sideways"); !errors.Is(err, glitch.ErrUnknownPlayMode) {
		t.Fatalf("expected ErrUnknownPlayMode, got %v", err)
	}
}
