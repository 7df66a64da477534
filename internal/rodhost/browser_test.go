// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package rodhost

import (
	"context"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/framegrace/texelglitch/glitch"
)

const testPage = `<html><body>
<div class="glitch"><a href="#">one</a></div>
<div class="glitch"><a href="#" class="router-link-active">two</a></div>
</body></html>`

func TestAlwaysModeInChrome(t *testing.T) {
	if testing.Short() {
		t.Skip("browser test")
	}
	if _, found := launcher.LookPath(); !found {
		t.Skip("no Chrome found")
	}

	b, err := Connect(BrowserOptions{Headless: true})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	page, err := b.OpenPage(ctx, "about:blank", 10*time.Second)
	if err != nil {
		t.Fatalf("OpenPage: %v", err)
	}
	if err := page.SetDocumentContent(testPage); err != nil {
		t.Fatalf("SetDocumentContent: %v", err)
	}
	doc, err := Open(ctx, page, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	go doc.Run(ctx)

	var (
		grp       *glitch.Group
		attachErr error
	)
	if err := doc.Do(ctx, func() {
		g := glitch.New(doc.Host(glitch.NewSource(5)))
		grp, attachErr = g.AttachSelector(".glitch", glitch.Partial{PlayMode: glitch.Ptr(glitch.PlayAlways)})
	}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if attachErr != nil {
		t.Fatalf("AttachSelector: %v", attachErr)
	}
	ctrls := grp.Controllers()
	if len(ctrls) != 2 {
		t.Fatalf("expected 2 controllers, got %d", len(ctrls))
	}

	var (
		free, suppressed int
		state            glitch.State
	)
	if err := doc.Do(ctx, func() {
		free, _ = doc.Playing(ctrls[0].Target())
		suppressed, _ = doc.Playing(ctrls[1].Target())
		state = ctrls[1].State()
	}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if free == 0 {
		t.Fatalf("expected animations on the free element")
	}
	if suppressed != 0 || state != glitch.Idle {
		t.Fatalf("active link should suppress the second element")
	}
}
