// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/rodhost/document.go
// Summary: Browser host: drives a real DOM through go-rod and implements the
// glitch services over it.
// Usage: doc, err := rodhost.Open(ctx, page, logger); go doc.Run(ctx);
// doc.Do(func() { g := glitch.New(doc.Host(nil)); g.AttachSelector(".glitch") })
// Notes: Pointer and mutation callbacks arrive through a Runtime binding and
// run on the Run goroutine, as does every closure passed to Do.

package rodhost

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/framegrace/texelglitch/glitch"
)

//go:embed helper.js
var helperJS string

const bindingName = "__texelglitch_event"

var (
	ErrForeignNode = errors.New("rodhost: node does not belong to this document")
	ErrClosed      = errors.New("rodhost: document closed")
)

// Element is a DOM node handle. The same DOM node always maps to the same
// *Element.
type Element struct {
	id string
}

func (e *Element) ID() string { return e.id }

type bindingEvent struct {
	Token string `json:"token"`
	Type  string `json:"type"`
}

// evaluator runs a named helper function in the page and returns its result.
type evaluator interface {
	call(fn string, args ...interface{}) (*proto.RuntimeRemoteObject, error)
}

type pageEvaluator struct {
	page *rod.Page
}

func (p pageEvaluator) call(fn string, args ...interface{}) (*proto.RuntimeRemoteObject, error) {
	all := append([]interface{}{fn}, args...)
	return p.page.Eval(`(fn, ...args) => window.__texelglitch[fn](...args)`, all...)
}

// Document is one page seen through the glitch host interfaces.
type Document struct {
	eval evaluator
	log  *log.Logger

	mu        sync.Mutex
	nodes     map[string]*Element
	seq       uint64
	listeners map[string]glitch.Listeners
	subs      map[string]glitch.ChangeHandlers

	events chan bindingEvent
	calls  chan func()
	done   chan struct{}
	once   sync.Once
}

// Open injects the page helper, installs the event binding and starts
// listening for binding calls until ctx is done.
func Open(ctx context.Context, page *rod.Page, logger *log.Logger) (*Document, error) {
	d := newDocument(pageEvaluator{page: page}, logger)
	if _, err := page.EvalOnNewDocument(helperJS); err != nil {
		d.log.Warn("rodhost: register helper for new documents", "err", err)
	}
	if _, err := page.Eval(`() => {` + helperJS + `}`); err != nil {
		return nil, fmt.Errorf("rodhost: inject helper: %w", err)
	}
	if err := (proto.RuntimeAddBinding{Name: bindingName}).Call(page); err != nil {
		return nil, fmt.Errorf("rodhost: add binding: %w", err)
	}
	go page.Context(ctx).EachEvent(func(e *proto.RuntimeBindingCalled) {
		if e.Name == bindingName {
			d.receive(e.Payload)
		}
	})()
	return d, nil
}

func newDocument(eval evaluator, logger *log.Logger) *Document {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Document{
		eval:      eval,
		log:       logger,
		nodes:     make(map[string]*Element),
		listeners: make(map[string]glitch.Listeners),
		subs:      make(map[string]glitch.ChangeHandlers),
		events:    make(chan bindingEvent, 256),
		calls:     make(chan func()),
		done:      make(chan struct{}),
	}
}

// Host bundles the document services for glitch.New.
func (d *Document) Host(random glitch.Source) glitch.Host {
	return glitch.Host{
		Tree:     d,
		Player:   d,
		Events:   d,
		Notifier: d,
		Random:   random,
		Logger:   d.log,
	}
}

// Run dispatches binding events and Do closures until ctx is done.
func (d *Document) Run(ctx context.Context) error {
	defer d.once.Do(func() { close(d.done) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-d.calls:
			fn()
		case ev := <-d.events:
			d.dispatch(ev)
		}
	}
}

// Do runs fn on the dispatch goroutine and waits for it.
func (d *Document) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	select {
	case d.calls <- func() { fn(); close(finished) }:
	case <-d.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Document) receive(payload string) {
	var ev bindingEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		d.log.Warn("rodhost: bad binding payload", "err", err)
		return
	}
	select {
	case d.events <- ev:
	default:
		d.log.Warn("rodhost: event queue full, dropping", "type", ev.Type)
	}
}

func (d *Document) dispatch(ev bindingEvent) {
	d.mu.Lock()
	l, isListener := d.listeners[ev.Token]
	h, isSub := d.subs[ev.Token]
	d.mu.Unlock()

	var fn func()
	switch {
	case isListener && ev.Type == "enter":
		fn = l.Enter
	case isListener && ev.Type == "leave":
		fn = l.Leave
	case isListener && ev.Type == "click":
		fn = l.Click
	case isSub && ev.Type == "class":
		fn = h.OnClassChange
	case isSub && ev.Type == "style":
		fn = h.OnStyleChange
	}
	if fn != nil {
		fn()
	}
}

func (d *Document) element(id string) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	if e, ok := d.nodes[id]; ok {
		return e
	}
	e := &Element{id: id}
	d.nodes[id] = e
	return e
}

func (d *Document) forgetElement(id string) {
	d.mu.Lock()
	delete(d.nodes, id)
	d.mu.Unlock()
}

func (d *Document) id(n glitch.Node) (string, error) {
	e, ok := n.(*Element)
	if !ok || e == nil {
		return "", fmt.Errorf("%w: %T", ErrForeignNode, n)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.nodes[e.id] != e {
		return "", fmt.Errorf("%w: stale element %s", ErrForeignNode, e.id)
	}
	return e.id, nil
}

func (d *Document) token() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	return "t" + strconv.FormatUint(d.seq, 10)
}

func (d *Document) release(token string) {
	d.mu.Lock()
	delete(d.listeners, token)
	delete(d.subs, token)
	d.mu.Unlock()
	if _, err := d.eval.call("release", token); err != nil {
		d.log.Warn("rodhost: release", "token", token, "err", err)
	}
}

// Listen installs pointer listeners in the page.
func (d *Document) Listen(n glitch.Node, l glitch.Listeners) func() {
	id, err := d.id(n)
	if err != nil {
		d.log.Warn("rodhost: listen", "err", err)
		return func() {}
	}
	token := d.token()
	d.mu.Lock()
	d.listeners[token] = l
	d.mu.Unlock()
	if _, err := d.eval.call("listen", id, token); err != nil {
		d.log.Error("rodhost: listen", "node", id, "err", err)
	}
	return func() { d.release(token) }
}

// Subscribe attaches a MutationObserver for class and style attributes.
func (d *Document) Subscribe(n glitch.Node, h glitch.ChangeHandlers) func() {
	id, err := d.id(n)
	if err != nil {
		d.log.Warn("rodhost: subscribe", "err", err)
		return func() {}
	}
	token := d.token()
	d.mu.Lock()
	d.subs[token] = h
	d.mu.Unlock()
	if _, err := d.eval.call("observe", id, token); err != nil {
		d.log.Error("rodhost: observe", "node", id, "err", err)
	}
	return func() { d.release(token) }
}

type jsTiming struct {
	Duration   float64 `json:"duration"`
	Delay      float64 `json:"delay"`
	Easing     string  `json:"easing"`
	Iterations int     `json:"iterations"`
}

func timingFor(t glitch.LayerTiming) jsTiming {
	return jsTiming{
		Duration:   float64(t.Duration.Microseconds()) / 1000,
		Delay:      float64(t.Delay.Microseconds()) / 1000,
		Easing:     t.Easing,
		Iterations: t.Iterations,
	}
}

// Play starts a Web Animation on n.
func (d *Document) Play(n glitch.Node, layer *glitch.Layer) error {
	id, err := d.id(n)
	if err != nil {
		return err
	}
	if layer == nil {
		return fmt.Errorf("rodhost: nil layer")
	}
	_, err = d.eval.call("animate", id, layer.Keyframes, timingFor(layer.Timing))
	return err
}

// Cancel cancels every animation started on n.
func (d *Document) Cancel(n glitch.Node) error {
	id, err := d.id(n)
	if err != nil {
		return err
	}
	_, err = d.eval.call("cancel", id)
	return err
}
