// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package glitch

import (
	"errors"
	"strings"
)

// seqSource replays a fixed sequence of values, cycling when exhausted.
type seqSource struct {
	vals []float64
	i    int
}

func (s *seqSource) Float64() float64 {
	if len(s.vals) == 0 {
		return 0.5
	}
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

type fakeNode struct {
	tag      string
	classes  map[string]bool
	styles   map[string]string
	computed map[string]string
	content  string
	parent   *fakeNode
	children []*fakeNode
}

func newFakeNode(tag string) *fakeNode {
	return &fakeNode{
		tag:      tag,
		classes:  make(map[string]bool),
		styles:   make(map[string]string),
		computed: make(map[string]string),
	}
}

func (n *fakeNode) add(child *fakeNode) *fakeNode {
	child.parent = n
	n.children = append(n.children, child)
	return child
}

func (n *fakeNode) index() int {
	if n.parent == nil {
		return -1
	}
	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}
	return -1
}

func (n *fakeNode) detach() {
	if i := n.index(); i >= 0 {
		p := n.parent
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
	n.parent = nil
}

type fakeTree struct {
	root *fakeNode
	// failCloneAfter makes Clone fail once that many clones succeeded.
	// Zero never fails.
	failCloneAfter int
	cloned         int
}

func newFakeTree() *fakeTree {
	return &fakeTree{root: newFakeNode("body")}
}

func asNode(n Node) *fakeNode {
	fn, _ := n.(*fakeNode)
	return fn
}

func (t *fakeTree) Wrap(target Node) (Node, Node, error) {
	n := asNode(target)
	if n.parent == nil {
		return nil, nil, errors.New("no parent")
	}
	container := newFakeNode("div")
	layers := newFakeNode("div")
	container.add(layers)
	parent, i := n.parent, n.index()
	container.parent = parent
	parent.children[i] = container
	n.parent = nil
	layers.add(n)
	return container, layers, nil
}

func (t *fakeTree) Unwrap(container, target Node) error {
	c, n := asNode(container), asNode(target)
	n.detach()
	parent, i := c.parent, c.index()
	n.parent = parent
	parent.children[i] = n
	c.parent = nil
	return nil
}

func (t *fakeTree) Children(n Node) ([]Node, error) {
	var out []Node
	for _, c := range asNode(n).children {
		out = append(out, c)
	}
	return out, nil
}

func (t *fakeTree) Clone(n Node) (Node, error) {
	if t.failCloneAfter > 0 && t.cloned >= t.failCloneAfter {
		return nil, errors.New("clone failed")
	}
	t.cloned++
	return cloneFake(asNode(n)), nil
}

func cloneFake(n *fakeNode) *fakeNode {
	out := newFakeNode(n.tag)
	out.content = n.content
	for k, v := range n.classes {
		out.classes[k] = v
	}
	for k, v := range n.styles {
		out.styles[k] = v
	}
	for k, v := range n.computed {
		out.computed[k] = v
	}
	for _, c := range n.children {
		out.add(cloneFake(c))
	}
	return out
}

func (t *fakeTree) Append(parent, child Node) error {
	asNode(parent).add(asNode(child))
	return nil
}

func (t *fakeTree) Remove(child Node) error {
	asNode(child).detach()
	return nil
}

func (t *fakeTree) SetStyle(n Node, prop, value string) error {
	asNode(n).styles[prop] = value
	return nil
}

func (t *fakeTree) ComputedStyle(n Node, prop string) (string, error) {
	fn := asNode(n)
	if v, ok := fn.styles[prop]; ok {
		return v, nil
	}
	return fn.computed[prop], nil
}

func (t *fakeTree) SetContent(n Node, content string) error {
	asNode(n).content = content
	return nil
}

func (t *fakeTree) Query(n Node, selector string) (Node, error) {
	if found := findFake(asNode(n), selector); found != nil {
		return found, nil
	}
	return nil, nil
}

func findFake(n *fakeNode, selector string) *fakeNode {
	for _, c := range n.children {
		if matchFake(c, selector) {
			return c
		}
		if found := findFake(c, selector); found != nil {
			return found
		}
	}
	return nil
}

func matchFake(n *fakeNode, selector string) bool {
	if strings.HasPrefix(selector, ".") {
		return n.classes[selector[1:]]
	}
	return n.tag == selector
}

func (t *fakeTree) QueryAll(selector string) ([]Node, error) {
	var out []Node
	var walk func(*fakeNode)
	walk = func(n *fakeNode) {
		for _, c := range n.children {
			if matchFake(c, selector) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(t.root)
	return out, nil
}

func (t *fakeTree) HasClass(n Node, class string) (bool, error) {
	return asNode(n).classes[class], nil
}

type fakePlayer struct {
	active  map[Node][]*Layer
	played  int
	cancels int
}

func newFakePlayer() *fakePlayer {
	return &fakePlayer{active: make(map[Node][]*Layer)}
}

func (p *fakePlayer) Play(n Node, layer *Layer) error {
	p.active[n] = append(p.active[n], layer)
	p.played++
	return nil
}

func (p *fakePlayer) Cancel(n Node) error {
	if len(p.active[n]) > 0 {
		p.cancels++
	}
	delete(p.active, n)
	return nil
}

func (p *fakePlayer) inFlight() int {
	total := 0
	for _, layers := range p.active {
		total += len(layers)
	}
	return total
}

type fakeEvents struct {
	listeners map[Node]Listeners
}

func (e *fakeEvents) Listen(n Node, l Listeners) func() {
	if e.listeners == nil {
		e.listeners = make(map[Node]Listeners)
	}
	e.listeners[n] = l
	return func() { delete(e.listeners, n) }
}

func (e *fakeEvents) enter(n Node) {
	if l := e.listeners[n]; l.Enter != nil {
		l.Enter()
	}
}

func (e *fakeEvents) leave(n Node) {
	if l := e.listeners[n]; l.Leave != nil {
		l.Leave()
	}
}

func (e *fakeEvents) click(n Node) {
	if l := e.listeners[n]; l.Click != nil {
		l.Click()
	}
}

type fakeNotifier struct {
	subs map[Node][]ChangeHandlers
}

func (f *fakeNotifier) Subscribe(n Node, h ChangeHandlers) func() {
	if f.subs == nil {
		f.subs = make(map[Node][]ChangeHandlers)
	}
	f.subs[n] = append(f.subs[n], h)
	idx := len(f.subs[n]) - 1
	return func() { f.subs[n][idx] = ChangeHandlers{} }
}

func (f *fakeNotifier) classChanged(n Node) {
	for _, h := range f.subs[n] {
		if h.OnClassChange != nil {
			h.OnClassChange()
		}
	}
}

func (f *fakeNotifier) styleChanged(n Node) {
	for _, h := range f.subs[n] {
		if h.OnStyleChange != nil {
			h.OnStyleChange()
		}
	}
}

type fixture struct {
	tree     *fakeTree
	player   *fakePlayer
	events   *fakeEvents
	notifier *fakeNotifier
	g        *Glitcher
}

func newFixture() *fixture {
	f := &fixture{
		tree:     newFakeTree(),
		player:   newFakePlayer(),
		events:   &fakeEvents{},
		notifier: &fakeNotifier{},
	}
	f.g = New(Host{
		Tree:     f.tree,
		Player:   f.player,
		Events:   f.events,
		Notifier: f.notifier,
		Random:   NewSource(42),
	})
	return f
}

// element adds a span holding a link to the tree root.
func (f *fixture) element() (*fakeNode, *fakeNode) {
	el := f.tree.root.add(newFakeNode("span"))
	link := el.add(newFakeNode("a"))
	return el, link
}
