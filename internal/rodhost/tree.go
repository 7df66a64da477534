// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/rodhost/tree.go
// Summary: glitch.Tree over the page helper.

package rodhost

import (
	"fmt"

	"github.com/go-rod/rod/lib/proto"

	"github.com/framegrace/texelglitch/glitch"
)

func (d *Document) elementResult(res *proto.RuntimeRemoteObject) glitch.Node {
	if res == nil || res.Value.Nil() {
		return nil
	}
	return d.element(res.Value.Str())
}

func (d *Document) elementList(res *proto.RuntimeRemoteObject) []glitch.Node {
	if res == nil {
		return nil
	}
	arr := res.Value.Arr()
	out := make([]glitch.Node, 0, len(arr))
	for _, v := range arr {
		out = append(out, d.element(v.Str()))
	}
	return out
}

func (d *Document) Wrap(target glitch.Node) (glitch.Node, glitch.Node, error) {
	id, err := d.id(target)
	if err != nil {
		return nil, nil, err
	}
	res, err := d.eval.call("wrap", id)
	if err != nil {
		return nil, nil, fmt.Errorf("rodhost: wrap: %w", err)
	}
	pair := d.elementList(res)
	if len(pair) != 2 {
		return nil, nil, fmt.Errorf("rodhost: wrap returned %d nodes", len(pair))
	}
	return pair[0], pair[1], nil
}

func (d *Document) Unwrap(container, target glitch.Node) error {
	cid, err := d.id(container)
	if err != nil {
		return err
	}
	tid, err := d.id(target)
	if err != nil {
		return err
	}
	if _, err := d.eval.call("unwrap", cid, tid); err != nil {
		return fmt.Errorf("rodhost: unwrap: %w", err)
	}
	d.forgetElement(cid)
	return nil
}

func (d *Document) Children(n glitch.Node) ([]glitch.Node, error) {
	id, err := d.id(n)
	if err != nil {
		return nil, err
	}
	res, err := d.eval.call("children", id)
	if err != nil {
		return nil, fmt.Errorf("rodhost: children: %w", err)
	}
	return d.elementList(res), nil
}

func (d *Document) Clone(n glitch.Node) (glitch.Node, error) {
	id, err := d.id(n)
	if err != nil {
		return nil, err
	}
	res, err := d.eval.call("clone", id)
	if err != nil {
		return nil, fmt.Errorf("rodhost: clone: %w", err)
	}
	return d.elementResult(res), nil
}

func (d *Document) Append(parent, child glitch.Node) error {
	pid, err := d.id(parent)
	if err != nil {
		return err
	}
	cid, err := d.id(child)
	if err != nil {
		return err
	}
	_, err = d.eval.call("append", pid, cid)
	return err
}

func (d *Document) Remove(child glitch.Node) error {
	id, err := d.id(child)
	if err != nil {
		return err
	}
	if _, err := d.eval.call("remove", id); err != nil {
		return fmt.Errorf("rodhost: remove: %w", err)
	}
	d.forgetElement(id)
	return nil
}

func (d *Document) SetStyle(n glitch.Node, prop, value string) error {
	id, err := d.id(n)
	if err != nil {
		return err
	}
	_, err = d.eval.call("setStyle", id, prop, value)
	return err
}

func (d *Document) ComputedStyle(n glitch.Node, prop string) (string, error) {
	id, err := d.id(n)
	if err != nil {
		return "", err
	}
	res, err := d.eval.call("computed", id, prop)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

func (d *Document) SetContent(n glitch.Node, content string) error {
	id, err := d.id(n)
	if err != nil {
		return err
	}
	_, err = d.eval.call("setContent", id, content)
	return err
}

func (d *Document) Query(n glitch.Node, selector string) (glitch.Node, error) {
	id, err := d.id(n)
	if err != nil {
		return nil, err
	}
	res, err := d.eval.call("query", id, selector)
	if err != nil {
		return nil, fmt.Errorf("rodhost: query %q: %w", selector, err)
	}
	return d.elementResult(res), nil
}

func (d *Document) QueryAll(selector string) ([]glitch.Node, error) {
	res, err := d.eval.call("queryAll", selector)
	if err != nil {
		return nil, fmt.Errorf("rodhost: query %q: %w", selector, err)
	}
	return d.elementList(res), nil
}

func (d *Document) HasClass(n glitch.Node, class string) (bool, error) {
	id, err := d.id(n)
	if err != nil {
		return false, err
	}
	res, err := d.eval.call("hasClass", id, class)
	if err != nil {
		return false, err
	}
	return res.Value.Bool(), nil
}

// Playing reports how many animations run on n in the page.
func (d *Document) Playing(n glitch.Node) (int, error) {
	id, err := d.id(n)
	if err != nil {
		return 0, err
	}
	res, err := d.eval.call("playing", id)
	if err != nil {
		return 0, err
	}
	return res.Value.Int(), nil
}
