// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/embeddedgo/regtools/ir"
)

// Reg describes one register instance found by Walk.
type Reg struct {
	Name     string // dotted name relative to the walked block: CH[2].CR
	Addr     uint64 // absolute address
	Item     *ir.BlockItem
	Register *ir.Register
}

// Walk calls fn for every register of the block at path mapped at base,
// descending into sub-blocks and array elements. Items are visited in
// (ByteOffset, Name) order. Walk stops at the first error returned by fn.
func Walk(x *ir.IR, path string, base uint64, fn func(r *Reg) error) error {
	w := walker{x: x, fn: fn}
	return w.block(path, base, "")
}

type walker struct {
	x     *ir.IR
	fn    func(r *Reg) error
	stack []string
}

func (w *walker) block(path string, base uint64, prefix string) error {
	if slices.Contains(w.stack, path) {
		return fmt.Errorf("layout: block %s contains itself", path)
	}
	b, err := w.x.BlockAt(path)
	if err != nil {
		return err
	}
	w.stack = append(w.stack, path)
	defer func() { w.stack = w.stack[:len(w.stack)-1] }()

	for _, it := range SortItems(b.Items) {
		n := 1
		if it.Array != nil {
			n = Len(it.Array)
		}
		for k := 0; k < n; k++ {
			off, err := Offset(it, k)
			if err != nil {
				return err
			}
			name := prefix + it.Name
			if it.Array != nil {
				name += "[" + strconv.Itoa(k) + "]"
			}
			if it.Register == nil {
				if err := w.block(it.Block, base+off, name+"."); err != nil {
					return err
				}
				continue
			}
			r := &Reg{Name: name, Addr: base + off, Item: it, Register: it.Register}
			if err := w.fn(r); err != nil {
				return err
			}
		}
	}
	return nil
}
