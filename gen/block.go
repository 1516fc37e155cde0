// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gen

import (
	"fmt"

	"github.com/embeddedgo/regtools/ir"
	"github.com/embeddedgo/regtools/layout"
)

func handle(a ir.Access) string {
	switch a {
	case ir.Read:
		return "R"
	case ir.Write:
		return "W"
	}
	return "RW"
}

func checkArray(what string, a *ir.Array) error {
	if a == nil {
		return nil
	}
	if a.Len == 0 {
		return fmt.Errorf("gen: %s: empty array", what)
	}
	if a.Irregular() && len(a.Offsets) != int(a.Len) {
		return fmt.Errorf(
			"gen: %s: array of %d elements has %d offsets",
			what, a.Len, len(a.Offsets),
		)
	}
	return nil
}

// block renders the block as a type that holds its base address. Every item
// becomes a method that returns a register handle or a sub-block.
func (w *pkgWriter) block(path string, b *ir.Block) error {
	_, name := ir.SplitPath(path)
	items := layout.SortItems(b.Items)
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		what := path + "." + it.Name
		if seen[it.Name] {
			return &ir.DuplicateError{Kind: "block item", Name: what}
		}
		seen[it.Name] = true
		if (it.Register == nil) == (it.Block == "") {
			return fmt.Errorf("gen: %s: item must be either a register or a block", what)
		}
		if err := checkArray(what, it.Array); err != nil {
			return err
		}
	}
	if err := w.declare(name, path); err != nil {
		return err
	}
	w.blocks = append(w.blocks, name)

	w.printf("\n")
	w.doc(name, b.Description)
	w.printf("type %s uintptr\n", name)
	for _, it := range items {
		if err := w.blockItem(path, name, it); err != nil {
			return err
		}
	}
	return nil
}

func (w *pkgWriter) blockItem(path, recv string, it *ir.BlockItem) error {
	var typ string
	if r := it.Register; r != nil {
		vt, err := w.regValueType(path+"."+it.Name, r)
		if err != nil {
			return err
		}
		typ = fmt.Sprintf("%s.%s[%s]", w.mmio(), handle(r.Access), vt)
	} else {
		if _, err := w.x.BlockAt(it.Block); err != nil {
			return err
		}
		typ = w.typeRef(it.Block)
	}
	addr := "uintptr(b)"
	if off := layout.OffsetExpr(it, "n"); off != "" {
		addr += " + " + off
	}
	w.printf("\n")
	w.doc(it.Name, it.Description)
	if it.Array == nil {
		w.printf("func (b %s) %s() %s { return %s(%s) }\n", recv, it.Name, typ, typ, addr)
		return nil
	}
	w.printf("func (b %s) %s(n int) %s {\n", recv, it.Name, typ)
	w.printf("\t%s.CheckIndex(n, %d)\n", w.mmio(), layout.Len(it.Array))
	w.printf("\treturn %s(%s)\n", typ, addr)
	w.printf("}\n")
	return nil
}

// regValueType returns the type of the value stored in the register r.
func (w *pkgWriter) regValueType(what string, r *ir.Register) (string, error) {
	if !ir.WordBits(r.BitSize) {
		return "", &ir.BitSizeError{Path: what, BitSize: r.BitSize}
	}
	if r.Fieldset == "" {
		return fmt.Sprintf("uint%d", r.BitSize), nil
	}
	fs, err := w.x.FieldsetAt(r.Fieldset)
	if err != nil {
		return "", err
	}
	if fs.BitSize != r.BitSize {
		return "", &ir.BitSizeError{
			Path:    what,
			BitSize: fs.BitSize,
			Reason:  fmt.Sprintf("fieldset %s does not match the %d-bit register", r.Fieldset, r.BitSize),
		}
	}
	return w.typeRef(r.Fieldset), nil
}
