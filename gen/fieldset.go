// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gen

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/embeddedgo/regtools/ir"
	"github.com/embeddedgo/regtools/layout"
)

// uintBits returns the width of the smallest unsigned type that holds n
// bits or 0 if there is no such type.
func uintBits(n uint32) uint32 {
	switch {
	case n == 0 || n > 64:
		return 0
	case n <= 8:
		return 8
	case n <= 16:
		return 16
	case n <= 32:
		return 32
	}
	return 64
}

// fieldEnd returns the bit position just after the last bit used by f.
func fieldEnd(f *ir.Field) uint64 {
	end := uint64(f.BitOffset) + uint64(f.BitSize)
	if f.Array == nil {
		return end
	}
	var last uint64
	for n := 0; n < layout.Len(f.Array); n++ {
		if o, ok := layout.ElemOffset(f.Array, n); ok {
			last = max(last, o)
		}
	}
	return end + last
}

func (w *pkgWriter) fieldset(path string, fs *ir.Fieldset) error {
	_, name := ir.SplitPath(path)
	if !ir.WordBits(fs.BitSize) {
		return &ir.BitSizeError{Path: path, BitSize: fs.BitSize}
	}
	fields := slices.Clone(fs.Fields)
	slices.SortStableFunc(fields, func(a, b *ir.Field) int {
		return cmp.Or(
			cmp.Compare(a.BitOffset, b.BitOffset),
			strings.Compare(a.Name, b.Name),
		)
	})
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name] {
			return &ir.DuplicateError{Kind: "field", Name: path + "." + f.Name}
		}
		seen[f.Name] = true
	}
	if err := w.declare(name, path); err != nil {
		return err
	}

	w.printf("\n")
	w.doc(name, fs.Description)
	w.printf("type %s uint%d\n", name, fs.BitSize)
	for _, f := range fields {
		if err := w.field(path, name, fs, f); err != nil {
			return err
		}
	}
	return nil
}

// field renders a method that returns a view of the field f in the word
// pointed by the receiver.
func (w *pkgWriter) field(path, recv string, fs *ir.Fieldset, f *ir.Field) error {
	what := path + "." + f.Name
	if f.BitSize == 0 || f.BitSize > fs.BitSize {
		return &ir.BitSizeError{Path: what, BitSize: f.BitSize}
	}
	if err := checkArray(what, f.Array); err != nil {
		return err
	}
	if end := fieldEnd(f); end > uint64(fs.BitSize) {
		return &ir.BitSizeError{
			Path:    what,
			BitSize: f.BitSize,
			Reason:  fmt.Sprintf("field ends at bit %d of a %d-bit fieldset", end, fs.BitSize),
		}
	}
	var vt string
	if f.Enum != "" {
		e, err := w.x.EnumAt(f.Enum)
		if err != nil {
			return err
		}
		if uintBits(e.BitSize) < uintBits(f.BitSize) {
			return &ir.BitSizeError{
				Path:    what,
				BitSize: f.BitSize,
				Reason:  fmt.Sprintf("does not fit enum %s of %d bits", f.Enum, e.BitSize),
			}
		}
		vt = w.typeRef(f.Enum)
	} else if f.BitSize > 1 {
		vt = fmt.Sprintf("uint%d", uintBits(f.BitSize))
	}

	off := strconv.FormatUint(uint64(f.BitOffset), 10)
	if f.Array != nil {
		off += "+" + layout.IndexExpr(f.Array, "n", "uint")
	}
	mm := w.mmio()
	var typ, val string
	if vt == "" {
		typ = fmt.Sprintf("%s.Flag[%s]", mm, recv)
		val = fmt.Sprintf("%s.NewFlag(r, %s)", mm, off)
	} else {
		typ = fmt.Sprintf("%s.Field[%s, %s]", mm, recv, vt)
		val = fmt.Sprintf("%s.NewField[%s, %s](r, %s, %d)", mm, recv, vt, off, f.BitSize)
	}

	w.printf("\n")
	w.doc(f.Name, f.Description)
	if f.Array == nil {
		w.printf("func (r *%s) %s() %s { return %s }\n", recv, f.Name, typ, val)
		return nil
	}
	w.printf("func (r *%s) %s(n int) %s {\n", recv, f.Name, typ)
	w.printf("\t%s.CheckIndex(n, %d)\n", mm, layout.Len(f.Array))
	w.printf("\treturn %s\n", val)
	w.printf("}\n")
	return nil
}

func (w *pkgWriter) enum(path string, e *ir.Enum) error {
	_, name := ir.SplitPath(path)
	bits := uintBits(e.BitSize)
	if bits == 0 {
		return &ir.BitSizeError{Path: path, BitSize: e.BitSize}
	}
	variants := slices.Clone(e.Variants)
	slices.SortStableFunc(variants, func(a, b *ir.EnumVariant) int {
		return cmp.Or(cmp.Compare(a.Value, b.Value), strings.Compare(a.Name, b.Name))
	})
	seen := make(map[string]bool, len(variants))
	for _, v := range variants {
		what := path + "." + v.Name
		if seen[v.Name] {
			return &ir.DuplicateError{Kind: "enum variant", Name: what}
		}
		seen[v.Name] = true
		if e.BitSize < 64 && v.Value>>e.BitSize != 0 {
			return &ir.BitSizeError{
				Path:    what,
				BitSize: e.BitSize,
				Reason:  "value " + layout.Hex(v.Value) + " does not fit",
			}
		}
	}
	if err := w.declare(name, path); err != nil {
		return err
	}
	for _, v := range variants {
		if err := w.declare(name+"_"+v.Name, path+"."+v.Name); err != nil {
			return err
		}
	}

	w.printf("\n")
	w.doc(name, e.Description)
	w.printf("type %s uint%d\n", name, bits)
	if len(variants) == 0 {
		return nil
	}
	w.printf("\nconst (\n")
	for _, v := range variants {
		w.printf("\t%s_%s %s = %s", name, v.Name, name, layout.Hex(v.Value))
		if d := oneLine(v.Description); d != "" {
			w.printf(" // %s", d)
		}
		w.printf("\n")
	}
	w.printf(")\n")
	return nil
}
