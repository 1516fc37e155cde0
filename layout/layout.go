// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package layout computes where the items of a register block live.
//
// The Expr functions produce Go expressions for code generators. They never
// fold the array stride into a number: the index term is kept symbolic so
// the generated address is base + offset + index*stride. Offset and Walk
// evaluate the same layout numerically.
package layout

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/embeddedgo/regtools/ir"
)

// Hex formats v the way offsets and addresses are written in generated
// code.
func Hex(v uint64) string {
	return "0x" + strings.ToUpper(strconv.FormatUint(v, 16))
}

// Len returns the number of elements of a, 0 if a is nil.
func Len(a *ir.Array) int {
	if a == nil {
		return 0
	}
	return int(a.Len)
}

// IndexExpr returns the expression of the offset of the element index of
// the array a relative to its first element, of type typ.
func IndexExpr(a *ir.Array, index, typ string) string {
	if !a.Irregular() {
		return fmt.Sprintf("%s(%s)*%s", typ, index, Hex(uint64(a.Stride)))
	}
	var b strings.Builder
	b.WriteString("[...]")
	b.WriteString(typ)
	b.WriteByte('{')
	for k, o := range a.Offsets {
		if k > 0 {
			b.WriteString(", ")
		}
		b.WriteString(Hex(uint64(o)))
	}
	b.WriteString("}[")
	b.WriteString(index)
	b.WriteByte(']')
	return b.String()
}

// OffsetExpr returns the uintptr expression of the offset of the item i
// from the base of its block. For arrayed items the expression depends on
// the index variable. OffsetExpr returns an empty string for a non-arrayed
// item at offset zero.
func OffsetExpr(i *ir.BlockItem, index string) string {
	var terms []string
	if i.ByteOffset != 0 {
		terms = append(terms, Hex(uint64(i.ByteOffset)))
	}
	if i.Array != nil {
		terms = append(terms, IndexExpr(i.Array, index, "uintptr"))
	}
	return strings.Join(terms, " + ")
}

// RangeError is returned by Offset for an index outside the array.
type RangeError struct {
	Item  string
	Index int
	Len   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("layout: %s: index %d out of range [0:%d]", e.Item, e.Index, e.Len)
}

// ElemOffset returns the offset of the element n of a relative to the first
// element.
func ElemOffset(a *ir.Array, n int) (uint64, bool) {
	if n < 0 || n >= Len(a) {
		return 0, false
	}
	if a.Irregular() {
		if n >= len(a.Offsets) {
			return 0, false
		}
		return uint64(a.Offsets[n]), true
	}
	return uint64(n) * uint64(a.Stride), true
}

// Offset returns the offset of the element n of the item i from the base of
// its block. n must be 0 for non-arrayed items.
func Offset(i *ir.BlockItem, n int) (uint64, error) {
	if i.Array == nil {
		if n != 0 {
			return 0, &RangeError{i.Name, n, 1}
		}
		return uint64(i.ByteOffset), nil
	}
	o, ok := ElemOffset(i.Array, n)
	if !ok {
		return 0, &RangeError{i.Name, n, Len(i.Array)}
	}
	return uint64(i.ByteOffset) + o, nil
}

// SortItems returns a copy of items sorted by (ByteOffset, Name) so the
// result does not depend on the order of the items in the description.
func SortItems(items []*ir.BlockItem) []*ir.BlockItem {
	s := slices.Clone(items)
	slices.SortStableFunc(s, func(a, b *ir.BlockItem) int {
		return cmp.Or(
			cmp.Compare(a.ByteOffset, b.ByteOffset),
			strings.Compare(a.Name, b.Name),
		)
	})
	return s
}
