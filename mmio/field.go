// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmio

import "unsafe"

func bits[T Word]() uint {
	return uint(unsafe.Sizeof(T(0))) * 8
}

// Field is a view of the bits [offset, offset+width) of a word of type W
// exposed as a value of type V. The word is usually a local copy of a
// register value obtained inside a Write or Modify callback. A Field borrows
// the word: two views of the same word must not be used concurrently.
type Field[W, V Word] struct {
	word  *W
	mask  W
	shift uint8
}

// NewField returns the view of the width bits of word starting at offset.
// It panics if the field does not fit in W or its width exceeds V.
func NewField[W, V Word](word *W, offset, width uint) Field[W, V] {
	if width == 0 || width > bits[V]() {
		panic(&RangeError{What: "field width", Value: uint64(width), Max: uint64(bits[V]())})
	}
	if offset+width > bits[W]() {
		panic(&RangeError{What: "field end", Value: uint64(offset + width), Max: uint64(bits[W]())})
	}
	return Field[W, V]{word: word, mask: W(1)<<width - 1, shift: uint8(offset)}
}

// Get extracts the field value.
func (f Field[W, V]) Get() V {
	x := *f.word >> f.shift & f.mask
	v := V(x)
	if W(v) != x {
		panic(&RangeError{What: "field value", Value: uint64(x), Max: uint64(f.mask)})
	}
	return v
}

// Set replaces the field bits with v leaving all other bits of the word
// unchanged. It panics if v does not fit in the field.
func (f Field[W, V]) Set(v V) {
	x := W(v)
	if V(x) != v || x > f.mask {
		panic(&RangeError{What: "field value", Value: uint64(v), Max: uint64(f.mask)})
	}
	*f.word = *f.word&^(f.mask<<f.shift) | x<<f.shift
}

// Flag is a single bit view of a word, a boolean Field of width 1.
type Flag[W Word] struct {
	word *W
	mask W
}

// NewFlag returns the view of the bit at offset in word.
func NewFlag[W Word](word *W, offset uint) Flag[W] {
	if offset >= bits[W]() {
		panic(&RangeError{What: "flag offset", Value: uint64(offset), Max: uint64(bits[W]() - 1)})
	}
	return Flag[W]{word: word, mask: W(1) << offset}
}

func (f Flag[W]) Get() bool {
	return *f.word&f.mask != 0
}

func (f Flag[W]) Set(v bool) {
	if v {
		*f.word |= f.mask
	} else {
		*f.word &^= f.mask
	}
}
