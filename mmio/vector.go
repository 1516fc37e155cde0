// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmio

// Vector is an entry of an interrupt vector table. The position of the entry
// in the table is its hardware interrupt number. Reserved positions, with no
// interrupt assigned, hold the zero Vector.
//
// Name is the interrupt name, which is also the symbol name of its handler.
type Vector struct {
	Name string
}

func (v *Vector) Reserved() bool {
	return v.Name == ""
}
