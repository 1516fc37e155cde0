// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmio

import "strconv"

// RangeError is the panic value used for out of range array indexes and for
// bit-field geometry or values that cannot be represented. Such errors are
// programming errors and are not meant to be recovered from.
type RangeError struct {
	What  string
	Value uint64
	Max   uint64
}

func (e *RangeError) Error() string {
	return "mmio: " + e.What + " " + strconv.FormatUint(e.Value, 10) +
		" out of range (max " + strconv.FormatUint(e.Max, 10) + ")"
}

// CheckIndex panics if n is not a valid index of an array of length size.
func CheckIndex(n, size int) {
	if uint(n) >= uint(size) {
		panic(&RangeError{What: "index", Value: uint64(uint(n)), Max: uint64(size - 1)})
	}
}
