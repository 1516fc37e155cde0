// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !tinygo

package mmio

import (
	"sync/atomic"
	"unsafe"
)

// The gc compiler has no volatile qualifier. Atomic operations are never
// elided, merged or reordered with other atomic operations so they are used
// for 32 and 64-bit registers. There are no 8 and 16-bit atomics, these go
// through non-inlined functions which the compiler cannot optimize away.

func load[T Word](addr uintptr) T {
	p := unsafe.Pointer(addr)
	switch unsafe.Sizeof(T(0)) {
	case 1:
		return T(load8((*uint8)(p)))
	case 2:
		return T(load16((*uint16)(p)))
	case 4:
		return T(atomic.LoadUint32((*uint32)(p)))
	default:
		return T(atomic.LoadUint64((*uint64)(p)))
	}
}

func store[T Word](addr uintptr, v T) {
	p := unsafe.Pointer(addr)
	switch unsafe.Sizeof(v) {
	case 1:
		store8((*uint8)(p), uint8(v))
	case 2:
		store16((*uint16)(p), uint16(v))
	case 4:
		atomic.StoreUint32((*uint32)(p), uint32(v))
	default:
		atomic.StoreUint64((*uint64)(p), uint64(v))
	}
}

//go:noinline
func load8(p *uint8) uint8 { return *p }

//go:noinline
func load16(p *uint16) uint16 { return *p }

//go:noinline
func store8(p *uint8, v uint8) { *p = v }

//go:noinline
func store16(p *uint16, v uint16) { *p = v }
