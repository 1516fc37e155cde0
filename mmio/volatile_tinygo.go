// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build tinygo

package mmio

import (
	"runtime/volatile"
	"unsafe"
)

func load[T Word](addr uintptr) T {
	p := unsafe.Pointer(addr)
	switch unsafe.Sizeof(T(0)) {
	case 1:
		return T(volatile.LoadUint8((*uint8)(p)))
	case 2:
		return T(volatile.LoadUint16((*uint16)(p)))
	case 4:
		return T(volatile.LoadUint32((*uint32)(p)))
	default:
		return T(volatile.LoadUint64((*uint64)(p)))
	}
}

func store[T Word](addr uintptr, v T) {
	p := unsafe.Pointer(addr)
	switch unsafe.Sizeof(v) {
	case 1:
		volatile.StoreUint8((*uint8)(p), uint8(v))
	case 2:
		volatile.StoreUint16((*uint16)(p), uint16(v))
	case 4:
		volatile.StoreUint32((*uint32)(p), uint32(v))
	default:
		volatile.StoreUint64((*uint64)(p), uint64(v))
	}
}
