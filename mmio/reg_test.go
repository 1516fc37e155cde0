// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmio

import (
	"errors"
	"reflect"
	"testing"
	"unsafe"
)

// mem emulates a peripheral. It is a global so it is never moved.
var mem [4]uint64

func addr(byteOffset uintptr) uintptr {
	return uintptr(unsafe.Pointer(&mem)) + byteOffset
}

func clearMem() {
	for i := range mem {
		mem[i] = 0
	}
}

func word32(byteOffset uintptr) *uint32 {
	return (*uint32)(unsafe.Pointer(addr(byteOffset)))
}

func TestReadWriteWidths(t *testing.T) {
	clearMem()
	RW[uint8](addr(0)).WriteValue(0x12)
	RW[uint16](addr(2)).WriteValue(0x3456)
	RW[uint32](addr(4)).WriteValue(0x789abcde)
	RW[uint64](addr(8)).WriteValue(0x0123456789abcdef)

	if v := R[uint8](addr(0)).Read(); v != 0x12 {
		t.Errorf("8-bit: got %#x", v)
	}
	if v := R[uint16](addr(2)).Read(); v != 0x3456 {
		t.Errorf("16-bit: got %#x", v)
	}
	if v := R[uint32](addr(4)).Read(); v != 0x789abcde {
		t.Errorf("32-bit: got %#x", v)
	}
	if v := R[uint64](addr(8)).Read(); v != 0x0123456789abcdef {
		t.Errorf("64-bit: got %#x", v)
	}
	// Neighbouring registers must not be touched.
	if v := mem[2]; v != 0 {
		t.Errorf("mem[2] = %#x, want 0", v)
	}
}

type ctrl uint32

func TestModifyPreservesUntouchedBits(t *testing.T) {
	clearMem()
	*word32(0) = 0xAAAAAAAA
	r := RW[ctrl](addr(0))
	r.Modify(func(v *ctrl) {
		NewField[ctrl, uint8](v, 4, 4).Set(0x5)
	})
	if got := *word32(0); got != 0xAAAAAA5A {
		t.Fatalf("got %#08x, want 0xAAAAAA5A", got)
	}
}

func TestWriteDiscardsPriorContent(t *testing.T) {
	clearMem()
	*word32(0) = 0xFFFFFFFF
	r := RW[ctrl](addr(0))
	r.Write(func(v *ctrl) {
		if *v != 0 {
			t.Errorf("Write passed %#x, want the zero value", *v)
		}
		*v = 0x1
	})
	if got := r.Read(); got != 0x1 {
		t.Fatalf("got %#x, want 0x1", got)
	}

	w := W[ctrl](addr(0))
	*word32(0) = 0xFFFFFFFF
	w.Write(func(v *ctrl) { NewFlag(v, 3).Set(true) })
	if got := *word32(0); got != 0x8 {
		t.Fatalf("W.Write: got %#x, want 0x8", got)
	}
}

func TestResultFuncs(t *testing.T) {
	clearMem()
	*word32(0) = 0x10
	r := RW[uint32](addr(0))
	old := ModifyResult(r, func(v *uint32) uint32 {
		old := *v
		*v |= 1
		return old
	})
	if old != 0x10 || *word32(0) != 0x11 {
		t.Errorf("ModifyResult: old=%#x reg=%#x", old, *word32(0))
	}
	ok := WriteResult[uint32](r.WriteOnly(), func(v *uint32) bool {
		*v = 7
		return true
	})
	if !ok || r.ReadOnly().Read() != 7 {
		t.Errorf("WriteResult: ok=%v reg=%#x", ok, *word32(0))
	}
}

func TestCapabilities(t *testing.T) {
	tests := []struct {
		v    any
		has  []string
		hasN []string
	}{
		{R[uint32](0), []string{"Read", "Addr"}, []string{"WriteValue", "Write", "Modify"}},
		{W[uint32](0), []string{"WriteValue", "Write", "Addr"}, []string{"Read", "Modify"}},
		{RW[uint32](0), []string{"Read", "WriteValue", "Write", "Modify"}, nil},
	}
	for _, test := range tests {
		typ := reflect.TypeOf(test.v)
		for _, m := range test.has {
			if _, ok := typ.MethodByName(m); !ok {
				t.Errorf("%v: missing method %s", typ, m)
			}
		}
		for _, m := range test.hasN {
			if _, ok := typ.MethodByName(m); ok {
				t.Errorf("%v: unexpected method %s", typ, m)
			}
		}
	}
}

func mustPanicRange(t *testing.T, what string, f func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		err, ok := r.(error)
		var re *RangeError
		if !ok || !errors.As(err, &re) {
			t.Fatalf("%s: expected *RangeError panic, got %v", what, r)
		}
	}()
	f()
}

func TestCheckIndex(t *testing.T) {
	for n := 0; n < 4; n++ {
		CheckIndex(n, 4)
	}
	mustPanicRange(t, "n == len", func() { CheckIndex(4, 4) })
	mustPanicRange(t, "n < 0", func() { CheckIndex(-1, 4) })
}

func TestVectorReserved(t *testing.T) {
	table := [3]Vector{{}, {Name: "UART0"}, {}}
	for i, want := range []bool{true, false, true} {
		if got := table[i].Reserved(); got != want {
			t.Errorf("%d: Reserved() = %v", i, got)
		}
	}
	if n := reflect.TypeFor[Vector]().NumField(); n != 1 {
		t.Errorf("Vector has %d fields, want only Name", n)
	}
}
