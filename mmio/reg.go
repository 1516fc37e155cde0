// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mmio provides access to memory-mapped peripheral registers.
//
// A register handle is an address typed by the register value type T and by
// its capability. R[T] can only be read and W[T] can only be written. RW[T]
// supports both and adds the read-modify-write operations. An operation that the
// hardware does not permit is not a method of the handle so misuse is
// rejected by the compiler and costs nothing at run time.
//
// Every Read and WriteValue call performs exactly one volatile load or store
// of the whole register.
//
// The handles do not synchronize anything. Modify is a read followed by a
// write, not an atomic operation: two goroutines or a goroutine and an
// interrupt handler modifying the same register concurrently can lose one of
// the updates. Use a single owner per peripheral or an external lock.
package mmio

// Word is the set of types that can be stored in a register.
type Word interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// R is a read-only register.
type R[T Word] uintptr

// W is a write-only register.
type W[T Word] uintptr

// RW is a read-write register.
type RW[T Word] uintptr

func (r R[T]) Addr() uintptr { return uintptr(r) }

// Read loads the register value.
func (r R[T]) Read() T { return load[T](uintptr(r)) }

func (r W[T]) Addr() uintptr { return uintptr(r) }

// WriteValue stores v in the register.
func (r W[T]) WriteValue(v T) { store(uintptr(r), v) }

// Write calls f with a pointer to the zero value of T and stores the result.
// The current content of the register is not read.
func (r W[T]) Write(f func(v *T)) {
	var v T
	f(&v)
	r.WriteValue(v)
}

func (r RW[T]) Addr() uintptr { return uintptr(r) }

// Read loads the register value.
func (r RW[T]) Read() T { return load[T](uintptr(r)) }

// WriteValue stores v in the register.
func (r RW[T]) WriteValue(v T) { store(uintptr(r), v) }

// Write calls f with a pointer to the zero value of T and stores the result.
// The current content of the register is discarded, not merged.
func (r RW[T]) Write(f func(v *T)) {
	var v T
	f(&v)
	r.WriteValue(v)
}

// Modify reads the register, calls f to change the read value and writes it
// back. It is not atomic.
func (r RW[T]) Modify(f func(v *T)) {
	v := r.Read()
	f(&v)
	r.WriteValue(v)
}

// ReadOnly returns the read-only view of r.
func (r RW[T]) ReadOnly() R[T] { return R[T](r) }

// WriteOnly returns the write-only view of r.
func (r RW[T]) WriteOnly() W[T] { return W[T](r) }

// Writer is implemented by W and RW.
type Writer[T Word] interface {
	WriteValue(v T)
}

// WriteResult works like Write but returns the result of f.
func WriteResult[T Word, X any](r Writer[T], f func(v *T) X) X {
	var v T
	x := f(&v)
	r.WriteValue(v)
	return x
}

// ModifyResult works like Modify but returns the result of f.
func ModifyResult[T Word, X any](r RW[T], f func(v *T) X) X {
	v := r.Read()
	x := f(&v)
	r.WriteValue(v)
	return x
}
