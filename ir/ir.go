// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ir describes the hardware of a device as a path addressed tree of
// devices, register blocks, fieldsets and enums.
//
// Entities never point to each other directly. A reference is always a path
// string that must be looked up in the same IR. A path has the form dir/Name
// where dir is the slash separated directory of the generated Go package
// (empty for the root package) and Name is the Go identifier of the entity.
//
// The IR is built once by a loader and is read-only afterwards.
package ir

import (
	"strings"
)

type IR struct {
	Devices   map[string]*Device   `json:"devices,omitempty"`
	Blocks    map[string]*Block    `json:"blocks,omitempty"`
	Fieldsets map[string]*Fieldset `json:"fieldsets,omitempty"`
	Enums     map[string]*Enum     `json:"enums,omitempty"`
}

// New returns an empty IR with all maps allocated.
func New() *IR {
	return &IR{
		Devices:   make(map[string]*Device),
		Blocks:    make(map[string]*Block),
		Fieldsets: make(map[string]*Fieldset),
		Enums:     make(map[string]*Enum),
	}
}

type Device struct {
	Description string        `json:"description,omitempty"`
	Interrupts  []*Interrupt  `json:"interrupts,omitempty"`
	Peripherals []*Peripheral `json:"peripherals,omitempty"`
}

type Interrupt struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Value       int    `json:"value"`
}

type Peripheral struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	BaseAddress uint64 `json:"base_address"`
	Block       string `json:"block,omitempty"` // empty for an opaque address
}

type Block struct {
	Description string       `json:"description,omitempty"`
	Items       []*BlockItem `json:"items"`
}

// BlockItem is a register or a sub-block placed at ByteOffset from the base
// of the enclosing block. Exactly one of Register and Block is set.
type BlockItem struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ByteOffset  uint32    `json:"byte_offset"`
	Array       *Array    `json:"array,omitempty"`
	Register    *Register `json:"register,omitempty"`
	Block       string    `json:"block,omitempty"`
}

type Register struct {
	Access     Access  `json:"access"`
	BitSize    uint32  `json:"bit_size"`
	Fieldset   string  `json:"fieldset,omitempty"`
	ResetValue *uint64 `json:"reset_value,omitempty"`
}

type Fieldset struct {
	Description string   `json:"description,omitempty"`
	BitSize     uint32   `json:"bit_size"`
	Fields      []*Field `json:"fields"`
}

type Field struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	BitOffset   uint32 `json:"bit_offset"`
	BitSize     uint32 `json:"bit_size"`
	Array       *Array `json:"array,omitempty"`
	Enum        string `json:"enum,omitempty"`
}

type Enum struct {
	Description string         `json:"description,omitempty"`
	BitSize     uint32         `json:"bit_size"`
	Variants    []*EnumVariant `json:"variants"`
}

type EnumVariant struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Value       uint64 `json:"value"`
}

// Array describes Len elements. The distance between consecutive elements
// is Stride unless Offsets is set, in which case Offsets[i] is the offset of
// the element i relative to the first one.
type Array struct {
	Len     uint32   `json:"len"`
	Stride  uint32   `json:"stride,omitempty"`
	Offsets []uint32 `json:"offsets,omitempty"`
}

// Irregular reports whether the array uses an explicit offset table.
func (a *Array) Irregular() bool {
	return len(a.Offsets) != 0
}

// SplitPath splits the path into the directory and the entity name.
func SplitPath(path string) (dir, name string) {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}

// JoinPath is the inverse of SplitPath.
func JoinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

func (x *IR) DeviceAt(path string) (*Device, error) {
	if d := x.Devices[path]; d != nil {
		return d, nil
	}
	return nil, &ReferenceError{Kind: "device", Path: path}
}

func (x *IR) BlockAt(path string) (*Block, error) {
	if b := x.Blocks[path]; b != nil {
		return b, nil
	}
	return nil, &ReferenceError{Kind: "block", Path: path}
}

func (x *IR) FieldsetAt(path string) (*Fieldset, error) {
	if fs := x.Fieldsets[path]; fs != nil {
		return fs, nil
	}
	return nil, &ReferenceError{Kind: "fieldset", Path: path}
}

func (x *IR) EnumAt(path string) (*Enum, error) {
	if e := x.Enums[path]; e != nil {
		return e, nil
	}
	return nil, &ReferenceError{Kind: "enum", Path: path}
}
