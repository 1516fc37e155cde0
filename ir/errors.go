// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import "fmt"

// ReferenceError reports a path that does not resolve in the IR.
type ReferenceError struct {
	Kind string // device, block, fieldset, enum
	Path string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("ir: unresolved %s reference %q", e.Kind, e.Path)
}

// DuplicateError reports two entities that share an identity that must be
// unique: interrupt values, item names in a block and so on.
type DuplicateError struct {
	Kind string
	Name string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("ir: duplicate %s %s", e.Kind, e.Name)
}

// BitSizeError reports a register, fieldset, field or enum width that
// cannot be represented.
type BitSizeError struct {
	Path    string
	BitSize uint32
	Reason  string // optional
}

func (e *BitSizeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("ir: %s: bit size %d: %s", e.Path, e.BitSize, e.Reason)
	}
	return fmt.Sprintf("ir: %s: invalid bit size %d", e.Path, e.BitSize)
}

// WordBits reports whether n is a valid register width.
func WordBits(n uint32) bool {
	switch n {
	case 8, 16, 32, 64:
		return true
	}
	return false
}
