// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import (
	"fmt"
	"strings"
)

// Access is the set of operations permitted on a register.
type Access uint8

const (
	ReadWrite Access = iota
	Read
	Write
)

var accessStr = [...]string{
	ReadWrite: "rw",
	Read:      "r",
	Write:     "w",
}

func (a Access) String() string {
	if int(a) < len(accessStr) {
		return accessStr[a]
	}
	return fmt.Sprintf("Access(%d)", a)
}

func (a Access) CanRead() bool  { return a != Write }
func (a Access) CanWrite() bool { return a != Read }

func (a Access) MarshalText() ([]byte, error) {
	if int(a) >= len(accessStr) {
		return nil, fmt.Errorf("ir: bad access value %d", a)
	}
	return []byte(accessStr[a]), nil
}

func (a *Access) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "r", "read", "read-only":
		*a = Read
	case "w", "write", "write-only":
		*a = Write
	case "rw", "", "readwrite", "read-write":
		*a = ReadWrite
	default:
		return fmt.Errorf("ir: unknown access mode %q", text)
	}
	return nil
}
