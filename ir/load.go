// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
)

// Load decodes a JSON encoded IR. Unknown fields and null entities are
// rejected. Block items must carry exactly one of register and block.
func Load(r io.Reader) (*IR, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	x := New()
	if err := dec.Decode(x); err != nil {
		return nil, err
	}
	if err := x.check(); err != nil {
		return nil, err
	}
	return x, nil
}

func nullError(path, what string) error {
	return fmt.Errorf("ir: %s: null %s", path, what)
}

// check reports the first null entity or malformed block item of x in path
// order. It also allocates the maps that were decoded from null.
func (x *IR) check() error {
	if x.Devices == nil {
		x.Devices = make(map[string]*Device)
	}
	if x.Blocks == nil {
		x.Blocks = make(map[string]*Block)
	}
	if x.Fieldsets == nil {
		x.Fieldsets = make(map[string]*Fieldset)
	}
	if x.Enums == nil {
		x.Enums = make(map[string]*Enum)
	}
	for _, path := range slices.Sorted(maps.Keys(x.Devices)) {
		d := x.Devices[path]
		if d == nil {
			return nullError(path, "device")
		}
		for i, irq := range d.Interrupts {
			if irq == nil {
				return nullError(fmt.Sprintf("%s.interrupts[%d]", path, i), "interrupt")
			}
		}
		for i, p := range d.Peripherals {
			if p == nil {
				return nullError(fmt.Sprintf("%s.peripherals[%d]", path, i), "peripheral")
			}
		}
	}
	for _, path := range slices.Sorted(maps.Keys(x.Blocks)) {
		b := x.Blocks[path]
		if b == nil {
			return nullError(path, "block")
		}
		for i, it := range b.Items {
			if it == nil {
				return nullError(fmt.Sprintf("%s.items[%d]", path, i), "block item")
			}
			if (it.Register == nil) == (it.Block == "") {
				return fmt.Errorf(
					"ir: %s.%s: item must be either a register or a block",
					path, it.Name,
				)
			}
		}
	}
	for _, path := range slices.Sorted(maps.Keys(x.Fieldsets)) {
		fs := x.Fieldsets[path]
		if fs == nil {
			return nullError(path, "fieldset")
		}
		for i, f := range fs.Fields {
			if f == nil {
				return nullError(fmt.Sprintf("%s.fields[%d]", path, i), "field")
			}
		}
	}
	for _, path := range slices.Sorted(maps.Keys(x.Enums)) {
		e := x.Enums[path]
		if e == nil {
			return nullError(path, "enum")
		}
		for i, v := range e.Variants {
			if v == nil {
				return nullError(fmt.Sprintf("%s.variants[%d]", path, i), "enum variant")
			}
		}
	}
	return nil
}
