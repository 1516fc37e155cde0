// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"cmp"
	"slices"
	"strings"

	"github.com/embeddedgo/regtools/ir"
	"github.com/embeddedgo/regtools/layout"
)

// WalkDevice calls fn for every register of every peripheral of d. The
// peripherals are visited in the address order. The register names are
// prefixed with the peripheral name.
func WalkDevice(x *ir.IR, d *ir.Device, fn func(r *layout.Reg) error) error {
	ps := slices.Clone(d.Peripherals)
	slices.SortStableFunc(ps, func(a, b *ir.Peripheral) int {
		return cmp.Or(
			cmp.Compare(a.BaseAddress, b.BaseAddress),
			strings.Compare(a.Name, b.Name),
		)
	})
	for _, p := range ps {
		if p.Block == "" {
			continue
		}
		err := layout.Walk(x, p.Block, p.BaseAddress, func(r *layout.Reg) error {
			r.Name = p.Name + "." + r.Name
			return fn(r)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
