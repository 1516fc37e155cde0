// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gen

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/embeddedgo/regtools/ir"
	"github.com/embeddedgo/regtools/layout"
)

// peripherals renders the peripheral instances of the device d as typed
// constants that hold their base addresses.
func (w *pkgWriter) peripherals(path string, d *ir.Device) error {
	_, name := ir.SplitPath(path)
	if w.device != "" {
		return fmt.Errorf("gen: devices %s and %s share the package %s", w.device, name, w.name)
	}
	w.device = name
	ps := slices.Clone(d.Peripherals)
	slices.SortStableFunc(ps, func(a, b *ir.Peripheral) int {
		return cmp.Or(
			cmp.Compare(a.BaseAddress, b.BaseAddress),
			strings.Compare(a.Name, b.Name),
		)
	})
	seen := make(map[string]bool, len(ps))
	for _, p := range ps {
		if seen[p.Name] {
			return &ir.DuplicateError{Kind: "peripheral", Name: path + "." + p.Name}
		}
		seen[p.Name] = true
		if err := w.declare(p.Name, path+"."+p.Name); err != nil {
			return err
		}
	}
	if len(ps) == 0 {
		return nil
	}
	w.printf("\nconst (\n")
	for _, p := range ps {
		typ := "uintptr"
		if p.Block != "" {
			if _, err := w.x.BlockAt(p.Block); err != nil {
				return err
			}
			typ = w.typeRef(p.Block)
		}
		if d := oneLine(p.Description); d != "" {
			w.printf("\t// %s: %s\n", p.Name, d)
		}
		w.printf("\t%s %s = %s\n", p.Name, typ, layout.Hex(p.BaseAddress))
	}
	w.printf(")\n")
	return nil
}

// interrupts renders the interrupt numbers of the device d and the vector
// table indexed by them. Unused vectors are left reserved.
func (w *pkgWriter) interrupts(path string, d *ir.Device) error {
	_, name := ir.SplitPath(path)
	if w.irqs != "" {
		return fmt.Errorf("gen: devices %s and %s share the package %s", w.irqs, name, w.name)
	}
	w.irqs = name
	irqs := slices.Clone(d.Interrupts)
	slices.SortStableFunc(irqs, func(a, b *ir.Interrupt) int {
		return cmp.Or(cmp.Compare(a.Value, b.Value), strings.Compare(a.Name, b.Name))
	})
	names := make(map[string]bool, len(irqs))
	for i, irq := range irqs {
		what := path + "." + irq.Name
		if irq.Value < 0 {
			return fmt.Errorf("gen: %s: negative interrupt number %d", what, irq.Value)
		}
		if names[irq.Name] {
			return &ir.DuplicateError{Kind: "interrupt name", Name: what}
		}
		names[irq.Name] = true
		if i > 0 && irqs[i-1].Value == irq.Value {
			return &ir.DuplicateError{
				Kind: "interrupt value",
				Name: fmt.Sprintf("%d (%s, %s)", irq.Value, irqs[i-1].Name, irq.Name),
			}
		}
		if err := w.declare(irq.Name, what); err != nil {
			return err
		}
	}
	if err := w.declare("Vectors", path+" vector table"); err != nil {
		return err
	}

	w.printf("\nconst (\n")
	for _, irq := range irqs {
		if d := oneLine(irq.Description); d != "" {
			w.printf("\t%s = %d // %s\n", irq.Name, irq.Value, d)
		} else {
			w.printf("\t%s = %d\n", irq.Name, irq.Value)
		}
	}
	w.printf(")\n")

	n := 0
	if len(irqs) != 0 {
		n = irqs[len(irqs)-1].Value + 1
	}
	w.printf("\n// Vectors is the interrupt vector table of %s indexed by interrupt number.\n", name)
	w.printf("var Vectors = [%d]%s.Vector{\n", n, w.mmio())
	k := 0
	for i := 0; i < n; i++ {
		if irqs[k].Value != i {
			w.printf("\t{}, // %d: reserved\n", i)
			continue
		}
		w.printf("\t{Name: %q}, // %d\n", irqs[k].Name, i)
		k++
	}
	w.printf("}\n")
	return nil
}
