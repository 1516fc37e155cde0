// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gen

import (
	"strings"
	"testing"

	"github.com/embeddedgo/regtools/ir"
)

func TestFieldsetAccessors(t *testing.T) {
	code := render(t, testIR())["uart/uart.go"]
	assertContains(t, code,
		"// CR: Control register.\ntype CR uint32\n",
		"// EN: Enable.\nfunc (r *CR) EN() mmio.Flag[CR] { return mmio.NewFlag(r, 0) }",
		"func (r *CR) MODE() mmio.Field[CR, MODE] { return mmio.NewField[CR, MODE](r, 4, 3) }",
		"func (r *CR) PRIO(n int) mmio.Field[CR, uint8] {\n\tmmio.CheckIndex(n, 2)\n",
		"return mmio.NewField[CR, uint8](r, 8+uint(n)*0x4, 4)",
		"func (r *CR) DIV() mmio.Field[CR, uint16] { return mmio.NewField[CR, uint16](r, 16, 16) }",
	)
	assertOrder(t, code, ") EN()", ") MODE()", ") PRIO(", ") DIV()")
}

func TestEnumConstants(t *testing.T) {
	code := render(t, testIR())["uart/uart.go"]
	assertContains(t, code,
		"// MODE: Transfer mode.\ntype MODE uint8\n",
		"MODE_DUPLEX MODE = 0x3",
	)
	assertOrder(t, code, "MODE_OFF ", "MODE_TX ", "MODE_RX ", "MODE_DUPLEX ")
}

func TestEnumSameValue(t *testing.T) {
	x := testIR()
	e := x.Enums["uart/MODE"]
	e.Variants = append(e.Variants, &ir.EnumVariant{Name: "BOTH", Value: 3})
	code := render(t, x)["uart/uart.go"]
	// Equal values are ordered by name.
	assertOrder(t, code, "MODE_RX ", "MODE_BOTH ", "MODE_DUPLEX ")
}

func TestFieldsetErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(x *ir.IR)
		check  func(t *testing.T, err error)
	}{
		{
			"field past the end",
			func(x *ir.IR) { x.Fieldsets["uart/CR"].Fields[3].BitSize = 17 },
			func(t *testing.T, err error) {
				e := asErr[*ir.BitSizeError](t, err)
				if e.Path != "uart/CR.DIV" || !strings.Contains(e.Reason, "33") {
					t.Errorf("got %+v", e)
				}
			},
		},
		{
			"field array past the end",
			func(x *ir.IR) { x.Fieldsets["uart/CR"].Fields[2].Array.Len = 7 },
			func(t *testing.T, err error) { asErr[*ir.BitSizeError](t, err) },
		},
		{
			"zero width field",
			func(x *ir.IR) { x.Fieldsets["uart/CR"].Fields[0].BitSize = 0 },
			func(t *testing.T, err error) { asErr[*ir.BitSizeError](t, err) },
		},
		{
			"fieldset width",
			func(x *ir.IR) { x.Fieldsets["uart/CR"].BitSize = 12 },
			func(t *testing.T, err error) { asErr[*ir.BitSizeError](t, err) },
		},
		{
			"missing enum",
			func(x *ir.IR) { x.Fieldsets["uart/CR"].Fields[1].Enum = "uart/KIND" },
			func(t *testing.T, err error) {
				e := asErr[*ir.ReferenceError](t, err)
				if e.Kind != "enum" || e.Path != "uart/KIND" {
					t.Errorf("got %+v", e)
				}
			},
		},
		{
			"field wider than enum",
			func(x *ir.IR) {
				x.Fieldsets["uart/CR"].Fields[3].Enum = "uart/MODE"
			},
			func(t *testing.T, err error) { asErr[*ir.BitSizeError](t, err) },
		},
		{
			"duplicate field",
			func(x *ir.IR) { x.Fieldsets["uart/CR"].Fields[3].Name = "EN" },
			func(t *testing.T, err error) { asErr[*ir.DuplicateError](t, err) },
		},
		{
			"duplicate variant",
			func(x *ir.IR) { x.Enums["uart/MODE"].Variants[1].Name = "RX" },
			func(t *testing.T, err error) {
				e := asErr[*ir.DuplicateError](t, err)
				if e.Name != "uart/MODE.RX" {
					t.Errorf("got %+v", e)
				}
			},
		},
		{
			"variant too large",
			func(x *ir.IR) { x.Enums["uart/MODE"].Variants[3].Value = 8 },
			func(t *testing.T, err error) { asErr[*ir.BitSizeError](t, err) },
		},
		{
			"enum width",
			func(x *ir.IR) { x.Enums["uart/MODE"].BitSize = 65 },
			func(t *testing.T, err error) { asErr[*ir.BitSizeError](t, err) },
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x := testIR()
			tc.modify(x)
			files, err := Render(x, &Options{Root: testRoot})
			if files != nil {
				t.Errorf("got %d files with an error", len(files))
			}
			tc.check(t, err)
		})
	}
}

func TestUintBits(t *testing.T) {
	tests := []struct{ in, want uint32 }{
		{0, 0}, {1, 8}, {8, 8}, {9, 16}, {16, 16}, {17, 32}, {33, 64}, {64, 64}, {65, 0},
	}
	for _, tc := range tests {
		if got := uintBits(tc.in); got != tc.want {
			t.Errorf("uintBits(%d): got %d, want %d", tc.in, got, tc.want)
		}
	}
}
