// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gen

import (
	"strings"
	"testing"

	"github.com/embeddedgo/regtools/ir"
)

func TestVectorTable(t *testing.T) {
	code := render(t, testIR())["irq/irq.go"]
	assertContains(t, code,
		"// Package irq provides the list of supported external interrupts of the STM32\n// device.",
		"USART1 = 2",
		"USART2 = 5",
		"var Vectors = [6]mmio.Vector{",
		`{Name: "USART1"}, // 2`,
		`{Name: "USART2"}, // 5`,
	)
	if n := strings.Count(code, "reserved"); n != 4 {
		t.Errorf("%d reserved entries, want 4", n)
	}
	assertOrder(t, code, "// 0: reserved", "// 1: reserved", "USART1\"", "// 3: reserved", "// 4: reserved", "USART2\"")
}

func TestPeripherals(t *testing.T) {
	code := render(t, testIR())["stm32.go"]
	assertContains(t, code,
		"// Package stm32 provides the peripherals of the STM32 device.",
		"UART2 uart.Periph = 0x40004400",
		"UART1 uart.Periph = 0x40011000",
		"GPIOX uintptr",
		"= 0x48000000",
	)
	assertOrder(t, code, "UART2 ", "UART1 ", "GPIOX ")
}

func TestDeviceWithoutInterrupts(t *testing.T) {
	x := testIR()
	x.Devices["STM32"].Interrupts = nil
	files := render(t, x)
	if _, ok := files["irq/irq.go"]; ok {
		t.Error("irq package rendered for a device without interrupts")
	}
}

func TestDeviceErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(d *ir.Device)
		check  func(t *testing.T, err error)
	}{
		{
			"duplicate interrupt value",
			func(d *ir.Device) { d.Interrupts[1].Value = 2 },
			func(t *testing.T, err error) {
				e := asErr[*ir.DuplicateError](t, err)
				if e.Kind != "interrupt value" {
					t.Errorf("got %+v", e)
				}
			},
		},
		{
			"duplicate interrupt name",
			func(d *ir.Device) { d.Interrupts[1].Name = "USART1" },
			func(t *testing.T, err error) { asErr[*ir.DuplicateError](t, err) },
		},
		{
			"negative interrupt",
			func(d *ir.Device) { d.Interrupts[0].Value = -1 },
			func(t *testing.T, err error) {
				if err == nil {
					t.Error("no error")
				}
			},
		},
		{
			"duplicate peripheral",
			func(d *ir.Device) { d.Peripherals[2].Name = "UART1" },
			func(t *testing.T, err error) {
				e := asErr[*ir.DuplicateError](t, err)
				if e.Name != "STM32.UART1" {
					t.Errorf("got %+v", e)
				}
			},
		},
		{
			"missing block",
			func(d *ir.Device) { d.Peripherals[0].Block = "usart/Periph" },
			func(t *testing.T, err error) {
				e := asErr[*ir.ReferenceError](t, err)
				if e.Kind != "block" || e.Path != "usart/Periph" {
					t.Errorf("got %+v", e)
				}
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x := testIR()
			tc.modify(x.Devices["STM32"])
			_, err := Render(x, &Options{Root: testRoot})
			tc.check(t, err)
		})
	}
}

func TestTwoDevicesOnePackage(t *testing.T) {
	x := testIR()
	x.Devices["STM32B"] = &ir.Device{
		Peripherals: []*ir.Peripheral{{Name: "UART9", BaseAddress: 0x50000000}},
	}
	if _, err := Render(x, &Options{Root: testRoot}); err == nil {
		t.Error("no error")
	}
}
