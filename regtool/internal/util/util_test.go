// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/embeddedgo/regtools/layout"
)

const testJSON = "../../testdata/mcu.json"

func TestLoadJSON(t *testing.T) {
	x, err := LoadIR(testJSON, t.Errorf)
	if err != nil {
		t.Fatal(err)
	}
	p, d, err := Device(x)
	if err != nil {
		t.Fatal(err)
	}
	if p != "MCU" || len(d.Peripherals) != 3 {
		t.Errorf("got device %s with %d peripherals", p, len(d.Peripherals))
	}
}

func TestLoadSVD(t *testing.T) {
	name := filepath.Join(t.TempDir(), "tiny.svd")
	svd := `<device><name>tiny</name><peripherals><peripheral>
<name>GPIO</name><baseAddress>0x50000000</baseAddress>
<registers><register><name>OUT</name><addressOffset>4</addressOffset><size>24</size></register></registers>
</peripheral></peripherals></device>`
	if err := os.WriteFile(name, []byte(svd), 0o644); err != nil {
		t.Fatal(err)
	}
	var warns []string
	x, err := LoadIR(name, func(f string, args ...any) {
		warns = append(warns, f)
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := x.DeviceAt("Tiny"); err != nil {
		t.Error(err)
	}
	if len(warns) != 1 || !strings.HasPrefix(warns[0], name+": ") {
		t.Errorf("warnings: %q", warns)
	}
}

func TestLoadUnknown(t *testing.T) {
	name := filepath.Join(t.TempDir(), "x.yaml")
	if err := os.WriteFile(name, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadIR(name, t.Errorf); err == nil {
		t.Error("no error")
	}
}

func TestWalkDevice(t *testing.T) {
	x, err := LoadIR(testJSON, t.Errorf)
	if err != nil {
		t.Fatal(err)
	}
	var regs []string
	err = WalkDevice(x, x.Devices["MCU"], func(r *layout.Reg) error {
		regs = append(regs, r.Name+"@"+layout.Hex(r.Addr))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"TIM1.CR1@0x40000000", "TIM1.SR@0x40000004",
		"TIM1.CCR[0]@0x40000008", "TIM1.CCR[1]@0x4000000C",
		"TIM1.NORESET@0x40000020",
		"TIM2.CR1@0x40000400", "TIM2.SR@0x40000404",
		"TIM2.CCR[0]@0x40000408", "TIM2.CCR[1]@0x4000040C",
		"TIM2.NORESET@0x40000420",
	}
	if !slices.Equal(regs, want) {
		t.Errorf("got  %v\nwant %v", regs, want)
	}
}

func TestImportPath(t *testing.T) {
	dir := t.TempDir()
	gomod := "module example.com/hw\n\ngo 1.23\n"
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte(gomod), 0o644); err != nil {
		t.Fatal(err)
	}
	tests := []struct{ dir, want string }{
		{dir, "example.com/hw"},
		{filepath.Join(dir, "regs"), "example.com/hw/regs"},
		{filepath.Join(dir, "a", "b"), "example.com/hw/a/b"},
	}
	for _, tc := range tests {
		got, err := ImportPath(tc.dir)
		if err != nil || got != tc.want {
			t.Errorf("%s: got %q, %v, want %q", tc.dir, got, err, tc.want)
		}
	}
}

func TestImportPathBad(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("go 1.23\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportPath(dir); err == nil {
		t.Error("go.mod without module directive accepted")
	}
	dir = t.TempDir()
	gomod := "module example.com/hw\n"
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte(gomod), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportPath(filepath.Join(dir, "bad name")); err == nil {
		t.Error("invalid import path accepted")
	}
}
