// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dump

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/marcinbor85/gohex"

	"github.com/embeddedgo/regtools/ir"
	"github.com/embeddedgo/regtools/layout"
	"github.com/embeddedgo/regtools/regtool/internal/util"
)

const Descr = "decode the registers stored in an Intel HEX memory snapshot"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\n  %s -ir FILE [OPTIONS] HEX...\nOptions:\n",
			cmd,
		)
		fs.PrintDefaults()
	}
	irFile := fs.String("ir", "", "SVD or JSON description of the device")
	fields := fs.Bool("fields", true, "decode register fields")
	fs.Parse(args)
	if *irFile == "" || fs.NArg() == 0 {
		fs.Usage()
		os.Exit(1)
	}
	x, err := util.LoadIR(*irFile, util.Warn)
	util.FatalErr("", err)
	mem := gohex.NewMemory()
	for _, name := range fs.Args() {
		f, err := os.Open(name)
		util.FatalErr("", err)
		err = mem.ParseIntelHex(f)
		f.Close()
		util.FatalErr(name, err)
	}
	util.FatalErr("", Dump(os.Stdout, x, mem, *fields))
}

// image provides the little-endian words stored in the data segments of an
// Intel HEX memory.
type image []gohex.DataSegment

func (m image) byteAt(addr uint64) (byte, bool) {
	for _, s := range m {
		a := uint64(s.Address)
		if addr >= a && addr < a+uint64(len(s.Data)) {
			return s.Data[addr-a], true
		}
	}
	return 0, false
}

// word returns the value of the n-byte little-endian word at addr. It
// reports false if any byte of the word is not in the image.
func (m image) word(addr uint64, n int) (uint64, bool) {
	var v uint64
	for i := n - 1; i >= 0; i-- {
		b, ok := m.byteAt(addr + uint64(i))
		if !ok {
			return 0, false
		}
		v = v<<8 | uint64(b)
	}
	return v, true
}

func hex(v uint64, bits uint32) string {
	return fmt.Sprintf("0x%0*X", int(bits+3)/4, v)
}

// Dump writes the values of all registers of the only device of x found in
// mem to w. Registers that are not fully covered by mem are skipped.
func Dump(w io.Writer, x *ir.IR, mem *gohex.Memory, fields bool) error {
	_, d, err := util.Device(x)
	if err != nil {
		return err
	}
	m := image(mem.GetDataSegments())
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	err = util.WalkDevice(x, d, func(r *layout.Reg) error {
		v, ok := m.word(r.Addr, int(r.Register.BitSize/8))
		if !ok {
			return nil
		}
		fmt.Fprintf(tw, "%s\t@ %s\t= %s\n", r.Name, layout.Hex(r.Addr), hex(v, r.Register.BitSize))
		if !fields || r.Register.Fieldset == "" {
			return nil
		}
		fs, err := x.FieldsetAt(r.Register.Fieldset)
		if err != nil {
			return err
		}
		for _, f := range fs.Fields {
			if err := dumpField(tw, x, f, v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return tw.Flush()
}

func dumpField(w io.Writer, x *ir.IR, f *ir.Field, v uint64) error {
	var e *ir.Enum
	if f.Enum != "" {
		var err error
		if e, err = x.EnumAt(f.Enum); err != nil {
			return err
		}
	}
	n := 1
	if f.Array != nil {
		n = layout.Len(f.Array)
	}
	mask := uint64(1)<<f.BitSize - 1
	if f.BitSize >= 64 {
		mask = ^uint64(0)
	}
	for k := 0; k < n; k++ {
		off := uint64(f.BitOffset)
		name := f.Name
		if f.Array != nil {
			o, _ := layout.ElemOffset(f.Array, k)
			off += o
			name += "[" + strconv.Itoa(k) + "]"
		}
		if off >= 64 {
			continue
		}
		fv := v >> off & mask
		fmt.Fprintf(w, "  %s\t= %s", name, hex(fv, f.BitSize))
		if e != nil {
			for _, ev := range e.Variants {
				if ev.Value == fv {
					fmt.Fprintf(w, " (%s)", ev.Name)
					break
				}
			}
		}
		fmt.Fprintln(w)
	}
	return nil
}
