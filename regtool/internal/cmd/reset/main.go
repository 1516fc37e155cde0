// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reset

import (
	"flag"
	"fmt"
	"os"

	"github.com/marcinbor85/gohex"

	"github.com/embeddedgo/regtools/ir"
	"github.com/embeddedgo/regtools/layout"
	"github.com/embeddedgo/regtools/regtool/internal/util"
)

const Descr = "write the reset values of all registers in the Intel HEX format"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\n  %s -ir FILE [OPTIONS]\nOptions:\n",
			cmd,
		)
		fs.PrintDefaults()
	}
	irFile := fs.String("ir", "", "SVD or JSON description of the device")
	out := fs.String("o", "", "output file (default stdout)")
	fs.Parse(args)
	if *irFile == "" || fs.NArg() != 0 {
		fs.Usage()
		os.Exit(1)
	}
	x, err := util.LoadIR(*irFile, util.Warn)
	util.FatalErr("", err)
	mem, err := Image(x)
	util.FatalErr("", err)
	if *out == "" {
		util.FatalErr("dumpintelhex", mem.DumpIntelHex(os.Stdout, 16))
		return
	}
	util.FatalErr("", WriteFile(*out, mem))
}

// WriteFile writes mem to the named file in the Intel HEX format.
func WriteFile(name string, mem *gohex.Memory) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	err = mem.DumpIntelHex(f, 16)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// Image returns the memory image that contains the reset values of all
// registers of the only device of x stored in the little-endian byte order.
// Registers without a reset value are left out.
func Image(x *ir.IR) (*gohex.Memory, error) {
	_, d, err := util.Device(x)
	if err != nil {
		return nil, err
	}
	mem := gohex.NewMemory()
	err = util.WalkDevice(x, d, func(r *layout.Reg) error {
		rv := r.Register.ResetValue
		if rv == nil {
			return nil
		}
		n := int(r.Register.BitSize / 8)
		if r.Addr+uint64(n) > 1<<32 {
			return fmt.Errorf("%s: address %s out of the Intel HEX range", r.Name, layout.Hex(r.Addr))
		}
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(*rv >> (8 * i))
		}
		if err := mem.AddBinary(uint32(r.Addr), data); err != nil {
			return fmt.Errorf("%s: %w", r.Name, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mem, nil
}
