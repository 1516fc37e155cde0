// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package irdump

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"

	"github.com/embeddedgo/regtools/ir"
	"github.com/embeddedgo/regtools/regtool/internal/util"
)

const Descr = "print the IR loaded from an SVD or JSON description"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [OPTIONS] FILE\nOptions:\n", cmd)
		fs.PrintDefaults()
	}
	addrs := fs.Bool("addrs", false, "print pointer addresses")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	x, err := util.LoadIR(fs.Arg(0), util.Warn)
	util.FatalErr("", err)
	Print(os.Stdout, x, *addrs)
}

// Print writes the human readable form of x to w.
func Print(w io.Writer, x *ir.IR, addrs bool) {
	cfg := spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: !addrs,
		DisableCapacities:       true,
		SortKeys:                true,
	}
	cfg.Fdump(w, x)
}
