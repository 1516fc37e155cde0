// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Regtool generates Go register access packages from register descriptions
// and inspects the memory images of the described registers.
package main

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/embeddedgo/regtools/regtool/internal/cmd/dump"
	"github.com/embeddedgo/regtools/regtool/internal/cmd/gen"
	"github.com/embeddedgo/regtools/regtool/internal/cmd/irdump"
	"github.com/embeddedgo/regtools/regtool/internal/cmd/reset"
)

type tool struct {
	descr string
	main  func(cmd string, args []string)
}

var tools = map[string]tool{
	"dump":  {dump.Descr, dump.Main},
	"gen":   {gen.Descr, gen.Main},
	"ir":    {irdump.Descr, irdump.Main},
	"reset": {reset.Descr, reset.Main},
}

func printToolList() {
	names := slices.Sorted(maps.Keys(tools))
	maxLen := 0
	for _, k := range names {
		if maxLen < len(k) {
			maxLen = len(k)
		}
	}
	uw := os.Stderr
	uw.WriteString("Usage:\n  regtool COMMAND [ARGUMENTS]\n\n")
	uw.WriteString("Available commands:\n")
	for _, name := range names {
		fmt.Fprintf(uw, "  %*s  %s\n", maxLen, name, tools[name].descr)
	}
}

func main() {
	if len(os.Args) < 2 || os.Args[1] == "-h" {
		printToolList()
		return
	}
	tool, ok := tools[os.Args[1]]
	if !ok {
		printToolList()
		os.Exit(1)
	}
	tool.main(os.Args[1], os.Args[2:])
}
