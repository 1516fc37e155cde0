// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gen

import (
	"flag"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/embeddedgo/regtools/gen"
	"github.com/embeddedgo/regtools/ir"
	"github.com/embeddedgo/regtools/regtool/internal/util"
)

const Descr = "generate register access packages from SVD or JSON descriptions"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\n  %s [OPTIONS] FILE...\nOptions:\n",
			cmd,
		)
		fs.PrintDefaults()
	}
	out := fs.String("o", ".", "output directory")
	root := fs.String(
		"root", "",
		"import path of the output directory (default inferred from go.mod)",
	)
	mmio := fs.String("mmio", gen.DefaultMMIO, "import path of the mmio package")
	tags := fs.String("tags", "", "build constraint added to the generated files")
	fs.Parse(args)
	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(1)
	}
	if *root == "" {
		var err error
		*root, err = util.ImportPath(*out)
		util.FatalErr("", err)
	}
	opts := gen.Options{MMIO: *mmio, BuildTag: *tags, Tool: "regtool " + cmd}
	names := fs.Args()
	xs := make([]*ir.IR, len(names))
	var load, write errgroup.Group
	for i, name := range names {
		load.Go(func() (err error) {
			xs[i], err = util.LoadIR(name, util.Warn)
			return err
		})
	}
	util.FatalErr("", load.Wait())
	util.FatalErr("", checkOutputs(*out, names, xs))
	for i, name := range names {
		write.Go(func() error {
			if err := Generate(xs[i], *out, *root, opts); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		})
	}
	util.FatalErr("", write.Wait())
}

// checkOutputs reports inputs that would be generated into overlapping
// directories. An input without a device subdirectory is written to outDir
// itself so it must be the only input.
func checkOutputs(outDir string, names []string, xs []*ir.IR) error {
	seen := make(map[string]string, len(xs))
	for i, x := range xs {
		sub := Subdir(x)
		if prev, ok := seen[sub]; ok {
			return fmt.Errorf(
				"%s and %s are both generated into %s",
				prev, names[i], filepath.Join(outDir, sub),
			)
		}
		seen[sub] = names[i]
	}
	if root, ok := seen[""]; ok && len(xs) > 1 {
		for i, x := range xs {
			if sub := Subdir(x); sub != "" {
				return fmt.Errorf(
					"%s is generated into %s which contains the output of %s",
					root, outDir, names[i],
				)
			}
		}
	}
	return nil
}

// Subdir returns the output subdirectory for x: the lower case name of its
// only device if it is in the root directory of the IR, otherwise "".
func Subdir(x *ir.IR) string {
	if len(x.Devices) != 1 {
		return ""
	}
	for p := range x.Devices {
		if dir, name := ir.SplitPath(p); dir == "" {
			return strings.ToLower(name)
		}
	}
	return ""
}

// Generate renders x and writes the files to outDir/Subdir(x). root is the
// import path of outDir.
func Generate(x *ir.IR, outDir, root string, opts gen.Options) error {
	sub := Subdir(x)
	opts.Root = path.Join(root, sub)
	files, err := gen.Render(x, &opts)
	if err != nil {
		return err
	}
	for _, f := range files {
		name := filepath.Join(outDir, sub, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(name, f.Src, 0o644); err != nil {
			return err
		}
	}
	return nil
}
