// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gen

import (
	"go/ast"
	"go/build"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"path"
	"path/filepath"
	"strings"
	"testing"
)

// srcImporter type-checks the mmio package and the generated packages from
// source. Everything else is imported from the standard library sources.
type srcImporter struct {
	fset  *token.FileSet
	std   types.Importer
	files map[string][]*ast.File
	pkgs  map[string]*types.Package
}

func newSrcImporter(t *testing.T) *srcImporter {
	t.Helper()
	fset := token.NewFileSet()
	im := &srcImporter{
		fset:  fset,
		std:   importer.ForCompiler(fset, "source", nil),
		files: make(map[string][]*ast.File),
		pkgs:  make(map[string]*types.Package),
	}
	bp, err := build.Default.ImportDir(filepath.Join("..", "mmio"), 0)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range bp.GoFiles {
		im.add(t, DefaultMMIO, filepath.Join(bp.Dir, name), nil)
	}
	return im
}

func (im *srcImporter) add(t *testing.T, importPath, name string, src []byte) {
	t.Helper()
	var s any
	if src != nil {
		s = src
	}
	f, err := parser.ParseFile(im.fset, name, s, parser.ParseComments)
	if err != nil {
		t.Fatal(err)
	}
	im.files[importPath] = append(im.files[importPath], f)
}

func (im *srcImporter) Import(p string) (*types.Package, error) {
	if pkg := im.pkgs[p]; pkg != nil {
		return pkg, nil
	}
	files, ok := im.files[p]
	if !ok {
		return im.std.Import(p)
	}
	conf := types.Config{Importer: im}
	pkg, err := conf.Check(p, im.fset, files, nil)
	if err != nil {
		return nil, err
	}
	im.pkgs[p] = pkg
	return pkg, nil
}

func addGenerated(t *testing.T, im *srcImporter) []string {
	t.Helper()
	files, err := Render(testIR(), &Options{Root: testRoot})
	if err != nil {
		t.Fatal(err)
	}
	var paths []string
	for _, f := range files {
		p := testRoot
		if dir := path.Dir(f.Path); dir != "." {
			p += "/" + dir
		}
		im.add(t, p, f.Path, f.Src)
		paths = append(paths, p)
	}
	return paths
}

func TestGeneratedCodeTypeChecks(t *testing.T) {
	im := newSrcImporter(t)
	for _, p := range addGenerated(t, im) {
		if _, err := im.Import(p); err != nil {
			t.Errorf("%s: %v", p, err)
		}
	}
}

const useOK = `package use

import (
	"example.com/regs/stm32"
	"example.com/regs/stm32/irq"
	"example.com/regs/stm32/uart"
)

func F() (uint32, string) {
	u := stm32.UART1
	u.CR().Modify(func(r *uart.CR) {
		r.EN().Set(true)
		r.MODE().Set(uart.MODE_TX)
		r.PRIO(1).Set(3)
	})
	u.DR().WriteValue('a')
	u.TXB(3).Write(func(v *uint32) { *v = 1 })
	return u.SR().Read(), irq.Vectors[irq.USART1].Name
}
`

const useBad = `package use

import "example.com/regs/stm32"

func F() {
	stm32.UART1.SR().WriteValue(1)
}
`

func TestGeneratedCodeUse(t *testing.T) {
	im := newSrcImporter(t)
	addGenerated(t, im)
	im.add(t, "example.com/use", "use.go", []byte(useOK))
	if _, err := im.Import("example.com/use"); err != nil {
		t.Fatal(err)
	}
}

func TestReadOnlyRejectsWrite(t *testing.T) {
	im := newSrcImporter(t)
	addGenerated(t, im)
	im.add(t, "example.com/use", "use.go", []byte(useBad))
	_, err := im.Import("example.com/use")
	if err == nil {
		t.Fatal("write to a read-only register compiles")
	}
	if !strings.Contains(err.Error(), "WriteValue") {
		t.Errorf("unexpected error: %v", err)
	}
}
