// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gen renders an IR into Go packages that access the described
// registers through the mmio package.
//
// Every IR directory becomes one Go package written to one file. A block
// becomes a uintptr based type whose methods return the register handles
// and sub-blocks, a fieldset becomes an unsigned integer type with bit-field
// accessors, an enum becomes a type with constants and a device becomes the
// set of peripheral constants plus an irq subpackage with the interrupt
// vector table.
//
// Rendering is deterministic: the output does not depend on the order of
// the items in the IR.
package gen

import (
	"bytes"
	"fmt"
	"iter"
	"maps"
	"path"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/tools/imports"

	"github.com/embeddedgo/regtools/ir"
)

// DefaultMMIO is the import path of the register access runtime.
const DefaultMMIO = "github.com/embeddedgo/regtools/mmio"

type Options struct {
	Root     string // import path of the package for the IR root directory
	MMIO     string // import path of the register access runtime
	BuildTag string // optional build constraint added to every file
	Tool     string // generator name written in the DO NOT EDIT header
}

// File is a generated Go source file.
type File struct {
	Path string // slash separated, relative to the directory of Root
	Src  []byte
}

// Render renders all entities of x. The returned files are sorted by path.
// Render returns no files if any entity cannot be rendered.
func Render(x *ir.IR, opts *Options) ([]*File, error) {
	o := *opts
	if o.MMIO == "" {
		o.MMIO = DefaultMMIO
	}
	if o.Tool == "" {
		o.Tool = "regtool"
	}
	pkgs := make(map[string]*pkgWriter)
	pkg := func(dir string) *pkgWriter {
		w := pkgs[dir]
		if w == nil {
			w = newPkgWriter(x, &o, dir)
			pkgs[dir] = w
		}
		return w
	}
	irqDirs := make(map[string]string) // dir -> device whose interrupts it holds
	for _, p := range slices.Sorted(maps.Keys(x.Devices)) {
		if len(x.Devices[p].Interrupts) == 0 {
			continue
		}
		dir, _ := ir.SplitPath(p)
		dir = path.Join(dir, "irq")
		if _, ok := irqDirs[dir]; !ok {
			irqDirs[dir] = p
		}
	}
	checkDir := func(p string) error {
		dir, _ := ir.SplitPath(p)
		if dev, ok := irqDirs[dir]; ok {
			return &ir.DuplicateError{
				Kind: "package",
				Name: fmt.Sprintf("%s (interrupts of %s, %s)", dir, dev, p),
			}
		}
		return nil
	}
	for _, m := range []iter.Seq[string]{
		maps.Keys(x.Enums), maps.Keys(x.Fieldsets), maps.Keys(x.Blocks), maps.Keys(x.Devices),
	} {
		for _, p := range slices.Sorted(m) {
			if err := checkDir(p); err != nil {
				return nil, err
			}
		}
	}
	for _, p := range slices.Sorted(maps.Keys(x.Enums)) {
		dir, _ := ir.SplitPath(p)
		if err := pkg(dir).enum(p, x.Enums[p]); err != nil {
			return nil, err
		}
	}
	for _, p := range slices.Sorted(maps.Keys(x.Fieldsets)) {
		dir, _ := ir.SplitPath(p)
		if err := pkg(dir).fieldset(p, x.Fieldsets[p]); err != nil {
			return nil, err
		}
	}
	for _, p := range slices.Sorted(maps.Keys(x.Blocks)) {
		dir, _ := ir.SplitPath(p)
		if err := pkg(dir).block(p, x.Blocks[p]); err != nil {
			return nil, err
		}
	}
	for _, p := range slices.Sorted(maps.Keys(x.Devices)) {
		dir, _ := ir.SplitPath(p)
		d := x.Devices[p]
		if err := pkg(dir).peripherals(p, d); err != nil {
			return nil, err
		}
		if len(d.Interrupts) == 0 {
			continue
		}
		if err := pkg(path.Join(dir, "irq")).interrupts(p, d); err != nil {
			return nil, err
		}
	}
	files := make([]*File, 0, len(pkgs))
	for _, dir := range slices.Sorted(maps.Keys(pkgs)) {
		f, err := pkgs[dir].file()
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	slices.SortFunc(files, func(a, b *File) int { return strings.Compare(a.Path, b.Path) })
	return files, nil
}

// pkgName returns the package name used for the import path p.
func pkgName(p string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(path.Base(p)) {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s == "" || !unicode.IsLetter(rune(s[0])) {
		s = "p" + s
	}
	return s
}

type pkgWriter struct {
	x       *ir.IR
	opts    *Options
	dir     string
	name    string
	device  string            // device rendered into this package
	irqs    string            // device whose interrupts are in this package
	blocks  []string          // names of the rendered blocks
	imports  map[string]string // import path -> local name
	names    map[string]bool   // local names of imports
	declared map[string]string // package level identifier -> declaring entity
	buf      bytes.Buffer
}

func newPkgWriter(x *ir.IR, opts *Options, dir string) *pkgWriter {
	w := &pkgWriter{
		x:       x,
		opts:    opts,
		dir:     dir,
		imports:  make(map[string]string),
		names:    make(map[string]bool),
		declared: make(map[string]string),
	}
	w.name = pkgName(w.importPath(dir))
	return w
}

func (w *pkgWriter) printf(format string, args ...any) {
	fmt.Fprintf(&w.buf, format, args...)
}

func (w *pkgWriter) importPath(dir string) string {
	if dir == "" {
		return w.opts.Root
	}
	return w.opts.Root + "/" + dir
}

// declare records the package level identifier id declared by the entity
// what. Every identifier can be declared once and must not shadow an import.
func (w *pkgWriter) declare(id, what string) error {
	prev, ok := w.declared[id]
	if !ok && w.names[id] {
		prev, ok = "import", true
	}
	if ok {
		return &ir.DuplicateError{
			Kind: "identifier",
			Name: fmt.Sprintf("%s (%s, %s)", ir.JoinPath(w.dir, id), prev, what),
		}
	}
	w.declared[id] = what
	return nil
}

// use registers the import path p and returns its local name.
func (w *pkgWriter) use(p string) string {
	if name, ok := w.imports[p]; ok {
		return name
	}
	base := pkgName(p)
	name := base
	for k := 2; w.names[name] || w.declared[name] != "" || name == w.name; k++ {
		name = base + strconv.Itoa(k)
	}
	w.imports[p] = name
	w.names[name] = true
	return name
}

func (w *pkgWriter) mmio() string {
	return w.use(w.opts.MMIO)
}

// typeRef returns the Go type expression for the entity at path as seen
// from this package.
func (w *pkgWriter) typeRef(p string) string {
	dir, name := ir.SplitPath(p)
	if dir == w.dir {
		return name
	}
	return w.use(w.importPath(dir)) + "." + name
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func wrap(s string, width int) []string {
	var lines []string
	for len(s) > width {
		i := strings.LastIndexByte(s[:width+1], ' ')
		if i <= 0 {
			if i = strings.IndexByte(s, ' '); i < 0 {
				break
			}
		}
		lines = append(lines, s[:i])
		s = s[i+1:]
	}
	return append(lines, s)
}

// doc writes the description of the named declaration as a doc comment.
func (w *pkgWriter) doc(name, descr string) {
	descr = oneLine(descr)
	if descr == "" {
		return
	}
	for _, line := range wrap(name+": "+descr, 76) {
		w.printf("// %s\n", line)
	}
}

func (w *pkgWriter) pkgDoc() string {
	switch {
	case w.device != "":
		return fmt.Sprintf("Package %s provides the peripherals of the %s device.", w.name, w.device)
	case w.irqs != "":
		return fmt.Sprintf("Package %s provides the list of supported external interrupts of the %s device.", w.name, w.irqs)
	case len(w.blocks) != 0:
		return fmt.Sprintf("Package %s provides access to the registers of the %s peripheral.", w.name, strings.ToUpper(w.name))
	}
	return fmt.Sprintf("Package %s provides register value types.", w.name)
}

func (w *pkgWriter) file() (*File, error) {
	var src bytes.Buffer
	fmt.Fprintf(&src, "// Code generated by %s; DO NOT EDIT.\n\n", w.opts.Tool)
	if w.opts.BuildTag != "" {
		fmt.Fprintf(&src, "//go:build %s\n\n", w.opts.BuildTag)
	}
	for _, line := range wrap(w.pkgDoc(), 76) {
		fmt.Fprintf(&src, "// %s\n", line)
	}
	fmt.Fprintf(&src, "package %s\n", w.name)
	if len(w.imports) != 0 {
		src.WriteString("\nimport (\n")
		for _, p := range slices.Sorted(maps.Keys(w.imports)) {
			if name := w.imports[p]; name != pkgName(p) {
				fmt.Fprintf(&src, "\t%s %q\n", name, p)
			} else {
				fmt.Fprintf(&src, "\t%q\n", p)
			}
		}
		src.WriteString(")\n")
	}
	src.Write(w.buf.Bytes())

	name := path.Join(w.dir, w.name+".go")
	out, err := imports.Process(name, src.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("gen: %s: %w", name, err)
	}
	return &File{Path: name, Src: out}, nil
}
