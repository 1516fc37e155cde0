// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package svd

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/embeddedgo/regtools/ir"
)

// ToIR converts the device d to the IR.
//
// Every peripheral that is not derived from another one gets its own
// directory named after it in lower case with the register block at
// dir/Periph. Clusters become nested blocks, register and field names that
// end with [%s] become arrays and other %s names are expanded using the
// dimIndex list. The device itself is placed in the root directory.
//
// The SVD constructs that cannot be represented are reported by calling
// warn and skipped. warn may be nil.
func ToIR(d *Device, warn func(format string, args ...any)) (*ir.IR, error) {
	if warn == nil {
		warn = func(string, ...any) {}
	}
	c := &conv{
		x:     ir.New(),
		warn:  warn,
		names: make(map[string]map[string]bool),
		dirs:  map[string]bool{"irq": true},
	}
	if d.CPU != nil && strings.HasPrefix(d.CPU.Endian, "big") {
		warn("%s: big-endian memory layout", d.Name)
	}
	p := props{size: uint32(d.Width)}
	if p.size == 0 {
		p.size = 32
	}
	p = p.with(d.RegisterPropertiesGroup)
	dev := &ir.Device{Description: oneLine(d.Description)}
	if err := c.peripherals(dev, d.Peripherals, p); err != nil {
		return nil, err
	}
	name := ident(d.Name)
	if name == "" {
		name = "Device"
	}
	c.x.Devices[name] = dev
	return c.x, nil
}

type conv struct {
	x     *ir.IR
	warn  func(format string, args ...any)
	names map[string]map[string]bool // identifiers used in every directory
	dirs  map[string]bool
	enums map[string]string // named enumeratedValues of the current peripheral
}

// props are the register properties inherited by nested elements.
type props struct {
	size   uint32
	access ir.Access
	reset  *uint64
}

func (p props) with(g *RegisterPropertiesGroup) props {
	if g == nil {
		return p
	}
	if g.Size != nil {
		p.size = uint32(*g.Size)
	}
	if g.Access != nil {
		p.access = access(*g.Access)
	}
	if g.ResetValue != nil {
		v := uint64(*g.ResetValue)
		p.reset = &v
	}
	return p
}

func access(s string) ir.Access {
	switch strings.TrimSpace(s) {
	case "read-only":
		return ir.Read
	case "write-only", "writeOnce":
		return ir.Write
	}
	return ir.ReadWrite
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return oneLine(*s)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ident returns s as an exported Go identifier.
func ident(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else if b.Len() != 0 {
			b.WriteByte('_')
		}
	}
	id := strings.TrimRight(b.String(), "_")
	if id == "" {
		return ""
	}
	r := []rune(id)
	switch {
	case unicode.IsUpper(r[0]):
	case unicode.IsLetter(r[0]):
		r[0] = unicode.ToUpper(r[0])
		id = string(r)
	default:
		id = "X" + id
	}
	return id
}

// unique returns name or name with a numeric suffix so that it is unique in
// the directory dir.
func (c *conv) unique(dir, name string) string {
	used := c.names[dir]
	if used == nil {
		used = make(map[string]bool)
		c.names[dir] = used
	}
	n := name
	for k := 2; used[n]; k++ {
		n = name + strconv.Itoa(k)
	}
	used[n] = true
	return n
}

func (c *conv) dir(name string) string {
	base := strings.ToLower(ident(name))
	if base == "" {
		base = "periph"
	}
	d := base
	for k := 2; c.dirs[d]; k++ {
		d = base + strconv.Itoa(k)
	}
	c.dirs[d] = true
	return d
}

// expand returns the names and offsets of the elements described by the name
// that contains %s and the dimension group g.
func expand(name string, g *DimElementGroup) ([]string, []uint64, error) {
	idx, err := g.Indices()
	if err != nil {
		return nil, nil, err
	}
	names := make([]string, len(idx))
	offs := make([]uint64, len(idx))
	for i, s := range idx {
		names[i] = strings.ReplaceAll(name, "%s", s)
		offs[i] = uint64(i) * uint64(g.DimIncrement)
	}
	return names, offs, nil
}

// dimKind classifies the name of an SVD element.
func dimKind(name string, g *DimElementGroup) (base string, array, expanded bool) {
	if g.Dim == 0 {
		return name, false, false
	}
	if b, ok := strings.CutSuffix(name, "[%s]"); ok {
		return b, true, false
	}
	if strings.Contains(name, "%s") {
		return name, false, true
	}
	return name, false, false
}

func (c *conv) peripherals(dev *ir.Device, sps []*Peripheral, p props) error {
	byName := make(map[string]*Peripheral, len(sps))
	blocks := make(map[*Peripheral]string, len(sps))
	for _, sp := range sps {
		byName[sp.Name] = sp
	}
	pnames := make(map[string]bool)
	irqs := make(map[int]*ir.Interrupt)
	irqNames := make(map[string]int)
	addIRQs := func(sirqs []*Interrupt) {
		for _, si := range sirqs {
			name, v := ident(si.Name), int(si.Value)
			if old, ok := irqs[v]; ok {
				if old.Name != name {
					c.warn("interrupt %d: %s conflicts with %s", v, name, old.Name)
				}
				continue
			}
			if ov, ok := irqNames[name]; ok {
				c.warn("interrupt %s: number %d conflicts with %d", name, v, ov)
				continue
			}
			irqs[v] = &ir.Interrupt{Name: name, Description: str(si.Description), Value: v}
			irqNames[name] = v
		}
	}
	for _, sp := range sps {
		base := sp
		if sp.DerivedFrom != nil {
			base = byName[*sp.DerivedFrom]
			if base == nil || base.DerivedFrom != nil {
				c.warn("%s: cannot derive from %s", sp.Name, *sp.DerivedFrom)
				continue
			}
			if len(sp.Registers)+len(sp.Clusters) != 0 {
				c.warn("%s: registers of the derived peripheral ignored", sp.Name)
			}
		}
		block, ok := blocks[base]
		if !ok {
			var err error
			if block, err = c.periphBlock(base, p); err != nil {
				return err
			}
			blocks[base] = block
		}
		descr := str(sp.Description)
		if descr == "" {
			descr = str(base.Description)
		}
		if len(sp.Interrupts) != 0 {
			addIRQs(sp.Interrupts)
		} else if base != sp {
			addIRQs(base.Interrupts)
		}
		names := []string{sp.Name}
		offs := []uint64{0}
		if sp.Dim != 0 && strings.Contains(sp.Name, "%s") {
			var err error
			if names, offs, err = expand(sp.Name, &sp.DimElementGroup); err != nil {
				return fmt.Errorf("%s: %w", sp.Name, err)
			}
		}
		for i, name := range names {
			name = ident(name)
			if pnames[name] {
				c.warn("peripheral %s: duplicate name", name)
				continue
			}
			pnames[name] = true
			dev.Peripherals = append(dev.Peripherals, &ir.Peripheral{
				Name:        name,
				Description: descr,
				BaseAddress: uint64(sp.BaseAddress) + offs[i],
				Block:       block,
			})
		}
	}
	for _, v := range slices.Sorted(maps.Keys(irqs)) {
		dev.Interrupts = append(dev.Interrupts, irqs[v])
	}
	return nil
}

// periphBlock converts the registers of sp to the block dir/Periph and
// returns its path. A peripheral without registers has no block.
func (c *conv) periphBlock(sp *Peripheral, p props) (string, error) {
	if len(sp.Registers)+len(sp.Clusters) == 0 {
		return "", nil
	}
	dir := c.dir(typeName("", sp.Name))
	c.enums = make(map[string]string)
	path := ir.JoinPath(dir, c.unique(dir, "Periph"))
	b := &ir.Block{Description: str(sp.Description)}
	c.x.Blocks[path] = b
	err := c.items(b, dir, "", sp.Registers, sp.Clusters, p.with(sp.RegisterPropertiesGroup))
	if err != nil {
		return "", err
	}
	return path, nil
}

func (c *conv) items(b *ir.Block, dir, prefix string, srs []*Register, scs []*Cluster, p props) error {
	regs := make(map[string]*ir.Register)
	for _, sr := range srs {
		if err := c.register(b, dir, prefix, sr, p, regs); err != nil {
			return err
		}
	}
	for _, sc := range scs {
		if err := c.cluster(b, dir, prefix, sc, p); err != nil {
			return err
		}
	}
	return nil
}

// place adds the item it to b once or, if the name of the SVD element
// contains %s, once for every dimIndex value.
func place(b *ir.Block, it *ir.BlockItem, name string, g *DimElementGroup) error {
	base, array, exp := dimKind(name, g)
	switch {
	case array:
		it.Name = ident(base)
		it.Array = &ir.Array{Len: uint32(g.Dim), Stride: uint32(g.DimIncrement)}
	case exp:
		names, offs, err := expand(name, g)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		for i, n := range names {
			e := *it
			e.Name = ident(n)
			e.ByteOffset += uint32(offs[i])
			b.Items = append(b.Items, &e)
		}
		return nil
	default:
		it.Name = ident(name)
	}
	b.Items = append(b.Items, it)
	return nil
}

// typeName returns the identifier used for the types derived from the SVD
// element name.
func typeName(prefix, name string) string {
	name = strings.ReplaceAll(strings.ReplaceAll(name, "[%s]", ""), "%s", "")
	return ident(prefix + name)
}

func (c *conv) cluster(b *ir.Block, dir, prefix string, sc *Cluster, p props) error {
	if sc.DerivedFrom != nil {
		c.warn("%s: derived clusters not supported", sc.Name)
		return nil
	}
	tn := typeName(prefix, sc.Name)
	path := ir.JoinPath(dir, c.unique(dir, tn))
	sub := &ir.Block{Description: str(sc.Description)}
	c.x.Blocks[path] = sub
	err := c.items(sub, dir, tn+"_", sc.Registers, sc.Clusters, p.with(sc.RegisterPropertiesGroup))
	if err != nil {
		return err
	}
	it := &ir.BlockItem{
		Description: str(sc.Description),
		ByteOffset:  uint32(sc.AddressOffset),
		Block:       path,
	}
	return place(b, it, sc.Name, &sc.DimElementGroup)
}

func (c *conv) register(b *ir.Block, dir, prefix string, sr *Register, p props, regs map[string]*ir.Register) error {
	var r *ir.Register
	if sr.DerivedFrom != nil {
		orig := regs[*sr.DerivedFrom]
		if orig == nil {
			c.warn("%s: cannot derive from %s", sr.Name, *sr.DerivedFrom)
			return nil
		}
		rc := *orig
		r = &rc
		if g := sr.RegisterPropertiesGroup; g != nil {
			if g.Access != nil {
				r.Access = access(*g.Access)
			}
			if g.ResetValue != nil {
				v := uint64(*g.ResetValue)
				r.ResetValue = &v
			}
		}
	} else {
		p = p.with(sr.RegisterPropertiesGroup)
		if !ir.WordBits(p.size) {
			c.warn("%s: %d-bit register not supported", sr.Name, p.size)
			return nil
		}
		r = &ir.Register{Access: p.access, BitSize: p.size, ResetValue: p.reset}
		if len(sr.Fields) != 0 {
			fs, err := c.fieldset(dir, typeName(prefix, sr.Name), sr, p.size)
			if err != nil {
				return err
			}
			r.Fieldset = fs
		}
	}
	regs[sr.Name] = r
	it := &ir.BlockItem{
		Description: str(sr.Description),
		ByteOffset:  uint32(sr.AddressOffset),
		Register:    r,
	}
	return place(b, it, sr.Name, &sr.DimElementGroup)
}

func (c *conv) fieldset(dir, name string, sr *Register, size uint32) (string, error) {
	name = c.unique(dir, name)
	fs := &ir.Fieldset{Description: str(sr.Description), BitSize: size}
	used := make(map[string]bool)
	for _, sf := range sr.Fields {
		if sf.DerivedFrom != nil {
			c.warn("%s.%s: derived fields not supported", sr.Name, sf.Name)
			continue
		}
		off, width, err := sf.BitRange()
		if err != nil {
			c.warn("%s: %v", sr.Name, err)
			continue
		}
		if width == 0 || uint64(off)+uint64(width) > uint64(size) {
			c.warn("%s.%s: bits [%d:%d) do not fit the register", sr.Name, sf.Name, off, off+width)
			continue
		}
		f := &ir.Field{Description: str(sf.Description), BitOffset: off, BitSize: width}
		if len(sf.EnumeratedValues) != 0 {
			f.Enum = c.enum(dir, name+"_"+typeName("", sf.Name), sf, width)
		}
		base, array, exp := dimKind(sf.Name, &sf.DimElementGroup)
		var fields []*ir.Field
		switch {
		case array:
			f.Name = ident(base)
			f.Array = &ir.Array{Len: uint32(sf.Dim), Stride: uint32(sf.DimIncrement)}
			fields = append(fields, f)
		case exp:
			names, offs, err := expand(sf.Name, &sf.DimElementGroup)
			if err != nil {
				return "", fmt.Errorf("%s.%s: %w", sr.Name, sf.Name, err)
			}
			for i, n := range names {
				e := *f
				e.Name = ident(n)
				e.BitOffset += uint32(offs[i])
				fields = append(fields, &e)
			}
		default:
			f.Name = ident(sf.Name)
			fields = append(fields, f)
		}
		for _, f := range fields {
			if used[f.Name] {
				c.warn("%s.%s: duplicate field", sr.Name, f.Name)
				continue
			}
			used[f.Name] = true
			fs.Fields = append(fs.Fields, f)
		}
	}
	path := ir.JoinPath(dir, name)
	c.x.Fieldsets[path] = fs
	return path, nil
}

// enum converts the enumerated values of sf and returns the path of the
// enum or an empty string if there is nothing to convert.
func (c *conv) enum(dir, name string, sf *Field, width uint32) string {
	// Prefer the values that describe what is read.
	evs := slices.Clone(sf.EnumeratedValues)
	slices.SortStableFunc(evs, func(a, b *EnumeratedValues) int {
		return cmp.Compare(usageRank(a.Usage), usageRank(b.Usage))
	})
	sev := evs[0]
	if sev.DerivedFrom != nil {
		if path, ok := c.enums[*sev.DerivedFrom]; ok {
			return path
		}
		c.warn("%s: cannot derive enumerated values from %s", sf.Name, *sev.DerivedFrom)
		return ""
	}
	if sev.Name != nil && *sev.Name != "" {
		name = ident(*sev.Name)
	}
	e := &ir.Enum{BitSize: width}
	used := make(map[string]bool)
	for _, v := range sev.EnumeratedValue {
		if v.Value == nil {
			continue // isDefault
		}
		val, err := v.Val()
		if err != nil {
			c.warn("%s: %v", sf.Name, err)
			continue
		}
		if width < 64 && val>>width != 0 {
			c.warn("%s: value %#x does not fit %d bits", sf.Name, val, width)
			continue
		}
		vn := ident(str(v.Name))
		if vn == "" || used[vn] {
			c.warn("%s: bad or duplicate enumerated value name %q", sf.Name, str(v.Name))
			continue
		}
		used[vn] = true
		e.Variants = append(e.Variants, &ir.EnumVariant{
			Name:        vn,
			Description: str(v.Description),
			Value:       val,
		})
	}
	if len(e.Variants) == 0 {
		return ""
	}
	path := ir.JoinPath(dir, c.unique(dir, name))
	c.x.Enums[path] = e
	if sev.Name != nil {
		c.enums[*sev.Name] = path
	}
	return path
}

func usageRank(u *string) int {
	if u == nil {
		return 0
	}
	switch *u {
	case "read-write":
		return 0
	case "read":
		return 1
	}
	return 2
}
