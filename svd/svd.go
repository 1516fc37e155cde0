// Copyright 2019 Michal Derkacz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package svd decodes CMSIS-SVD device descriptions and converts them to the
// register description IR.
package svd

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type Int int

func (i *Int) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var s string
	if err := d.DecodeElement(&s, &start); err != nil {
		return err
	}
	v, err := strconv.ParseInt(strings.TrimSpace(s), 0, 0)
	*i = Int(v)
	return err
}

type Uint uint

func (u *Uint) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var s string
	if err := d.DecodeElement(&s, &start); err != nil {
		return err
	}
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 0)
	*u = Uint(v)
	return err
}

type Uint64 uint64

func (u *Uint64) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var s string
	if err := d.DecodeElement(&s, &start); err != nil {
		return err
	}
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 64)
	*u = Uint64(v)
	return err
}

type Device struct {
	Name        string `xml:"name"`
	Description string `xml:"description"`
	CPU         *CPU   `xml:"cpu"`
	Width       Uint   `xml:"width"`
	*RegisterPropertiesGroup
	Peripherals []*Peripheral `xml:"peripherals>peripheral"`
}

type CPU struct {
	Name   string `xml:"name"`
	Endian string `xml:"endian"`
}

type RegisterPropertiesGroup struct {
	Size       *Uint   `xml:"size"`
	Access     *string `xml:"access"`
	ResetValue *Uint64 `xml:"resetValue"`
}

type DimElementGroup struct {
	Dim          Uint    `xml:"dim"`
	DimIncrement Uint    `xml:"dimIncrement"`
	DimIndex     *string `xml:"dimIndex"`
}

type Peripheral struct {
	DerivedFrom *string `xml:"derivedFrom,attr"`
	DimElementGroup
	Name        string  `xml:"name"`
	Description *string `xml:"description"`
	GroupName   *string `xml:"groupName"`
	BaseAddress Uint64  `xml:"baseAddress"`
	*RegisterPropertiesGroup
	Interrupts []*Interrupt `xml:"interrupt"`
	Registers  []*Register  `xml:"registers>register"`
	Clusters   []*Cluster   `xml:"registers>cluster"`
}

type Interrupt struct {
	Name        string  `xml:"name"`
	Description *string `xml:"description"`
	Value       Int     `xml:"value"`
}

type Cluster struct {
	DerivedFrom *string `xml:"derivedFrom,attr"`
	DimElementGroup
	Name          string  `xml:"name"`
	Description   *string `xml:"description"`
	AddressOffset Uint64  `xml:"addressOffset"`
	*RegisterPropertiesGroup
	Registers []*Register `xml:"register"`
	Clusters  []*Cluster  `xml:"cluster"`
}

type Register struct {
	DerivedFrom *string `xml:"derivedFrom,attr"`
	DimElementGroup
	Name          string  `xml:"name"`
	Description   *string `xml:"description"`
	AddressOffset Uint64  `xml:"addressOffset"`
	*RegisterPropertiesGroup
	Fields []*Field `xml:"fields>field"`
}

type Field struct {
	DerivedFrom *string `xml:"derivedFrom,attr"`
	DimElementGroup
	Name        string  `xml:"name"`
	Description *string `xml:"description"`
	*BitRangeOffsetWidth
	*BitRangeLSBMSB
	BitRangePattern  *string             `xml:"bitRange"`
	Access           *string             `xml:"access"`
	EnumeratedValues []*EnumeratedValues `xml:"enumeratedValues"`
}

type BitRangeOffsetWidth struct {
	BitOffset Uint  `xml:"bitOffset"`
	BitWidth  *Uint `xml:"bitWidth"`
}

type BitRangeLSBMSB struct {
	LSB Uint `xml:"lsb"`
	MSB Uint `xml:"msb"`
}

type EnumeratedValues struct {
	DerivedFrom     *string            `xml:"derivedFrom,attr"`
	Name            *string            `xml:"name"`
	Usage           *string            `xml:"usage"`
	EnumeratedValue []*EnumeratedValue `xml:"enumeratedValue"`
}

type EnumeratedValue struct {
	Name        *string `xml:"name"`
	Description *string `xml:"description"`
	Value       *string `xml:"value"`
	IsDefault   *bool   `xml:"isDefault"`
}

// Decode reads an SVD document from r.
func Decode(r io.Reader) (*Device, error) {
	d := new(Device)
	if err := xml.NewDecoder(r).Decode(d); err != nil {
		return nil, fmt.Errorf("svd: %w", err)
	}
	return d, nil
}

var ErrNilValue = errors.New("nil value")

// Val returns the value of ev. The binary #1x0x form treats the "do not
// care" bits as zeros.
func (ev *EnumeratedValue) Val() (uint64, error) {
	if ev.Value == nil {
		return 0, ErrNilValue
	}
	s := strings.TrimSpace(*ev.Value)
	if strings.HasPrefix(s, "#") {
		s = "0b" + strings.ReplaceAll(s[1:], "x", "0")
	}
	return strconv.ParseUint(s, 0, 64)
}

// BitRange returns the offset and the width of the field f using any of
// the three SVD bit-range forms.
func (f *Field) BitRange() (offset, width uint32, err error) {
	switch {
	case f.BitRangeOffsetWidth != nil:
		width = 1
		if w := f.BitRangeOffsetWidth.BitWidth; w != nil {
			width = uint32(*w)
		}
		return uint32(f.BitRangeOffsetWidth.BitOffset), width, nil
	case f.BitRangeLSBMSB != nil:
		lsb, msb := uint32(f.BitRangeLSBMSB.LSB), uint32(f.BitRangeLSBMSB.MSB)
		if msb < lsb {
			return 0, 0, fmt.Errorf("svd: field %s: msb %d < lsb %d", f.Name, msb, lsb)
		}
		return lsb, msb - lsb + 1, nil
	case f.BitRangePattern != nil:
		var msb, lsb uint32
		_, err := fmt.Sscanf(strings.TrimSpace(*f.BitRangePattern), "[%d:%d]", &msb, &lsb)
		if err != nil || msb < lsb {
			return 0, 0, fmt.Errorf("svd: field %s: bad bit range %q", f.Name, *f.BitRangePattern)
		}
		return lsb, msb - lsb + 1, nil
	}
	return 0, 0, fmt.Errorf("svd: field %s: bit range not specified", f.Name)
}

// Indices returns the dimIndex list of g, 0 to dim-1 if not specified.
func (g *DimElementGroup) Indices() ([]string, error) {
	n := int(g.Dim)
	var idx []string
	switch {
	case g.DimIndex == nil:
		for i := 0; i < n; i++ {
			idx = append(idx, strconv.Itoa(i))
		}
		return idx, nil
	case strings.Contains(*g.DimIndex, ","):
		for _, s := range strings.Split(*g.DimIndex, ",") {
			idx = append(idx, strings.TrimSpace(s))
		}
	default:
		s := strings.TrimSpace(*g.DimIndex)
		a, b, ok := strings.Cut(s, "-")
		if !ok {
			idx = []string{s}
			break
		}
		if lo, err := strconv.Atoi(a); err == nil {
			hi, err := strconv.Atoi(b)
			if err != nil {
				return nil, fmt.Errorf("svd: bad dimIndex %q", s)
			}
			for i := lo; i <= hi; i++ {
				idx = append(idx, strconv.Itoa(i))
			}
			break
		}
		if len(a) != 1 || len(b) != 1 || a[0] > b[0] {
			return nil, fmt.Errorf("svd: bad dimIndex %q", s)
		}
		for c := a[0]; c <= b[0]; c++ {
			idx = append(idx, string(c))
		}
	}
	if len(idx) != n {
		return nil, fmt.Errorf("svd: dimIndex %q has %d elements, dim is %d", *g.DimIndex, len(idx), n)
	}
	return idx, nil
}
