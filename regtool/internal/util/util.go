// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/embeddedgo/regtools/ir"
	"github.com/embeddedgo/regtools/svd"
)

func Warn(f string, args ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", args...)
}

func Fatal(f string, args ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", args...)
	os.Exit(1)
}

// FatalErr prints an error description and exits the program if the
// err != nil.
func FatalErr(what string, err error) {
	if err == nil {
		return
	}
	s := err.Error() + "\n"
	if what != "" {
		s = what + ": " + s
	}
	os.Stderr.WriteString(s)
	os.Exit(1)
}

// LoadIR loads the IR from the JSON file or converts it from the SVD file.
// The file type is inferred from its extension. The problems found in an
// SVD file are reported using warn.
func LoadIR(name string, warn func(f string, args ...any)) (*ir.IR, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return ir.Load(f)
	case ".svd", ".xml":
		d, err := svd.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return svd.ToIR(d, func(f string, args ...any) {
			warn(name+": "+f, args...)
		})
	}
	return nil, fmt.Errorf("%s: unknown file type", name)
}

// Device returns the path and the description of the only device in x.
func Device(x *ir.IR) (string, *ir.Device, error) {
	if len(x.Devices) != 1 {
		return "", nil, fmt.Errorf("%d devices in the IR, want 1", len(x.Devices))
	}
	for p, d := range x.Devices {
		return p, d, nil
	}
	panic("unreachable")
}
