// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
)

// ImportPath returns the import path of the directory dir inferred from the
// nearest go.mod file found in dir or any of its parents. The directory does
// not need to exist.
func ImportPath(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for d := dir; ; {
		gomod := filepath.Join(d, "go.mod")
		data, err := os.ReadFile(gomod)
		if err == nil {
			mf, err := modfile.ParseLax(gomod, data, nil)
			if err != nil {
				return "", err
			}
			if mf.Module == nil {
				return "", fmt.Errorf("there is no module directive in %s", gomod)
			}
			rel, err := filepath.Rel(d, dir)
			if err != nil {
				return "", err
			}
			p := path.Join(mf.Module.Mod.Path, filepath.ToSlash(rel))
			if err := module.CheckImportPath(p); err != nil {
				return "", err
			}
			return p, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}
	return "", errors.New("go.mod file not found in " + dir + " or any parent directory")
}
