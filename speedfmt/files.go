// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package speedfmt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultPattern is the glob pattern matching speedup files.
const DefaultPattern = "speedup_*"

// ErrNoFiles is returned by Files.Load when no file matches.
var ErrNoFiles = errors.New("no speedup files found")

// A Files loads every speedup file matching a glob pattern.
type Files struct {
	// Dir is the directory to search. If empty, the current
	// directory is used.
	Dir string

	// Pattern is the glob pattern matched against file names in
	// Dir. If empty, DefaultPattern is used.
	Pattern string

	// Warn, if non-nil, is called when a file's key replaces the
	// table loaded from an earlier file.
	Warn func(format string, args ...interface{})

	paths []string
}

// Paths returns the names of the regular files matching the pattern,
// in lexical order. Names are relative to Dir if Dir is relative.
func (f *Files) Paths() ([]string, error) {
	if f.paths != nil {
		return f.paths, nil
	}
	pattern := f.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	matches, err := filepath.Glob(filepath.Join(f.Dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	paths := []string{}
	for _, m := range matches {
		fi, err := os.Stat(m)
		if err != nil {
			return nil, err
		}
		if fi.IsDir() {
			continue
		}
		paths = append(paths, m)
	}
	f.paths = paths
	return paths, nil
}

// Load reads every matching file into a new Registry.
//
// Files whose names yield the same Key overwrite each other; the
// file that sorts last wins. Load stops at the first malformed file
// name or file content.
func (f *Files) Load() (*Registry, error) {
	paths, err := f.Paths()
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}
	reg := NewRegistry()
	for _, path := range paths {
		key, err := ParseKey(path)
		if err != nil {
			return nil, err
		}
		t, err := readFile(path)
		if err != nil {
			return nil, err
		}
		if reg.Put(key, t) && f.Warn != nil {
			f.Warn("%s: replaces earlier file with key %s\n", path, key)
		}
	}
	return reg, nil
}

func readFile(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadTable(file, path)
}
