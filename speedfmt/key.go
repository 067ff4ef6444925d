// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package speedfmt

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// A Key identifies a speedup series by the two integer parameters
// encoded in its file name.
type Key struct {
	N, TB int
}

// String formats k as "(N, TB)". This is the label used for the
// series in charts and reports.
func (k Key) String() string {
	return fmt.Sprintf("(%d, %d)", k.N, k.TB)
}

// Less reports whether k orders before o, comparing N and then TB.
func (k Key) Less(o Key) bool {
	if k.N != o.N {
		return k.N < o.N
	}
	return k.TB < o.TB
}

// A KeyError records a file name that does not encode a Key.
type KeyError struct {
	Name string
	Msg  string
	Err  error // underlying conversion error, if any
}

func (e *KeyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Name, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Msg)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

// ParseKey extracts the Key encoded in the base name of name.
//
// The base name is split on "_" and the last two tokens are used,
// with the file extension stripped from the last one. Both tokens
// must be decimal integers. For example, "speedup_50_4.dat" yields
// Key{50, 4}.
func ParseKey(name string) (Key, error) {
	base := filepath.Base(name)
	toks := strings.Split(base, "_")
	if len(toks) < 2 {
		return Key{}, &KeyError{Name: name, Msg: "want at least two underscore-separated fields"}
	}
	first := toks[len(toks)-2]
	second := toks[len(toks)-1]
	second = strings.TrimSuffix(second, filepath.Ext(second))

	n, err := strconv.Atoi(first)
	if err != nil {
		return Key{}, &KeyError{Name: name, Msg: "bad first parameter", Err: err}
	}
	tb, err := strconv.Atoi(second)
	if err != nil {
		return Key{}, &KeyError{Name: name, Msg: "bad second parameter", Err: err}
	}
	return Key{n, tb}, nil
}
