// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package speedfmt

import (
	"errors"
	"strconv"
	"testing"
)

func TestParseKey(t *testing.T) {
	for _, test := range []struct {
		name string
		want Key
	}{
		{"speedup_50_4.dat", Key{50, 4}},
		{"speedup_50_4.txt", Key{50, 4}},
		{"speedup_10_16", Key{10, 16}},
		{"dir/speedup_200_32.txt", Key{200, 32}},
		{"speedup_run_a_7_8.txt", Key{7, 8}},
		{"7_8.txt", Key{7, 8}},
	} {
		got, err := ParseKey(test.name)
		if err != nil {
			t.Errorf("ParseKey(%q): unexpected error %v", test.name, err)
			continue
		}
		if got != test.want {
			t.Errorf("ParseKey(%q) = %v, want %v", test.name, got, test.want)
		}
	}
}

func TestParseKeyErrors(t *testing.T) {
	for _, test := range []struct {
		name    string
		numeric bool // error wraps a strconv error
	}{
		{"speedup.txt", false},
		{"speedup_x_4.txt", true},
		{"speedup_50_y.txt", true},
		{"speedup_50_4.tar.gz", true},
		{"speedup_50_.txt", true},
	} {
		_, err := ParseKey(test.name)
		if err == nil {
			t.Errorf("ParseKey(%q): want error", test.name)
			continue
		}
		var ke *KeyError
		if !errors.As(err, &ke) {
			t.Errorf("ParseKey(%q): error %v is %T, want *KeyError", test.name, err, err)
			continue
		}
		var ne *strconv.NumError
		if got := errors.As(err, &ne); got != test.numeric {
			t.Errorf("ParseKey(%q): wraps strconv error = %v, want %v", test.name, got, test.numeric)
		}
	}
}

func TestKeyString(t *testing.T) {
	if got, want := (Key{50, 4}).String(), "(50, 4)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
