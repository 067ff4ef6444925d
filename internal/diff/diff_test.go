// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diff

import "testing"

func TestDiff(t *testing.T) {
	for _, test := range []struct {
		want, got string
		out       string
	}{
		{"a\nb\n", "a\nb\n", ""},
		{"a\nb\nc\n", "a\nc\n", " a\n-b\n c\n"},
		{"a\n", "a\nb\n", " a\n+b\n"},
		{"a\nb\n", "a\nx\n", " a\n-b\n+x\n"},
		{"", "x\n", "+x\n"},
		{"a\n", "a", "-a\n+a (no newline)\n"},
	} {
		if out := Diff(test.want, test.got); out != test.out {
			t.Errorf("Diff(%q, %q) = %q, want %q", test.want, test.got, out, test.out)
		}
	}
}
