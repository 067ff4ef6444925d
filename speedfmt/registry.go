// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package speedfmt

import "sort"

// A Registry maps each Key to the Table loaded for it.
type Registry struct {
	m map[Key]*Table
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{m: make(map[Key]*Table)}
}

// Put stores t under k, replacing any table already stored there.
// It reports whether an earlier table was replaced.
func (r *Registry) Put(k Key, t *Table) (replaced bool) {
	if r.m == nil {
		r.m = make(map[Key]*Table)
	}
	_, replaced = r.m[k]
	r.m[k] = t
	return replaced
}

// Get returns the table stored under k, or nil.
func (r *Registry) Get(k Key) *Table {
	return r.m[k]
}

// Len returns the number of keys in r.
func (r *Registry) Len() int {
	return len(r.m)
}

// Keys returns the keys of r in Key.Less order.
func (r *Registry) Keys() []Key {
	keys := make([]Key, 0, len(r.m))
	for k := range r.m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// Select returns the keys whose first parameter is n, in Key.Less
// order.
func (r *Registry) Select(n int) []Key {
	var out []Key
	for _, k := range r.Keys() {
		if k.N == n {
			out = append(out, k)
		}
	}
	return out
}
