// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package speedfmt reads parallel speedup measurement files.
//
// A speedup file is named speedup_<N>_<TB>.<ext>, where N and TB are
// the two integer parameters of the run that produced it. Its content
// is a whitespace-separated two-column table: the first column is the
// thread count and the second column is the measured speedup over the
// sequential run at that thread count. For example:
//
//	2 1.93
//	4 3.71
//	8 6.88
//
// Blank lines and lines beginning with "#" are ignored. Thread counts
// may repeat; repeated rows are kept in file order.
//
// Files loads every file matching a glob pattern into a Registry
// keyed by the (N, TB) pair parsed from each file name.
package speedfmt
