// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sqlite3 provides the sqlite3 driver for speeddb.
// It must be imported instead of go-sqlite3 to configure the
// connection pool.
package sqlite3

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"golang.org/x/speedplot/speeddb"
)

func init() {
	speeddb.RegisterOpenHook("sqlite3", func(db *sql.DB) error {
		// Each connection to ":memory:" is a separate database,
		// and SQLite serializes writers anyway.
		db.SetMaxOpenConns(1)
		return nil
	})
}
