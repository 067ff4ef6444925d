// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build cgo
// +build cgo

package speeddb_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	. "golang.org/x/speedplot/speeddb"
	_ "golang.org/x/speedplot/speeddb/sqlite3"
	"golang.org/x/speedplot/speedfmt"
)

// newDB opens an empty in-memory SQLite archive.
func newDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenSQL("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	uploads, err := db.CountUploads()
	if err != nil {
		t.Fatal(err)
	}
	if uploads != 0 {
		t.Fatalf("found %d row(s) in Uploads, want 0", uploads)
	}
	return db
}

func testRegistry() *speedfmt.Registry {
	reg := speedfmt.NewRegistry()
	reg.Put(speedfmt.Key{N: 50, TB: 4}, &speedfmt.Table{File: "speedup_50_4.txt", Rows: []speedfmt.Row{{2, 1.9}, {20, 12.5}, {20, 12.1}}})
	reg.Put(speedfmt.Key{N: 50, TB: 8}, &speedfmt.Table{File: "speedup_50_8.txt", Rows: []speedfmt.Row{{2, 1.8}}})
	reg.Put(speedfmt.Key{N: 10, TB: 4}, &speedfmt.Table{File: "speedup_10_4.txt", Rows: []speedfmt.Row{{4, 2.5}}})
	return reg
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newDB(t)

	defer SetNow(time.Time{})
	SetNow(time.Unix(86400, 0))

	u, err := db.NewUpload(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Unix(86400, 0); !u.Created.Equal(want) {
		t.Errorf("Created = %v, want %v", u.Created, want)
	}
	if created, err := db.UploadTime(ctx, u.ID); err != nil || !created.Equal(time.Unix(86400, 0)) {
		t.Errorf("UploadTime(%d) = %v, %v; want %v", u.ID, created, err, time.Unix(86400, 0))
	}
	src := testRegistry()
	if err := u.InsertRegistry(ctx, src); err != nil {
		t.Fatal(err)
	}

	got, err := db.Registry(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Keys(), src.Keys()) {
		t.Fatalf("keys = %v, want %v", got.Keys(), src.Keys())
	}
	for _, k := range src.Keys() {
		if !reflect.DeepEqual(got.Get(k), src.Get(k)) {
			t.Errorf("%s: got %+v, want %+v", k, got.Get(k), src.Get(k))
		}
	}

	series, err := db.Series(ctx, 50)
	if err != nil {
		t.Fatal(err)
	}
	want := []speedfmt.Key{{N: 50, TB: 4}, {N: 50, TB: 8}}
	if !reflect.DeepEqual(series.Keys(), want) {
		t.Errorf("Series(50) keys = %v, want %v", series.Keys(), want)
	}
}

func TestRoundTripEmptyTable(t *testing.T) {
	ctx := context.Background()
	db := newDB(t)
	u, err := db.NewUpload(ctx)
	if err != nil {
		t.Fatal(err)
	}
	src := speedfmt.NewRegistry()
	src.Put(speedfmt.Key{N: 50, TB: 4}, &speedfmt.Table{File: "speedup_50_4.txt", Rows: []speedfmt.Row{{2, 1.9}, {4, 3.7}}})
	src.Put(speedfmt.Key{N: 50, TB: 8}, &speedfmt.Table{File: "speedup_50_8.txt"})
	if err := u.InsertRegistry(ctx, src); err != nil {
		t.Fatal(err)
	}

	reg, err := db.Registry(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	series, err := db.Series(ctx, 50)
	if err != nil {
		t.Fatal(err)
	}
	for name, got := range map[string]*speedfmt.Registry{"Registry": reg, "Series": series} {
		if got.Len() != 2 {
			t.Errorf("%s: got %d tables, want 2", name, got.Len())
		}
		for _, k := range src.Keys() {
			if !reflect.DeepEqual(got.Get(k), src.Get(k)) {
				t.Errorf("%s: %s: got %+v, want %+v", name, k, got.Get(k), src.Get(k))
			}
		}
	}
}

func TestUploadTimeMissing(t *testing.T) {
	db := newDB(t)
	if _, err := db.UploadTime(context.Background(), 42); err == nil {
		t.Errorf("UploadTime of a missing upload succeeded")
	}
}

func TestClose(t *testing.T) {
	db, err := OpenSQL("sqlite3", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := db.CountUploads(); err == nil {
		t.Errorf("CountUploads after Close succeeded")
	}
}

func TestSeriesUsesLastUpload(t *testing.T) {
	ctx := context.Background()
	db := newDB(t)

	for _, speedup := range []float64{1.5, 1.9} {
		u, err := db.NewUpload(ctx)
		if err != nil {
			t.Fatal(err)
		}
		tab := &speedfmt.Table{File: "f", Rows: []speedfmt.Row{{2, speedup}}}
		if err := u.InsertTable(ctx, speedfmt.Key{N: 50, TB: 4}, tab); err != nil {
			t.Fatal(err)
		}
	}
	if n, err := db.CountUploads(); err != nil || n != 2 {
		t.Fatalf("CountUploads() = %d, %v; want 2", n, err)
	}
	reg, err := db.Series(ctx, 50)
	if err != nil {
		t.Fatal(err)
	}
	if got := reg.Get(speedfmt.Key{N: 50, TB: 4}).Rows[0].Speedup; got != 1.9 {
		t.Errorf("speedup = %v, want 1.9 from the last upload", got)
	}
}

func TestDuplicateKeyInUpload(t *testing.T) {
	ctx := context.Background()
	db := newDB(t)
	u, err := db.NewUpload(ctx)
	if err != nil {
		t.Fatal(err)
	}
	tab := &speedfmt.Table{Rows: []speedfmt.Row{{2, 1.5}}}
	if err := u.InsertTable(ctx, speedfmt.Key{N: 1, TB: 1}, tab); err != nil {
		t.Fatal(err)
	}
	if err := u.InsertTable(ctx, speedfmt.Key{N: 1, TB: 1}, tab); err == nil {
		t.Errorf("second insert of the same key succeeded")
	}
}

func TestEmpty(t *testing.T) {
	db := newDB(t)
	if _, err := db.Series(context.Background(), 50); !errors.Is(err, ErrEmpty) {
		t.Errorf("got %v, want ErrEmpty", err)
	}
}
