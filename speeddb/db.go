// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package speeddb archives speedup tables in a SQL database.
package speeddb

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"golang.org/x/speedplot/speedfmt"
)

// ErrEmpty is returned when the archive holds no uploads.
var ErrEmpty = errors.New("archive has no uploads")

// DB is a speedup archive backed by a SQL database. It's safe for
// concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertUpload *sql.Stmt
	lastUpload   *sql.Stmt
	uploadTime   *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a connection to driverName.
// This is used by the sqlite3 package to configure its connection pool.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Uploads (
	UploadID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	Created BIGINT NOT NULL
);
CREATE TABLE IF NOT EXISTS Tables (
	UploadID BIGINT UNSIGNED,
	N BIGINT,
	TB BIGINT,
	File VARCHAR(1024),
	PRIMARY KEY (UploadID, N, TB),
	FOREIGN KEY (UploadID) REFERENCES Uploads(UploadID) ON UPDATE CASCADE ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS Samples (
	UploadID BIGINT UNSIGNED,
	N BIGINT,
	TB BIGINT,
	Seq BIGINT,
	Threads BIGINT,
	Speedup DOUBLE,
	PRIMARY KEY (UploadID, N, TB, Seq),
{{if not .sqlite3}}
	Index (UploadID, N),
{{end}}
	FOREIGN KEY (UploadID, N, TB) REFERENCES Tables(UploadID, N, TB) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS SamplesUploadN ON Samples(UploadID, N);
{{end}}
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	db.insertUpload, err = db.sql.Prepare("INSERT INTO Uploads(Created) VALUES (?)")
	if err != nil {
		return err
	}
	db.lastUpload, err = db.sql.Prepare("SELECT UploadID FROM Uploads ORDER BY UploadID DESC LIMIT 1")
	if err != nil {
		return err
	}
	db.uploadTime, err = db.sql.Prepare("SELECT Created FROM Uploads WHERE UploadID = ?")
	if err != nil {
		return err
	}
	return nil
}

// now is a hook for testing
var now = time.Now

// An Upload is a set of tables archived by one invocation.
type Upload struct {
	// ID is the primary key of the upload.
	ID int64

	// Created is the time the upload was started, to the second.
	Created time.Time

	// db is the underlying database that this upload is going to.
	db *DB
}

// NewUpload returns an upload for storing new tables.
func (db *DB) NewUpload(ctx context.Context) (*Upload, error) {
	created := time.Unix(now().Unix(), 0)
	res, err := db.insertUpload.ExecContext(ctx, created.Unix())
	if err != nil {
		return nil, err
	}
	i, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Upload{ID: i, Created: created, db: db}, nil
}

// InsertTable stores t under key in a single transaction. A table
// with no rows is still recorded, so it reads back as an empty table.
// Inserting the same key twice in one upload fails.
func (u *Upload) InsertTable(ctx context.Context, key speedfmt.Key, t *speedfmt.Table) (err error) {
	tx, err := u.db.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	if _, err = tx.ExecContext(ctx, "INSERT INTO Tables(UploadID, N, TB, File) VALUES (?, ?, ?, ?)",
		u.ID, key.N, key.TB, t.File); err != nil {
		return fmt.Errorf("insert %s: %w", key, err)
	}
	if len(t.Rows) == 0 {
		return nil
	}
	var args []interface{}
	for seq, r := range t.Rows {
		args = append(args, u.ID, key.N, key.TB, seq, r.Threads, r.Speedup)
	}
	query := "INSERT INTO Samples(UploadID, N, TB, Seq, Threads, Speedup) VALUES " +
		strings.Repeat("(?, ?, ?, ?, ?, ?), ", len(t.Rows))
	query = strings.TrimSuffix(query, ", ")
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", key, err)
	}
	return nil
}

// InsertRegistry stores every table of reg.
func (u *Upload) InsertRegistry(ctx context.Context, reg *speedfmt.Registry) error {
	for _, k := range reg.Keys() {
		if err := u.InsertTable(ctx, k, reg.Get(k)); err != nil {
			return err
		}
	}
	return nil
}

// LastUpload returns the ID of the most recent upload, or ErrEmpty.
func (db *DB) LastUpload(ctx context.Context) (int64, error) {
	var id int64
	err := db.lastUpload.QueryRowContext(ctx).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, ErrEmpty
	}
	return id, err
}

// UploadTime returns the time the given upload was created.
func (db *DB) UploadTime(ctx context.Context, uploadID int64) (time.Time, error) {
	var created int64
	if err := db.uploadTime.QueryRowContext(ctx, uploadID).Scan(&created); err != nil {
		if err == sql.ErrNoRows {
			return time.Time{}, fmt.Errorf("no upload %d", uploadID)
		}
		return time.Time{}, err
	}
	return time.Unix(created, 0), nil
}

// Registry returns the tables stored in the given upload.
func (db *DB) Registry(ctx context.Context, uploadID int64) (*speedfmt.Registry, error) {
	return db.registry(ctx, "", uploadID)
}

// Series returns the tables of the most recent upload whose first key
// parameter is n.
func (db *DB) Series(ctx context.Context, n int) (*speedfmt.Registry, error) {
	id, err := db.LastUpload(ctx)
	if err != nil {
		return nil, err
	}
	return db.registry(ctx, " AND N = ?", id, n)
}

// registry reads the tables of an upload, restricted by the extra
// WHERE condition cond, whose arguments follow the upload ID in args.
// Tables are read first so that tables without samples are kept.
func (db *DB) registry(ctx context.Context, cond string, args ...interface{}) (*speedfmt.Registry, error) {
	reg := speedfmt.NewRegistry()

	rows, err := db.sql.QueryContext(ctx,
		"SELECT N, TB, File FROM Tables WHERE UploadID = ?"+cond+" ORDER BY N, TB", args...)
	if err != nil {
		return nil, err
	}
	err = scanRows(rows, func() error {
		var (
			k    speedfmt.Key
			file string
		)
		if err := rows.Scan(&k.N, &k.TB, &file); err != nil {
			return err
		}
		reg.Put(k, &speedfmt.Table{File: file})
		return nil
	})
	if err != nil {
		return nil, err
	}

	rows, err = db.sql.QueryContext(ctx,
		"SELECT N, TB, Threads, Speedup FROM Samples WHERE UploadID = ?"+cond+" ORDER BY N, TB, Seq", args...)
	if err != nil {
		return nil, err
	}
	err = scanRows(rows, func() error {
		var (
			k speedfmt.Key
			r speedfmt.Row
		)
		if err := rows.Scan(&k.N, &k.TB, &r.Threads, &r.Speedup); err != nil {
			return err
		}
		t := reg.Get(k)
		if t == nil {
			return fmt.Errorf("samples for %s have no table", k)
		}
		t.Rows = append(t.Rows, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// scanRows calls scan for each row of rows and closes rows.
func scanRows(rows *sql.Rows, scan func() error) error {
	defer rows.Close()
	for rows.Next() {
		if err := scan(); err != nil {
			return err
		}
	}
	return rows.Err()
}

// CountUploads returns the number of uploads in the database.
func (db *DB) CountUploads() (int, error) {
	var uploads int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM Uploads").Scan(&uploads)
	return uploads, err
}

// Close closes the database connections, releasing any open resources.
// It closes everything even if one close fails, and returns the first
// error.
func (db *DB) Close() error {
	var first error
	for _, c := range []interface{ Close() error }{db.insertUpload, db.lastUpload, db.uploadTime, db.sql} {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
