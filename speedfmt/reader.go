// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package speedfmt

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// A Row is one measurement: the speedup observed at a thread count.
type Row struct {
	Threads int
	Speedup float64
}

// A Table is the ordered sequence of rows read from one file.
type Table struct {
	// File is the name the table was read from. It is purely
	// diagnostic.
	File string

	Rows []Row
}

// A SyntaxError represents a malformed line in a speedup file.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
	Err      error // underlying conversion error, if any
}

func (e *SyntaxError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s:%d: %s: %v", e.FileName, e.Line, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// A Reader reads rows of a speedup file.
//
// Its API is modeled on bufio.Scanner. Unlike the Go benchmark
// format, a malformed line is not skipped: it stops the Reader and
// is reported by Err.
type Reader struct {
	s        *bufio.Scanner
	fileName string
	line     int
	row      Row
	err      error
}

// NewReader constructs a reader for the speedup table in r.
// fileName is used in error messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName)
	return reader
}

// Reset resets the reader to begin reading from a new input.
func (r *Reader) Reset(ior io.Reader, fileName string) {
	r.s = bufio.NewScanner(ior)
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.fileName = fileName
	r.line = 0
	r.row = Row{}
	r.err = nil
}

// Scan advances the reader to the next row and reports whether a row
// was read. The caller should use the Row method to get the row.
// If Scan reaches EOF, hits a malformed line, or an I/O error occurs,
// it returns false, in which case the caller should use the Err
// method to check for errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	for r.s.Scan() {
		r.line++
		line := bytes.TrimSpace(r.s.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if err := r.parseLine(line); err != nil {
			r.err = err
			return false
		}
		return true
	}
	if err := r.s.Err(); err != nil {
		r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.line, err)
	}
	return false
}

func (r *Reader) parseLine(line []byte) error {
	f := bytes.Fields(line)
	if len(f) != 2 {
		return &SyntaxError{r.fileName, r.line, fmt.Sprintf("want 2 fields, got %d", len(f)), nil}
	}
	threads, err := strconv.Atoi(string(f[0]))
	if err != nil {
		return &SyntaxError{r.fileName, r.line, "bad thread count", err}
	}
	speedup, err := strconv.ParseFloat(string(f[1]), 64)
	if err != nil {
		return &SyntaxError{r.fileName, r.line, "bad speedup", err}
	}
	r.row = Row{threads, speedup}
	return nil
}

// Row returns the row that was just read by Scan.
func (r *Reader) Row() Row {
	return r.row
}

// Err returns the first error encountered by the Reader, or nil if
// Scan stopped at EOF.
func (r *Reader) Err() error {
	return r.err
}

// ReadTable reads all rows from r.
func ReadTable(r io.Reader, fileName string) (*Table, error) {
	t := &Table{File: fileName}
	rd := NewReader(r, fileName)
	for rd.Scan() {
		t.Rows = append(t.Rows, rd.Row())
	}
	if err := rd.Err(); err != nil {
		return nil, err
	}
	return t, nil
}
