// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Speedplot plots measured parallel speedup against ideal speedup.
//
// Usage:
//
//	speedplot [flags]
//
// Speedplot reads every file in the current directory matching
// speedup_* (see -dir and -pattern). Each file name ends in two
// integer parameters, as in speedup_<N>_<TB>.txt, and each file holds
// lines of the form
//
//	<threads> <speedup>
//
// Speedplot prints the names of the files it found, then draws one
// line per file whose first parameter equals -n, together with a
// dashed line of slope 1 showing ideal linear speedup. The chart is
// written to -o; its format is chosen by the file extension and may
// be png, svg, or pdf. The default output name, speedplot_N<n>.png,
// does not match the input pattern, so charts are never read back as
// input.
//
// Any malformed file name or file content stops speedplot with an
// error naming the file and line.
//
// The -summary flag additionally prints, for each plotted series, the
// peak speedup, mean parallel efficiency, geometric mean speedup, and
// the Karp–Flatt serial fraction with the Amdahl speedup limit it
// implies. -summary=csv prints the per-thread-count values instead,
// and -summary=html an HTML fragment.
//
// The -db flag archives every loaded table in a SQL database, given
// as driver:dsn, for example
//
//	speedplot -db sqlite3:speedups.db
//	speedplot -db 'mysql:user:pass@tcp(host)/speedups'
//
// With -from-db, speedplot plots the most recent archived upload
// instead of reading files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/skratchdot/open-golang/open"
	"gonum.org/v1/plot/vg"

	"golang.org/x/speedplot/speedchart"
	"golang.org/x/speedplot/speeddb"
	_ "golang.org/x/speedplot/speeddb/sqlite3"
	"golang.org/x/speedplot/speedfmt"
	"golang.org/x/speedplot/speedstat"
)

var (
	exit   = os.Exit    // replaced during testing
	launch = open.Start // opens a file in the default viewer; replaced during testing
)

func main() {
	log.SetPrefix("speedplot: ")
	log.SetFlags(0)
	if err := speedplot(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			exit(2)
		}
		log.Fatal(err)
	}
}

var summaryFormats = map[string]func(io.Writer, []speedstat.Summary) error{
	"none": nil,
	"text": speedstat.FormatText,
	"csv":  speedstat.FormatCSV,
	"html": speedstat.FormatHTML,
}

func speedplot(stdout, stderr io.Writer, args []string) error {
	flags := flag.NewFlagSet("speedplot", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(stderr, "usage: speedplot [flags]\n")
		fmt.Fprintf(stderr, "flags:\n")
		flags.PrintDefaults()
	}
	var (
		flagDir     = flags.String("dir", ".", "read speedup files from `directory`")
		flagPattern = flags.String("pattern", speedfmt.DefaultPattern, "glob `pattern` of speedup files")
		flagN       = flags.Int("n", 50, "plot series whose first parameter is `N`")
		flagOut     = flags.String("o", "", "write chart to `file` (default speedplot_N<n>.png)")
		flagTitle   = flags.String("title", "", "chart `title` (default \"N = <n>\")")
		flagWidth   = flags.Float64("width", 16, "chart width in `cm`")
		flagHeight  = flags.Float64("height", 12, "chart height in `cm`")
		flagDPI     = flags.Int("dpi", 150, "resolution of png charts")
		flagOpen    = flags.Bool("open", false, "open the chart in the system viewer")
		flagSummary = flags.String("summary", "none", "print series summary as `format`: none, text, csv, html")
		flagDB      = flags.String("db", "", "archive tables in `driver:dsn` (sqlite3 or mysql)")
		flagFromDB  = flags.Bool("from-db", false, "plot the last upload archived in -db instead of reading files")
		warn        = func(format string, args ...interface{}) { fmt.Fprintf(stderr, format, args...) }
		ctx         = context.Background()
	)
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() > 0 {
		flags.Usage()
		return flag.ErrHelp
	}
	formatSummary, ok := summaryFormats[strings.ToLower(*flagSummary)]
	if !ok {
		return fmt.Errorf("unknown summary format %q", *flagSummary)
	}
	out := *flagOut
	if out == "" {
		out = fmt.Sprintf("speedplot_N%d.png", *flagN)
	}
	if *flagFromDB && *flagDB == "" {
		return fmt.Errorf("-from-db requires -db")
	}

	var db *speeddb.DB
	if *flagDB != "" {
		var err error
		db, err = openDB(*flagDB)
		if err != nil {
			return err
		}
		defer db.Close()
	}

	var reg *speedfmt.Registry
	if *flagFromDB {
		id, err := db.LastUpload(ctx)
		if err != nil {
			return err
		}
		created, err := db.UploadTime(ctx, id)
		if err != nil {
			return err
		}
		warn("reading upload %d from %s\n", id, created.UTC().Format(time.RFC3339))
		reg, err = db.Series(ctx, *flagN)
		if err != nil {
			return err
		}
	} else {
		files := &speedfmt.Files{Dir: *flagDir, Pattern: *flagPattern, Warn: warn}
		paths, err := files.Paths()
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintln(stdout, p)
		}
		reg, err = files.Load()
		if err != nil {
			return err
		}
		if db != nil {
			u, err := db.NewUpload(ctx)
			if err != nil {
				return err
			}
			if err := u.InsertRegistry(ctx, reg); err != nil {
				return err
			}
			warn("archived %d tables as upload %d\n", reg.Len(), u.ID)
		}
	}

	c := &speedchart.Chart{
		Title:  *flagTitle,
		Width:  vg.Length(*flagWidth) * vg.Centimeter,
		Height: vg.Length(*flagHeight) * vg.Centimeter,
		DPI:    *flagDPI,
	}
	series := speedchart.Select(reg, *flagN)
	pl, err := c.Plot(series)
	if err != nil {
		return fmt.Errorf("N=%d: %w", *flagN, err)
	}
	if err := c.Save(pl, out); err != nil {
		return err
	}
	warn("wrote %s (%d series)\n", out, len(series))

	if formatSummary != nil {
		if err := formatSummary(stdout, speedstat.SummarizeAll(reg, *flagN)); err != nil {
			return err
		}
	}

	if *flagOpen {
		if err := launch(out); err != nil {
			return fmt.Errorf("open %s: %w", out, err)
		}
	}
	return nil
}

// openDB opens the archive named by a "driver:dsn" string.
func openDB(name string) (*speeddb.DB, error) {
	i := strings.Index(name, ":")
	if i <= 0 {
		return nil, fmt.Errorf("bad -db %q: want driver:dsn", name)
	}
	db, err := speeddb.OpenSQL(name[:i], name[i+1:])
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", name[:i], err)
	}
	return db, nil
}
