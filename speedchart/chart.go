// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package speedchart draws measured speedup against ideal linear
// speedup.
package speedchart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"golang.org/x/speedplot/speedfmt"
)

// ErrNoSeries is returned by Plot when there is nothing to draw.
var ErrNoSeries = errors.New("no matching series")

// A Series is one speedup table and the key it was loaded under.
type Series struct {
	Key   speedfmt.Key
	Table *speedfmt.Table
}

// Select returns the series in reg whose first key parameter is n,
// ordered by the second parameter.
func Select(reg *speedfmt.Registry, n int) []Series {
	var out []Series
	for _, k := range reg.Select(n) {
		out = append(out, Series{k, reg.Get(k)})
	}
	return out
}

// A Chart configures how series are drawn and rendered.
// The zero value is usable.
type Chart struct {
	// Title overrides the chart title. If empty, the title is
	// "N = n" when every series shares the same N.
	Title string

	// Width and Height are the rendered size. Zero means 16cm by
	// 12cm.
	Width, Height vg.Length

	// DPI is the resolution of raster output. Zero means 150.
	DPI int
}

func (c *Chart) size() (vg.Length, vg.Length) {
	w, h := c.Width, c.Height
	if w <= 0 {
		w = 16 * vg.Centimeter
	}
	if h <= 0 {
		h = 12 * vg.Centimeter
	}
	return w, h
}

// idealStyle is the dashed line of slope 1 drawn for every series.
var idealStyle = draw.LineStyle{
	Color:  color.Black,
	Width:  vg.Points(1),
	Dashes: []vg.Length{vg.Points(4), vg.Points(4)},
}

// Plot builds a line chart with one labeled line per series and a
// dashed ideal-speedup reference line over each series' thread counts.
func (c *Chart) Plot(series []Series) (*plot.Plot, error) {
	if len(series) == 0 {
		return nil, ErrNoSeries
	}

	pl := plot.New()
	pl.Title.Text = c.Title
	if pl.Title.Text == "" {
		pl.Title.Text = commonTitle(series)
	}
	pl.X.Label.Text = "nthread"
	pl.Y.Label.Text = "speedup"
	pl.Legend.Top = true
	pl.Legend.Left = true

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	pl.Add(grid)

	for i, s := range series {
		pts := make(plotter.XYs, len(s.Table.Rows))
		ideal := make(plotter.XYs, len(s.Table.Rows))
		for j, r := range s.Table.Rows {
			pts[j].X, pts[j].Y = float64(r.Threads), r.Speedup
			ideal[j].X, ideal[j].Y = float64(r.Threads), float64(r.Threads)
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("series %s: %w", s.Key, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)

		ref, err := plotter.NewLine(ideal)
		if err != nil {
			return nil, fmt.Errorf("series %s: %w", s.Key, err)
		}
		ref.LineStyle = idealStyle

		pl.Add(line, ref)
		pl.Legend.Add(s.Key.String(), line)
	}
	return pl, nil
}

func commonTitle(series []Series) string {
	n := series[0].Key.N
	for _, s := range series[1:] {
		if s.Key.N != n {
			return "speedup"
		}
	}
	return fmt.Sprintf("N = %d", n)
}

// IsFormat reports whether format is a supported output format.
func IsFormat(format string) bool {
	switch format {
	case "png", "svg", "pdf":
		return true
	}
	return false
}

// WriteTo renders pl to w. format is one of "png", "svg" or "pdf".
func (c *Chart) WriteTo(pl *plot.Plot, w io.Writer, format string) error {
	width, height := c.size()
	switch format {
	case "png":
		dpi := c.DPI
		if dpi <= 0 {
			dpi = 150
		}
		can := vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(width, height),
			vgimg.UseDPI(dpi), vgimg.UseBackgroundColor(color.White))}
		pl.Draw(draw.New(can))
		_, err := can.WriteTo(w)
		return err
	case "svg", "pdf":
		wt, err := pl.WriterTo(width, height, format)
		if err != nil {
			return err
		}
		_, err = wt.WriteTo(w)
		return err
	}
	return fmt.Errorf("unsupported chart format %q", format)
}

// Save renders pl to the named file. The format is taken from the
// file extension.
func (c *Chart) Save(pl *plot.Plot, path string) (err error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if !IsFormat(format) {
		return fmt.Errorf("%s: unsupported chart format %q", path, format)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return c.WriteTo(pl, f, format)
}
