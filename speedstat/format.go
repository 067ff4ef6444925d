// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package speedstat

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/google/safehtml/template"

	"golang.org/x/speedplot/internal/texttab"
)

func fmtSpeedup(x float64) string {
	switch {
	case math.IsNaN(x):
		return "-"
	case math.IsInf(x, 1):
		return "∞"
	}
	return fmt.Sprintf("%.2f", x)
}

func fmtPct(x float64) string {
	if math.IsNaN(x) {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", 100*x)
}

func fmtFrac(x float64) string {
	if math.IsNaN(x) {
		return "-"
	}
	return fmt.Sprintf("%.4f", x)
}

// FormatText writes one line per summary, followed by any warnings.
func FormatText(w io.Writer, sums []Summary) error {
	var tab texttab.Table
	tab.Row().Cell("series").Cell("threads", texttab.Right).Cell("peak", texttab.Right).
		Cell("@threads", texttab.Right).Cell("efficiency", texttab.Right).Cell("geomean", texttab.Right).
		Cell("serial", texttab.Right).Cell("limit", texttab.Right)
	for _, s := range sums {
		tab.Row().Cell(s.Key.String()).
			Cellf("%d", len(s.Points)).
			Cell(fmtSpeedup(s.Peak.Speedup), texttab.Right).
			Cellf("%d", s.Peak.Threads).
			Cell(fmtPct(s.MeanEfficiency), texttab.Right).
			Cell(fmtSpeedup(s.GeoMean), texttab.Right).
			Cell(fmtFrac(s.SerialFraction), texttab.Right).
			Cell(fmtSpeedup(s.Limit), texttab.Right)
	}
	if err := tab.Format(w); err != nil {
		return err
	}
	for _, s := range sums {
		for _, warn := range s.Warnings {
			if _, err := fmt.Fprintf(w, "%s: %v\n", s.Key, warn); err != nil {
				return err
			}
		}
	}
	return nil
}

// FormatCSV writes one CSV record per point of every summary.
func FormatCSV(w io.Writer, sums []Summary) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"n", "tb", "threads", "samples", "speedup", "min", "max", "efficiency", "serial_fraction"})
	ff := func(x float64) string { return strconv.FormatFloat(x, 'g', -1, 64) }
	for _, s := range sums {
		for _, p := range s.Points {
			cw.Write([]string{
				strconv.Itoa(s.Key.N), strconv.Itoa(s.Key.TB),
				strconv.Itoa(p.Threads), strconv.Itoa(p.N),
				ff(p.Speedup), ff(p.Min), ff(p.Max),
				ff(p.Efficiency), ff(p.SerialFraction),
			})
		}
	}
	cw.Flush()
	return cw.Error()
}

var htmlTemplate = template.Must(template.New("summary").Funcs(template.FuncMap{
	"speedup": fmtSpeedup,
	"pct":     fmtPct,
	"frac":    fmtFrac,
}).Parse(`
<table class='speedstat'>
<tr><th>series<th>peak<th>@threads<th>efficiency<th>geomean<th>serial<th>limit
{{range .}}<tr><td>{{.Key}}<td>{{speedup .Peak.Speedup}}<td>{{.Peak.Threads}}<td>{{pct .MeanEfficiency}}<td>{{speedup .GeoMean}}<td>{{frac .SerialFraction}}<td>{{speedup .Limit}}
{{end}}</table>
{{range .}}
<h3>{{.Key}}</h3>
<table class='speedstat-points'>
<tr><th>threads<th>speedup<th>min<th>max<th>efficiency<th>serial
{{range .Points}}<tr><td>{{.Threads}}<td>{{speedup .Speedup}}<td>{{speedup .Min}}<td>{{speedup .Max}}<td>{{pct .Efficiency}}<td>{{frac .SerialFraction}}
{{end}}</table>
{{with .Warnings}}<ul class='warnings'>{{range .}}<li>{{.}}{{end}}</ul>{{end}}
{{end}}`))

// FormatHTML writes an HTML fragment with a summary table and a
// per-point table for each series.
func FormatHTML(w io.Writer, sums []Summary) error {
	return htmlTemplate.Execute(w, sums)
}
