// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package speedstat summarizes parallel speedup series.
//
// For each thread count p with measured speedup s, it derives the
// parallel efficiency s/p and the Karp–Flatt experimentally
// determined serial fraction
//
//	e = (1/s - 1/p) / (1 - 1/p)
//
// A serial fraction that stays flat as p grows indicates the speedup
// is limited by inherently serial work, in which case Amdahl's law
// bounds the achievable speedup by 1/e. A serial fraction that grows
// with p points at parallel overhead instead.
//
// All results carry a list of warnings, captured as an []error
// value. These aren't errors that prevent the summary, but should be
// presented to the user along with it.
package speedstat

import (
	"fmt"
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"

	"golang.org/x/speedplot/speedfmt"
)

// A Point summarizes the rows recorded for one thread count.
type Point struct {
	Threads int

	// Speedup is the mean of the recorded speedups. Min and Max
	// bound them. N is the number of rows merged into this point.
	Speedup  float64
	Min, Max float64
	N        int

	// Efficiency is Speedup / Threads.
	Efficiency float64

	// SerialFraction is the Karp–Flatt metric. It is NaN for a
	// single thread, where it is undefined.
	SerialFraction float64
}

// A Summary summarizes one speedup series.
type Summary struct {
	Key  speedfmt.Key
	File string

	// Points are the merged rows, in increasing thread order.
	Points []Point

	// Peak is the point with the highest speedup. If several
	// points tie, the one with the fewest threads wins.
	Peak Point

	// MeanEfficiency is the mean efficiency over Points.
	MeanEfficiency float64

	// GeoMean is the geometric mean speedup over Points. It is
	// NaN if any speedup is not positive.
	GeoMean float64

	// SerialFraction is the mean Karp–Flatt metric over the
	// points where it is defined, or NaN if there are none.
	SerialFraction float64

	// Limit is the Amdahl-law speedup limit 1/SerialFraction. It
	// is +Inf if SerialFraction is not positive and NaN if
	// SerialFraction is NaN.
	Limit float64

	// Warnings lists non-fatal problems with the series.
	Warnings []error
}

// KarpFlatt returns the experimentally determined serial fraction for
// speedup s at p threads. It returns NaN if p <= 1 or s is not
// positive.
func KarpFlatt(s float64, p int) float64 {
	if p <= 1 || !(s > 0) {
		return math.NaN()
	}
	invP := 1 / float64(p)
	return (1/s - invP) / (1 - invP)
}

// Summarize computes the Summary of table t stored under key.
func Summarize(key speedfmt.Key, t *speedfmt.Table) Summary {
	s := Summary{Key: key, File: t.File}

	byThreads := make(map[int][]float64)
	for _, r := range t.Rows {
		byThreads[r.Threads] = append(byThreads[r.Threads], r.Speedup)
	}
	threads := make([]int, 0, len(byThreads))
	for p := range byThreads {
		threads = append(threads, p)
	}
	sort.Ints(threads)

	var effs, speedups, fracs []float64
	positive := true
	for _, p := range threads {
		vals := byThreads[p]
		pt := Point{Threads: p, N: len(vals)}
		pt.Speedup = stats.Mean(vals)
		pt.Min, pt.Max = stats.Bounds(vals)
		if len(vals) > 1 {
			s.Warnings = append(s.Warnings, fmt.Errorf("%d rows for %d threads; using their mean", len(vals), p))
		}
		if p > 0 {
			pt.Efficiency = pt.Speedup / float64(p)
		} else {
			pt.Efficiency = math.NaN()
			s.Warnings = append(s.Warnings, fmt.Errorf("non-positive thread count %d", p))
		}
		pt.SerialFraction = KarpFlatt(pt.Speedup, p)
		if !(pt.Speedup > 0) {
			positive = false
			s.Warnings = append(s.Warnings, fmt.Errorf("non-positive speedup %v at %d threads", pt.Speedup, p))
		}

		if !math.IsNaN(pt.Efficiency) {
			effs = append(effs, pt.Efficiency)
		}
		if !math.IsNaN(pt.SerialFraction) {
			fracs = append(fracs, pt.SerialFraction)
		}
		speedups = append(speedups, pt.Speedup)

		if len(s.Points) == 0 || pt.Speedup > s.Peak.Speedup {
			s.Peak = pt
		}
		s.Points = append(s.Points, pt)
	}

	s.MeanEfficiency = mean(effs)
	s.GeoMean = math.NaN()
	if positive && len(speedups) > 0 {
		s.GeoMean = stats.GeoMean(speedups)
	}
	s.SerialFraction = mean(fracs)
	switch {
	case math.IsNaN(s.SerialFraction):
		s.Limit = math.NaN()
	case s.SerialFraction <= 0:
		s.Limit = math.Inf(1)
	default:
		s.Limit = 1 / s.SerialFraction
	}
	return s
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return stats.Mean(xs)
}

// SummarizeAll summarizes every table in reg whose first key
// parameter is n, in key order.
func SummarizeAll(reg *speedfmt.Registry, n int) []Summary {
	var out []Summary
	for _, k := range reg.Select(n) {
		out = append(out, Summarize(k, reg.Get(k)))
	}
	return out
}
