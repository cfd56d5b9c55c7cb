// internal/summary/format.go
// Package: summary
package summary

import (
	"math"
	"strconv"
	"strings"
)

// FormatFloat renders f in its shortest round-trip form. Integral values keep
// a trailing ".0" and very small or very large magnitudes switch to exponent
// notation, so 2 prints as "2.0" and 0.00001 as "1e-05".
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	if abs := math.Abs(f); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Fields returns the seven output fields: label, score mean, score stddev,
// status, DNF count, duration mean and duration stddev. Durations are
// converted to unit.
func (s Summary) Fields(unit Unit) []string {
	fields := []string{s.Label, FormatFloat(s.Score.Mean), FormatFloat(s.Score.StdDev)}
	if s.Timing == nil {
		return append(fields, Unknown, Unknown, Unknown, Unknown)
	}

	fields = append(fields, string(s.Timing.Status()), strconv.Itoa(s.Timing.DNF))
	if s.Timing.Stats == nil {
		return append(fields, DidNotFinish, DidNotFinish)
	}
	return append(fields,
		unit.Format(unit.FromMicros(s.Timing.Stats.Mean)),
		unit.Format(unit.FromMicros(s.Timing.Stats.StdDev)),
	)
}

// Line joins Fields with ", ".
func (s Summary) Line(unit Unit) string {
	return strings.Join(s.Fields(unit), ", ")
}
