// internal/summary/duration.go
// Package: summary
package summary

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sosodev/duration"
)

// ErrCalendarDuration is returned for durations with year or month
// components, which have no fixed length.
var ErrCalendarDuration = errors.New("year and month durations have no fixed length")

// ParseMicros parses an ISO-8601 duration such as "PT1.5S" and returns its
// length in whole microseconds, rounding half to even.
func ParseMicros(s string) (float64, error) {
	d, err := duration.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("invalid ISO-8601 duration %q: %w", s, err)
	}
	if d.Years != 0 || d.Months != 0 {
		return 0, fmt.Errorf("invalid ISO-8601 duration %q: %w", s, ErrCalendarDuration)
	}
	return math.RoundToEven(float64(d.ToTimeDuration()) / float64(time.Microsecond)), nil
}

// Unit is the unit duration statistics are reported in.
type Unit string

const (
	Nanoseconds  Unit = "nanoseconds"
	Microseconds Unit = "microseconds"
	Milliseconds Unit = "milliseconds"
	Seconds      Unit = "seconds"
	Minutes      Unit = "minutes"
	Hours        Unit = "hours"
	Days         Unit = "days"
	// ISO prints durations as ISO-8601 text. Numeric output stays in microseconds.
	ISO Unit = "iso"
)

var nanosPerUnit = map[Unit]float64{
	Nanoseconds:  1,
	Microseconds: 1e3,
	Milliseconds: 1e6,
	Seconds:      1e9,
	Minutes:      60e9,
	Hours:        3600e9,
	Days:         86400e9,
	ISO:          1e3,
}

// Units lists the supported units from smallest to largest, then ISO.
func Units() []Unit {
	return []Unit{Nanoseconds, Microseconds, Milliseconds, Seconds, Minutes, Hours, Days, ISO}
}

// ParseUnit validates a unit name. The empty string selects Microseconds.
func ParseUnit(s string) (Unit, error) {
	if s == "" {
		return Microseconds, nil
	}
	u := Unit(s)
	if _, ok := nanosPerUnit[u]; !ok {
		return "", fmt.Errorf("unknown duration unit %q", s)
	}
	return u, nil
}

// Scale returns the numeric unit values of u are expressed in.
func (u Unit) Scale() Unit {
	if u == ISO || u == "" {
		return Microseconds
	}
	return u
}

// FromMicros converts a microsecond value to u's scale.
func (u Unit) FromMicros(v float64) float64 {
	if u.Scale() == Microseconds {
		return v
	}
	return v * 1e3 / nanosPerUnit[u]
}

// Format renders v, a value already in u's scale, as output text.
func (u Unit) Format(v float64) string {
	if u != ISO || math.IsNaN(v) || math.IsInf(v, 0) {
		return FormatFloat(v)
	}
	return duration.Format(time.Duration(math.Round(v * float64(time.Microsecond))))
}
