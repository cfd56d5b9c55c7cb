// internal/summary/timing.go
// Package: summary
package summary

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// lineCounter counts the lines of everything read through it.
type lineCounter struct {
	r     io.Reader
	lines int
	last  byte
}

func (c *lineCounter) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.lines += bytes.Count(p[:n], []byte{'\n'})
		c.last = p[n-1]
	}
	return n, err
}

// total returns the number of lines read, counting an unterminated last line.
func (c *lineCounter) total() int {
	if c.last != 0 && c.last != '\n' {
		return c.lines + 1
	}
	return c.lines
}

// endLine returns the line on which rec, the record last read by cr, ends.
func endLine(cr *csv.Reader, rec []string) int {
	last := len(rec) - 1
	line, _ := cr.FieldPos(last)
	return line + strings.Count(rec[last], "\n")
}

// ReadTiming aggregates a times table. The first row is a header and is
// discarded without inspection. In every other row column 1 is the validity
// flag and columns 2.. are attempt cells: empty, opts.DNFToken, or an ISO-8601
// duration. Rows flagged invalid mark the whole table bad and their attempt
// cells are not read. A blank line is a row without a flag column.
func ReadTiming(r io.Reader, opts Options) (Timing, error) {
	lc := &lineCounter{r: r}
	cr := newCSVReader(lc)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Timing{}, ErrMissingHeader
		}
		return Timing{}, err
	}
	if line, _ := cr.FieldPos(0); line > 1 {
		return Timing{}, fmt.Errorf("line 1: blank line: %w", ErrShortRow)
	}
	prev := endLine(cr, header)

	var t Timing
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			if lc.total() > prev {
				return Timing{}, fmt.Errorf("line %d: blank line: %w", prev+1, ErrShortRow)
			}
			break
		}
		if err != nil {
			return Timing{}, err
		}
		if line, _ := cr.FieldPos(0); line > prev+1 {
			return Timing{}, fmt.Errorf("line %d: blank line: %w", prev+1, ErrShortRow)
		}
		prev = endLine(cr, rec)
		if len(rec) < 2 {
			return Timing{}, fmt.Errorf("row %d: %w", row, ErrShortRow)
		}
		if rec[1] == opts.InvalidFlag {
			t.Invalid = true
			continue
		}
		for col := 2; col < len(rec); col++ {
			switch cell := rec[col]; cell {
			case "": // no attempt
			case opts.DNFToken:
				t.DNF++
			default:
				us, err := ParseMicros(cell)
				if err != nil {
					return Timing{}, fmt.Errorf("row %d, column %d: %w", row, col, err)
				}
				t.Durations = append(t.Durations, us)
			}
		}
	}

	if len(t.Durations) > 0 {
		stats, err := Describe(t.Durations)
		if err != nil {
			return Timing{}, fmt.Errorf("durations: %w", err)
		}
		t.Stats = &stats
	}
	return t, nil
}

// LoadTiming opens path and aggregates it with ReadTiming.
func LoadTiming(path string, opts Options) (Timing, error) {
	f, err := os.Open(path)
	if err != nil {
		return Timing{}, fmt.Errorf("could not read times file: %w", err)
	}
	defer f.Close()

	t, err := ReadTiming(f, opts)
	if err != nil {
		return Timing{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
