// internal/summary/revision.go
// Package: summary
package summary

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// newCSVReader returns a comma-delimited reader that tolerates rows of
// differing length and stray quotes.
func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = ','
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

// ReadScores reads a CSV table with a header row and returns the values of
// column as floats, one per data row, in file order.
func ReadScores(r io.Reader, column string) ([]float64, error) {
	cr := newCSVReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w (expected column %q)", ErrMissingHeader, column)
	}
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, name := range header {
		if name == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w %q", ErrMissingColumn, column)
	}

	var scores []float64
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if idx >= len(rec) {
			return nil, fmt.Errorf("row %d: %w %q", row, ErrMissingColumn, column)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[idx]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d, column %q: %w", row, column, err)
		}
		scores = append(scores, v)
	}
	return scores, nil
}

// LoadScores opens path and reads its score column.
func LoadScores(path, column string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not read revision file: %w", err)
	}
	defer f.Close()

	scores, err := ReadScores(f, column)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scores, nil
}
