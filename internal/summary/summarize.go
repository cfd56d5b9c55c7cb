// internal/summary/summarize.go
// Package: summary
package summary

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Summarize reads <prefix><RevisionSuffix> and, when it exists,
// <prefix><TimesSuffix>, and returns their aggregate under label.
//
// The revision file is required and must hold at least two scores. A missing
// times file is not an error: the summary is returned with a nil Timing.
func Summarize(prefix, label string, opts Options) (Summary, error) {
	revisionPath := prefix + opts.RevisionSuffix
	scores, err := LoadScores(revisionPath, opts.ScoreColumn)
	if err != nil {
		return Summary{}, err
	}
	score, err := Describe(scores)
	if err != nil {
		return Summary{}, fmt.Errorf("%s: column %q: %w", revisionPath, opts.ScoreColumn, err)
	}

	s := Summary{Label: label, Prefix: prefix, Score: score}

	timesPath := prefix + opts.TimesSuffix
	ok, err := isFile(timesPath)
	if err != nil {
		return Summary{}, err
	}
	if !ok {
		return s, nil
	}

	timing, err := LoadTiming(timesPath, opts)
	if err != nil {
		return Summary{}, err
	}
	s.Timing = &timing
	return s, nil
}

// isFile reports whether path names an existing regular file.
func isFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}
