// internal/summary/types.go
// Package summary aggregates the revision scores and run times of a benchmark prefix.
package summary

import "errors"

var (
	// ErrMissingColumn is returned when the revision file has no score column.
	ErrMissingColumn = errors.New("missing column")
	// ErrTooFewSamples is returned when a sample standard deviation is requested
	// for fewer than two values.
	ErrTooFewSamples = errors.New("at least two samples are required")
	// ErrShortRow is returned for a timing row without a flag column.
	ErrShortRow = errors.New("row has fewer than two columns")
	// ErrMissingHeader is returned when a CSV file has no header row.
	ErrMissingHeader = errors.New("missing header row")
)

// Status is the aggregate validity of a timing file.
type Status string

const (
	StatusGood    Status = "good"
	StatusBad     Status = "bad"
	StatusUnknown Status = "???"
)

// Placeholders used in place of timing statistics.
const (
	// Unknown fills every timing field when no times file exists.
	Unknown = "???"
	// DidNotFinish fills the duration statistics when no attempt finished.
	DidNotFinish = "DNF"
)

// Options controls file naming and the literal tokens recognized in the
// input files.
type Options struct {
	// ScoreColumn is the header of the revision score column.
	ScoreColumn string `json:"score_column"`
	// RevisionSuffix is appended to a prefix to locate the revision file.
	RevisionSuffix string `json:"revision_suffix"`
	// TimesSuffix is appended to a prefix to locate the optional times file.
	TimesSuffix string `json:"times_suffix"`
	// DNFToken marks an attempt that did not finish.
	DNFToken string `json:"dnf_token"`
	// InvalidFlag is the flag column value that marks a run as bad.
	InvalidFlag string `json:"invalid_flag"`
}

// DefaultOptions returns the naming and tokens produced by the benchmark pipeline.
func DefaultOptions() Options {
	return Options{
		ScoreColumn:    "REVISION-SCORE",
		RevisionSuffix: "-revision.csv",
		TimesSuffix:    "-times.csv",
		DNFToken:       DidNotFinish,
		InvalidFlag:    "false",
	}
}

// Stats holds the mean and sample standard deviation of a series.
type Stats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

// Timing aggregates a times file. Durations are in microseconds.
type Timing struct {
	// Invalid is set once any row carries the invalid flag.
	Invalid bool `json:"invalid"`
	// DNF counts attempts that did not finish.
	DNF int `json:"dnf"`
	// Durations holds every finished attempt in file order.
	Durations []float64 `json:"durations_us"`
	// Stats is nil when no attempt finished.
	Stats *Stats `json:"stats,omitempty"`
}

// Status reports good unless some row was flagged invalid.
func (t Timing) Status() Status {
	if t.Invalid {
		return StatusBad
	}
	return StatusGood
}

// Summary is the aggregate of one benchmark prefix.
type Summary struct {
	Label  string `json:"label"`
	Prefix string `json:"prefix"`
	Score  Stats  `json:"score"`
	// Timing is nil when the prefix has no times file.
	Timing *Timing `json:"timing,omitempty"`
}

// Status returns the aggregate status, or StatusUnknown without timing data.
func (s Summary) Status() Status {
	if s.Timing == nil {
		return StatusUnknown
	}
	return s.Timing.Status()
}
