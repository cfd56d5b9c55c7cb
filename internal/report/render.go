// internal/report/render.go
// Package: report
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mwiater/runsummary/internal/summary"
)

// Format selects how Render writes summaries.
type Format string

const (
	FormatLine  Format = "line"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatLine, FormatCSV, FormatJSON, FormatTable}
}

// ParseFormat validates a format name. The empty string selects FormatLine.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatLine, nil
	}
	for _, f := range Formats() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// csvHeader names the seven summary fields.
var csvHeader = []string{"label", "mean_score", "stdev_score", "status", "dnf", "mean_duration", "stdev_duration"}

// Render writes sums to w in the given format with durations in unit.
func Render(w io.Writer, format Format, unit summary.Unit, sums []summary.Summary) error {
	switch format {
	case FormatLine, "":
		for _, s := range sums {
			if _, err := fmt.Fprintln(w, s.Line(unit)); err != nil {
				return err
			}
		}
		return nil
	case FormatCSV:
		return renderCSV(w, unit, sums)
	case FormatJSON:
		return renderJSON(w, unit, sums)
	case FormatTable:
		_, err := fmt.Fprintln(w, Table(unit, sums))
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func renderCSV(w io.Writer, unit summary.Unit, sums []summary.Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range sums {
		if err := cw.Write(s.Fields(unit)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Durations holds duration statistics converted to a report unit.
type Durations struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	P50    float64 `json:"p50"`
	P95    float64 `json:"p95"`
}

// Record is the JSON form of a summary.
type Record struct {
	Label  string         `json:"label"`
	Prefix string         `json:"prefix"`
	Score  summary.Stats  `json:"score"`
	Status summary.Status `json:"status"`
	// DNF and Durations are omitted when the prefix has no times file.
	DNF       *int       `json:"dnf,omitempty"`
	Unit      string     `json:"unit,omitempty"`
	Durations *Durations `json:"durations,omitempty"`
}

// NewRecord converts s, scaling its durations to unit.
func NewRecord(s summary.Summary, unit summary.Unit) Record {
	r := Record{Label: s.Label, Prefix: s.Prefix, Score: s.Score, Status: s.Status()}
	if s.Timing == nil {
		return r
	}

	dnf := s.Timing.DNF
	r.DNF = &dnf
	r.Unit = string(unit.Scale())
	if st := s.Timing.Stats; st != nil {
		r.Durations = &Durations{
			Count:  st.Count,
			Mean:   unit.FromMicros(st.Mean),
			StdDev: unit.FromMicros(st.StdDev),
			P50:    unit.FromMicros(s.Timing.Quantile(0.50)),
			P95:    unit.FromMicros(s.Timing.Quantile(0.95)),
		}
	}
	return r
}

func renderJSON(w io.Writer, unit summary.Unit, sums []summary.Summary) error {
	records := make([]Record, 0, len(sums))
	for _, s := range sums {
		records = append(records, NewRecord(s, unit))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// Headers returns the display titles of the seven summary fields.
func Headers(unit summary.Unit) []string {
	title := cases.Title(language.English)
	headers := make([]string, len(csvHeader))
	for i, h := range csvHeader {
		headers[i] = title.String(strings.ReplaceAll(h, "_", " "))
	}
	headers[4] = "DNF"
	headers[5] += " (" + string(unit) + ")"
	headers[6] += " (" + string(unit) + ")"
	return headers
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	badStyle    = cellStyle.Foreground(lipgloss.Color("9"))
)

// Table renders sums as a bordered terminal table.
func Table(unit summary.Unit, sums []summary.Summary) string {
	rows := make([][]string, 0, len(sums))
	for _, s := range sums {
		rows = append(rows, s.Fields(unit))
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("244"))).
		Headers(Headers(unit)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row >= 0 && row < len(sums) && col == 3 && sums[row].Status() == summary.StatusBad:
				return badStyle
			default:
				return cellStyle
			}
		}).
		Render()
}
