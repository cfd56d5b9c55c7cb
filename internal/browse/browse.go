// internal/browse/browse.go
// Package browse is an interactive terminal viewer for run summaries.
package browse

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/runsummary/internal/report"
	"github.com/mwiater/runsummary/internal/summary"
)

// Loader produces the summaries to browse.
type Loader func() ([]summary.Summary, error)

type viewState int

const (
	viewLoading viewState = iota
	viewTable
	viewDetail
)

// summariesMsg delivers the loaded summaries.
type summariesMsg struct {
	sums []summary.Summary
}

// errMsg reports a loading failure.
type errMsg struct {
	err error
}

// model is the bubbletea model of the summary browser.
type model struct {
	load  Loader
	unit  summary.Unit
	state viewState

	spinner spinner.Model
	table   table.Model
	sums    []summary.Summary

	err       error
	width     int
	height    int
	startTime time.Time
}

var (
	tableStyle  = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))
	detailStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1)
	helpStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(1)
)

// initialModel returns a browser that loads its rows with load.
func initialModel(load Loader, unit summary.Unit) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	t := table.New(table.WithFocused(true))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("62")).
		Bold(false)
	t.SetStyles(styles)

	return &model{
		load:      load,
		unit:      unit,
		state:     viewLoading,
		spinner:   s,
		table:     t,
		startTime: time.Now(),
	}
}

func loadCmd(load Loader) tea.Cmd {
	return func() tea.Msg {
		sums, err := load()
		if err != nil {
			return errMsg{err: err}
		}
		return summariesMsg{sums: sums}
	}
}

// Init starts the spinner and the load.
func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadCmd(m.load))
}

// Update handles input, window resizes and load results.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetWidth(msg.Width - 4)
		m.table.SetHeight(m.tableHeight())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "enter":
			switch m.state {
			case viewTable:
				m.state = viewDetail
			case viewDetail:
				m.state = viewTable
			}
			return m, nil
		case "esc":
			if m.state == viewDetail {
				m.state = viewTable
			}
			return m, nil
		}

	case summariesMsg:
		log.Printf("loaded %d summaries", len(msg.sums))
		m.sums = msg.sums
		m.table.SetColumns(columns(m.unit, msg.sums))
		m.table.SetRows(rows(m.unit, msg.sums))
		m.table.SetHeight(m.tableHeight())
		m.state = viewTable
		return m, nil

	case errMsg:
		log.Printf("load failed: %v", msg.err)
		m.err = msg.err
		return m, nil
	}

	if m.state == viewLoading {
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// tableHeight leaves room for the border, help line and detail pane. The
// table height includes its two header lines.
func (m *model) tableHeight() int {
	h := m.height - 12
	if n := len(m.sums) + 2; n < h {
		h = n
	}
	if h < 3 {
		h = 3
	}
	return h
}

// View renders the current state.
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n" + helpStyle.Render("  q to quit")
	}

	switch m.state {
	case viewLoading:
		timer := fmt.Sprintf("%.1f", time.Since(m.startTime).Seconds())
		return fmt.Sprintf("\n  %s Summarizing runs... %ss\n", m.spinner.View(), timer)

	case viewTable, viewDetail:
		var b strings.Builder
		b.WriteString(tableStyle.Render(m.table.View()))
		b.WriteString("\n")
		if m.state == viewDetail {
			b.WriteString(m.detailView())
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("  ↑/↓ select • enter details • q quit"))
		return b.String()

	default:
		return "Unknown state"
	}
}

// detailView describes the selected summary.
func (m *model) detailView() string {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.sums) {
		return ""
	}
	r := report.NewRecord(m.sums[i], m.unit)

	var b strings.Builder
	fmt.Fprintf(&b, "Label:   %s\n", r.Label)
	fmt.Fprintf(&b, "Prefix:  %s\n", r.Prefix)
	fmt.Fprintf(&b, "Scores:  n=%d mean=%s stddev=%s\n", r.Score.Count, summary.FormatFloat(r.Score.Mean), summary.FormatFloat(r.Score.StdDev))
	fmt.Fprintf(&b, "Status:  %s", r.Status)
	if r.DNF != nil {
		fmt.Fprintf(&b, "\nDNF:     %d", *r.DNF)
	}
	if d := r.Durations; d != nil {
		fmt.Fprintf(&b, "\nTimes:   n=%d mean=%s stddev=%s p50=%s p95=%s (%s)",
			d.Count,
			m.unit.Format(d.Mean),
			m.unit.Format(d.StdDev),
			m.unit.Format(d.P50),
			m.unit.Format(d.P95),
			m.unit,
		)
	}
	return detailStyle.Render(b.String())
}

func columns(unit summary.Unit, sums []summary.Summary) []table.Column {
	headers := report.Headers(unit)
	cols := make([]table.Column, len(headers))
	for i, h := range headers {
		w := lipgloss.Width(h)
		for _, s := range sums {
			if cw := lipgloss.Width(s.Fields(unit)[i]); cw > w {
				w = cw
			}
		}
		cols[i] = table.Column{Title: h, Width: w}
	}
	return cols
}

func rows(unit summary.Unit, sums []summary.Summary) []table.Row {
	out := make([]table.Row, 0, len(sums))
	for _, s := range sums {
		out = append(out, table.Row(s.Fields(unit)))
	}
	return out
}

// Run starts the browser and blocks until it exits. With debug set,
// diagnostics are written to debug.log.
func Run(load Loader, unit summary.Unit, debug bool) error {
	if debug {
		f, err := tea.LogToFile("debug.log", "debug")
		if err != nil {
			return fmt.Errorf("could not open log file: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	p := tea.NewProgram(initialModel(load, unit), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running browser: %w", err)
	}
	return nil
}
