package summary

import (
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile creates name under dir with the given lines joined by newlines.
func writeFile(t *testing.T, dir, name string, lines ...string) {
	t.Helper()
	content := strings.Join(lines, "\n") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	stats, err := Describe([]float64{1.0, 2.0, 3.0})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Count)
	assert.Equal(t, 2.0, stats.Mean)
	assert.Equal(t, 1.0, stats.StdDev)

	_, err = Describe([]float64{42})
	assert.ErrorIs(t, err, ErrTooFewSamples)

	_, err = Describe(nil)
	assert.ErrorIs(t, err, ErrTooFewSamples)
}

func TestDescribe_RoundsOnce(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       []float64
		mean, sd string
	}{
		{[]float64{0.1, 0.2, 0.3}, "0.2", "0.09999999999999999"},
		{[]float64{0.1, 0.7, 0.3}, "0.36666666666666664", "0.30550504633038933"},
		{[]float64{1.1, 2.2, 3.3, 4.4}, "2.75", "1.4200938936093863"},
		{[]float64{1300, 2700, 2100}, "2033.3333333333333", "702.3769168568492"},
		{[]float64{1000, 3000}, "2000.0", "1414.213562373095"},
	}
	for _, tt := range tests {
		stats, err := Describe(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.mean, FormatFloat(stats.Mean), "mean of %v", tt.in)
		assert.Equal(t, tt.sd, FormatFloat(stats.StdDev), "stddev of %v", tt.in)
	}

	stats, err := Describe([]float64{1, math.NaN()})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(stats.Mean))
}

func TestTimingQuantile(t *testing.T) {
	t.Parallel()

	timing := Timing{Durations: []float64{30, 10, 20}}
	assert.Equal(t, 10.0, timing.Quantile(0))
	assert.Equal(t, 30.0, timing.Quantile(1))
	assert.Equal(t, []float64{30, 10, 20}, timing.Durations, "quantile must not reorder durations")

	assert.Equal(t, 7.0, Timing{Durations: []float64{7}}.Quantile(0.5))
	assert.Equal(t, 0.0, Timing{}.Quantile(0.5))
}

func TestReadScores(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    []float64
		wantErr error
	}{
		{
			name:  "score column among others",
			input: "RUN,REVISION-SCORE,NOTE\na,1.5,x\nb, 2.5 ,y\n",
			want:  []float64{1.5, 2.5},
		},
		{
			name:  "header only",
			input: "REVISION-SCORE\n",
			want:  nil,
		},
		{
			name:    "missing column",
			input:   "SCORE\n1\n",
			wantErr: ErrMissingColumn,
		},
		{
			name:    "short row",
			input:   "RUN,REVISION-SCORE\na\n",
			wantErr: ErrMissingColumn,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: ErrMissingHeader,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ReadScores(strings.NewReader(tt.input), "REVISION-SCORE")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadScores_BadNumber(t *testing.T) {
	t.Parallel()

	_, err := ReadScores(strings.NewReader("REVISION-SCORE\n1.0\nabc\n"), "REVISION-SCORE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestParseMicros(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want float64
	}{
		{"PT0.001S", 1000},
		{"PT0.0013S", 1300},
		{"PT0.0027S", 2700},
		{"PT1.5S", 1.5e6},
		{"PT1M", 60e6},
		{"PT1H2M", 3720e6},
		{"P1W", 7 * 86400e6},
		{"PT0.0000025S", 2},
		{"PT0.0000035S", 4},
	}
	for _, tt := range tests {
		got, err := ParseMicros(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseMicros("1.5 seconds")
	assert.Error(t, err)

	for _, in := range []string{"P1Y", "P1M", "P1Y2M3D", "P0.5M"} {
		_, err := ParseMicros(in)
		assert.ErrorIs(t, err, ErrCalendarDuration, in)
	}
}

func TestParseUnit(t *testing.T) {
	t.Parallel()

	u, err := ParseUnit("")
	require.NoError(t, err)
	assert.Equal(t, Microseconds, u)

	for _, unit := range Units() {
		got, err := ParseUnit(string(unit))
		require.NoError(t, err)
		assert.Equal(t, unit, got)
	}

	_, err = ParseUnit("fortnights")
	assert.Error(t, err)

	assert.Equal(t, 1500.0, Microseconds.FromMicros(1500))
	assert.Equal(t, 1.5, Milliseconds.FromMicros(1500))
	assert.Equal(t, 1.5e6, Nanoseconds.FromMicros(1500))
	assert.Equal(t, 2.0, Seconds.FromMicros(2e6))
	assert.Equal(t, 1500.0, ISO.FromMicros(1500))
	assert.Equal(t, Microseconds, ISO.Scale())
	assert.Equal(t, Seconds, Seconds.Scale())
}

func TestUnitFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1500.0", Microseconds.Format(1500))
	assert.Equal(t, "1.5", Milliseconds.Format(1.5))
	assert.Equal(t, "PT0.0015S", ISO.Format(1500))
	assert.Equal(t, "PT1M30S", ISO.Format(90e6))
	assert.Equal(t, "PT0S", ISO.Format(0))
	assert.Equal(t, "PT0.002033333S", ISO.Format(2033.3333333333333))
}

func TestReadTiming(t *testing.T) {
	t.Parallel()
	opts := DefaultOptions()

	t.Run("status good when no row is flagged false", func(t *testing.T) {
		t.Parallel()
		input := "id,valid,a,b\n1,true,PT0.001S,PT0.003S\n2,FALSE,DNF,\n3,,PT0.002S,\n"
		timing, err := ReadTiming(strings.NewReader(input), opts)
		require.NoError(t, err)
		assert.False(t, timing.Invalid)
		assert.Equal(t, StatusGood, timing.Status())
		assert.Equal(t, 1, timing.DNF)
		require.NotNil(t, timing.Stats)
		assert.Equal(t, 3, timing.Stats.Count)
		assert.InDelta(t, 2000, timing.Stats.Mean, 1e-6)
	})

	t.Run("status bad regardless of position", func(t *testing.T) {
		t.Parallel()
		for _, input := range []string{
			"h\n1,false\n2,true,PT1S,PT2S\n",
			"h\n1,true,PT1S,PT2S\n2,false\n",
		} {
			timing, err := ReadTiming(strings.NewReader(input), opts)
			require.NoError(t, err)
			assert.Equal(t, StatusBad, timing.Status(), input)
		}
	})

	t.Run("cells of invalid rows are not read", func(t *testing.T) {
		t.Parallel()
		input := "h\n1,false,DNF,not-a-duration\n2,true,PT1S,PT3S\n"
		timing, err := ReadTiming(strings.NewReader(input), opts)
		require.NoError(t, err)
		assert.True(t, timing.Invalid)
		assert.Equal(t, 0, timing.DNF)
		assert.Len(t, timing.Durations, 2)
	})

	t.Run("only DNF and empty cells", func(t *testing.T) {
		t.Parallel()
		timing, err := ReadTiming(strings.NewReader("h\n1,true,DNF,,DNF\n"), opts)
		require.NoError(t, err)
		assert.Equal(t, 2, timing.DNF)
		assert.Nil(t, timing.Stats)
		assert.Empty(t, timing.Durations)
	})

	t.Run("single finished attempt", func(t *testing.T) {
		t.Parallel()
		_, err := ReadTiming(strings.NewReader("h\n1,true,PT0.001S,DNF,\n"), opts)
		assert.ErrorIs(t, err, ErrTooFewSamples)
	})

	t.Run("header is discarded unread", func(t *testing.T) {
		t.Parallel()
		timing, err := ReadTiming(strings.NewReader("x,false,garbage\n"), opts)
		require.NoError(t, err)
		assert.False(t, timing.Invalid)
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()
		_, err := ReadTiming(strings.NewReader(""), opts)
		assert.ErrorIs(t, err, ErrMissingHeader)

		_, err = ReadTiming(strings.NewReader("h\nonly-id\n"), opts)
		assert.ErrorIs(t, err, ErrShortRow)

		_, err = ReadTiming(strings.NewReader("h\n1,true,P1M\n"), opts)
		assert.ErrorIs(t, err, ErrCalendarDuration)

		_, err = ReadTiming(strings.NewReader("h\n1,true,1.5s\n"), opts)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 1, column 2")
	})
}

func TestReadTiming_BlankLines(t *testing.T) {
	t.Parallel()
	opts := DefaultOptions()

	for _, input := range []string{
		"h\n\n1,true,PT1S,PT2S\n",
		"h\n1,true,PT1S,PT2S\n\n",
		"h\n1,true,PT1S,PT2S\r\n\r\n2,true,PT3S\r\n",
		"\nh\n1,true,PT1S,PT2S\n",
	} {
		_, err := ReadTiming(strings.NewReader(input), opts)
		require.ErrorIs(t, err, ErrShortRow, "%q", input)
		assert.Contains(t, err.Error(), "blank line", "%q", input)
	}

	for _, input := range []string{
		"h\n1,true,PT1S,PT2S",
		"h\r\n1,true,PT1S,PT2S\r\n",
		"h\n\"r\n1\",true,PT1S\n2,true,PT2S\n",
	} {
		timing, err := ReadTiming(strings.NewReader(input), opts)
		require.NoError(t, err, "%q", input)
		assert.Len(t, timing.Durations, 2, "%q", input)
	}
}

func TestSummarize_WithoutTimes(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "case-revision.csv", "REVISION-SCORE", "1.0", "2.0", "3.0")

	s, err := Summarize(filepath.Join(dir, "case"), "my label", DefaultOptions())
	require.NoError(t, err)
	assert.Nil(t, s.Timing)
	assert.Equal(t, StatusUnknown, s.Status())
	assert.Equal(t, "my label, 2.0, 1.0, ???, ???, ???, ???", s.Line(Microseconds))
}

func TestSummarize_WithTimes(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "case-revision.csv", "REVISION-SCORE", "1.0", "2.0", "3.0")
	writeFile(t, dir, "case-times.csv", "ID,OK,T1,T2,T3", "r1,true,PT0.001S,DNF,", "r2,true,PT0.003S,,")

	s, err := Summarize(filepath.Join(dir, "case"), "lbl", DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, s.Timing)

	want := "lbl, 2.0, 1.0, good, 1, 2000.0, " + FormatFloat(math.Sqrt(2e6))
	assert.Equal(t, want, s.Line(Microseconds))
	assert.Equal(t, "lbl, 2.0, 1.0, good, 1, 2.0, "+FormatFloat(Milliseconds.FromMicros(math.Sqrt(2e6))), s.Line(Milliseconds))
}

func TestSummarize_MatchesPipeline(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "case-revision.csv", "REVISION-SCORE", "0.1", "0.7", "0.3")
	writeFile(t, dir, "case-times.csv", "ID,OK,T1,T2", "r1,true,PT0.0013S,DNF", "r2,true,PT0.0027S,", "r3,true,,PT0.0021S")

	s, err := Summarize(filepath.Join(dir, "case"), "pipeline", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []float64{1300, 2700, 2100}, s.Timing.Durations)
	assert.Equal(t,
		"pipeline, 0.36666666666666664, 0.30550504633038933, good, 1, 2033.3333333333333, 702.3769168568492",
		s.Line(Microseconds))
	assert.Equal(t,
		"pipeline, 0.36666666666666664, 0.30550504633038933, good, 1, PT0.002033333S, PT0.000702377S",
		s.Line(ISO))

	writeFile(t, dir, "even-revision.csv", "REVISION-SCORE", "0.1", "0.2", "0.3")
	s, err = Summarize(filepath.Join(dir, "even"), "even", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "even, 0.2, 0.09999999999999999, ???, ???, ???, ???", s.Line(Microseconds))
}

func TestSummarize_AllDNF(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "case-revision.csv", "REVISION-SCORE", "1", "3")
	writeFile(t, dir, "case-times.csv", "ID,OK,T1", "r1,false,DNF", "r2,true,DNF")

	s, err := Summarize(filepath.Join(dir, "case"), "lbl", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "lbl, 2.0, "+FormatFloat(math.Sqrt2)+", bad, 1, DNF, DNF", s.Line(Microseconds))
}

func TestSummarize_TimesDirectoryIsIgnored(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "case-revision.csv", "REVISION-SCORE", "1", "2", "3")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "case-times.csv"), 0o755))

	s, err := Summarize(filepath.Join(dir, "case"), "lbl", DefaultOptions())
	require.NoError(t, err)
	assert.Nil(t, s.Timing)
}

func TestSummarize_Errors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	_, err := Summarize(filepath.Join(dir, "missing"), "lbl", DefaultOptions())
	assert.ErrorIs(t, err, fs.ErrNotExist)

	writeFile(t, dir, "one-revision.csv", "REVISION-SCORE", "1.0")
	writeFile(t, dir, "one-times.csv", "h", "1,true,PT1S,PT2S")
	_, err = Summarize(filepath.Join(dir, "one"), "lbl", DefaultOptions())
	assert.ErrorIs(t, err, ErrTooFewSamples)

	writeFile(t, dir, "bad-revision.csv", "REVISION-SCORE", "1.0", "2.0")
	writeFile(t, dir, "bad-times.csv", "h", "1,true,PT1S,yesterday")
	_, err = Summarize(filepath.Join(dir, "bad"), "lbl", DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad-times.csv")
}

func TestSummarize_CustomOptions(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "run.scores.csv", "SCORE", "4", "6")
	writeFile(t, dir, "run.timing.csv", "h", "1,0,PT1S,skip", "2,1,PT3S,PT5S", "3,1,skip,")

	opts := Options{
		ScoreColumn:    "SCORE",
		RevisionSuffix: ".scores.csv",
		TimesSuffix:    ".timing.csv",
		DNFToken:       "skip",
		InvalidFlag:    "0",
	}
	s, err := Summarize(filepath.Join(dir, "run"), "custom", opts)
	require.NoError(t, err)
	assert.Equal(t, StatusBad, s.Status())
	assert.Equal(t, 1, s.Timing.DNF)
	assert.Equal(t, []float64{3e6, 5e6}, s.Timing.Durations)
	require.NotNil(t, s.Timing.Stats)
	assert.Equal(t, "custom, 5.0, "+FormatFloat(math.Sqrt2)+", bad, 1, 4.0, "+FormatFloat(Seconds.FromMicros(math.Sqrt(2e12))), s.Line(Seconds))
}

func TestFormatFloat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{2, "2.0"},
		{1, "1.0"},
		{0, "0.0"},
		{-3, "-3.0"},
		{1.5, "1.5"},
		{1414.213562373095, "1414.213562373095"},
		{0.2, "0.2"},
		{0.30550504633038933, "0.30550504633038933"},
		{0.36666666666666664, "0.36666666666666664"},
		{0.0001, "0.0001"},
		{0.00001, "1e-05"},
		{1e16, "1e+16"},
		{123456789012345.0, "123456789012345.0"},
		{math.NaN(), "nan"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFloat(tt.in))
	}
}
