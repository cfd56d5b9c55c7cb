// cmd/runsummary/settings.go
package runsummary

import (
	"io"
	"log"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/runsummary/internal/config"
	"github.com/mwiater/runsummary/internal/report"
	"github.com/mwiater/runsummary/internal/summary"
)

// cfgFile holds the --config flag.
var cfgFile string

// logger only writes when --debug is set.
var logger = log.New(io.Discard, "runsummary: ", 0)

// boundKeys are the settings that can be overridden by a flag of the same name.
var boundKeys = []string{config.KeyUnit, config.KeyFormat, config.KeyDebug}

// loadSettings resolves defaults, the --config file and flags for cmd.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	v := viper.New()
	for _, key := range boundKeys {
		if f := cmd.Flags().Lookup(key); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return config.Settings{}, err
			}
		}
	}

	s, err := config.Load(v, cfgFile)
	if err != nil {
		return config.Settings{}, err
	}

	if s.Debug {
		logger.SetOutput(cmd.ErrOrStderr())
		dump(cmd, s)
	} else {
		logger.SetOutput(io.Discard)
	}
	return s, nil
}

// outputSettings parses the unit and format of s.
func outputSettings(s config.Settings) (summary.Unit, report.Format, error) {
	unit, err := s.DurationUnit()
	if err != nil {
		return "", "", err
	}
	format, err := report.ParseFormat(s.Format)
	if err != nil {
		return "", "", err
	}
	return unit, format, nil
}

// dump pretty-prints values to stderr when debugging.
func dump(cmd *cobra.Command, values ...any) {
	if logger.Writer() == io.Discard {
		return
	}
	pp.Fprintln(cmd.ErrOrStderr(), values...)
}
