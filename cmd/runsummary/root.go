// cmd/runsummary/root.go
package runsummary

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mwiater/runsummary/internal/report"
	"github.com/mwiater/runsummary/internal/summary"
)

var summarize = summary.Summarize

// rootCmd summarizes a single benchmark prefix. All subcommands are attached
// to it to form the complete CLI.
var rootCmd = &cobra.Command{
	Use:   "runsummary <prefix> <label>",
	Short: "Summarize revision scores and run times of a benchmark prefix",
	Long: `runsummary reads <prefix>-revision.csv and, if present, <prefix>-times.csv and prints one line:

  label, mean score, stdev score, status, DNF count, mean duration, stdev duration

Durations are reported in microseconds unless --unit says otherwise. Without a
times file the four timing fields are printed as ???.`,
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		unit, format, err := outputSettings(s)
		if err != nil {
			return err
		}

		logger.Printf("summarizing %s", args[0])
		sum, err := summarize(args[0], args[1], s.Options())
		if err != nil {
			return err
		}
		dump(cmd, sum)

		return report.Render(cmd.OutOrStdout(), format, unit, []summary.Summary{sum})
	},
}

// Execute runs the root Cobra command and all registered subcommands.
// It prints any returned error and exits the process with a non-zero
// status code on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (JSON, YAML or TOML)")
	flags.Bool("debug", false, "log progress and dump settings and summaries to stderr")
	flags.StringP("unit", "u", "", fmt.Sprintf("duration unit, one of %v (default microseconds)", summary.Units()))
	flags.StringP("format", "f", "", fmt.Sprintf("output format, one of %v (default line)", report.Formats()))
}
