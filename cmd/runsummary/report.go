// cmd/runsummary/report.go
package runsummary

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mwiater/runsummary/internal/config"
	"github.com/mwiater/runsummary/internal/report"
)

// reportDir holds the --dir flag of 'report'.
var reportDir string

// reportCmd implements 'report', which summarizes several prefixes at once.
var reportCmd = &cobra.Command{
	Use:   "report [prefix[=label]...]",
	Short: "Summarize several benchmark prefixes",
	Long: `The 'report' command summarizes every prefix given as an argument and, with --dir, every
<prefix>-revision.csv found in a directory. Arguments take the form prefix=label; a bare prefix is
labelled with its base name. Summaries are printed in argument order, followed by discovered ones.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		unit, format, err := outputSettings(s)
		if err != nil {
			return err
		}

		targets, err := resolveTargets(args, reportDir, s)
		if err != nil {
			return err
		}

		logger.Printf("summarizing %d targets", len(targets))
		sums, err := report.Collect(targets, s.Options())
		if err != nil {
			return err
		}
		dump(cmd, sums)

		return report.Render(cmd.OutOrStdout(), format, unit, sums)
	},
}

// resolveTargets parses args and appends the prefixes discovered in dir.
func resolveTargets(args []string, dir string, s config.Settings) ([]report.Target, error) {
	targets, err := report.ParseTargets(args)
	if err != nil {
		return nil, err
	}
	if dir != "" {
		found, err := report.Discover(dir, s.RevisionSuffix)
		if err != nil {
			return nil, err
		}
		logger.Printf("found %d prefixes in %s", len(found), dir)
		targets = append(targets, found...)
	}
	if len(targets) == 0 {
		return nil, errors.New("no prefixes given; pass prefixes as arguments or use --dir")
	}
	return targets, nil
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&reportDir, "dir", "d", "", "summarize every prefix in this directory")
}
