// cmd/runsummary/browse.go
package runsummary

import (
	"github.com/spf13/cobra"

	"github.com/mwiater/runsummary/internal/browse"
	"github.com/mwiater/runsummary/internal/report"
	"github.com/mwiater/runsummary/internal/summary"
)

var runBrowser = browse.Run

// browseCmd represents the 'browse' command.
var browseCmd = &cobra.Command{
	Use:   "browse <dir>",
	Short: "Browse the summaries of a directory interactively",
	Long:  `The 'browse' command summarizes every <prefix>-revision.csv in a directory and shows the results in an interactive table. Press enter for details of the selected run and q to quit.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		unit, err := s.DurationUnit()
		if err != nil {
			return err
		}

		dir := args[0]
		load := func() ([]summary.Summary, error) {
			targets, err := report.Discover(dir, s.RevisionSuffix)
			if err != nil {
				return nil, err
			}
			return report.Collect(targets, s.Options())
		}
		return runBrowser(load, unit, s.Debug)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
