// cmd/runsummary/list_commands.go
package runsummary

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mwiater/runsummary/internal/report"
	"github.com/mwiater/runsummary/internal/summary"
)

// commandsCmd implements 'list commands', which prints the available
// commands and subcommands in a hierarchical, indented, two-column format.
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List all commands and subcommands in two columns",
	Long:  `The 'commands' subcommand lists all commands and subcommands in a hierarchical, indented format, with the command path in the first column and its short description in the second column.`,
	Run: func(cmd *cobra.Command, args []string) {
		listAllCommands(cmd.OutOrStdout(), rootCmd)
	},
}

// unitsCmd implements 'list units'.
var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "List the supported duration units",
	Long:  `The 'units' subcommand lists the values accepted by --unit and the unit config key.`,
	Run: func(cmd *cobra.Command, args []string) {
		for _, u := range summary.Units() {
			fmt.Fprintln(cmd.OutOrStdout(), u)
		}
	},
}

// formatsCmd implements 'list formats'.
var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the supported output formats",
	Long:  `The 'formats' subcommand lists the values accepted by --format and the format config key.`,
	Run: func(cmd *cobra.Command, args []string) {
		for _, f := range report.Formats() {
			fmt.Fprintln(cmd.OutOrStdout(), f)
		}
	},
}

func init() {
	listCmd.AddCommand(commandsCmd, unitsCmd, formatsCmd)
}

// listAllCommands recursively traverses the command tree starting from root
// and prints each command path and short description in a padded, two-column layout.
func listAllCommands(w io.Writer, root *cobra.Command) {
	commandData := collectCommandData(root, "", "")

	maxPathLength := 0
	for _, data := range commandData {
		if len(data.path) > maxPathLength {
			maxPathLength = len(data.path)
		}
	}

	fmt.Fprintln(w, "Commands and Subcommands:")
	for _, data := range commandData {
		fmt.Fprintf(w, "  %s%s%s\n", data.path, strings.Repeat(" ", maxPathLength-len(data.path)+2), data.description)
	}
}

type commandInfo struct {
	path        string
	description string
}

// collectCommandData walks the command tree and returns a flattened slice of
// path/description pairs. Unavailable commands such as 'help' are skipped.
func collectCommandData(cmd *cobra.Command, currentPath string, indent string) []commandInfo {
	fullPath := cmd.Name()
	if currentPath != "" {
		fullPath = currentPath + " " + cmd.Name()
	}

	allData := []commandInfo{{path: indent + fullPath, description: cmd.Short}}
	for _, subCmd := range cmd.Commands() {
		if !subCmd.IsAvailableCommand() {
			continue
		}
		allData = append(allData, collectCommandData(subCmd, fullPath, indent+"  ")...)
	}
	return allData
}
