package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Memrise/mypy-json-report/internal/report"
	"github.com/Memrise/mypy-json-report/internal/tui"
)

var plainOutput bool

var viewCmd = &cobra.Command{
	Use:   "view <report.json>",
	Short: "Browse a saved error summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		summary, err := report.LoadSummary(path)
		if err != nil {
			return err
		}

		if plainOutput {
			printSummary(cmd, summary)
			return nil
		}
		return tui.Run(summary, path)
	},
}

// printSummary writes a plain-text rendering of the summary to stdout.
func printSummary(cmd *cobra.Command, summary report.ErrorSummary) {
	out := cmd.OutOrStdout()

	files := make([]string, 0, len(summary))
	for f := range summary {
		files = append(files, f)
	}
	sort.Strings(files)

	total := 0
	for _, file := range files {
		fmt.Fprintf(out, "%s\n", file)

		counts := summary[file]
		messages := make([]string, 0, len(counts))
		for msg := range counts {
			messages = append(messages, msg)
		}
		sort.Strings(messages)
		for _, msg := range messages {
			fmt.Fprintf(out, "  %4d  %s\n", counts[msg], msg)
			total += counts[msg]
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "Files: %d  Total errors: %d\n", len(files), total)
}

func init() {
	viewCmd.Flags().BoolVar(&plainOutput, "plain", false, "plain text output instead of TUI")
	rootCmd.AddCommand(viewCmd)
}
