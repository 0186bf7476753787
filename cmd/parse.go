package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/Memrise/mypy-json-report/internal/exitcode"
	"github.com/Memrise/mypy-json-report/internal/render"
	"github.com/Memrise/mypy-json-report/internal/report"
)

var (
	parseIndentation   int
	parseOutputFile    string
	parseDiffOldReport string
	parseColor         bool
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Transform mypy output (read from stdin) into a JSON error summary",
	Long: `Transform mypy output into JSON.

Reads mypy's output from stdin and writes a summary of error counts,
grouped by file and message, as JSON. With --diff-old-report, the current
errors are also compared against a previously saved summary: new errors are
printed to stderr and the exit code signals whether anything changed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		indentation := parseIndentation
		if !cmd.Flags().Changed("indentation") {
			indentation = cfg.Indentation
		}
		outputFile := parseOutputFile
		if !cmd.Flags().Changed("output-file") {
			outputFile = cfg.OutputFile
		}

		var write report.WriteFunc
		if outputFile != "" {
			write = func(data []byte) error {
				return report.WriteFileAtomic(outputFile, data)
			}
		} else {
			out := cmd.OutOrStdout()
			write = func(data []byte) error {
				_, err := out.Write(data)
				return err
			}
		}

		processors := []report.Processor{
			report.NewErrorCounter(write, indentation),
		}

		// With a baseline to compare against, add the change tracker. Its
		// report goes to stderr so the JSON on stdout stays clean.
		if parseDiffOldReport != "" {
			baseline, err := report.LoadSummary(parseDiffOldReport)
			if err != nil {
				return err
			}
			var writer report.ChangeReportWriter
			if colorEnabled(cmd.Flags().Changed("color"), parseColor) {
				writer = render.NewColorChangeReportWriter(cmd.ErrOrStderr())
			} else {
				writer = render.NewDefaultChangeReportWriter(cmd.ErrOrStderr())
			}
			processors = append(processors, report.NewChangeTracker(baseline, writer))
		}

		code, err := report.ParseMessageLines(processors, cmd.InOrStdin())
		if err != nil {
			return err
		}
		if code != exitcode.Success {
			return &exitError{code: code}
		}
		return nil
	},
}

// colorEnabled decides whether the diff report should be colorized: the
// --color flag wins, then the config value, then whether stderr is a
// terminal.
func colorEnabled(flagChanged, flagValue bool) bool {
	if flagChanged {
		return flagValue
	}
	switch cfg.Color {
	case "always":
		return true
	case "never":
		return false
	}
	return term.IsTerminal(os.Stderr.Fd())
}

func init() {
	parseCmd.Flags().IntVarP(&parseIndentation, "indentation", "i", 2, "Number of spaces to indent JSON output")
	parseCmd.Flags().StringVarP(&parseOutputFile, "output-file", "o", "", "The file to write the JSON report to. If omitted, the report is written to STDOUT")
	parseCmd.Flags().StringVarP(&parseDiffOldReport, "diff-old-report", "d", "",
		fmt.Sprintf(`An old report to compare against. We compare the errors in there to the new report.
Fail with return code %d if we discover any new errors.
New errors are printed to stderr.
Similar errors from the same file are also printed
(because we don't know which error is the new one).
For completeness other hints and errors on the same lines are also printed.`, exitcode.ErrorDiff))
	parseCmd.Flags().BoolVarP(&parseColor, "color", "c", false, "Whether to colorize the diff-report output")
	rootCmd.AddCommand(parseCmd)
}
