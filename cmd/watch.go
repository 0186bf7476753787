package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/Memrise/mypy-json-report/internal/render"
	"github.com/Memrise/mypy-json-report/internal/report"
)

var (
	watchIndentation   int
	watchDiffOldReport string
	watchColor         bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-parse a mypy output file whenever it changes",
	Long: `Watch a file containing mypy output and re-run the parse on every change.

Useful alongside an editor or a mypy --output loop: the summary is printed
to stdout on each run, and with --diff-old-report the diff against the
baseline is printed to stderr. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		indentation := watchIndentation
		if !cmd.Flags().Changed("indentation") {
			indentation = cfg.Indentation
		}

		runOnce := func() error {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening mypy output: %w", err)
			}
			defer f.Close()

			out := cmd.OutOrStdout()
			write := func(data []byte) error {
				_, err := out.Write(data)
				return err
			}
			processors := []report.Processor{
				report.NewErrorCounter(write, indentation),
			}
			if watchDiffOldReport != "" {
				// Reload the baseline every run so edits to it take effect.
				baseline, err := report.LoadSummary(watchDiffOldReport)
				if err != nil {
					return err
				}
				var writer report.ChangeReportWriter
				if colorEnabled(cmd.Flags().Changed("color"), watchColor) {
					writer = render.NewColorChangeReportWriter(cmd.ErrOrStderr())
				} else {
					writer = render.NewDefaultChangeReportWriter(cmd.ErrOrStderr())
				}
				processors = append(processors, report.NewChangeTracker(baseline, writer))
			}

			// The exit code is irrelevant while watching; only a parse or
			// I/O failure aborts the loop.
			_, err = report.ParseMessageLines(processors, f)
			return err
		}

		if err := runOnce(); err != nil {
			return err
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		defer watcher.Close()

		// Watch the directory, not the file: editors and redirections often
		// replace the file, which would silently drop a file-level watch.
		dir := filepath.Dir(path)
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		target, err := filepath.Abs(path)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		for {
			select {
			case <-ctx.Done():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				name, err := filepath.Abs(event.Name)
				if err != nil || name != target {
					continue
				}
				if err := runOnce(); err != nil {
					// Report and keep watching; the next write may parse.
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				// Watcher errors are non-fatal; continue watching.
			}
		}
	},
}

func init() {
	watchCmd.Flags().IntVarP(&watchIndentation, "indentation", "i", 2, "Number of spaces to indent JSON output")
	watchCmd.Flags().StringVarP(&watchDiffOldReport, "diff-old-report", "d", "", "An old report to compare against on every run")
	watchCmd.Flags().BoolVarP(&watchColor, "color", "c", false, "Whether to colorize the diff-report output")
	rootCmd.AddCommand(watchCmd)
}
