// Package render formats completed diff reports for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/Memrise/mypy-json-report/internal/report"
)

// DefaultChangeReportWriter writes a diff report without color.
type DefaultChangeReportWriter struct {
	out io.Writer
}

// NewDefaultChangeReportWriter returns a plain-text writer targeting out.
func NewDefaultChangeReportWriter(out io.Writer) *DefaultChangeReportWriter {
	return &DefaultChangeReportWriter{out: out}
}

func (w *DefaultChangeReportWriter) WriteReport(diff report.DiffReport) error {
	if len(diff.ErrorLines) > 0 {
		if _, err := fmt.Fprintf(w.out, "%s\n\n", strings.Join(diff.ErrorLines, "\n")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w.out, "Fixed errors: %d\nNew errors: %d\nTotal errors: %d\n",
		diff.NumFixedErrors, diff.NumNewErrors, diff.TotalErrors)
	return err
}

var (
	boldColor       = color.New(color.Bold)
	boldRedColor    = color.New(color.FgRed, color.Bold)
	boldYellowColor = color.New(color.FgYellow, color.Bold)
	greenColor      = color.New(color.FgGreen)
	yellowColor     = color.New(color.FgYellow)
	blueColor       = color.New(color.FgBlue)
)

// ColorChangeReportWriter writes a diff report with ANSI colors, highlighting
// the severity keyword, quoted fragments of the message and any trailing
// mypy error-code suffix. Lines that don't look like diagnostics pass
// through unchanged.
//
// Inspired by the FancyFormatter in mypy.util.
type ColorChangeReportWriter struct {
	out io.Writer
}

// NewColorChangeReportWriter returns a colorizing writer targeting out.
func NewColorChangeReportWriter(out io.Writer) *ColorChangeReportWriter {
	return &ColorChangeReportWriter{out: out}
}

func (w *ColorChangeReportWriter) WriteReport(diff report.DiffReport) error {
	if len(diff.ErrorLines) > 0 {
		formatted := make([]string, len(diff.ErrorLines))
		for i, line := range diff.ErrorLines {
			formatted[i] = w.formatLine(line)
		}
		if _, err := fmt.Fprintf(w.out, "%s\n\n", strings.Join(formatted, "\n")); err != nil {
			return err
		}
	}

	fixedColor := greenColor
	if diff.NumFixedErrors > 0 {
		fixedColor = boldYellowColor
	}
	newColor := greenColor
	if diff.NumNewErrors > 0 {
		newColor = boldRedColor
	}

	if _, err := fixedColor.Fprintf(w.out, "Fixed errors: %d\n", diff.NumFixedErrors); err != nil {
		return err
	}
	if _, err := newColor.Fprintf(w.out, "New errors: %d\n", diff.NumNewErrors); err != nil {
		return err
	}
	_, err := boldColor.Fprintf(w.out, "Total errors: %d\n", diff.TotalErrors)
	return err
}

// formatLine colorizes one diagnostic line, or returns it unchanged when it
// doesn't match the expected shape.
func (w *ColorChangeReportWriter) formatLine(line string) string {
	if strings.Contains(line, ": error: ") {
		location, message, _ := strings.Cut(line, " error: ")

		// Split a trailing "  [error-code]" off the message so it can be
		// colored separately.
		code := ""
		if strings.HasSuffix(message, "]") {
			if i := strings.LastIndex(message, "  ["); i >= 0 {
				code = yellowColor.Sprint(message[i:])
				message = message[:i]
			}
		}

		return location + boldRedColor.Sprint(" error: ") + highlightQuotes(message) + code
	}
	if strings.Contains(line, ": note: ") {
		location, message, _ := strings.Cut(line, " note: ")
		return location + blueColor.Sprint(" note: ") + highlightQuotes(message)
	}
	return line
}

// highlightQuotes emboldens double-quoted fragments. Messages with an odd
// number of quotes are ambiguous and returned as-is.
func highlightQuotes(message string) string {
	if strings.Count(message, `"`)%2 != 0 {
		return message
	}
	parts := strings.Split(message, `"`)
	var sb strings.Builder
	for i, part := range parts {
		if i%2 == 0 {
			sb.WriteString(part)
		} else {
			sb.WriteString(boldColor.Sprint(`"` + part + `"`))
		}
	}
	return sb.String()
}
