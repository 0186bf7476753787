package report

import (
	"github.com/Memrise/mypy-json-report/internal/exitcode"
	"github.com/Memrise/mypy-json-report/internal/mypy"
)

// WriteFunc delivers a rendered report to its destination (stdout, a file).
type WriteFunc func(data []byte) error

// ErrorCounter accumulates a per-file frequency table of mypy error messages
// and writes it as a JSON summary.
type ErrorCounter struct {
	grouped     ErrorSummary
	write       WriteFunc
	indentation int
}

// NewErrorCounter returns an ErrorCounter that renders its summary with the
// given indentation and delivers it through write.
func NewErrorCounter(write WriteFunc, indentation int) *ErrorCounter {
	return &ErrorCounter{
		grouped:     ErrorSummary{},
		write:       write,
		indentation: indentation,
	}
}

// ProcessMessages counts the error-severity messages in one file's batch.
// Messages match by exact text; files with no errors are left out of the
// summary entirely.
func (c *ErrorCounter) ProcessMessages(filename string, messages []mypy.Message) {
	counts := map[string]int{}
	for _, m := range messages {
		if m.Severity == "error" {
			counts[m.Text]++
		}
	}
	if len(counts) > 0 {
		c.grouped[filename] = counts
	}
}

// Summary returns the accumulated frequency tables.
func (c *ErrorCounter) Summary() ErrorSummary {
	return c.grouped
}

// WriteReport renders the summary JSON and delivers it.
func (c *ErrorCounter) WriteReport() (exitcode.Code, error) {
	data, err := c.grouped.Render(c.indentation)
	if err != nil {
		return exitcode.UncaughtError, err
	}
	if err := c.write(data); err != nil {
		return exitcode.UncaughtError, err
	}
	return exitcode.Success, nil
}
