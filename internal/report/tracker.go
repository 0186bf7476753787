package report

import (
	"github.com/Memrise/mypy-json-report/internal/exitcode"
	"github.com/Memrise/mypy-json-report/internal/mypy"
)

// DiffReport is the outcome of reconciling one run against a baseline.
type DiffReport struct {
	// ErrorLines holds the raw diagnostic lines surfaced as evidence for
	// errors judged new, in the order they were encountered.
	ErrorLines []string

	TotalErrors    int
	NumNewErrors   int
	NumFixedErrors int
}

// ChangeReportWriter renders a completed DiffReport for the user.
type ChangeReportWriter interface {
	WriteReport(diff DiffReport) error
}

// ChangeTracker compares the current mypy run against a previously saved
// summary, counting errors that are new relative to the baseline and errors
// that have been fixed since it was taken.
//
// Matching is by message text only, not line number: when a new message
// occurs several times in a file we cannot know which occurrence is the new
// one, so every occurrence is surfaced as evidence. Notes sharing a line
// with an error are kept as context even though they don't count.
type ChangeTracker struct {
	baseline ErrorSummary
	writer   ChangeReportWriter

	// seen records files the current run produced messages for, so that
	// baseline files never seen can be credited as fully fixed at the end.
	// The baseline itself is never mutated.
	seen map[string]bool

	errorLines     []string
	numErrors      int
	numNewErrors   int
	numFixedErrors int
}

// NewChangeTracker returns a ChangeTracker comparing against baseline.
// The tracker takes no ownership of baseline and leaves it unchanged.
func NewChangeTracker(baseline ErrorSummary, writer ChangeReportWriter) *ChangeTracker {
	return &ChangeTracker{
		baseline: baseline,
		writer:   writer,
		seen:     map[string]bool{},
	}
}

// ProcessMessages reconciles one file's batch against the baseline entry for
// that file.
func (t *ChangeTracker) ProcessMessages(filename string, messages []mypy.Message) {
	frequencies := map[string]int{}
	ordered := []string{} // distinct error texts, first-occurrence order
	lineNumbersByError := map[string][]int{}
	rawByLineNumber := map[int][]string{}

	for _, m := range messages {
		if m.Severity == "error" {
			t.numErrors++
			if frequencies[m.Text] == 0 {
				ordered = append(ordered, m.Text)
			}
			frequencies[m.Text]++
			lineNumbersByError[m.Text] = append(lineNumbersByError[m.Text], m.LineNumber)
		}
		rawByLineNumber[m.LineNumber] = append(rawByLineNumber[m.LineNumber], m.Raw)
	}

	old := t.baseline[filename]
	t.seen[filename] = true

	// Multiset difference: current minus baseline. Every occurrence of a new
	// message is surfaced, and a consumed line is emitted only once even if
	// two new messages share it.
	for _, text := range ordered {
		residual := frequencies[text] - old[text]
		if residual <= 0 {
			continue
		}
		t.numNewErrors += residual
		for _, lineNumber := range lineNumbersByError[text] {
			if raws, ok := rawByLineNumber[lineNumber]; ok {
				t.errorLines = append(t.errorLines, raws...)
				delete(rawByLineNumber, lineNumber)
			}
		}
	}

	// The complementary difference: baseline minus current.
	for text, count := range old {
		if residual := count - frequencies[text]; residual > 0 {
			t.numFixedErrors += residual
		}
	}
}

// Diff materializes the final report. Baseline files the current run never
// mentioned have all their errors credited as fixed.
func (t *ChangeTracker) Diff() DiffReport {
	unseen := 0
	for filename, counts := range t.baseline {
		if t.seen[filename] {
			continue
		}
		for _, count := range counts {
			unseen += count
		}
	}
	return DiffReport{
		ErrorLines:     t.errorLines,
		TotalErrors:    t.numErrors,
		NumNewErrors:   t.numNewErrors,
		NumFixedErrors: t.numFixedErrors + unseen,
	}
}

// WriteReport renders the diff and maps its outcome to an exit code: any new
// or fixed errors mean the saved report is stale and the run fails.
func (t *ChangeTracker) WriteReport() (exitcode.Code, error) {
	diff := t.Diff()
	if err := t.writer.WriteReport(diff); err != nil {
		return exitcode.UncaughtError, err
	}
	if diff.NumNewErrors > 0 || diff.NumFixedErrors > 0 {
		return exitcode.ErrorDiff, nil
	}
	return exitcode.Success, nil
}
