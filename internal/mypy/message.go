// Package mypy parses mypy's line-oriented diagnostic output into
// structured messages.
package mypy

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Message is a single parsed line of mypy output.
type Message struct {
	Filename   string
	LineNumber int
	Severity   string // "error", "note", ...; only "error" counts toward totals
	Text       string // the diagnostic body, excluding location and severity
	Raw        string // the original line, trailing newline stripped
}

// ErrNotDiagnostic is returned by ParseLine for lines that don't follow the
// diagnostic grammar, such as mypy's trailing "Found N errors in M files"
// summary. Callers skip these lines.
var ErrNotDiagnostic = errors.New("not a mypy diagnostic line")

// MissingLineNumberError is returned when a diagnostic names a file but no
// line number. Mypy emits these for file-level problems; the rest of the
// pipeline indexes by line number, so this halts processing rather than
// being skipped.
type MissingLineNumberError struct {
	Raw string
}

func (e *MissingLineNumberError) Error() string {
	return "mypy reported a filename with no line number. " +
		"This usually indicates a file-level issue. " +
		"Please correct it and try again. The mypy output was:\n\n    " + e.Raw
}

// ParseLine parses one line of mypy output into a Message.
//
// The line is split on the first two occurrences of ": " into location,
// severity and message; the message may itself contain ": ". The location is
// either "file:line" or "file:line:column" (the column is discarded).
func ParseLine(line string) (Message, error) {
	raw := strings.TrimRight(line, "\r\n")

	parts := strings.SplitN(strings.TrimSpace(raw), ": ", 3)
	if len(parts) != 3 {
		// Expected for summary lines. Avoidable upstream with
		// --no-error-summary, but tolerated here either way.
		return Message{}, ErrNotDiagnostic
	}
	location, severity, text := parts[0], parts[1], parts[2]

	loc := strings.Split(location, ":")
	if len(loc) < 2 {
		return Message{}, &MissingLineNumberError{Raw: strings.TrimSpace(raw)}
	}
	lineNumber, err := strconv.Atoi(loc[1])
	if err != nil {
		return Message{}, fmt.Errorf("invalid line number in mypy output %q: %w", raw, err)
	}

	return Message{
		Filename:   loc[0],
		LineNumber: lineNumber,
		Severity:   severity,
		Text:       text,
		Raw:        raw,
	}, nil
}

// ParseLines reads mypy output from r and returns the parsed messages.
// Non-diagnostic lines are skipped; any other parse failure aborts and is
// returned to the caller.
func ParseLines(r io.Reader) ([]Message, error) {
	var messages []Message

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		m, err := ParseLine(scanner.Text())
		if err != nil {
			if errors.Is(err, ErrNotDiagnostic) {
				continue
			}
			return nil, err
		}
		messages = append(messages, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading mypy output: %w", err)
	}
	return messages, nil
}
