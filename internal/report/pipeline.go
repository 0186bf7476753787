package report

import (
	"io"
	"sort"

	"github.com/Memrise/mypy-json-report/internal/exitcode"
	"github.com/Memrise/mypy-json-report/internal/mypy"
)

// Processor consumes per-file batches of mypy messages and writes a report
// once all input has been seen.
type Processor interface {
	// ProcessMessages receives every message for one file as a single batch.
	// Each file is presented exactly once.
	ProcessMessages(filename string, messages []mypy.Message)

	// WriteReport emits the processor's final output and reports the exit
	// code the run should finish with.
	WriteReport() (exitcode.Code, error)
}

// ParseMessageLines parses mypy output from r and feeds it through the given
// processors. Messages are grouped by filename before dispatch: mypy does not
// guarantee file-contiguous output, so grouping the raw stream directly would
// split a file across batches.
func ParseMessageLines(processors []Processor, r io.Reader) (exitcode.Code, error) {
	messages, err := mypy.ParseLines(r)
	if err != nil {
		return exitcode.UncaughtError, err
	}

	// Stable sort keeps each file's messages in their original order.
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Filename < messages[j].Filename
	})

	for start := 0; start < len(messages); {
		end := start
		for end < len(messages) && messages[end].Filename == messages[start].Filename {
			end++
		}
		batch := messages[start:end]
		for _, p := range processors {
			p.ProcessMessages(batch[0].Filename, batch)
		}
		start = end
	}

	for _, p := range processors {
		code, err := p.WriteReport()
		if err != nil {
			return code, err
		}
		if code != exitcode.Success {
			return code, nil
		}
	}
	return exitcode.Success, nil
}
