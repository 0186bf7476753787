package report

import (
	"encoding/json"
	"fmt"
	"reflect"
	"testing"

	"pgregory.net/rapid"

	"github.com/Memrise/mypy-json-report/internal/exitcode"
	"github.com/Memrise/mypy-json-report/internal/mypy"
)

// msg builds a mypy.Message the way ParseLine would.
func msg(filename string, lineNumber int, severity, text string) mypy.Message {
	return mypy.Message{
		Filename:   filename,
		LineNumber: lineNumber,
		Severity:   severity,
		Text:       text,
		Raw:        fmt.Sprintf("%s:%d: %s: %s", filename, lineNumber, severity, text),
	}
}

// discard is a WriteFunc for tests that don't care about the rendered output.
func discard([]byte) error { return nil }

func TestErrorCounterCountsOnlyErrors(t *testing.T) {
	c := NewErrorCounter(discard, 2)
	c.ProcessMessages("a.py", []mypy.Message{
		msg("a.py", 1, "error", "Missing return statement"),
		msg("a.py", 2, "note", "See docs"),
		msg("a.py", 3, "error", "Missing return statement"),
		msg("a.py", 4, "error", "Unsupported operand type"),
	})

	want := ErrorSummary{
		"a.py": {
			"Missing return statement": 2,
			"Unsupported operand type": 1,
		},
	}
	if !reflect.DeepEqual(c.Summary(), want) {
		t.Errorf("Summary:\n got: %v\nwant: %v", c.Summary(), want)
	}
}

func TestErrorCounterOmitsFilesWithoutErrors(t *testing.T) {
	c := NewErrorCounter(discard, 2)
	c.ProcessMessages("notes.py", []mypy.Message{
		msg("notes.py", 1, "note", "just a note"),
	})

	if len(c.Summary()) != 0 {
		t.Errorf("a file with no errors must not appear in the summary, got: %v", c.Summary())
	}
}

func TestErrorCounterMatchesMessagesExactly(t *testing.T) {
	c := NewErrorCounter(discard, 2)
	c.ProcessMessages("a.py", []mypy.Message{
		msg("a.py", 1, "error", "Missing return statement"),
		msg("a.py", 2, "error", "missing return statement"),
		msg("a.py", 3, "error", "Missing return statement "),
	})

	// Case and whitespace are significant: three distinct keys.
	if got := len(c.Summary()["a.py"]); got != 3 {
		t.Errorf("want 3 distinct messages, got %d: %v", got, c.Summary()["a.py"])
	}
}

func TestErrorCounterWriteReport(t *testing.T) {
	var written []byte
	c := NewErrorCounter(func(data []byte) error {
		written = data
		return nil
	}, 2)

	c.ProcessMessages("b.py", []mypy.Message{
		msg("b.py", 5, "error", "Incompatible types"),
	})
	c.ProcessMessages("a.py", []mypy.Message{
		msg("a.py", 1, "error", "Missing return statement"),
	})

	code, err := c.WriteReport()
	if err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	if code != exitcode.Success {
		t.Fatalf("want exit code %d, got %d", exitcode.Success, code)
	}

	want := `{
  "a.py": {
    "Missing return statement": 1
  },
  "b.py": {
    "Incompatible types": 1
  }
}
`
	if string(written) != want {
		t.Errorf("rendered report:\n got: %q\nwant: %q", written, want)
	}
}

// Feature: mypy-json-report, Property 2: Counting is order-independent and
// survives a serialize/deserialize round trip.
func TestErrorCounterOrderIndependentRoundTrip(t *testing.T) {
	textGen := rapid.StringMatching(`[a-z ]{1,20}`)

	rapid.Check(t, func(t *rapid.T) {
		texts := rapid.SliceOfN(textGen, 1, 30).Draw(t, "texts")

		forward := NewErrorCounter(discard, 2)
		backward := NewErrorCounter(discard, 2)

		batch := make([]mypy.Message, len(texts))
		for i, text := range texts {
			batch[i] = msg("a.py", i+1, "error", text)
		}
		forward.ProcessMessages("a.py", batch)

		reversed := make([]mypy.Message, len(batch))
		for i, m := range batch {
			reversed[len(batch)-1-i] = m
		}
		backward.ProcessMessages("a.py", reversed)

		if !reflect.DeepEqual(forward.Summary(), backward.Summary()) {
			t.Fatalf("counting depended on input order:\n%v\nvs\n%v",
				forward.Summary(), backward.Summary())
		}

		// Serialize, deserialize, compare.
		data, err := forward.Summary().Render(2)
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		var reloaded ErrorSummary
		if err := json.Unmarshal(data, &reloaded); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if !reflect.DeepEqual(reloaded, forward.Summary()) {
			t.Fatalf("round trip changed the summary:\n%v\nvs\n%v",
				reloaded, forward.Summary())
		}
	})
}
