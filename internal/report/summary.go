package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrorSummary maps a file path to a table of error message frequencies.
// It is both the output of a run and the baseline format consumed on the
// next run:
//
//	{
//	    "module/filename.py": {
//	        "Mypy error message": 42,
//	        "Another error message": 19
//	    }
//	}
type ErrorSummary map[string]map[string]int

// Render serializes the summary as key-sorted JSON indented by the given
// number of spaces, terminated by a single newline.
func (s ErrorSummary) Render(indentation int) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", strings.Repeat(" ", indentation))
	if err != nil {
		return nil, fmt.Errorf("marshal error summary: %w", err)
	}
	return append(data, '\n'), nil
}

// LoadSummary reads and parses a previously saved summary JSON file.
func LoadSummary(path string) (ErrorSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read old report: %w", err)
	}
	var summary ErrorSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to parse old report %s: %w", path, err)
	}
	return summary, nil
}

// WriteFileAtomic writes data to path via a temp file + os.Rename so readers
// never observe a partially written report.
func WriteFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up the temp file on any error path.
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
