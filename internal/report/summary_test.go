package report

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRenderSortsKeysAndEndsWithNewline(t *testing.T) {
	s := ErrorSummary{
		"z.py": {"zed": 1},
		"a.py": {"beta": 2, "alpha": 1},
	}

	data, err := s.Render(4)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := string(data)

	if !strings.HasSuffix(out, "}\n") || strings.HasSuffix(out, "\n\n") {
		t.Errorf("output must end with exactly one newline, got %q", out)
	}
	if strings.Index(out, "a.py") > strings.Index(out, "z.py") {
		t.Errorf("file keys must be sorted:\n%s", out)
	}
	if strings.Index(out, "alpha") > strings.Index(out, "beta") {
		t.Errorf("message keys must be sorted:\n%s", out)
	}
	if !strings.Contains(out, "\n    \"a.py\"") {
		t.Errorf("expected 4-space indentation:\n%s", out)
	}
}

func TestLoadSummary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")
	content := `{"a.py": {"bad type": 2}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	summary, err := LoadSummary(path)
	if err != nil {
		t.Fatalf("LoadSummary: %v", err)
	}
	want := ErrorSummary{"a.py": {"bad type": 2}}
	if !reflect.DeepEqual(summary, want) {
		t.Errorf("LoadSummary: want %v, got %v", want, summary)
	}
}

func TestLoadSummaryErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"not json", "definitely not json"},
		{"wrong shape", `{"a.py": ["bad type"]}`},
		{"wrong value type", `{"a.py": {"bad type": "two"}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "report.json")
			if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadSummary(path)
			if err == nil {
				t.Fatalf("expected an error for %q, got nil", tc.content)
			}
			if !strings.Contains(err.Error(), "failed to parse old report") {
				t.Errorf("expected a descriptive parse error, got: %v", err)
			}
		})
	}
}

func TestLoadSummaryMissingFile(t *testing.T) {
	_, err := LoadSummary(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected an error for a missing baseline file, got nil")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	if err := WriteFileAtomic(path, []byte("{}\n")); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{}\n" {
		t.Errorf("want %q, got %q", "{}\n", data)
	}

	// Overwrites must replace the previous content.
	if err := WriteFileAtomic(path, []byte(`{"a.py":{}}`+"\n")); err != nil {
		t.Fatalf("WriteFileAtomic (overwrite): %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != `{"a.py":{}}`+"\n" {
		t.Errorf("overwrite failed, got %q", data)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the output file in %s, found %d entries", dir, len(entries))
	}
}

func TestWriteFileAtomicUnwritableDestination(t *testing.T) {
	err := WriteFileAtomic(filepath.Join(t.TempDir(), "missing-dir", "out.json"), []byte("{}"))
	if err == nil {
		t.Fatal("expected an error for an unwritable destination, got nil")
	}
}
