package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestViewPlain(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "report.json")
	content := `{
  "a.py": {
    "Missing return statement": 2
  },
  "b.py": {
    "Incompatible types": 1
  }
}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(rootCmd, "view", "--plain", path)
	if err != nil {
		t.Fatalf("view: %v", err)
	}

	for _, want := range []string{
		"a.py",
		"Missing return statement",
		"b.py",
		"Files: 2  Total errors: 3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q, got:\n%s", want, out)
		}
	}
}

func TestViewMissingFile(t *testing.T) {
	isolate(t)

	_, err := executeCommand(rootCmd, "view", "--plain", filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected an error for a missing report file, got nil")
	}
}
