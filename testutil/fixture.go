package testutil

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WordlistFixture is a directory of wordlists shared by pipeline tests
type WordlistFixture struct {
	// Dir holds every fixture file
	Dir string

	// Common is "common.txt": three words with blank lines and padding around them
	Common string

	// Years is "years.txt": 2023, 2024, 2025
	Years string

	// Blank is "blank.txt": whitespace only, so it yields no words
	Blank string

	// Unicode is "unicode.txt": multi-byte words
	Unicode string
}

// fixtureFiles maps file name to raw content
var fixtureFiles = map[string]string{
	"common.txt":  "password\n\n  letmein  \r\nqwerty\n",
	"years.txt":   "2023\n2024\n2025",
	"blank.txt":   "\n   \n\t\n",
	"unicode.txt": "café\nñandú\n",
}

// CommonWords are the words loaded from WordlistFixture.Common, in order
var CommonWords = []string{"password", "letmein", "qwerty"}

// LoadWordlists writes the fixture wordlists into a fresh temp directory
func LoadWordlists(t *testing.T) *WordlistFixture {
	t.Helper()

	dir := t.TempDir()
	for name, content := range fixtureFiles {
		writeFile(t, filepath.Join(dir, name), content)
	}

	return &WordlistFixture{
		Dir:     dir,
		Common:  filepath.Join(dir, "common.txt"),
		Years:   filepath.Join(dir, "years.txt"),
		Blank:   filepath.Join(dir, "blank.txt"),
		Unicode: filepath.Join(dir, "unicode.txt"),
	}
}

// WriteWordlist writes lines, one per line, to dir/name and returns the path
func WriteWordlist(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	writeFile(t, path, strings.Join(lines, "\n")+"\n")
	return path
}

// ReadLines returns the lines of a generated output file. The trailing
// newline after the last record does not produce an extra empty line.
func ReadLines(t *testing.T, path string) []string {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return lines
}

// Combinations is a naive reference enumeration of the product of positions,
// first position varying slowest
func Combinations(positions ...[]string) []string {
	out := []string{""}
	for _, options := range positions {
		next := make([]string, 0, len(out)*len(options))
		for _, prefix := range out {
			for _, opt := range options {
				next = append(next, prefix+opt)
			}
		}
		out = next
	}
	return out
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
