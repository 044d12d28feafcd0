package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadWordlists(t *testing.T) {
	fx := LoadWordlists(t)

	for _, path := range []string{fx.Common, fx.Years, fx.Blank, fx.Unicode} {
		if filepath.Dir(path) != fx.Dir {
			t.Errorf("%s is outside the fixture directory %s", path, fx.Dir)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("fixture file missing: %v", err)
		}
	}

	if diff := cmp.Diff([]string{"2023", "2024", "2025"}, ReadLines(t, fx.Years)); diff != "" {
		t.Errorf("years mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteWordlist(t *testing.T) {
	path := WriteWordlist(t, t.TempDir(), "nested/list.txt", "a", "b")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "a\nb\n" {
		t.Errorf("got %q", data)
	}
}

func TestCombinations(t *testing.T) {
	got := Combinations([]string{"a", "b"}, []string{"0", "1"})
	want := []string{"a0", "a1", "b0", "b1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Combinations mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{""}, Combinations()); diff != "" {
		t.Errorf("empty product mismatch (-want +got):\n%s", diff)
	}
}
