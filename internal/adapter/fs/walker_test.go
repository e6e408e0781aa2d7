package fs

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWalkIncludesAndExcludes(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "advisory-a.pdf")
	b := writeFile(t, dir, "sub/advisory-b.pdf")
	writeFile(t, dir, "notes.txt")
	writeFile(t, dir, "advisory-a_processed.pdf")

	w := NewWalker([]string{"**/*.pdf"}, []string{"**/*_processed.*"})
	got, err := w.Walk(dir)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{a, b}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Walk() = %v, want %v", got, want)
	}
}

func TestWalkSkipsHidden(t *testing.T) {
	dir := t.TempDir()
	keep := writeFile(t, dir, "keep.pdf")
	writeFile(t, dir, ".hidden.pdf")
	writeFile(t, dir, ".cache/buried.pdf")

	w := NewWalker(nil, nil)
	got, err := w.Walk(dir)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{keep}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Walk() = %v, want %v", got, want)
	}
}

func TestWalkSortedOutput(t *testing.T) {
	dir := t.TempDir()
	c := writeFile(t, dir, "c.pdf")
	a := writeFile(t, dir, "a.pdf")
	b := writeFile(t, dir, "b.pdf")

	w := NewWalker(nil, nil)
	got, err := w.Walk(dir)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{a, b, c}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Walk() = %v, want %v", got, want)
	}
}
