package store

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCatalogPutGet(t *testing.T) {
	c := newTestCatalog(t)

	entry := DocumentEntry{
		Name:       "aa24-001a.pdf",
		Chunks:     7,
		IngestedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := c.PutDocument("deadbeef", entry); err != nil {
		t.Fatal(err)
	}

	got, found, err := c.GetDocument("deadbeef")
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("entry not found after put")
	}
	if got != entry {
		t.Errorf("got %+v, want %+v", got, entry)
	}
}

func TestCatalogMissingDocument(t *testing.T) {
	c := newTestCatalog(t)
	_, found, err := c.GetDocument("nope")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("found an entry that was never stored")
	}
}

func TestCatalogListAndDelete(t *testing.T) {
	c := newTestCatalog(t)
	for _, id := range []string{"a", "b", "c"} {
		if err := c.PutDocument(id, DocumentEntry{Name: id + ".pdf"}); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := c.ListDocuments()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("listed %d entries, want 3", len(entries))
	}

	if err := c.DeleteDocument("b"); err != nil {
		t.Fatal(err)
	}
	entries, err = c.ListDocuments()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := entries["b"]; ok || len(entries) != 2 {
		t.Errorf("after delete entries = %v, want a and c only", entries)
	}
}
