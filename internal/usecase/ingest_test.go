package usecase

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"cyberrag/internal/adapter/chunker"
	"cyberrag/internal/adapter/embedding"
	"cyberrag/internal/adapter/fs"
	"cyberrag/internal/adapter/ioc"
	"cyberrag/internal/adapter/pdftext"
	"cyberrag/internal/adapter/store"
	"cyberrag/internal/adapter/vectorstore"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type pipeline struct {
	ingest  *IngestUseCase
	search  *SearchUseCase
	local   *vectorstore.LocalStore
	catalog *store.Catalog
	emb     *embedding.MockEmbedder
}

func newPipeline(t *testing.T, renameProcessed bool) *pipeline {
	t.Helper()

	catalog, err := store.NewCatalog(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { catalog.Close() })

	local, err := vectorstore.NewLocalStore(catalog.DB())
	if err != nil {
		t.Fatal(err)
	}

	emb := embedding.NewMockEmbedder(32)
	log := newTestLogger()
	extractor := ioc.NewExtractor()

	return &pipeline{
		ingest: NewIngestUseCase(
			fs.NewWalker([]string{"**/*.txt"}, []string{"**/*_processed.*"}),
			pdftext.New(),
			extractor,
			chunker.NewSentenceChunker(512),
			emb,
			local,
			catalog,
			nil,
			log,
			renameProcessed,
		),
		search:  NewSearchUseCase(emb, local, extractor, 25, 0.90, log),
		local:   local,
		catalog: catalog,
		emb:     emb,
	}
}

const testAdvisory = "Threat actors exploited CVE-2024-0001 against exposed services.\n\n" +
	"Post-compromise beacons were observed to 192.168.1.1 over port 445."

func writeAdvisory(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIngestThenSearch(t *testing.T) {
	dir := t.TempDir()
	writeAdvisory(t, dir, "aa24-001a.txt", testAdvisory)
	p := newPipeline(t, false)

	res, err := p.ingest.Ingest(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if res.FilesIngested != 1 || res.FilesSkipped != 0 {
		t.Errorf("result = %+v, want 1 ingested, 0 skipped", res)
	}
	if res.ChunksCreated != 2 {
		t.Errorf("ChunksCreated = %d, want 2 (one per paragraph)", res.ChunksCreated)
	}
	if n := p.local.Count(); n != res.ChunksCreated {
		t.Errorf("store holds %d records, want %d", n, res.ChunksCreated)
	}

	evidence, err := p.search.Search(context.Background(), "Which CVE was exploited?")
	if err != nil {
		t.Fatal(err)
	}
	if len(evidence) != 1 {
		t.Fatalf("evidence = %v, want exactly one document", evidence)
	}
	if _, ok := evidence["aa24-001a.txt"]; !ok {
		t.Errorf("evidence missing aa24-001a.txt: %v", evidence)
	}
}

func TestIngestIdempotentRerun(t *testing.T) {
	dir := t.TempDir()
	writeAdvisory(t, dir, "aa24-001a.txt", testAdvisory)
	p := newPipeline(t, false)

	if _, err := p.ingest.Ingest(context.Background(), dir); err != nil {
		t.Fatal(err)
	}
	before := p.local.Count()

	res, err := p.ingest.Ingest(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if res.FilesIngested != 0 || res.FilesSkipped != 1 {
		t.Errorf("rerun result = %+v, want 0 ingested, 1 skipped", res)
	}
	if after := p.local.Count(); after != before {
		t.Errorf("rerun grew store from %d to %d records", before, after)
	}
}

func TestIngestRenamesProcessedFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeAdvisory(t, dir, "aa24-001a.txt", testAdvisory)
	p := newPipeline(t, true)

	if _, err := p.ingest.Ingest(context.Background(), dir); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("original file still present after ingestion")
	}
	renamed := filepath.Join(dir, "aa24-001a_processed.txt")
	if _, err := os.Stat(renamed); err != nil {
		t.Errorf("renamed file missing: %v", err)
	}

	// The processed name is excluded from the next scan.
	res, err := p.ingest.Ingest(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if res.FilesIngested != 0 || res.FilesSkipped != 0 {
		t.Errorf("rescan result = %+v, want nothing to do", res)
	}
}

func TestIngestRecordsCatalogEntry(t *testing.T) {
	dir := t.TempDir()
	writeAdvisory(t, dir, "aa24-001a.txt", testAdvisory)
	p := newPipeline(t, false)

	if _, err := p.ingest.Ingest(context.Background(), dir); err != nil {
		t.Fatal(err)
	}

	entries, err := p.catalog.ListDocuments()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("catalog has %d entries, want 1", len(entries))
	}
	for _, entry := range entries {
		if entry.Name != "aa24-001a.txt" {
			t.Errorf("entry name = %q, want aa24-001a.txt", entry.Name)
		}
		if entry.Chunks != 2 {
			t.Errorf("entry chunks = %d, want 2", entry.Chunks)
		}
	}
}

func TestQueryIndicators(t *testing.T) {
	p := newPipeline(t, false)
	set := p.search.QueryIndicators("was 10.0.0.1 seen with hxxps://evil[.]example ?")

	if got := set.Values("ipv4"); len(got) != 1 || got[0] != "10.0.0.1" {
		t.Errorf("ipv4 = %v, want [10.0.0.1]", got)
	}
	if got := set.Values("urls"); len(got) != 1 || got[0] != "https://evil.example" {
		t.Errorf("urls = %v, want [https://evil.example]", got)
	}
}
