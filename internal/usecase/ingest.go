// Package usecase wires the pipeline stages together: ingestion of advisory
// documents, retrieval with relevance filtering, and answer generation.
package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"cyberrag/internal/adapter/ioc"
	"cyberrag/internal/adapter/store"
	"cyberrag/internal/domain"
	"cyberrag/internal/port"
)

// IngestUseCase runs the ingestion pipeline over a directory of advisories:
// extract text, extract indicators, chunk, embed, insert. Failures abort the
// run; there is no partial-success mode within a document.
type IngestUseCase struct {
	walker    port.FileWalker
	extractor port.TextExtractor
	iocs      *ioc.Extractor
	chunker   port.Chunker
	embedder  port.Embedder
	vectors   port.VectorStore
	catalog   *store.Catalog
	reporter  port.Reporter
	log       logrus.FieldLogger

	// renameProcessed marks source files as done by renaming name.ext to
	// name_processed.ext after successful ingestion.
	renameProcessed bool
}

func NewIngestUseCase(
	walker port.FileWalker,
	extractor port.TextExtractor,
	iocs *ioc.Extractor,
	chunker port.Chunker,
	embedder port.Embedder,
	vectors port.VectorStore,
	catalog *store.Catalog,
	reporter port.Reporter,
	log logrus.FieldLogger,
	renameProcessed bool,
) *IngestUseCase {
	if reporter == nil {
		reporter = port.NopReporter{}
	}
	return &IngestUseCase{
		walker:          walker,
		extractor:       extractor,
		iocs:            iocs,
		chunker:         chunker,
		embedder:        embedder,
		vectors:         vectors,
		catalog:         catalog,
		reporter:        reporter,
		log:             log,
		renameProcessed: renameProcessed,
	}
}

// IngestResult summarizes one ingestion run.
type IngestResult struct {
	FilesIngested int
	FilesSkipped  int
	ChunksCreated int
}

// Ingest processes every matching file under root sequentially. Documents
// whose content hash is already in the catalog are skipped, which makes
// re-running over the same directory idempotent.
func (u *IngestUseCase) Ingest(ctx context.Context, root string) (*IngestResult, error) {
	files, err := u.walker.Walk(root)
	if err != nil {
		u.reporter.StageFailed("scan", err)
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	u.reporter.StageStarted("ingest", fmt.Sprintf("%d files in %s", len(files), root))

	if err := u.vectors.EnsureCollection(ctx, u.embedder.Dimension()); err != nil {
		u.reporter.StageFailed("ingest", err)
		return nil, fmt.Errorf("failed to prepare vector store: %w", err)
	}

	result := &IngestResult{}
	for i, path := range files {
		u.reporter.Progress(i, len(files))

		name := filepath.Base(path)
		text, err := u.extractor.Extract(path)
		if err != nil {
			u.reporter.StageFailed("extract", err)
			return nil, fmt.Errorf("failed to extract %s: %w", name, err)
		}

		sum := sha256.Sum256([]byte(text))
		doc := domain.Document{
			ID:   hex.EncodeToString(sum[:]),
			Name: name,
			Text: text,
		}

		if _, found, err := u.catalog.GetDocument(doc.ID); err != nil {
			return nil, fmt.Errorf("failed to check catalog for %s: %w", name, err)
		} else if found {
			u.log.WithField("doc", name).Debug("already ingested, skipping")
			result.FilesSkipped++
			continue
		}

		chunks, err := u.ingestDocument(ctx, doc)
		if err != nil {
			u.reporter.StageFailed("ingest", err)
			return nil, fmt.Errorf("failed to ingest %s: %w", name, err)
		}
		result.ChunksCreated += chunks

		entry := store.DocumentEntry{
			Name:       doc.Name,
			Chunks:     chunks,
			IngestedAt: time.Now().UTC(),
		}
		if err := u.catalog.PutDocument(doc.ID, entry); err != nil {
			return nil, fmt.Errorf("failed to record %s in catalog: %w", name, err)
		}

		if u.renameProcessed {
			if err := markProcessed(path); err != nil {
				return nil, fmt.Errorf("failed to mark %s processed: %w", name, err)
			}
		}

		u.log.WithFields(logrus.Fields{"doc": name, "chunks": chunks}).Info("ingested")
		result.FilesIngested++
	}

	u.reporter.Progress(len(files), len(files))
	u.reporter.StageCompleted("ingest", fmt.Sprintf("%d ingested, %d skipped, %d chunks",
		result.FilesIngested, result.FilesSkipped, result.ChunksCreated))
	return result, nil
}

// ingestDocument extracts indicators once for the whole document, then
// embeds and inserts each chunk carrying that same indicator set.
func (u *IngestUseCase) ingestDocument(ctx context.Context, doc domain.Document) (int, error) {
	indicators := u.iocs.Extract(doc.Text)
	chunks := u.chunker.Chunk(doc.Text)
	if len(chunks) == 0 {
		u.log.WithField("doc", doc.Name).Warn("document produced no chunks")
		return 0, nil
	}

	vectors, err := u.embedder.Embed(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	for i, text := range chunks {
		rec := domain.Record{
			ID:         uuid.New().String(),
			Text:       text,
			DocName:    doc.Name,
			DocID:      doc.ID,
			Indicators: indicators,
		}
		if err := u.vectors.Insert(ctx, rec, vectors[i]); err != nil {
			return 0, fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}
	}
	return len(chunks), nil
}

func markProcessed(path string) error {
	ext := filepath.Ext(path)
	renamed := strings.TrimSuffix(path, ext) + "_processed" + ext
	return os.Rename(path, renamed)
}
