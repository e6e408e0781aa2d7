package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Ingest.ChunkWords != 512 {
		t.Errorf("expected ChunkWords=512, got %d", cfg.Ingest.ChunkWords)
	}
	if !cfg.Ingest.RenameProcessed {
		t.Error("expected RenameProcessed=true")
	}
	if cfg.Retrieve.TopK != 25 {
		t.Errorf("expected TopK=25, got %d", cfg.Retrieve.TopK)
	}
	if cfg.Retrieve.RelevancePercentile != 0.90 {
		t.Errorf("expected RelevancePercentile=0.90, got %f", cfg.Retrieve.RelevancePercentile)
	}
	if cfg.VectorStore.Type != "local" {
		t.Errorf("expected vector store type local, got %s", cfg.VectorStore.Type)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "cyberrag.yaml")

	content := `
ingest:
  chunk_words: 256
  rename_processed: false
retrieve:
  top_k: 10
  relevance_percentile: 0.75
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Ingest.ChunkWords != 256 {
		t.Errorf("expected ChunkWords=256, got %d", cfg.Ingest.ChunkWords)
	}
	if cfg.Ingest.RenameProcessed {
		t.Error("expected RenameProcessed=false")
	}
	if cfg.Retrieve.TopK != 10 {
		t.Errorf("expected TopK=10, got %d", cfg.Retrieve.TopK)
	}
	if cfg.Retrieve.RelevancePercentile != 0.75 {
		t.Errorf("expected RelevancePercentile=0.75, got %f", cfg.Retrieve.RelevancePercentile)
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "cyberrag.yaml")

	content := `
vector_store:
  type: qdrant
  collection: threats
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.VectorStore.Type != "qdrant" {
		t.Errorf("expected vector store type qdrant, got %s", cfg.VectorStore.Type)
	}
	if cfg.VectorStore.Collection != "threats" {
		t.Errorf("expected collection threats, got %s", cfg.VectorStore.Collection)
	}
}

func TestIndexDBPath(t *testing.T) {
	path := IndexDBPath("/home/user/advisories")
	expected := filepath.Join("/home/user/advisories", ".cyberrag", "index.db")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}
