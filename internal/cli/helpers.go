package cli

import (
	"fmt"
	"os"

	"cyberrag/config"
	"cyberrag/internal/adapter/embedding"
	"cyberrag/internal/adapter/llm"
	"cyberrag/internal/adapter/store"
	"cyberrag/internal/adapter/vectorstore"
	"cyberrag/internal/port"
)

// newEmbedder builds the configured embedding client.
func newEmbedder(cfg *config.Config) (port.Embedder, error) {
	if cfg.Embedding.Provider == "mock" {
		dim := cfg.Embedding.Dimension
		if dim <= 0 {
			dim = 768
		}
		return embedding.NewMockEmbedder(dim), nil
	}

	var (
		emb *embedding.OpenAIEmbedder
		err error
	)
	switch cfg.Embedding.Provider {
	case "openai":
		emb, err = embedding.NewOpenAIEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model)
	case "jina":
		emb, err = embedding.NewJinaEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model)
	case "ollama":
		emb, err = embedding.NewOllamaEmbedder(cfg.Embedding.Model, cfg.Embedding.BaseURL)
	case "compatible":
		emb, err = embedding.NewOpenAICompatibleEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model, cfg.Embedding.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	emb.SetDimension(cfg.Embedding.Dimension)
	return emb, nil
}

// newLLM builds the configured chat-completion client.
func newLLM(cfg *config.Config) (port.LLM, error) {
	switch cfg.LLM.Provider {
	case "openai":
		return llm.NewOpenAIClient(cfg.LLM.APIKeyEnv, cfg.LLM.Model)
	case "ollama":
		return llm.NewOllamaClient(cfg.LLM.Model, cfg.LLM.BaseURL)
	case "compatible":
		return llm.NewOpenAICompatibleClient(cfg.LLM.APIKeyEnv, cfg.LLM.Model, cfg.LLM.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.LLM.Provider)
	}
}

// openStores opens the ingest catalog and the configured vector store for
// the given advisory directory. The caller owns both and must close them.
func openStores(cfg *config.Config, dir string) (*store.Catalog, port.VectorStore, error) {
	if err := config.EnsureDataDir(dir); err != nil {
		return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	catalog, err := store.NewCatalog(config.IndexDBPath(dir))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	var vectors port.VectorStore
	switch cfg.VectorStore.Type {
	case "local":
		vectors, err = vectorstore.NewLocalStore(catalog.DB())
		if err != nil {
			catalog.Close()
			return nil, nil, fmt.Errorf("failed to open local vector store: %w", err)
		}
	case "qdrant":
		vectors = vectorstore.NewQdrantStore(
			cfg.VectorStore.URL,
			os.Getenv(cfg.VectorStore.APIKeyEnv),
			cfg.VectorStore.Collection,
		)
	default:
		catalog.Close()
		return nil, nil, fmt.Errorf("unsupported vector store type: %s", cfg.VectorStore.Type)
	}

	return catalog, vectors, nil
}
