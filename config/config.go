package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the cyberrag tool.
type Config struct {
	Ingest      IngestConfig      `yaml:"ingest"`
	Retrieve    RetrieveConfig    `yaml:"retrieve"`
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	LLM         LLMConfig         `yaml:"llm"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// IngestConfig holds ingestion configuration.
type IngestConfig struct {
	Includes        []string `yaml:"includes"`
	Excludes        []string `yaml:"excludes"`
	ChunkWords      int      `yaml:"chunk_words"`
	RenameProcessed bool     `yaml:"rename_processed"`
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK int `yaml:"top_k"`
	// RelevancePercentile is the per-document hit-count percentile a
	// document must reach to be kept as evidence.
	RelevancePercentile float64 `yaml:"relevance_percentile"`
}

// EmbeddingConfig holds embedding configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`    // "ollama", "openai", "jina", "compatible", "mock"
	Model     string `yaml:"model"`       // e.g. "embeddinggemma"
	BaseURL   string `yaml:"base_url"`    // override for "ollama" and "compatible"
	APIKeyEnv string `yaml:"api_key_env"` // environment variable for the API key
	Dimension int    `yaml:"dimension"`   // override when the model is not in the built-in table
}

// VectorStoreConfig holds vector store configuration.
type VectorStoreConfig struct {
	Type       string `yaml:"type"` // "local" or "qdrant"
	URL        string `yaml:"url"`
	APIKeyEnv  string `yaml:"api_key_env"`
	Collection string `yaml:"collection"`
}

// LLMConfig holds answer generation configuration.
type LLMConfig struct {
	Provider  string `yaml:"provider"` // "ollama", "openai", "compatible"
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Ingest: IngestConfig{
			Includes:        []string{"**/*.pdf", "**/*.txt"},
			Excludes:        []string{"**/*_processed.*"},
			ChunkWords:      512,
			RenameProcessed: true,
		},
		Retrieve: RetrieveConfig{
			TopK:                25,
			RelevancePercentile: 0.90,
		},
		Embedding: EmbeddingConfig{
			Provider:  "ollama",
			Model:     "embeddinggemma",
			APIKeyEnv: "OPENAI_API_KEY",
		},
		VectorStore: VectorStoreConfig{
			Type:       "local",
			URL:        "http://localhost:6333",
			APIKeyEnv:  "QDRANT_API_KEY",
			Collection: "advisories",
		},
		LLM: LLMConfig{
			Provider:  "ollama",
			Model:     "llama3.1",
			APIKeyEnv: "OPENAI_API_KEY",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for cyberrag.yaml).
func LoadFromDir(dir string) (*Config, error) {
	// Try cyberrag.yaml in the directory
	path := filepath.Join(dir, "cyberrag.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	// Try .cyberrag/config.yaml
	path = filepath.Join(dir, ".cyberrag", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	// Return defaults
	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// IndexDBPath returns the path to the local index database.
func IndexDBPath(dir string) string {
	return filepath.Join(dir, ".cyberrag", "index.db")
}

// EnsureDataDir ensures the .cyberrag directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".cyberrag"), 0755)
}
