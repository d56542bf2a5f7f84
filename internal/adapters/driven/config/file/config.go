package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the persisted settings for the retrieval pipeline.
// Zero values are filled with defaults on load.
type Config struct {
	Fragmenter FragmenterConfig `toml:"fragmenter"`
	Embedding  EmbeddingConfig  `toml:"embedding"`
	Ingest     IngestConfig     `toml:"ingest"`
	Retrieval  RetrievalConfig  `toml:"retrieval"`
	Storage    StorageConfig    `toml:"storage"`
}

// FragmenterConfig controls how documents are split.
type FragmenterConfig struct {
	MaxSize   int `toml:"max_size"`
	Overlap   int `toml:"overlap"`
	Backtrack int `toml:"backtrack"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	// Provider is "openai" or "ollama".
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
	// APIKey may also come from the OPENAI_API_KEY environment variable.
	APIKey string `toml:"api_key"`
}

// IngestConfig controls ingestion concurrency.
type IngestConfig struct {
	Fanout int `toml:"fanout"`
	// RateLimit is the maximum embed requests per second. 0 disables
	// throttling.
	RateLimit float64 `toml:"rate_limit"`
}

// RetrievalConfig controls query-time behavior.
type RetrievalConfig struct {
	TopK          int `toml:"top_k"`
	ContextBudget int `toml:"context_budget"`
	// QueryTimeoutSeconds bounds query embedding.
	QueryTimeoutSeconds int `toml:"query_timeout_seconds"`
}

// StorageConfig selects the document store backend.
type StorageConfig struct {
	// Backend is "sqlite" or "memory".
	Backend string `toml:"backend"`
	DataDir string `toml:"data_dir"`
}

// Default returns a config populated with defaults.
func Default() Config {
	return Config{
		Fragmenter: FragmenterConfig{
			MaxSize:   1000,
			Overlap:   100,
			Backtrack: 200,
		},
		Embedding: EmbeddingConfig{
			Provider: "ollama",
			Model:    "nomic-embed-text",
		},
		Ingest: IngestConfig{
			Fanout: 4,
		},
		Retrieval: RetrievalConfig{
			TopK:                3,
			ContextBudget:       4000,
			QueryTimeoutSeconds: 30,
		},
		Storage: StorageConfig{
			Backend: "sqlite",
		},
	}
}

// DefaultDir returns the default configuration directory.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".docuchat"), nil
}

// Load reads configuration from configDir/config.toml.
// A missing file yields the defaults. If configDir is empty, the
// default directory is used.
func Load(configDir string) (Config, error) {
	cfg := Default()

	if configDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return cfg, err
		}
		configDir = dir
	}

	path := filepath.Join(configDir, "config.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// Save persists the configuration to configDir/config.toml, creating
// the directory if needed.
func Save(configDir string, cfg Config) error {
	if configDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return err
		}
		configDir = dir
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	// Write with restricted permissions, the file may hold an API key.
	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	def := Default()

	if c.Fragmenter.MaxSize == 0 {
		c.Fragmenter.MaxSize = def.Fragmenter.MaxSize
	}
	if c.Fragmenter.Overlap == 0 {
		c.Fragmenter.Overlap = def.Fragmenter.Overlap
	}
	if c.Fragmenter.Backtrack == 0 {
		c.Fragmenter.Backtrack = def.Fragmenter.Backtrack
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = def.Embedding.Provider
	}
	if c.Ingest.Fanout == 0 {
		c.Ingest.Fanout = def.Ingest.Fanout
	}
	if c.Retrieval.TopK == 0 {
		c.Retrieval.TopK = def.Retrieval.TopK
	}
	if c.Retrieval.ContextBudget == 0 {
		c.Retrieval.ContextBudget = def.Retrieval.ContextBudget
	}
	if c.Retrieval.QueryTimeoutSeconds == 0 {
		c.Retrieval.QueryTimeoutSeconds = def.Retrieval.QueryTimeoutSeconds
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = def.Storage.Backend
	}
}
