// Command docuchat is the entry point for the retrieval CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/docuchat-labs/retrieval-cli/internal/adapters/driven/config/file"
	"github.com/docuchat-labs/retrieval-cli/internal/adapters/driven/embedding/ollama"
	"github.com/docuchat-labs/retrieval-cli/internal/adapters/driven/embedding/openai"
	"github.com/docuchat-labs/retrieval-cli/internal/adapters/driven/index/arena"
	"github.com/docuchat-labs/retrieval-cli/internal/adapters/driven/storage/memory"
	"github.com/docuchat-labs/retrieval-cli/internal/adapters/driven/storage/sqlite"
	"github.com/docuchat-labs/retrieval-cli/internal/adapters/driving/cli"
	"github.com/docuchat-labs/retrieval-cli/internal/core/ports/driven"
	"github.com/docuchat-labs/retrieval-cli/internal/core/services"
	"github.com/docuchat-labs/retrieval-cli/internal/fragmenter"
	"github.com/docuchat-labs/retrieval-cli/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := file.Load(os.Getenv("DOCUCHAT_CONFIG_DIR"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	docStore, closeStore, err := buildStore(cfg.Storage)
	if err != nil {
		return err
	}
	defer closeStore()

	embedder, err := buildEmbedder(cfg.Embedding)
	if err != nil {
		return err
	}
	defer embedder.Close()
	pingEmbedder(context.Background(), embedder)

	frag, err := fragmenter.New(
		fragmenter.WithMaxSize(cfg.Fragmenter.MaxSize),
		fragmenter.WithOverlap(cfg.Fragmenter.Overlap),
		fragmenter.WithBacktrack(cfg.Fragmenter.Backtrack),
	)
	if err != nil {
		return fmt.Errorf("configuring fragmenter: %w", err)
	}

	index := arena.New()
	defer index.Close()

	if err := warmIndex(context.Background(), index, docStore); err != nil {
		return fmt.Errorf("warming vector index: %w", err)
	}

	retrieverOpts := []services.RetrieverOption{
		services.WithFanout(cfg.Ingest.Fanout),
		services.WithQueryTimeout(time.Duration(cfg.Retrieval.QueryTimeoutSeconds) * time.Second),
	}
	if cfg.Ingest.RateLimit > 0 {
		retrieverOpts = append(retrieverOpts, services.WithRateLimit(cfg.Ingest.RateLimit))
	}

	retriever := services.NewRetrieverService(frag, embedder, index, docStore, retrieverOpts...)

	cli.SetVersion(version)
	cli.SetSearchDefaults(cfg.Retrieval.TopK, cfg.Retrieval.ContextBudget)
	cli.SetServices(cli.Services{
		Retriever: retriever,
		Assembler: services.NewContextAssembler(),
		Documents: services.NewDocumentService(docStore),
		Store:     docStore,
	})

	return cli.Execute()
}

// buildStore selects the document store backend.
func buildStore(cfg file.StorageConfig) (driven.DocumentStore, func(), error) {
	switch cfg.Backend {
	case "memory":
		return memory.NewDocumentStore(), func() {}, nil
	case "sqlite", "":
		store, err := sqlite.NewStore(cfg.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening document store: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// buildEmbedder selects the embedding provider.
func buildEmbedder(cfg file.EmbeddingConfig) (driven.Embedder, error) {
	switch cfg.Provider {
	case "openai":
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		return openai.New(openai.Config{
			APIKey:  apiKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	case "ollama", "":
		return ollama.New(ollama.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

// pingTimeout bounds the startup connectivity check.
const pingTimeout = 5 * time.Second

// pingEmbedder verifies the embedding provider is reachable at startup.
// Failure is a warning, not fatal: commands that never embed (documents,
// remove, version) still work, and ingest/search report classified errors.
func pingEmbedder(ctx context.Context, embedder driven.Embedder) {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := embedder.Ping(pingCtx); err != nil {
		logger.Warn("Embedding provider %s unreachable: %v", embedder.ModelName(), err)
		return
	}
	logger.Debug("Embedding provider %s reachable", embedder.ModelName())
}

// warmIndex rebuilds the in-memory vector index from stored fragments.
func warmIndex(ctx context.Context, index driven.VectorIndex, docStore driven.DocumentStore) error {
	entries, err := docStore.ListIndexEntries(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	if err := index.Insert(ctx, entries); err != nil {
		return err
	}
	logger.Debug("Warmed vector index with %d fragments", len(entries))
	return nil
}
