package driven

import "context"

// Embedder generates vector embeddings from text.
//
// Note: This is separate from VectorIndex which stores and searches vectors.
// Embedder generates vectors; VectorIndex stores them.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
//   - Local models via inference servers
//
// Implementations classify failures using the domain sentinels:
// domain.ErrRateLimited (retryable with backoff), domain.ErrInvalidInput
// and domain.ErrProviderError (non-retryable for that text).
type Embedder interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// This is more efficient than calling Embed in a loop for large batches.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536, 3072).
	// Advisory only: the index discovers dimensionality from the first
	// successful insert and enforces it thereafter.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test
	// request. Used at startup to verify connectivity.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
