package driving

import (
	"context"

	"github.com/docuchat-labs/retrieval-cli/internal/core/domain"
)

// Retriever orchestrates fragmentation and indexing on ingest, and
// similarity search on query. It is the operation surface the surrounding
// record store and conversation collaborator call into.
type Retriever interface {
	// IngestDocument fragments the document, vectorizes each fragment and
	// inserts the successful pairs into the vector index. The outcome
	// reports which ordinals succeeded and which failed with what category.
	// A document with fragments but zero successes returns the outcome
	// together with domain.ErrIngestionFailed; partial success is a
	// degraded success with a nil error.
	IngestDocument(ctx context.Context, doc *domain.Document) (*domain.IngestOutcome, error)

	// RemoveDocument evicts all index entries and stored fragments for the
	// document. Idempotent: removing an absent document is a no-op success.
	RemoveDocument(ctx context.Context, documentID string) error

	// RetrieveContext vectorizes the query and returns up to k ranked
	// fragments, optionally scoped to a set of document IDs. Zero results
	// is a valid non-error outcome; a query that cannot be vectorized fails
	// with domain.ErrQueryEmbedding.
	RetrieveContext(ctx context.Context, query string, k int, scope []string) ([]domain.SearchResult, error)
}

// Assembler turns ranked fragments into a bounded prompt-context payload.
type Assembler interface {
	// Assemble greedily packs fragments in rank order until the next one
	// would exceed maxContextSize (in runes). The first fragment is always
	// included; no fragment is ever split. Duplicate document+ordinal pairs
	// are dropped. Empty input yields empty context and citations.
	Assemble(ranked []domain.SearchResult, maxContextSize int) (string, []domain.Citation, error)
}
